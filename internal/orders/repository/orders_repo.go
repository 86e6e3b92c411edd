package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"laundry-system/internal/domain"
)

const orderColumns = `id, code, client_name, COALESCE(phone,''), COALESCE(address,''), has_dispatch, current_phase, overall_status, phases, created_at, finalized_at`

// Collection values double as table names; ParseCollection is the
// whitelist that keeps them out of SQL injection territory.
func table(c domain.Collection) string { return string(c) }

func scanOrder(row interface{ Scan(...any) error }, collection domain.Collection) (*domain.Order, error) {
	var (
		o         domain.Order
		phasesRaw []byte
		finalized sql.NullTime
	)
	err := row.Scan(&o.ID, &o.Code, &o.ClientName, &o.Phone, &o.Address, &o.HasDispatch,
		&o.CurrentPhase, &o.OverallStatus, &phasesRaw, &o.CreatedAt, &finalized)
	if err != nil {
		return nil, err
	}
	o.Collection = collection
	o.Phases = make(map[domain.Phase]*domain.PhaseRecord)
	if len(phasesRaw) > 0 {
		if err := json.Unmarshal(phasesRaw, &o.Phases); err != nil {
			return nil, fmt.Errorf("decode phases document: %w", err)
		}
	}
	if finalized.Valid {
		t := finalized.Time
		o.FinalizedAt = &t
	}
	return &o, nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, collection domain.Collection, id int64) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id=$1`, orderColumns, table(collection)), id)
	o, err := scanOrder(row, collection)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("order", fmt.Sprintf("%s/%d", collection, id))
	}
	if err != nil {
		return nil, domain.Storef("get_order", err)
	}
	return o, nil
}

// FindByCode searches both collections for an exact (normalized) code
// match. The company collection is inspected first and wins on a
// cross-collection collision.
func (r *OrderRepository) FindByCode(ctx context.Context, code string) (*domain.Order, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.Validationf("code", "is required")
	}
	for _, collection := range []domain.Collection{domain.CollectionCompany, domain.CollectionIndividual} {
		row := r.db.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT %s FROM %s WHERE code=$1`, orderColumns, table(collection)), code)
		o, err := scanOrder(row, collection)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, domain.Storef("find_by_code", err)
		}
		return o, nil
	}
	return nil, domain.NotFound("order", code)
}

// List returns the in-flight orders for the dashboard: pending or in
// progress, plus ready-for-pickup orders that still have a dispatch leg.
// Results from both collections are merged newest first, like the panel's
// twin subscriptions.
func (r *OrderRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Order, error) {
	collections := []domain.Collection{domain.CollectionCompany, domain.CollectionIndividual}
	if filter.Collection != "" {
		collections = []domain.Collection{filter.Collection}
	}

	var out []*domain.Order
	for _, collection := range collections {
		orders, err := r.listCollection(ctx, collection, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, orders...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderRepository) listCollection(ctx context.Context, collection domain.Collection, filter domain.ListFilter) ([]*domain.Order, error) {
	query := fmt.Sprintf(`
SELECT %s FROM %s
WHERE (overall_status IN ('pending','in_progress')
   OR (overall_status='ready_for_pickup' AND has_dispatch))`, orderColumns, table(collection))
	var args []any
	if filter.Phase != "" {
		args = append(args, string(filter.Phase))
		query += fmt.Sprintf(" AND current_phase=$%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND overall_status=$%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.Storef("list_orders", err)
	}
	defer rows.Close()

	var out []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows, collection)
		if err != nil {
			return nil, domain.Storef("list_orders", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storef("list_orders", err)
	}
	return out, nil
}

// ApplyPatch applies a validated partial update inside a transaction. The
// row is re-read FOR UPDATE and the patch's phase-record precondition is
// re-checked against the locked state, so a concurrent operator's write
// turns into a clean validation failure instead of a lost update.
func (r *OrderRepository) ApplyPatch(ctx context.Context, collection domain.Collection, id int64, patch *domain.Patch) (*domain.Order, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.Storef("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id=$1 FOR UPDATE`, orderColumns, table(collection)), id)
	o, err := scanOrder(row, collection)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("order", fmt.Sprintf("%s/%d", collection, id))
	}
	if err != nil {
		return nil, domain.Storef("lock_order", err)
	}

	if got := o.Record(patch.ExpectPhase).Status; got != patch.ExpectStatus {
		return nil, domain.Validationf("phase",
			"phase %q changed since read (now %q): retry", patch.ExpectPhase, got)
	}

	merge(o, patch)

	phasesRaw, err := json.Marshal(o.Phases)
	if err != nil {
		return nil, domain.Storef("encode_phases", err)
	}
	var finalized any
	if o.FinalizedAt != nil {
		finalized = *o.FinalizedAt
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
UPDATE %s SET phases=$2, current_phase=$3, overall_status=$4, finalized_at=$5, updated_at=now()
WHERE id=$1`, table(collection)),
		id, phasesRaw, string(o.CurrentPhase), string(o.OverallStatus), finalized)
	if err != nil {
		return nil, domain.Storef("update_order", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.Storef("commit", err)
	}
	return o, nil
}

func merge(o *domain.Order, patch *domain.Patch) {
	for ph, rec := range patch.Phases {
		o.Phases[ph] = rec
	}
	if patch.CurrentPhase != nil {
		o.CurrentPhase = *patch.CurrentPhase
	}
	if patch.OverallStatus != nil {
		o.OverallStatus = *patch.OverallStatus
	}
	if patch.FinalizedAt != nil {
		t := *patch.FinalizedAt
		o.FinalizedAt = &t
	}
}
