package repository

import (
	"context"
	"database/sql"
	"errors"

	"laundry-system/internal/domain"
)

type RosterRepositoryInterface interface {
	List(ctx context.Context) ([]domain.StaffMember, error)
	FindByCode(ctx context.Context, code string) (*domain.StaffMember, error)
	// Add inserts a roster entry with a code drawn from a server-side
	// sequence, so concurrent adds never collide.
	Add(ctx context.Context, name string, format func(seq int64) string) (domain.StaffMember, error)
}

type RosterRepository struct {
	db *sql.DB
}

func NewRosterRepository(db *sql.DB) RosterRepositoryInterface {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) List(ctx context.Context) ([]domain.StaffMember, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, code FROM encargados ORDER BY code`)
	if err != nil {
		return nil, domain.Storef("list_staff", err)
	}
	defer rows.Close()

	var out []domain.StaffMember
	for rows.Next() {
		var m domain.StaffMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Code); err != nil {
			return nil, domain.Storef("list_staff", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *RosterRepository) FindByCode(ctx context.Context, code string) (*domain.StaffMember, error) {
	var m domain.StaffMember
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, code FROM encargados WHERE code=$1`, code).Scan(&m.ID, &m.Name, &m.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("staff", code)
	}
	if err != nil {
		return nil, domain.Storef("find_staff", err)
	}
	return &m, nil
}

func (r *RosterRepository) Add(ctx context.Context, name string, format func(seq int64) string) (domain.StaffMember, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StaffMember{}, domain.Storef("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT nextval('encargados_code_seq')`).Scan(&seq); err != nil {
		return domain.StaffMember{}, domain.Storef("next_staff_code", err)
	}
	m := domain.StaffMember{Name: name, Code: format(seq)}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO encargados (name, code, created_at) VALUES ($1, $2, now()) RETURNING id`,
		m.Name, m.Code).Scan(&m.ID)
	if err != nil {
		return domain.StaffMember{}, domain.Storef("add_staff", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.StaffMember{}, domain.Storef("commit", err)
	}
	return m, nil
}
