// Package phase implements the order lifecycle state machine: starting,
// completing and reverting phases, and deriving the displayed state of a
// phase from the order document. All functions are pure over the passed
// order; persistence happens through the returned patch.
package phase

import (
	"math"
	"regexp"
	"strings"
	"time"

	"laundry-system/internal/domain"
)

const (
	// Estimate bounds in minutes, applied uniformly to every phase.
	MinEstimatedMinutes = 5
	MaxEstimatedMinutes = 180
)

// Staff names must be at least two capitalized words ("Juan Pérez").
var staffNameRe = regexp.MustCompile(`^\p{Lu}\p{L}+( \p{Lu}\p{L}+)+$`)

// Vehicle plates: four letters + two digits after stripping separators.
var vehiclePlateRe = regexp.MustCompile(`^[A-Z]{4}[0-9]{2}$`)

// ValidStaffName reports whether name matches the roster name pattern.
func ValidStaffName(name string) bool {
	return staffNameRe.MatchString(strings.TrimSpace(name))
}

// NormalizePlate uppercases a plate and strips spaces, dots and hyphens.
func NormalizePlate(plate string) string {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.':
			return -1
		}
		return r
	}, plate)
}

// ValidPlate reports whether a normalized plate has the canonical format.
func ValidPlate(plate string) bool {
	return vehiclePlateRe.MatchString(plate)
}

// StartInput is the operator-resolved input for starting a phase: staff
// name and code for processing phases, vehicle plate for dispatch.
type StartInput struct {
	StaffName        string
	StaffCode        string
	VehiclePlate     string
	EstimatedMinutes int
}

// CompleteResult describes what completing a phase did: the patch to
// persist, the phase the order moved to (zero when none) and whether the
// completed phase was the last of the effective sequence.
type CompleteResult struct {
	Patch     *domain.Patch
	NextPhase domain.Phase
	Terminal  bool
}

func seqIndex(seq []domain.Phase, p domain.Phase) int {
	for i, s := range seq {
		if s == p {
			return i
		}
	}
	return -1
}

// StartPhase validates and applies the pending -> in_progress transition.
// On success the order is updated in place and the returned patch carries
// the write. All precondition failures are ValidationErrors.
func StartPhase(o *domain.Order, p domain.Phase, in StartInput, now time.Time) (*domain.Patch, error) {
	cur := o.EffectivePhase()
	if p != cur {
		return nil, domain.Validationf("phase", "cannot start %q: current phase is %q", p, cur)
	}
	rec := o.Record(p)
	switch rec.Status {
	case domain.PhaseInProgress:
		return nil, domain.Validationf("phase", "phase %q is already in progress", p)
	case domain.PhaseCompleted:
		return nil, domain.Validationf("phase", "phase %q is already completed", p)
	}
	if in.EstimatedMinutes < MinEstimatedMinutes || in.EstimatedMinutes > MaxEstimatedMinutes {
		return nil, domain.Validationf("estimated_minutes", "must be between %d and %d minutes",
			MinEstimatedMinutes, MaxEstimatedMinutes)
	}

	next := &domain.PhaseRecord{
		Status:           domain.PhaseInProgress,
		EstimatedMinutes: in.EstimatedMinutes,
		StartedAt:        &now,
	}
	if p == domain.PhaseDispatch {
		if !o.HasDispatch {
			return nil, domain.Validationf("phase", "order has no dispatch phase")
		}
		plate := NormalizePlate(in.VehiclePlate)
		if !ValidPlate(plate) {
			return nil, domain.Validationf("vehicle_plate", "plate %q does not match the required format (e.g. ABCD12)", in.VehiclePlate)
		}
		next.VehiclePlate = plate
	} else {
		if !ValidStaffName(in.StaffName) {
			return nil, domain.Validationf("staff_name", "must be two or more capitalized words")
		}
		if strings.TrimSpace(in.StaffCode) == "" {
			return nil, domain.Validationf("staff_code", "is required")
		}
		next.AssignedStaffName = strings.TrimSpace(in.StaffName)
		next.AssignedStaffCode = strings.TrimSpace(in.StaffCode)
	}

	patch := domain.NewPatch(p, domain.PhasePending).SetPhase(p, next)
	if o.Phases == nil {
		o.Phases = make(map[domain.Phase]*domain.PhaseRecord)
	}
	o.Phases[p] = next
	if p == domain.PhaseAnalysis {
		o.OverallStatus = domain.StatusInProgress
		patch.SetOverallStatus(domain.StatusInProgress)
	}
	if o.CurrentPhase == "" {
		o.CurrentPhase = p
		patch.SetCurrentPhase(p)
	}
	return patch, nil
}

// CompletePhase applies in_progress -> completed, records the elapsed
// minutes and advances the order along its effective sequence. Completing
// bag marks the order ready for pickup whether or not dispatch follows.
func CompletePhase(o *domain.Order, p domain.Phase, now time.Time) (*CompleteResult, error) {
	rec := o.Record(p)
	if rec.Status != domain.PhaseInProgress {
		return nil, domain.Validationf("phase", "phase %q is not in progress", p)
	}

	done := *rec
	done.Status = domain.PhaseCompleted
	done.CompletedAt = &now
	if rec.StartedAt != nil {
		done.ActualMinutes = int(math.Round(now.Sub(*rec.StartedAt).Minutes()))
	}

	seq := domain.Sequence(o.HasDispatch)
	var nextPhase domain.Phase
	if i := seqIndex(seq, p); i >= 0 && i+1 < len(seq) {
		nextPhase = seq[i+1]
	}

	patch := domain.NewPatch(p, domain.PhaseInProgress).SetPhase(p, &done)
	o.Phases[p] = &done

	switch {
	case p == domain.PhaseBag:
		o.OverallStatus = domain.StatusReadyForPickup
		patch.SetOverallStatus(domain.StatusReadyForPickup)
		if nextPhase != "" {
			o.CurrentPhase = nextPhase
			patch.SetCurrentPhase(nextPhase)
		} else {
			o.FinalizedAt = &now
			patch.SetFinalizedAt(now)
		}
	case nextPhase != "":
		o.CurrentPhase = nextPhase
		patch.SetCurrentPhase(nextPhase)
	default:
		o.OverallStatus = domain.StatusFinalized
		o.FinalizedAt = &now
		patch.SetOverallStatus(domain.StatusFinalized)
		patch.SetFinalizedAt(now)
	}

	return &CompleteResult{Patch: patch, NextPhase: nextPhase, Terminal: nextPhase == ""}, nil
}

// RevertPhase resets the record for p to pending and steps the current
// phase back to its predecessor. The first phase has no prior phase and
// cannot be reverted.
func RevertPhase(o *domain.Order, p domain.Phase) (*domain.Patch, error) {
	if p == domain.PhaseAnalysis {
		return nil, domain.Validationf("phase", "no prior phase")
	}
	seq := domain.Sequence(o.HasDispatch)
	i := seqIndex(seq, p)
	if i < 0 {
		return nil, domain.Validationf("phase", "phase %q is not part of this order", p)
	}
	prev := seq[i-1]

	reset := &domain.PhaseRecord{Status: domain.PhasePending}
	patch := domain.NewPatch(p, o.Record(p).Status).
		SetPhase(p, reset).
		SetCurrentPhase(prev)
	if o.Phases == nil {
		o.Phases = make(map[domain.Phase]*domain.PhaseRecord)
	}
	o.Phases[p] = reset
	o.CurrentPhase = prev
	if prev == domain.PhaseAnalysis && o.Record(domain.PhaseAnalysis).Status == domain.PhasePending {
		o.OverallStatus = domain.StatusPending
		patch.SetOverallStatus(domain.StatusPending)
	}
	return patch, nil
}

// DeriveState is the read-path helper shared by the dashboard and the
// client lookup: phases before the current one display as completed,
// phases after it as pending, and the current phase shows its stored
// record status.
func DeriveState(p domain.Phase, o *domain.Order) domain.PhaseStatus {
	seq := domain.Sequence(o.HasDispatch)
	ip := seqIndex(seq, p)
	if ip < 0 {
		return domain.PhasePending
	}
	ic := seqIndex(seq, o.EffectivePhase())
	switch {
	case ip < ic:
		return domain.PhaseCompleted
	case ip > ic:
		return domain.PhasePending
	default:
		return o.Record(p).Status
	}
}

// Timeline renders the derived per-phase view for an order.
func Timeline(o *domain.Order) []domain.PhaseView {
	seq := domain.Sequence(o.HasDispatch)
	out := make([]domain.PhaseView, 0, len(seq))
	for _, p := range seq {
		rec := o.Record(p)
		out = append(out, domain.PhaseView{
			Phase:            p,
			Label:            p.Label(),
			State:            DeriveState(p, o),
			AssignedStaff:    rec.AssignedStaffName,
			EstimatedMinutes: rec.EstimatedMinutes,
			ActualMinutes:    rec.ActualMinutes,
		})
	}
	return out
}
