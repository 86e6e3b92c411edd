package domain

import (
	"sort"
	"time"
)

// Patch is a typed partial update for one order document, the equivalent
// of the store's field-path updates ("phases.wash.status", ...). Phase
// records are replaced wholesale: every transition rewrites the whole
// record, so record-level granularity loses nothing.
type Patch struct {
	CurrentPhase  *Phase
	OverallStatus *OverallStatus
	FinalizedAt   *time.Time
	Phases        map[Phase]*PhaseRecord

	// Expected guards the write: the record for ExpectPhase must still
	// carry ExpectStatus when the patch is applied, otherwise the store
	// rejects it as a lost update.
	ExpectPhase  Phase
	ExpectStatus PhaseStatus
}

func NewPatch(expectPhase Phase, expectStatus PhaseStatus) *Patch {
	return &Patch{
		Phases:       make(map[Phase]*PhaseRecord),
		ExpectPhase:  expectPhase,
		ExpectStatus: expectStatus,
	}
}

func (p *Patch) SetCurrentPhase(ph Phase) *Patch {
	p.CurrentPhase = &ph
	return p
}

func (p *Patch) SetOverallStatus(s OverallStatus) *Patch {
	p.OverallStatus = &s
	return p
}

func (p *Patch) SetFinalizedAt(t time.Time) *Patch {
	p.FinalizedAt = &t
	return p
}

func (p *Patch) SetPhase(ph Phase, r *PhaseRecord) *Patch {
	p.Phases[ph] = r
	return p
}

// Validate rejects a patch whose targets are not part of the order schema.
func (p *Patch) Validate() error {
	if p.CurrentPhase != nil {
		if _, ok := ParsePhase(string(*p.CurrentPhase)); !ok {
			return Validationf("current_phase", "unknown phase %q", *p.CurrentPhase)
		}
	}
	if p.OverallStatus != nil {
		switch *p.OverallStatus {
		case StatusPending, StatusInProgress, StatusReadyForPickup, StatusFinalized:
		default:
			return Validationf("overall_status", "unknown status %q", *p.OverallStatus)
		}
	}
	for ph, r := range p.Phases {
		if _, ok := ParsePhase(string(ph)); !ok {
			return Validationf("phases", "unknown phase %q", ph)
		}
		if r == nil {
			return Validationf("phases", "nil record for phase %q", ph)
		}
		switch r.Status {
		case PhasePending, PhaseInProgress, PhaseCompleted:
		default:
			return Validationf("phases", "unknown phase status %q", r.Status)
		}
	}
	if _, ok := ParsePhase(string(p.ExpectPhase)); !ok {
		return Validationf("expect_phase", "unknown phase %q", p.ExpectPhase)
	}
	return nil
}

// Paths lists the dotted field paths the patch touches, for logging.
func (p *Patch) Paths() []string {
	var out []string
	if p.CurrentPhase != nil {
		out = append(out, "current_phase")
	}
	if p.OverallStatus != nil {
		out = append(out, "overall_status")
	}
	if p.FinalizedAt != nil {
		out = append(out, "finalized_at")
	}
	for ph := range p.Phases {
		out = append(out, "phases."+string(ph))
	}
	sort.Strings(out)
	return out
}
