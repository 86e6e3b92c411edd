package domain

import "time"

// Phase is one stage of processing. Orders move through the sequence
// analysis -> wash -> iron -> bag, plus a terminal dispatch phase for
// orders delivered to the client.
type Phase string

const (
	PhaseAnalysis Phase = "analysis"
	PhaseWash     Phase = "wash"
	PhaseIron     Phase = "iron"
	PhaseBag      Phase = "bag"
	PhaseDispatch Phase = "dispatch"
)

var processingPhases = []Phase{PhaseAnalysis, PhaseWash, PhaseIron, PhaseBag}

// Sequence returns the effective phase order for an order shape.
// Dispatch is appended only when the order is delivered.
func Sequence(hasDispatch bool) []Phase {
	if !hasDispatch {
		return processingPhases
	}
	seq := make([]Phase, 0, len(processingPhases)+1)
	seq = append(seq, processingPhases...)
	return append(seq, PhaseDispatch)
}

// ParsePhase validates a wire/route phase name.
func ParsePhase(s string) (Phase, bool) {
	switch Phase(s) {
	case PhaseAnalysis, PhaseWash, PhaseIron, PhaseBag, PhaseDispatch:
		return Phase(s), true
	}
	return "", false
}

// Label returns the customer-facing Spanish name of a phase.
func (p Phase) Label() string {
	switch p {
	case PhaseAnalysis:
		return "Análisis"
	case PhaseWash:
		return "Lavado"
	case PhaseIron:
		return "Planchado"
	case PhaseBag:
		return "Embolsado"
	case PhaseDispatch:
		return "Despacho"
	}
	return string(p)
}

type PhaseStatus string

const (
	PhasePending    PhaseStatus = "pending"
	PhaseInProgress PhaseStatus = "in_progress"
	PhaseCompleted  PhaseStatus = "completed"
)

type OverallStatus string

const (
	StatusPending        OverallStatus = "pending"
	StatusInProgress     OverallStatus = "in_progress"
	StatusReadyForPickup OverallStatus = "ready_for_pickup"
	StatusFinalized      OverallStatus = "finalized"
)

// Collection identifies which order collection a document lives in.
type Collection string

const (
	CollectionCompany    Collection = "comandas_empresa"
	CollectionIndividual Collection = "comandas_particular"
)

func ParseCollection(s string) (Collection, bool) {
	switch Collection(s) {
	case CollectionCompany, CollectionIndividual:
		return Collection(s), true
	}
	return "", false
}

// PhaseRecord holds the per-phase state of one order. Staff fields are set
// when a normal phase starts; the dispatch phase stores a vehicle plate
// instead.
type PhaseRecord struct {
	Status            PhaseStatus `json:"status"`
	AssignedStaffName string      `json:"assigned_staff_name,omitempty"`
	AssignedStaffCode string      `json:"assigned_staff_code,omitempty"`
	VehiclePlate      string      `json:"vehicle_plate,omitempty"`
	EstimatedMinutes  int         `json:"estimated_minutes,omitempty"`
	StartedAt         *time.Time  `json:"started_at,omitempty"`
	CompletedAt       *time.Time  `json:"completed_at,omitempty"`
	ActualMinutes     int         `json:"actual_minutes,omitempty"`
}

// Order is one tracked laundry job.
type Order struct {
	ID            int64                  `json:"id"`
	Code          string                 `json:"code"`
	Collection    Collection             `json:"collection"`
	ClientName    string                 `json:"client_name"`
	Phone         string                 `json:"phone,omitempty"`
	Address       string                 `json:"address,omitempty"`
	HasDispatch   bool                   `json:"has_dispatch"`
	CurrentPhase  Phase                  `json:"current_phase"`
	OverallStatus OverallStatus          `json:"overall_status"`
	Phases        map[Phase]*PhaseRecord `json:"phases"`
	CreatedAt     time.Time              `json:"created_at"`
	FinalizedAt   *time.Time             `json:"finalized_at,omitempty"`
}

// EffectivePhase is CurrentPhase with the documented default: documents
// written before phase tracking carry no current phase and mean analysis.
func (o *Order) EffectivePhase() Phase {
	if o.CurrentPhase == "" {
		return PhaseAnalysis
	}
	return o.CurrentPhase
}

// Record returns the phase record for p, never nil. Missing records read
// as pending.
func (o *Order) Record(p Phase) *PhaseRecord {
	if r, ok := o.Phases[p]; ok && r != nil {
		return r
	}
	return &PhaseRecord{Status: PhasePending}
}

// StaffMember is one roster entry, code format ENC-###.
type StaffMember struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// User is an operator or client account from the usuarios collection.
type User struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"` // admin | operador | cliente
	PasswordHash string `json:"-"`
}
