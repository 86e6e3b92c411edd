package domain

import "time"

// StartPhaseRequest carries the operator form for starting a phase.
// Normal phases need a staff name (and optionally a roster code; a fresh
// roster entry is created when the code is empty). The dispatch phase
// needs a vehicle plate instead.
type StartPhaseRequest struct {
	StaffName        string `json:"staff_name,omitempty"`
	StaffCode        string `json:"staff_code,omitempty"`
	VehiclePlate     string `json:"vehicle_plate,omitempty"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// PhaseView is one row of the client-facing timeline: the displayed state
// is derived, not stored (completed for everything before the current
// phase, pending for everything after).
type PhaseView struct {
	Phase            Phase       `json:"phase"`
	Label            string      `json:"label"`
	State            PhaseStatus `json:"state"`
	AssignedStaff    string      `json:"assigned_staff,omitempty"`
	EstimatedMinutes int         `json:"estimated_minutes,omitempty"`
	ActualMinutes    int         `json:"actual_minutes,omitempty"`
}

type LookupResponse struct {
	Collection Collection  `json:"collection"`
	Order      *Order      `json:"order"`
	Timeline   []PhaseView `json:"timeline"`
}

type OrderResponse struct {
	Collection Collection  `json:"collection"`
	Order      *Order      `json:"order"`
	Timeline   []PhaseView `json:"timeline"`
}

// ListFilter narrows the operator dashboard.
type ListFilter struct {
	Phase      Phase
	Collection Collection
	Status     OverallStatus
}

type ListOrdersResponse struct {
	Orders []*Order      `json:"orders"`
	Counts map[Phase]int `json:"counts"`
}

type AddStaffRequest struct {
	Name string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenExchangeRequest struct {
	Token string `json:"token"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}
