package domain

import "time"

// NotificationKind distinguishes the three message templates.
type NotificationKind string

const (
	NotifyStarted  NotificationKind = "started"  // phase entered in_progress
	NotifyAdvanced NotificationKind = "advanced" // phase completed, order moved on
	NotifyTerminal NotificationKind = "terminal" // last phase completed
)

// NotificationEvent is published to the notifications fanout when a phase
// starts or completes. The message and deep link are composed on the
// publishing side; subscribers only deliver.
type NotificationEvent struct {
	OrderCode  string           `json:"order_code"`
	Collection Collection       `json:"collection"`
	Phase      Phase            `json:"phase"`
	Kind       NotificationKind `json:"kind"`
	Phone      string           `json:"phone"`
	Message    string           `json:"message"`
	Link       string           `json:"link"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// OrderUpdatedEvent is published to the orders topic after every phase
// mutation; dashboards subscribe to it instead of polling.
type OrderUpdatedEvent struct {
	Collection    Collection    `json:"collection"`
	OrderID       int64         `json:"order_id"`
	OrderCode     string        `json:"order_code"`
	Action        string        `json:"action"` // phase_started | phase_completed | phase_reverted
	Phase         Phase         `json:"phase"`
	CurrentPhase  Phase         `json:"current_phase"`
	OverallStatus OverallStatus `json:"overall_status"`
	OccurredAt    time.Time     `json:"occurred_at"`
}
