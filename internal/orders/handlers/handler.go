package handlers

import (
	"laundry-system/internal/auth"
	ordersservice "laundry-system/internal/orders/service"
	rosterservice "laundry-system/internal/roster/service"
)

type Handler struct {
	Orders   *OrderHandler
	Staff    *StaffHandler
	Sessions *SessionHandler
	Auth     auth.AuthServiceInterface
}

func New(orders ordersservice.OrderServiceInterface, roster rosterservice.RosterServiceInterface, authSvc auth.AuthServiceInterface) *Handler {
	return &Handler{
		Orders:   NewOrderHandler(orders),
		Staff:    NewStaffHandler(roster),
		Sessions: NewSessionHandler(authSvc),
		Auth:     authSvc,
	}
}
