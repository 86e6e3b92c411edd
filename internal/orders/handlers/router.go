package handlers

import "net/http"

// Router wires the API routes. The client lookup and session endpoints
// are public; everything else requires an operator session.
func Router(h *Handler, metricsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/lookup/{code}", h.Orders.Lookup)

	mux.HandleFunc("POST /api/v1/sessions", h.Sessions.Login)
	mux.HandleFunc("POST /api/v1/sessions/token", h.Sessions.ExchangeToken)
	mux.HandleFunc("DELETE /api/v1/sessions", h.Sessions.Logout)

	op := func(next http.HandlerFunc) http.HandlerFunc { return RequireOperator(h.Auth, next) }
	mux.HandleFunc("GET /api/v1/orders", op(h.Orders.List))
	mux.HandleFunc("GET /api/v1/orders/{collection}/{id}", op(h.Orders.Get))
	mux.HandleFunc("POST /api/v1/orders/{collection}/{id}/phases/{phase}/start", op(h.Orders.StartPhase))
	mux.HandleFunc("POST /api/v1/orders/{collection}/{id}/phases/{phase}/complete", op(h.Orders.CompletePhase))
	mux.HandleFunc("POST /api/v1/orders/{collection}/{id}/phases/{phase}/revert", op(h.Orders.RevertPhase))

	mux.HandleFunc("GET /api/v1/staff", op(h.Staff.List))
	mux.HandleFunc("POST /api/v1/staff", op(h.Staff.Add))

	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	return mux
}
