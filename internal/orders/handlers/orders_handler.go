package handlers

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"laundry-system/internal/domain"
	"laundry-system/internal/orders/service"
)

type OrderHandler struct {
	service service.OrderServiceInterface
}

func NewOrderHandler(s service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

// Lookup is the public client view: find an order by its printed code.
func (h *OrderHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Lookup(r.Context(), param(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// List backs the operator dashboard.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.ListFilter
	if v := q.Get("phase"); v != "" {
		p, ok := domain.ParsePhase(v)
		if !ok {
			writeProblem(w, http.StatusBadRequest, "validation_error", "unknown phase "+strconv.Quote(v))
			return
		}
		filter.Phase = p
	}
	if v := q.Get("type"); v != "" {
		c, ok := domain.ParseCollection(v)
		if !ok {
			writeProblem(w, http.StatusBadRequest, "validation_error", "unknown collection "+strconv.Quote(v))
			return
		}
		filter.Collection = c
	}
	if v := q.Get("status"); v != "" {
		filter.Status = domain.OverallStatus(v)
	}

	resp, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	collection, id, err := h.pathOrder(r)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.service.Get(r.Context(), collection, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) StartPhase(w http.ResponseWriter, r *http.Request) {
	collection, id, p, err := h.pathOrderPhase(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req domain.StartPhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	resp, err := h.service.StartPhase(r.Context(), collection, id, p, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) CompletePhase(w http.ResponseWriter, r *http.Request) {
	collection, id, p, err := h.pathOrderPhase(r)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.service.CompletePhase(r.Context(), collection, id, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) RevertPhase(w http.ResponseWriter, r *http.Request) {
	collection, id, p, err := h.pathOrderPhase(r)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.service.RevertPhase(r.Context(), collection, id, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) pathOrder(r *http.Request) (domain.Collection, int64, error) {
	collection, err := pathCollection(r)
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.ParseInt(param(r, "id"), 10, 64)
	if err != nil {
		return "", 0, domain.Validationf("id", "must be an integer")
	}
	return collection, id, nil
}

func (h *OrderHandler) pathOrderPhase(r *http.Request) (domain.Collection, int64, domain.Phase, error) {
	collection, id, err := h.pathOrder(r)
	if err != nil {
		return "", 0, "", err
	}
	p, err := pathPhase(r)
	if err != nil {
		return "", 0, "", err
	}
	return collection, id, p, nil
}
