package handlers

import (
	"net/http"

	"github.com/goccy/go-json"

	"laundry-system/internal/domain"
	rosterservice "laundry-system/internal/roster/service"
)

type StaffHandler struct {
	service rosterservice.RosterServiceInterface
}

func NewStaffHandler(s rosterservice.RosterServiceInterface) *StaffHandler {
	return &StaffHandler{service: s}
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if members == nil {
		members = []domain.StaffMember{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"staff": members})
}

func (h *StaffHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req domain.AddStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	m, err := h.service.Add(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
