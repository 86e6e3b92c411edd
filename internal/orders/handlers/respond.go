package handlers

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"laundry-system/internal/domain"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem emits a simplified problem+json error body.
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeProblem(w, http.StatusBadRequest, "validation_error", verr.Error())
		return
	}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		writeProblem(w, http.StatusNotFound, "not_found", nf.Error())
		return
	}
	var serr *domain.StoreError
	if errors.As(err, &serr) {
		writeProblem(w, http.StatusInternalServerError, "store_error", "backend unavailable, try again")
		return
	}
	writeProblem(w, http.StatusInternalServerError, "internal_error", err.Error())
}

// param reads a {name} segment from the route pattern.
func param(r *http.Request, key string) string {
	return r.PathValue(key)
}

// pathCollection parses and validates the {collection} route segment.
func pathCollection(r *http.Request) (domain.Collection, error) {
	c, ok := domain.ParseCollection(param(r, "collection"))
	if !ok {
		return "", domain.Validationf("collection", "unknown collection %q", param(r, "collection"))
	}
	return c, nil
}

// pathPhase parses and validates the {phase} route segment.
func pathPhase(r *http.Request) (domain.Phase, error) {
	p, ok := domain.ParsePhase(param(r, "phase"))
	if !ok {
		return "", domain.Validationf("phase", "unknown phase %q", param(r, "phase"))
	}
	return p, nil
}
