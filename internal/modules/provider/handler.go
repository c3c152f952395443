package provider

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-console/internal/collection"
	"github.com/georgemunganga/printa-console/internal/gateway"
	"github.com/georgemunganga/printa-console/internal/validation"
)

// Handler exposes the provider console endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/console/providers", func(r chi.Router) {
		r.Get("/", h.state)
		r.Post("/", h.create)
		r.Post("/filters", h.setFilters)
		r.Post("/filters/reset", h.resetFilters)
		r.Post("/page/{page}", h.changePage)
		r.Post("/refresh", h.refresh)
		r.Delete("/error", h.clearError)
		r.Get("/directory", h.directory)
		r.Get("/{id}", h.get)
		r.Patch("/{id}", h.update)
		r.Put("/{id}", h.replace)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.State(r.Context())
	respondState(w, s, err)
}

func (h *Handler) setFilters(w http.ResponseWriter, r *http.Request) {
	var patch collection.Filters
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s, err := h.service.SetFilters(r.Context(), patch)
	respondState(w, s, err)
}

func (h *Handler) resetFilters(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.ResetFilters(r.Context())
	respondState(w, s, err)
}

func (h *Handler) changePage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "page must be a number")
		return
	}
	s, err := h.service.ChangePage(r.Context(), page)
	respondState(w, s, err)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Refresh(r.Context())
	respondState(w, s, err)
}

func (h *Handler) clearError(w http.ResponseWriter, r *http.Request) {
	h.service.ClearError()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) directory(w http.ResponseWriter, r *http.Request) {
	providers, err := h.service.Directory(r.Context())
	if err != nil {
		writeError(w, err, msgFetchAll)
		return
	}
	respond(w, http.StatusOK, providers)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("fields"))
	if err != nil {
		writeError(w, err, msgFetchOne)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err, msgCreate)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err, msgUpdate)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	var req CreateProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.Replace(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err, msgReplace)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err, msgDelete)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondState writes the list state. A failed fetch is still reported with
// the state, whose error field carries the message.
func respondState(w http.ResponseWriter, s collection.State[Provider], err error) {
	if err != nil && errors.Is(err, collection.ErrUnknownFilter) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respond(w, statusFor(err), s)
		return
	}
	respond(w, http.StatusOK, s)
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		respond(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": fe})
		return
	}
	respondError(w, statusFor(err), gateway.Message(err, fallback))
}

func statusFor(err error) int {
	var serverErr *gateway.ServerError
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errEmptyID):
		return http.StatusBadRequest
	case errors.As(err, &serverErr) && serverErr.Status >= 400 && serverErr.Status < 500:
		return serverErr.Status
	case errors.Is(err, gateway.ErrTransport), errors.As(err, &serverErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
