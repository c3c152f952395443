package product

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

// Handler exposes the product console endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/console/products", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/", h.create)
		r.Post("/filters", h.setFilters)
		r.Post("/filters/reset", h.resetFilters)
		r.Post("/page/{page}", h.changePage)
		r.Post("/refresh", h.refresh)
		r.Delete("/error", h.clearError)
		r.Get("/provider/{providerID}", h.listByProvider)
		r.Get("/{id}", h.get)
		r.Patch("/{id}", h.update)
		r.Put("/{id}", h.replace)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.View(r.Context())
	respondView(w, v, err)
}

func (h *Handler) setFilters(w http.ResponseWriter, r *http.Request) {
	var patch collection.Filters
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := h.service.SetFilters(r.Context(), patch)
	respondView(w, v, err)
}

func (h *Handler) resetFilters(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.ResetFilters(r.Context())
	respondView(w, v, err)
}

func (h *Handler) changePage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "page must be a number")
		return
	}
	v, err := h.service.ChangePage(r.Context(), page)
	respondView(w, v, err)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Refresh(r.Context())
	respondView(w, v, err)
}

func (h *Handler) clearError(w http.ResponseWriter, r *http.Request) {
	h.service.ClearError()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listByProvider(w http.ResponseWriter, r *http.Request) {
	params := collection.Filters{}
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	v, err := h.service.ListByProvider(r.Context(), chi.URLParam(r, "providerID"), params)
	if err != nil {
		writeError(w, err, msgFetchScoped)
		return
	}
	respond(w, http.StatusOK, v)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("fields"))
	if err != nil {
		writeError(w, err, msgFetchOne)
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
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
	var req UpdateProductRequest
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
	var req CreateProductRequest
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

// respondView writes the product view. A failed fetch is still reported
// with the view, whose error field carries the message.
func respondView(w http.ResponseWriter, v View, err error) {
	if err != nil && errors.Is(err, collection.ErrUnknownFilter) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respond(w, statusFor(err), v)
		return
	}
	respond(w, http.StatusOK, v)
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
