package customer

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/printa-pos/internal/platform/httpx"
)

// Handler exposes customer HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/customers", func(r chi.Router) {
		r.Get("/{id}", h.get)              // GET  /api/v1/customers/{id}
		r.Post("/{id}/collect", h.collect) // POST /api/v1/customers/{id}/collect
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}

func (h *Handler) collect(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	var req CollectRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	c, err := h.service.CollectDebt(r.Context(), id, req.Amount)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}
