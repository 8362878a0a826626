package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-pos/internal/platform/httpx"
)

// Handler exposes the settings in effect to the till UI.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/settings", h.current) // GET /api/v1/settings
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Current(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, st)
}
