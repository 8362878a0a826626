package suspend

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/printa-pos/internal/modules/auth"
	"github.com/georgemunganga/printa-pos/internal/platform/httpx"
)

// Handler lists and discards parked orders. Suspending and resuming go
// through the till, which owns the cart.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/suspended", func(r chi.Router) {
		r.Get("/", h.list)           // GET    /api/v1/suspended
		r.Delete("/{id}", h.discard) // DELETE /api/v1/suspended/{id}
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		httpx.Error(w, auth.ErrInvalidToken)
		return
	}
	orders, err := h.service.List(r.Context(), id.CashierID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, orders)
}

func (h *Handler) discard(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFrom(r.Context())
	if !ok {
		httpx.Error(w, auth.ErrInvalidToken)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	if err := h.service.Discard(r.Context(), ident.CashierID, id); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
