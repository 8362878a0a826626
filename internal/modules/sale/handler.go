package sale

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/printa-pos/internal/modules/auth"
	"github.com/georgemunganga/printa-pos/internal/platform/httpx"
)

// Handler exposes committed sales. Sales are created through the till.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/sales", func(r chi.Router) {
		r.Get("/", h.recent)  // GET /api/v1/sales?limit=20
		r.Get("/{id}", h.get) // GET /api/v1/sales/{id}
	})
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		httpx.Error(w, auth.ErrInvalidToken)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sales, err := h.service.Recent(r.Context(), id.CashierID, limit)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sales)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	s, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, s)
}
