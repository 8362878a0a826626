package register

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-pos/internal/modules/auth"
	"github.com/georgemunganga/printa-pos/internal/platform/httpx"
)

// Handler exposes the read side of the register. Opening and closing go
// through the till so the cashier's session state follows the transition.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/register", func(r chi.Router) {
		r.Get("/current", h.current)  // GET  /api/v1/register/current
		r.Get("/summary", h.summary)  // GET  /api/v1/register/summary
		r.Post("/preview", h.preview) // POST /api/v1/register/preview
		r.Get("/history", h.history)  // GET  /api/v1/register/history?limit=10
	})
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		httpx.Error(w, auth.ErrInvalidToken)
		return
	}
	session, err := h.service.Current(r.Context(), id.CashierID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, session)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		httpx.Error(w, auth.ErrInvalidToken)
		return
	}
	sum, err := h.service.LiveSummary(r.Context(), id.CashierID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sum)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		httpx.Error(w, auth.ErrInvalidToken)
		return
	}
	var req CloseRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	sum, err := h.service.Preview(r.Context(), id.CashierID, req.ClosingAmount)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sum)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		httpx.Error(w, auth.ErrInvalidToken)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sessions, err := h.service.History(r.Context(), id.CashierID, limit)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sessions)
}
