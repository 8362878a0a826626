package user

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/printa-pos/internal/platform/httpx"
)

// RoleResolver returns the role of the signed-in caller.
type RoleResolver func(ctx context.Context) (Role, bool)

type Handler struct {
	service Service
	caller  RoleResolver
}

func NewHandler(service Service, caller RoleResolver) *Handler {
	return &Handler{service: service, caller: caller}
}

// RegisterRoutes mounts account routes. Callers mount them behind a
// privileged-role guard.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/api/v1/users/register", h.registerUser)
	router.Get("/api/v1/users/{id}", h.getUser)
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	creator, ok := h.caller(r.Context())
	if !ok {
		httpx.Error(w, ErrRoleNotGrantable)
		return
	}
	var req RegisterRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), creator, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, user)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, user)
}
