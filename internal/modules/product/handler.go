package product

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/printa-pos/internal/platform/httpx"
)

// Handler exposes product lookups for the till.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.search)   // GET /api/v1/products?q=paper&limit=20
		r.Get("/{id}", h.get) // GET /api/v1/products/{id}
	})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, products)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	p, err := h.service.Sellable(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}
