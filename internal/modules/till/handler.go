package till

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/apperr"
	"github.com/georgemunganga/printa-pos/internal/modules/auth"
	"github.com/georgemunganga/printa-pos/internal/modules/cart"
	"github.com/georgemunganga/printa-pos/internal/modules/payment"
	"github.com/georgemunganga/printa-pos/internal/modules/register"
	"github.com/georgemunganga/printa-pos/internal/platform/httpx"
)

// Handler exposes the till of the signed-in cashier.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/till", func(r chi.Router) {
		r.Get("/", h.view)     // GET    /api/v1/till
		r.Delete("/", h.clear) // DELETE /api/v1/till

		r.Post("/items", h.addItem)                   // POST   /api/v1/till/items
		r.Patch("/items/{product_id}", h.updateItem)  // PATCH  /api/v1/till/items/{product_id}
		r.Delete("/items/{product_id}", h.removeItem) // DELETE /api/v1/till/items/{product_id}

		r.Put("/discount", h.setDiscount) // PUT /api/v1/till/discount
		r.Put("/customer", h.setCustomer) // PUT /api/v1/till/customer

		r.Post("/payments", h.addPayment)            // POST   /api/v1/till/payments
		r.Patch("/payments/{id}", h.updatePayment)   // PATCH  /api/v1/till/payments/{id}
		r.Post("/payments/{id}/fill", h.fillPayment) // POST   /api/v1/till/payments/{id}/fill
		r.Delete("/payments/{id}", h.removePayment)  // DELETE /api/v1/till/payments/{id}

		r.Post("/checkout", h.checkout)        // POST /api/v1/till/checkout
		r.Post("/suspend", h.suspend)          // POST /api/v1/till/suspend
		r.Post("/resume/{order_id}", h.resume) // POST /api/v1/till/resume/{order_id}

		r.Post("/register/open", h.openRegister)   // POST /api/v1/till/register/open
		r.Post("/register/close", h.closeRegister) // POST /api/v1/till/register/close
	})
}

func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		httpx.Error(w, auth.ErrInvalidToken)
	}
	return id, ok
}

func respondView(w http.ResponseWriter, v *View, err error) {
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, v)
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	v, err := h.service.View(r.Context(), id)
	respondView(w, v, err)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	v, err := h.service.Clear(r.Context(), id)
	respondView(w, v, err)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req AddItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	v, err := h.service.AddItem(r.Context(), id, req)
	respondView(w, v, err)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "product_id"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	var req UpdateItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	v, err := h.service.UpdateItem(r.Context(), id, productID, req)
	if errors.Is(err, cart.ErrBelowFloor) && v != nil {
		// The price was clamped; show the cashier what was applied.
		httpx.Respond(w, apperr.HTTPStatus(err), map[string]interface{}{
			"error": err.Error(),
			"code":  apperr.CodeOf(err),
			"kind":  apperr.KindOf(err),
			"till":  v,
		})
		return
	}
	respondView(w, v, err)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "product_id"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	v, err := h.service.RemoveItem(r.Context(), id, productID)
	respondView(w, v, err)
}

func (h *Handler) setDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	v, err := h.service.SetDiscount(r.Context(), id, req.Amount)
	respondView(w, v, err)
}

func (h *Handler) setCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req struct {
		CustomerID *uuid.UUID `json:"customer_id"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	v, err := h.service.SelectCustomer(r.Context(), id, req.CustomerID)
	respondView(w, v, err)
}

func (h *Handler) addPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	v, err := h.service.AddPayment(r.Context(), id)
	respondView(w, v, err)
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, entryID, ok := paymentTarget(w, r)
	if !ok {
		return
	}
	var p payment.Patch
	if err := httpx.Decode(r, &p); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	v, err := h.service.UpdatePayment(r.Context(), id, entryID, p)
	respondView(w, v, err)
}

func (h *Handler) fillPayment(w http.ResponseWriter, r *http.Request) {
	id, entryID, ok := paymentTarget(w, r)
	if !ok {
		return
	}
	v, err := h.service.FillPayment(r.Context(), id, entryID)
	respondView(w, v, err)
}

func (h *Handler) removePayment(w http.ResponseWriter, r *http.Request) {
	id, entryID, ok := paymentTarget(w, r)
	if !ok {
		return
	}
	v, err := h.service.RemovePayment(r.Context(), id, entryID)
	respondView(w, v, err)
}

func paymentTarget(w http.ResponseWriter, r *http.Request) (auth.Identity, int, bool) {
	id, ok := identity(w, r)
	if !ok {
		return auth.Identity{}, 0, false
	}
	entryID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, err)
		return auth.Identity{}, 0, false
	}
	return id, entryID, true
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	rc, err := h.service.Checkout(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, rc)
}

func (h *Handler) suspend(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req struct {
		Label string `json:"label"`
	}
	// The body is optional.
	if err := httpx.Decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		httpx.BadRequest(w, err)
		return
	}
	o, err := h.service.Suspend(r.Context(), id, req.Label)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if o == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httpx.Respond(w, http.StatusCreated, o)
}

func (h *Handler) resume(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	v, err := h.service.Resume(r.Context(), id, orderID)
	respondView(w, v, err)
}

func (h *Handler) openRegister(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req register.OpenRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	s, err := h.service.OpenRegister(r.Context(), id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, s)
}

func (h *Handler) closeRegister(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req register.CloseRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	res, err := h.service.CloseRegister(r.Context(), id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, res)
}
