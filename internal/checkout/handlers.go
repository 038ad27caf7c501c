package checkout

import (
	"errors"
	"net/http"

	"github.com/noah-isme/backend-loja/internal/cart"
	"github.com/noah-isme/backend-loja/internal/common"
	"github.com/noah-isme/backend-loja/internal/order"
)

// SessionCarts resolves the cart store for the current request session.
type SessionCarts interface {
	SessionStore(w http.ResponseWriter, r *http.Request) *cart.Store
}

// Handler exposes POST /api/v1/checkout.
type Handler struct {
	Svc   *Service
	Carts SessionCarts
}

// Create builds the order message for the session's cart and returns the
// text plus the wa.me URI for the client to open. The cart is not cleared
// here; the storefront decides when the hand-off actually happened.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	store := h.Carts.SessionStore(w, r)
	msg, err := h.Svc.Checkout(r.Context(), store)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": msg})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusConflict, "CART_EMPTY", "cart is empty", nil)
	case errors.Is(err, order.ErrMissingRecipient):
		common.JSONError(w, http.StatusUnprocessableEntity, "MISSING_RECIPIENT", "store has no WhatsApp number configured", nil)
	case errors.Is(err, ErrSettingsFetch):
		common.JSONError(w, http.StatusBadGateway, "SETTINGS_FETCH_FAILED", "could not load store settings, try again", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}
