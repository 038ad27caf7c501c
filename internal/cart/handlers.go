package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/common"
)

// ProductSource is the catalog read the cart endpoints need.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
}

// Handler exposes the session-scoped cart over HTTP. The session is an
// anonymous cookie; the cart itself never leaves process memory.
type Handler struct {
	Carts        *Registry
	Products     ProductSource
	CookieName   string
	CookieSecure bool
}

type itemRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Delta     int    `json:"delta"`
}

// Get handles GET /api/v1/cart.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	store := h.session(w, r)
	common.JSON(w, http.StatusOK, map[string]any{"data": store.Snapshot()})
}

// AddItem handles POST /api/v1/cart/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if req.ProductID == "" {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "productId is required", nil)
		return
	}
	product, err := h.Products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var variant *catalog.Variant
	if req.VariantID != "" {
		v, ok := product.VariantByID(req.VariantID)
		if !ok {
			common.JSONError(w, http.StatusBadRequest, "VARIANT_UNKNOWN", "variant does not belong to product", nil)
			return
		}
		variant = &v
	}
	store := h.session(w, r)
	line, err := store.AddItem(product, variant)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"line": line, "cart": store.Snapshot()},
	})
}

// AdjustItem handles PATCH /api/v1/cart/items.
func (h *Handler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if req.ProductID == "" || req.Delta == 0 {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "productId and a non-zero delta are required", nil)
		return
	}
	store := h.session(w, r)
	store.Adjust(KeyFor(req.ProductID, req.VariantID), req.Delta)
	common.JSON(w, http.StatusOK, map[string]any{"data": store.Snapshot()})
}

// RemoveItem handles DELETE /api/v1/cart/items?productId=..&variantId=..
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	if productID == "" {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "productId is required", nil)
		return
	}
	store := h.session(w, r)
	store.Remove(KeyFor(productID, r.URL.Query().Get("variantId")))
	common.JSON(w, http.StatusOK, map[string]any{"data": store.Snapshot()})
}

// Clear handles DELETE /api/v1/cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	store := h.session(w, r)
	store.Clear()
	common.JSON(w, http.StatusOK, map[string]any{"data": store.Snapshot()})
}

// SessionStore resolves the cart for the request's session, minting the
// session cookie when absent. Exposed for the checkout handler.
func (h *Handler) SessionStore(w http.ResponseWriter, r *http.Request) *Store {
	return h.session(w, r)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *Store {
	name := h.CookieName
	if name == "" {
		name = "loja_session"
	}
	if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
		return h.Carts.Get(cookie.Value)
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return h.Carts.Get(id)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrVariantRequired):
		common.JSONError(w, http.StatusUnprocessableEntity, "VARIANT_REQUIRED", "a variant must be selected for this product", nil)
		return
	case errors.Is(err, ErrVariantUnknown):
		common.JSONError(w, http.StatusBadRequest, "VARIANT_UNKNOWN", "variant does not belong to product", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
}
