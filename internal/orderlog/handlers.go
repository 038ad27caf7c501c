package orderlog

import (
	"net/http"

	"github.com/noah-isme/backend-loja/internal/common"
)

// AdminHandler lists recorded order messages for the store owner.
type AdminHandler struct {
	Recorder *Recorder
}

// List handles GET /api/v1/admin/orders.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := common.AtoiDefault(r.URL.Query().Get("limit"), 50)
	entries, err := h.Recorder.List(r.Context(), limit)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "could not list orders", nil)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": entries})
}
