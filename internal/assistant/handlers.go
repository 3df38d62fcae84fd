package assistant

import (
	"net/http"
	"time"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

// Handler exposes the chat endpoint.
type Handler struct {
	Store     *store.Store
	Responder Responder
	Now       func() time.Time
}

type chatRequest struct {
	Message string `json:"message" validate:"required"`
}

// Chat handles POST /api/ai-chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	var snap Snapshot
	if err := h.Store.View(func(d *store.Dataset) error {
		snap = SnapshotOf(d)
		return nil
	}); err != nil {
		common.WriteError(w, err)
		return
	}

	common.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"response":  h.Responder.Reply(req.Message, snap),
		"timestamp": store.Timestamp(h.now()),
	})
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
