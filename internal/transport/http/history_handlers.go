package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/proto"
	"github.com/vovakirdan/roomrelay/internal/store"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// HistoryHandlers serves paginated message history over plain request/response,
// separate from the live broadcast path.
type HistoryHandlers struct {
	store store.MessageStore
	log   *zerolog.Logger
}

// NewHistoryHandlers creates a new history handlers instance.
func NewHistoryHandlers(st store.MessageStore, logger *zerolog.Logger) *HistoryHandlers {
	return &HistoryHandlers{
		store: st,
		log:   logger,
	}
}

// HistoryResponse represents a history page in API responses.
type HistoryResponse struct {
	Messages []proto.MessagePayload `json:"messages"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetHistory returns up to limit messages strictly older than before,
// ascending for display. Errors surface as a generic failure with no partial
// data.
// GET /api/history?roomId=<id>&before=<RFC3339>&limit=<n, max 200>
func (h *HistoryHandlers) GetHistory(c *gin.Context) {
	roomID := c.Query("roomId")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "roomId is required"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	before := time.Now()
	if raw := c.Query("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid before timestamp"})
			return
		}
		before = parsed
	}

	messages, err := h.store.ListMessages(c.Request.Context(), roomID, before, limit)
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to fetch history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch messages"})
		return
	}

	payloads := make([]proto.MessagePayload, 0, len(messages))
	for _, msg := range messages {
		payloads = append(payloads, proto.MessagePayload{
			ID:        msg.ID,
			RoomID:    msg.RoomID,
			UserID:    msg.UserID,
			Username:  msg.Username,
			Text:      msg.Text,
			CreatedAt: msg.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, HistoryResponse{Messages: payloads})
}
