package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Webhook accepts one event per request and answers 204 once its handler
// has finished.
func (h *Handler) Webhook(c *gin.Context) {
	if h.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBodyBytes)
	}

	payload, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeErrorStatus(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large")
			return
		}
		h.badRequest(c, "could not read request body")
		return
	}

	ev, err := h.Dispatcher.Dispatch(c.Request.Context(), payload)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.Log.Debug("webhook handled",
		zap.Stringer("key", ev.Key()),
		zap.Stringers("entity_ids", ev.EntityIDs()),
	)
	c.Status(http.StatusNoContent)
}
