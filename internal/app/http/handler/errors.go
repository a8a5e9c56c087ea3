package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"webhookservice/internal/app/dto"
	"webhookservice/internal/domain/event"
	"webhookservice/internal/domain/webhook"
)

// writeError keeps three outcomes apart for the sender: a malformed
// payload, a well-formed event nobody handles, and a failure on our side.
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		ve *event.ValidationError
		ue *webhook.UnhandledEventError
		he *webhook.HandlerError
	)

	switch {
	case errors.As(err, &ve):
		h.Log.Info("invalid webhook payload", zap.String("field", ve.Field), zap.String("reason", ve.Reason))
		h.writeErrorStatus(c, http.StatusUnprocessableEntity, "INVALID_PAYLOAD", ve.Error())

	case errors.As(err, &ue):
		h.Log.Warn("unhandled event type", zap.Stringer("key", ue.Key))
		h.writeErrorStatus(c, http.StatusBadRequest, "UNHANDLED_EVENT_TYPE", "Unhandled event type: "+ue.Key.String())

	case errors.As(err, &he):
		// already logged with full context by the dispatcher
		h.writeErrorStatus(c, http.StatusInternalServerError, "HANDLER_FAILED", "event handler failed")

	default:
		h.Log.Error("internal error", zap.Error(err))
		h.writeErrorStatus(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func (h *Handler) writeErrorStatus(c *gin.Context, status int, code, msg string) {
	c.JSON(status, dto.ErrorResponse{
		Error: dto.Error{
			Code:    code,
			Message: msg,
		},
	})
}

func (h *Handler) badRequest(c *gin.Context, msg string) {
	h.writeErrorStatus(c, http.StatusBadRequest, "BAD_REQUEST", msg)
}
