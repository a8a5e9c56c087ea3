package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"webhookservice/internal/app/dto"
)

func (h *Handler) Health(c *gin.Context) {
	resp := dto.HealthResponse{Status: "ok"}
	if h.Registry != nil {
		resp.Handlers = h.Registry.Len()
	}
	c.JSON(http.StatusOK, resp)
}
