package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"webhookservice/internal/app/http/handler"
	"webhookservice/internal/app/http/middleware"
)

type RouterOptions struct {
	AllowedOrigins []string
	Propagator     propagation.TextMapPropagator
}

func NewRouter(h *handler.Handler, log *zap.Logger, opts RouterOptions) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.ZapLogger(log),
		middleware.ZapRecovery(log),
	)
	if opts.Propagator != nil {
		r.Use(middleware.TraceContext(opts.Propagator))
	}
	if len(opts.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(opts.AllowedOrigins))
	}

	r.GET("/health", h.Health)

	v1 := r.Group("/v1")
	v1.POST("/webhook", h.Webhook)

	return r
}
