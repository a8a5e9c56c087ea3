package handler

import (
	"go.uber.org/zap"

	"webhookservice/internal/domain/webhook"
)

type Handler struct {
	Dispatcher   webhook.Service
	Registry     *webhook.Registry
	MaxBodyBytes int64
	Log          *zap.Logger
}

func New(
	dispatcher webhook.Service,
	registry *webhook.Registry,
	maxBodyBytes int64,
	log *zap.Logger,
) *Handler {
	return &Handler{
		Dispatcher:   dispatcher,
		Registry:     registry,
		MaxBodyBytes: maxBodyBytes,
		Log:          log,
	}
}
