package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"habitroom-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	log     *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		log:     log,
	}
}
