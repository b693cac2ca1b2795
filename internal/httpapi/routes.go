package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/hanabi-table/internal/table"
)

func SetupRoutes(t *table.Table, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Render surface
	r.Get("/healthz", Healthz)
	r.Get("/state", GetState(t))
	r.Post("/actions/{key}", SelectAction(t))
	r.Get("/ws", ViewStream(t, log))
	return r
}
