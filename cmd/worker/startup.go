package main

import (
	"net/http"

	zlog "github.com/rs/zerolog/log"

	"dentalcare-backend/pkg/container"
)

// logStartup reports worker configuration and exposes liveness probes.
func logStartup(c *container.Container) {
	zlog.Info().
		Str("environment", c.Config.App.Environment).
		Str("redis", c.Config.Redis.Host).
		Str("reorder_scan_cron", c.Config.Jobs.ReorderScanCron).
		Msg("Worker ready")

	go startHealthCheckServer()
}

// startHealthCheckServer serves liveness and readiness probes.
func startHealthCheckServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"UP","service":"dentalcare-worker"}`))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"READY"}`))
	})

	zlog.Info().Msg("Health check server listening on :9999")
	if err := http.ListenAndServe(":9999", mux); err != nil {
		zlog.Error().Err(err).Msg("Health check server failed")
	}
}
