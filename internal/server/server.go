// Package server exposes the public API: the cached flood snapshot, the
// chat surface, and the history-risk lookup. Core failures never surface
// here as HTTP errors; handlers always return a best-effort payload.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdme/floodwatch/internal/model"
)

// SnapshotSource serves the current flood snapshot.
type SnapshotSource interface {
	Get(ctx context.Context) *model.Snapshot
}

// Answerer answers chat and history-risk queries.
type Answerer interface {
	Ask(query string) string
	LocationSummary(location string) string
}

// New builds the API router.
func New(snapshots SnapshotSource, answers Answerer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok", "service": "FloodWatch API"})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/flood-data", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, snapshots.Get(req.Context()))
	})

	r.Get("/api/chat", func(w http.ResponseWriter, req *http.Request) {
		query := req.URL.Query().Get("query")
		if query == "" {
			http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"response": answers.Ask(query)})
	})

	r.Get("/api/history-risk", func(w http.ResponseWriter, req *http.Request) {
		location := req.URL.Query().Get("location")
		if location == "" {
			http.Error(w, `{"error":"location is required"}`, http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"risk_analysis": answers.LocationSummary(location)})
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("response encode failed", zap.Error(err))
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
