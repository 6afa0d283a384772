// Package server exposes the HTTP surface: health, engine stats, alert
// history, a one-shot evaluation endpoint, and the WebSocket upgrade.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mgreco/oddsedge/internal/client"
	"github.com/mgreco/oddsedge/internal/consumer"
	"github.com/mgreco/oddsedge/internal/engine"
	"github.com/mgreco/oddsedge/internal/hub"
	"github.com/mgreco/oddsedge/internal/writer"
	"github.com/mgreco/oddsedge/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	hub         *hub.Hub
	runner      *engine.Runner
	evaluator   *engine.Evaluator
	alertWriter *writer.AlertWriter // nil when persistence is disabled
	ctx         context.Context
}

// NewHandler creates a new handler with dependencies
func NewHandler(ctx context.Context, h *hub.Hub, runner *engine.Runner, evaluator *engine.Evaluator, alertWriter *writer.AlertWriter) *Handler {
	return &Handler{
		hub:         h,
		runner:      runner,
		evaluator:   evaluator,
		alertWriter: alertWriter,
		ctx:         ctx,
	}
}

// NewRouter builds the chi router with middleware and routes
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.HandleHealth)
	r.Get("/ws", h.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", h.HandleStats)
		r.Get("/alerts", h.HandleAlerts)
		r.Post("/evaluate", h.HandleEvaluate)
	})

	return r
}

// HandleHealth returns service health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        "oddsedge",
		"timestamp":      time.Now().UTC(),
		"active_clients": h.hub.GetClientCount(),
	})
}

// HandleStats returns engine and hub metrics
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"engine": h.runner.GetMetrics(),
		"hub":    h.hub.GetMetrics(),
	})
}

// HandleAlerts returns recent alert history
// Query params: sport (required), limit
func (h *Handler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	if h.alertWriter == nil {
		respondError(w, http.StatusServiceUnavailable, "alert history disabled", nil)
		return
	}

	sport := r.URL.Query().Get("sport")
	if sport == "" {
		respondError(w, http.StatusBadRequest, "sport parameter is required", nil)
		return
	}

	limit := parseIntParam(r, "limit", 100)
	if limit > 500 {
		limit = 500
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	alerts, err := h.alertWriter.RecentAlerts(ctx, sport, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve alerts", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
		"limit":  limit,
	})
}

// evaluateRequest is the body for one-shot evaluation
type evaluateRequest struct {
	Reference  models.Snapshot `json:"reference"`
	Comparison models.Snapshot `json:"comparison"`
}

// HandleEvaluate runs one evaluation pass over a submitted snapshot pair.
// Results are returned directly; nothing is published or persisted
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if len(req.Reference.Events) == 0 || len(req.Comparison.Events) == 0 {
		respondError(w, http.StatusBadRequest, "both snapshots must contain events", nil)
		return
	}

	consumer.ResolveRawLines(&req.Reference)
	consumer.ResolveRawLines(&req.Comparison)

	report := h.evaluator.Evaluate(req.Reference, req.Comparison)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results":        report.Results,
		"unmatched":      report.Unmatched,
		"skipped_quotes": report.SkippedQuotes,
	})
}

// HandleWebSocket upgrades HTTP connections to WebSocket
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("⚠️  WebSocket upgrade error: %v\n", err)
		return
	}

	clientID := uuid.New().String()
	c := client.NewClient(clientID, conn, h.hub)

	h.hub.Register(c)

	// Client pumps use the handler context, not the request context
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)

	fmt.Printf("✓ WebSocket connection established: %s\n", clientID)
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
	}

	respondJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
		"code":    status,
	})
}
