package sse

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Handler handles SSE connections at GET /api/v1/events.
type Handler struct {
	manager *Manager
	logger  *slog.Logger
}

// NewHandler creates a new SSE Handler.
func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// Serve streams events scoped to the given user until the client
// disconnects. The caller resolves the user from its auth middleware.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, userID string) {
	// Check if request context is already canceled (early client disconnect).
	if r.Context().Err() != nil {
		return
	}

	// Set SSE headers.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	rc := http.NewResponseController(w)

	// Flush headers immediately.
	if err := rc.Flush(); err != nil {
		h.logger.Error("failed to flush headers", slog.String("error", err.Error()))
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Register client.
	client, err := h.manager.Connect(userID)
	if err != nil {
		h.logger.Error("failed to register SSE client", slog.String("error", err.Error()))
		http.Error(w, "Failed to establish connection", http.StatusInternalServerError)
		return
	}
	defer h.manager.Disconnect(client.ID)

	clientLogger := h.logger.With(slog.String("client_id", client.ID))

	// Send initial connection message.
	if err := h.sendEvent(w, rc, "connected", map[string]string{
		"client_id": client.ID,
		"message":   "SSE connection established",
	}); err != nil {
		clientLogger.Warn("failed to send initial connection message", slog.String("error", err.Error()))
		return
	}

	ctx := r.Context()

	// Send periodic heartbeat to keep the connection alive.
	heartbeatTicker := time.NewTicker(30 * time.Second)
	defer heartbeatTicker.Stop()

	for {
		select {
		case event := <-client.EventChan:
			if err := h.sendEvent(w, rc, string(event.Type), event); err != nil {
				// Client disconnect is normal, not an error condition.
				clientLogger.Info("client disconnected during send")
				return
			}

		case <-heartbeatTicker.C:
			heartbeat := NewHeartbeatEvent()
			if err := h.sendEvent(w, rc, string(heartbeat.Type), heartbeat); err != nil {
				clientLogger.Info("client disconnected during heartbeat")
				return
			}

		case <-client.Done:
			// Manager closed this client (server shutdown).
			clientLogger.Info("client closed by manager")
			return

		case <-ctx.Done():
			// Client disconnected.
			clientLogger.Info("client context canceled")
			return
		}
	}
}

// sendEvent writes one event in SSE wire format and flushes it.
func (h *Handler) sendEvent(w http.ResponseWriter, rc *http.ResponseController, eventType string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\n", eventType); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", jsonData); err != nil {
		return err
	}

	if err := rc.Flush(); err != nil {
		return err
	}

	// Reset the write deadline after each successful write so hung
	// connections eventually error out.
	if err := rc.SetWriteDeadline(time.Now().Add(60 * time.Second)); err != nil {
		h.logger.Debug("failed to set write deadline", slog.String("error", err.Error()))
	}

	return nil
}
