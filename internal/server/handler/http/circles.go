// Package http provides the host-facing entry point for circle lifecycle
// notifications.
package http

import (
	"net/http"

	"github.com/boardkit/boardkit/internal/events"
	"github.com/go-chi/chi/v5"
)

// EventPublisher publishes lifecycle events onto the in-process bus.
type EventPublisher interface {
	Publish(ev events.Event)
}

// CircleHandler accepts circle destruction notifications from the host and
// republishes them on the event bus for the cascade listener.
type CircleHandler struct {
	// Bus receives the typed destruction event.
	Bus EventPublisher
}

// Destroyed handles DELETE /api/circles/{circleID} requests. The cascade
// itself runs asynchronously on the listener, so the handler only accepts
// the notification.
func (h *CircleHandler) Destroyed(w http.ResponseWriter, r *http.Request) {
	circleID := chi.URLParam(r, "circleID")
	if circleID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	h.Bus.Publish(events.Event{Kind: events.KindCircleDestroyed, CircleID: circleID})
	w.WriteHeader(http.StatusAccepted)
}
