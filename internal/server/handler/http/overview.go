// Package http provides HTTP handlers for the board overview queries.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/boardkit/boardkit/internal/middleware"
	"github.com/boardkit/boardkit/internal/models"
)

// OverviewService defines the interface for overview queries required by the
// OverviewHandler.
type OverviewService interface {
	// AllWithDue returns every due-dated card across the user's visible
	// boards with board context attached.
	AllWithDue(ctx context.Context, userID string) ([]models.CardDetails, error)
	// Upcoming returns the user's candidate cards grouped into due-date
	// buckets; empty buckets are absent from the map.
	Upcoming(ctx context.Context, userID string) (map[string][]models.CardDetails, error)
}

// OverviewHandler handles HTTP requests for the cross-board overview.
type OverviewHandler struct {
	// OverviewService performs the underlying overview queries.
	OverviewService OverviewService
}

// AllWithDue handles GET /api/overview/due requests.
// It resolves the acting user from the request context, runs the query and
// writes the flattened card list as JSON.
func (h *OverviewHandler) AllWithDue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)

	cards, err := h.OverviewService.AllWithDue(ctx, userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(cards)
}

// Upcoming handles GET /api/overview/upcoming requests.
// It writes the bucket-name to card-list mapping as JSON; callers treat a
// missing bucket key and an empty list as equivalent.
func (h *OverviewHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)

	overview, err := h.OverviewService.Upcoming(ctx, userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(overview)
}
