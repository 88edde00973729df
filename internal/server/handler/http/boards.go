// Package http provides HTTP handlers for board visibility queries.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/boardkit/boardkit/internal/middleware"
	"github.com/boardkit/boardkit/internal/models"
)

// BoardService defines the interface for board resolution required by the
// BoardHandler.
type BoardService interface {
	// VisibleBoards returns every board the user can reach, deduplicated
	// across access paths.
	VisibleBoards(ctx context.Context, userID string) ([]models.Board, error)
}

// BoardHandler handles HTTP requests for the acting user's board set.
type BoardHandler struct {
	// BoardService performs the underlying visibility resolution.
	BoardService BoardService
}

// List handles GET /api/boards requests and writes the visible boards as JSON.
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)

	boards, err := h.BoardService.VisibleBoards(ctx, userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if boards == nil {
		boards = []models.Board{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(boards)
}
