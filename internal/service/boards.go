// Package service provides the business-logic services for board visibility
// resolution and the cross-board overview, delegating persistence and
// directory lookups to collaborator interfaces.
package service

import (
	"context"

	"github.com/boardkit/boardkit/internal/models"
	"go.uber.org/zap"
)

// BoardRepository defines the board lookup operations needed by the
// BoardService.
type BoardRepository interface {
	// FindByOwner returns every board owned directly by the user.
	FindByOwner(ctx context.Context, uid string) ([]models.Board, error)
	// FindByGroups returns every board shared with any of the groups.
	FindByGroups(ctx context.Context, groupIDs []string) ([]models.Board, error)
}

// Directory defines the identity lookups delegated to the host's user
// directory.
type Directory interface {
	// ResolveUser looks up a user by UID. An unknown identity returns
	// (nil, nil), not an error.
	ResolveUser(ctx context.Context, uid string) (*models.User, error)
	// UserGroupIDs returns the identifiers of the user's groups.
	UserGroupIDs(ctx context.Context, uid string) ([]string, error)
}

// CircleDirectory supplies the boards reachable through circle membership.
// Circle identifiers are opaque to this service; membership resolution is
// owned entirely by the collaborator.
type CircleDirectory interface {
	BoardsForUser(ctx context.Context, uid string) ([]models.Board, error)
}

// BoardService resolves the set of boards visible to a user across all
// access paths.
type BoardService struct {
	boards    BoardRepository
	directory Directory
	circles   CircleDirectory
	log       *zap.Logger
}

// NewBoardService constructs a BoardService with the provided collaborators.
func NewBoardService(boards BoardRepository, directory Directory, circles CircleDirectory, log *zap.Logger) *BoardService {
	return &BoardService{boards: boards, directory: directory, circles: circles, log: log}
}

// VisibleBoards returns every board the user can reach: owned directly,
// shared with one of the user's groups, or shared with one of the user's
// circles. A board reachable by more than one path appears exactly once,
// with ownership taking precedence over group and circle paths in ordering.
//
// An unknown user identity degrades to an empty group set; ownership and
// circle paths are still resolved. A storage failure on any path is fatal
// for the whole resolution.
func (s *BoardService) VisibleBoards(ctx context.Context, userID string) ([]models.Board, error) {
	userBoards, err := s.boards.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	groupBoards, err := s.boards.FindByGroups(ctx, s.groupIDs(ctx, userID))
	if err != nil {
		return nil, err
	}

	circleBoards, err := s.circles.BoardsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	boards := make([]models.Board, 0, len(userBoards)+len(groupBoards)+len(circleBoards))
	for _, set := range [][]models.Board{userBoards, groupBoards, circleBoards} {
		for _, board := range set {
			if _, ok := seen[board.ID]; ok {
				continue
			}
			seen[board.ID] = struct{}{}
			boards = append(boards, board)
		}
	}
	return boards, nil
}

// groupIDs resolves the user's group memberships. Unknown identities and
// directory failures yield an empty set so the overview never hard-fails
// for an unrecognized actor.
func (s *BoardService) groupIDs(ctx context.Context, userID string) []string {
	user, err := s.directory.ResolveUser(ctx, userID)
	if err != nil {
		s.log.Warn("directory lookup failed, skipping group boards",
			zap.String("user", userID), zap.Error(err))
		return nil
	}
	if user == nil {
		return nil
	}
	groups, err := s.directory.UserGroupIDs(ctx, userID)
	if err != nil {
		s.log.Warn("group membership lookup failed, skipping group boards",
			zap.String("user", userID), zap.Error(err))
		return nil
	}
	return groups
}
