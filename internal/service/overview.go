package service

import (
	"context"
	"time"

	"github.com/boardkit/boardkit/internal/models"
	"go.uber.org/zap"
)

// CardRepository defines the card lookup operations needed by the
// OverviewService.
type CardRepository interface {
	// FindAllWithDue returns the board's open cards that have a due date.
	FindAllWithDue(ctx context.Context, boardID string) ([]models.Card, error)
	// FindToMeOrNotAssigned returns the board's open cards assigned to the
	// user or to nobody.
	FindToMeOrNotAssigned(ctx context.Context, boardID, uid string) ([]models.Card, error)
	// AssignedUsers returns the users assigned to the card.
	AssignedUsers(ctx context.Context, cardID string) ([]models.User, error)
}

// LabelRepository defines the label lookups needed for enrichment.
type LabelRepository interface {
	FindAssignedLabelsForCard(ctx context.Context, cardID string) ([]models.Label, error)
}

// AttachmentCounter counts the attachments on a card.
type AttachmentCounter interface {
	Count(ctx context.Context, cardID string) (int, error)
}

// Comments defines the read-mark lookups delegated to the host's comment
// subsystem.
type Comments interface {
	// ReadMark returns the viewer's last-read timestamp for the card.
	ReadMark(ctx context.Context, cardID, uid string) (time.Time, error)
	// CountAfter returns the number of comments created after the mark.
	CountAfter(ctx context.Context, cardID string, mark time.Time) (int, error)
}

// BoardResolver yields the boards visible to a user. Implemented by
// BoardService.
type BoardResolver interface {
	VisibleBoards(ctx context.Context, userID string) ([]models.Board, error)
}

// OverviewService builds the cross-board due-date overview for one user.
// A card whose enrichment fails is skipped and logged; it never reaches a
// bucket half-populated.
type OverviewService struct {
	boards      BoardResolver
	cards       CardRepository
	labels      LabelRepository
	attachments AttachmentCounter
	comments    Comments
	directory   Directory
	log         *zap.Logger

	// now is injectable for deterministic bucket tests.
	now func() time.Time
}

// NewOverviewService constructs an OverviewService with the provided
// collaborators.
func NewOverviewService(
	boards BoardResolver,
	cards CardRepository,
	labels LabelRepository,
	attachments AttachmentCounter,
	comments Comments,
	directory Directory,
	log *zap.Logger,
) *OverviewService {
	return &OverviewService{
		boards:      boards,
		cards:       cards,
		labels:      labels,
		attachments: attachments,
		comments:    comments,
		directory:   directory,
		log:         log,
		now:         time.Now,
	}
}

// Enrich populates the card's derived fields: resolved owner, assigned
// users, labels, attachment count and, when the viewer identity resolves,
// the unread-comment count relative to the viewer's read mark. Missing
// associations become empty collections, never errors; a failed lookup
// returns an error and leaves the caller to decide.
func (s *OverviewService) Enrich(ctx context.Context, card *models.Card, viewerID string) error {
	owner, err := s.directory.ResolveUser(ctx, card.Owner.UID)
	if err != nil {
		return err
	}
	if owner != nil {
		card.Owner = *owner
	} else {
		card.Owner.DisplayName = card.Owner.UID
	}

	assigned, err := s.cards.AssignedUsers(ctx, card.ID)
	if err != nil {
		return err
	}
	if assigned == nil {
		assigned = []models.User{}
	}
	card.AssignedUsers = assigned

	labels, err := s.labels.FindAssignedLabelsForCard(ctx, card.ID)
	if err != nil {
		return err
	}
	if labels == nil {
		labels = []models.Label{}
	}
	card.Labels = labels

	count, err := s.attachments.Count(ctx, card.ID)
	if err != nil {
		return err
	}
	card.AttachmentCount = count

	viewer, err := s.directory.ResolveUser(ctx, viewerID)
	if err != nil {
		return err
	}
	if viewer != nil {
		mark, err := s.comments.ReadMark(ctx, card.ID, viewer.UID)
		if err != nil {
			return err
		}
		unread, err := s.comments.CountAfter(ctx, card.ID, mark)
		if err != nil {
			return err
		}
		card.CommentsUnread = unread
	}
	return nil
}

// AllWithDue returns every due-dated card across the user's visible boards,
// enriched and wrapped with its board context. Cards keep storage order
// within one board; boards follow visibility resolution order.
func (s *OverviewService) AllWithDue(ctx context.Context, userID string) ([]models.CardDetails, error) {
	userBoards, err := s.boards.VisibleBoards(ctx, userID)
	if err != nil {
		return nil, err
	}

	allDueCards := []models.CardDetails{}
	for i := range userBoards {
		board := &userBoards[i]
		cards, err := s.cards.FindAllWithDue(ctx, board.ID)
		if err != nil {
			return nil, err
		}
		for _, card := range cards {
			if err := s.Enrich(ctx, &card, userID); err != nil {
				s.log.Warn("skipping card, enrichment failed",
					zap.String("board", board.ID), zap.String("card", card.ID), zap.Error(err))
				continue
			}
			allDueCards = append(allDueCards, models.NewCardDetails(card, board))
		}
	}
	return allDueCards, nil
}

// Upcoming returns the user's candidate cards bucketed by due-date
// proximity. On a private board every due-dated card is a candidate; on a
// shared board only cards assigned to the user or to nobody are. A bucket
// with no members is absent from the result.
func (s *OverviewService) Upcoming(ctx context.Context, userID string) (map[string][]models.CardDetails, error) {
	userBoards, err := s.boards.VisibleBoards(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := make(map[string][]models.CardDetails)
	for i := range userBoards {
		board := &userBoards[i]

		var cards []models.Card
		if !board.Shared() {
			// private board: get cards with due date
			cards, err = s.cards.FindAllWithDue(ctx, board.ID)
		} else {
			// shared board: get all my assigned or unassigned cards
			cards, err = s.cards.FindToMeOrNotAssigned(ctx, board.ID, userID)
		}
		if err != nil {
			return nil, err
		}

		for _, card := range cards {
			if err := s.Enrich(ctx, &card, userID); err != nil {
				s.log.Warn("skipping card, enrichment failed",
					zap.String("board", board.ID), zap.String("card", card.ID), zap.Error(err))
				continue
			}
			key := s.bucket(&card)
			overview[key] = append(overview[key], models.NewCardDetails(card, board))
		}
	}
	return overview, nil
}

// bucket classifies one card. The chain order matters: today and tomorrow
// must win before the seven-day window.
func (s *OverviewService) bucket(card *models.Card) string {
	diffDays, ok := card.DaysUntilDue(s.now())
	switch {
	case !ok:
		return models.BucketNoDue
	case diffDays < 0:
		return models.BucketOverdue
	case diffDays == 0:
		return models.BucketToday
	case diffDays == 1:
		return models.BucketTomorrow
	case diffDays <= 7:
		return models.BucketNextSevenDays
	default:
		return models.BucketLater
	}
}
