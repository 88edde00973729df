package events

import (
	"context"

	"github.com/boardkit/boardkit/internal/models"
	"go.uber.org/zap"
)

// AclStore defines the access-control operations needed by the
// CircleListener.
type AclStore interface {
	// DeleteByParticipant removes every ACL entry of the participant across
	// all boards in one statement and returns how many were removed.
	DeleteByParticipant(ctx context.Context, typ models.AclType, participant string) (int64, error)
	// RecordTombstone remembers a circle whose cascade failed so the
	// background sweeper retries it.
	RecordTombstone(ctx context.Context, circleID string) error
}

// CircleListener reacts to circle destruction events by cascading the
// removal of every ACL entry referencing the destroyed circle. Handling is
// idempotent: a redelivered event matches zero entries and changes nothing.
type CircleListener struct {
	acl AclStore
	log *zap.Logger
}

// NewCircleListener constructs a CircleListener with the provided ACL store.
func NewCircleListener(acl AclStore, log *zap.Logger) *CircleListener {
	return &CircleListener{acl: acl, log: log}
}

// Run consumes events from the channel until it closes or the context is
// canceled. Intended to run on its own goroutine, subscribed to
// KindCircleDestroyed.
func (l *CircleListener) Run(ctx context.Context, ch <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			l.Handle(ctx, ev)
		}
	}
}

// Handle processes one event. Events of other kinds are ignored. When the
// cascade fails the circle is tombstoned; the sweeper re-runs the delete
// later, and already-deleted entries are unaffected by the retry.
func (l *CircleListener) Handle(ctx context.Context, ev Event) {
	if ev.Kind != KindCircleDestroyed {
		return
	}
	removed, err := l.acl.DeleteByParticipant(ctx, models.AclTypeCircle, ev.CircleID)
	if err != nil {
		l.log.Error("circle acl cascade failed, tombstoning for retry",
			zap.String("circle", ev.CircleID), zap.Error(err))
		if terr := l.acl.RecordTombstone(ctx, ev.CircleID); terr != nil {
			l.log.Error("failed to record circle tombstone",
				zap.String("circle", ev.CircleID), zap.Error(terr))
		}
		return
	}
	if removed > 0 {
		l.log.Info("removed acl entries for destroyed circle",
			zap.String("circle", ev.CircleID), zap.Int64("removed", removed))
	}
}
