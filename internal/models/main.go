// Package models defines the core data structures for boards, access-control
// entries, cards and their presentation forms.
package models

import (
	"math"
	"time"
)

// AclType identifies the kind of participant an access-control entry grants
// board access to.
type AclType string

const (
	// AclTypeUser grants access to a single user.
	AclTypeUser AclType = "user"
	// AclTypeGroup grants access to every member of a directory group.
	AclTypeGroup AclType = "group"
	// AclTypeCircle grants access to every member of an externally managed circle.
	AclTypeCircle AclType = "circle"
)

// Acl is a single grant of access to a board for a participant.
type Acl struct {
	// ID is the unique identifier of the entry.
	ID string `json:"id"`
	// BoardID references the board the entry belongs to.
	BoardID string `json:"boardId"`
	// Type is the participant kind (user, group or circle).
	Type AclType `json:"type"`
	// Participant is the opaque identifier of the user, group or circle.
	Participant string `json:"participant"`
	// PermissionRead allows viewing the board and its cards.
	PermissionRead bool `json:"permissionRead"`
	// PermissionEdit allows modifying cards on the board.
	PermissionEdit bool `json:"permissionEdit"`
	// PermissionManage allows modifying the board itself and its ACL.
	PermissionManage bool `json:"permissionManage"`
}

// User represents a directory identity. The service never inspects UIDs
// beyond equality; DisplayName exists for presentation only.
type User struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayname"`
}

// Label is a colored tag attached to cards of one board.
type Label struct {
	ID      string `json:"id"`
	BoardID string `json:"boardId"`
	Title   string `json:"title"`
	Color   string `json:"color,omitempty"`
}

// Board represents a kanban board with its access-control entries.
type Board struct {
	// ID is the unique identifier of the board.
	ID string `json:"id"`
	// Title is the display name of the board.
	Title string `json:"title"`
	// Owner is the UID of the board owner.
	Owner string `json:"owner"`
	// Acl holds every access grant of the board. A board with no entries
	// is private and visible only to its owner.
	Acl []Acl `json:"acl"`
	// CoverImages toggles attachment cover rendering on the board's cards.
	CoverImages bool `json:"coverImages"`
	// Archived boards are hidden from overview queries.
	Archived bool `json:"archived"`
}

// Shared reports whether the board has at least one access-control entry.
func (b *Board) Shared() bool {
	return len(b.Acl) > 0
}

// Card holds the persisted card fields plus derived view-state populated by
// the enrichment step. Derived fields are never written back to storage and
// are recomputed on every read.
type Card struct {
	// ID is the unique identifier of the card.
	ID string `json:"id"`
	// Title is the card title.
	Title string `json:"title"`
	// Description is the free-form card body.
	Description string `json:"description,omitempty"`
	// BoardID references the board the card transitively belongs to.
	BoardID string `json:"boardId"`
	// StackID references the list/column holding the card.
	StackID string `json:"stackId"`
	// Order positions the card within its stack.
	Order int64 `json:"order"`
	// Duedate is the optional due timestamp of the card.
	Duedate *time.Time `json:"duedate,omitempty"`
	// Done marks a completed card; done cards leave the overview.
	Done bool `json:"done"`

	// Derived fields below are transient view-state.

	// Owner is the resolved identity of the card owner.
	Owner User `json:"owner"`
	// AssignedUsers lists every user currently assigned to the card.
	AssignedUsers []User `json:"assignedUsers"`
	// Labels lists every label currently attached to the card.
	Labels []Label `json:"labels"`
	// AttachmentCount is the number of attachments on the card.
	AttachmentCount int `json:"attachmentCount"`
	// CommentsUnread counts comments newer than the viewer's read mark.
	CommentsUnread int `json:"commentsUnread"`
}

// DaysUntilDue returns the whole-day distance from now to the card's due
// date, negative when overdue, and false when no due date is set. Both ends
// are truncated to local midnight so the result is a calendar-day difference.
func (c *Card) DaysUntilDue(now time.Time) (int, bool) {
	if c.Duedate == nil {
		return 0, false
	}
	diff := startOfDay(*c.Duedate).Sub(startOfDay(now))
	// Round absorbs DST-shortened or -lengthened days.
	return int(math.Round(diff.Hours() / 24)), true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Bucket names for the upcoming-cards overview. Every card falls into
// exactly one bucket.
const (
	BucketOverdue       = "overdue"
	BucketToday         = "today"
	BucketTomorrow      = "tomorrow"
	BucketNextSevenDays = "nextSevenDays"
	BucketLater         = "later"
	BucketNoDue         = "nodue"
)

// BoardSummary is the board context carried alongside a card presentation.
type BoardSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Shared bool   `json:"shared"`
}

// CardDetails is the presentation record returned by overview queries:
// an enriched card together with its parent board context.
type CardDetails struct {
	Card
	// Board carries the parent board's presentation context.
	Board BoardSummary `json:"board"`
}

// NewCardDetails wraps an enriched card with its parent board's context.
func NewCardDetails(card Card, board *Board) CardDetails {
	return CardDetails{
		Card: card,
		Board: BoardSummary{
			ID:     board.ID,
			Title:  board.Title,
			Shared: board.Shared(),
		},
	}
}
