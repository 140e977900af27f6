package ledger

import (
	"slices"
	"time"
)

// PayloadRef is an opaque reference to captured media (a storage key).
// The ledger never looks inside it.
type PayloadRef string

// Status is the derived, read-side state of a record at a given instant.
type Status string

const (
	StatusPending  Status = "pending"  // saved, waiting for the owner to reveal
	StatusLapsed   Status = "lapsed"   // save window passed without a reveal
	StatusRevealed Status = "revealed" // reveal window open
	StatusClosed   Status = "closed"   // reveal window passed
)

// Message is one entry of a record's append-only conversation.
type Message struct {
	SenderID string
	Text     string
	SentAt   time.Time
}

// Attachment is the single audio clip attached inside a reveal window.
type Attachment struct {
	Ref        PayloadRef
	AttachedAt time.Time
}

// Record tracks one actor's save of one listing. Optional timestamps are
// unset when zero.
type Record struct {
	ID        string
	SavedBy   string
	ListingID string

	CreatedAt time.Time
	ExpiresAt time.Time

	Revealed        bool
	RevealedAt      time.Time
	RevealExpiresAt time.Time

	GeneratedReplies []string
	Messages         []Message
	Attachment       *Attachment

	// Set by ExpireSweep. Actions also compare deadlines against their own
	// clock, so these only make an observed expiry sticky.
	SaveLapsed   bool
	RevealClosed bool
}

// Status derives the record state at now.
func (r Record) Status(now time.Time) Status {
	if r.Revealed {
		if r.revealWindowClosed(now) {
			return StatusClosed
		}
		return StatusRevealed
	}
	if r.saveWindowLapsed(now) {
		return StatusLapsed
	}
	return StatusPending
}

func (r Record) saveWindowLapsed(now time.Time) bool {
	return r.SaveLapsed || (!r.ExpiresAt.IsZero() && now.After(r.ExpiresAt))
}

func (r Record) revealWindowClosed(now time.Time) bool {
	return r.RevealClosed || (!r.RevealExpiresAt.IsZero() && now.After(r.RevealExpiresAt))
}

// lastSentAt returns the timestamp of the newest message, or the zero time.
func (r Record) lastSentAt() time.Time {
	if len(r.Messages) == 0 {
		return time.Time{}
	}
	return r.Messages[len(r.Messages)-1].SentAt
}

func (r Record) clone() Record {
	c := r
	c.GeneratedReplies = slices.Clone(r.GeneratedReplies)
	c.Messages = slices.Clone(r.Messages)
	if r.Attachment != nil {
		a := *r.Attachment
		c.Attachment = &a
	}
	return c
}
