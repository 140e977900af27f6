package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/timex"
)

// SnapshotVersion is written into every persisted snapshot. Loading any
// other version fails.
const SnapshotVersion = 1

type snapshotDoc struct {
	Version int           `json:"version"`
	Records []snapshotRec `json:"records"`
}

type snapshotRec struct {
	ID               string         `json:"id"`
	SavedBy          string         `json:"saved_by"`
	ListingID        string         `json:"listing_id"`
	CreatedAt        int64          `json:"created_at"`
	ExpiresAt        *int64         `json:"expires_at,omitempty"`
	Revealed         bool           `json:"revealed"`
	RevealedAt       *int64         `json:"revealed_at,omitempty"`
	RevealExpiresAt  *int64         `json:"reveal_expires_at,omitempty"`
	GeneratedReplies []string       `json:"generated_replies,omitempty"`
	Messages         []snapshotMsg  `json:"messages"`
	Attachment       *snapshotMedia `json:"attachment,omitempty"`
	SaveLapsed       bool           `json:"save_lapsed,omitempty"`
	RevealClosed     bool           `json:"reveal_closed,omitempty"`
}

type snapshotMsg struct {
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
	SentAt   int64  `json:"sent_at"`
}

type snapshotMedia struct {
	Ref        string `json:"ref"`
	AttachedAt int64  `json:"attached_at"`
}

// EncodeSnapshot serializes records (in the given order) into the persisted
// JSON form. Timestamps are unix milliseconds.
func EncodeSnapshot(records []Record) ([]byte, error) {
	doc := snapshotDoc{Version: SnapshotVersion, Records: make([]snapshotRec, 0, len(records))}

	for _, r := range records {
		sr := snapshotRec{
			ID:               r.ID,
			SavedBy:          r.SavedBy,
			ListingID:        r.ListingID,
			CreatedAt:        r.CreatedAt.UnixMilli(),
			ExpiresAt:        timex.OptionalMilli(r.ExpiresAt),
			Revealed:         r.Revealed,
			RevealedAt:       timex.OptionalMilli(r.RevealedAt),
			RevealExpiresAt:  timex.OptionalMilli(r.RevealExpiresAt),
			GeneratedReplies: r.GeneratedReplies,
			Messages:         make([]snapshotMsg, 0, len(r.Messages)),
			SaveLapsed:       r.SaveLapsed,
			RevealClosed:     r.RevealClosed,
		}
		for _, m := range r.Messages {
			sr.Messages = append(sr.Messages, snapshotMsg{SenderID: m.SenderID, Text: m.Text, SentAt: m.SentAt.UnixMilli()})
		}
		if r.Attachment != nil {
			sr.Attachment = &snapshotMedia{Ref: string(r.Attachment.Ref), AttachedAt: r.Attachment.AttachedAt.UnixMilli()}
		}
		doc.Records = append(doc.Records, sr)
	}

	return json.Marshal(doc)
}

// DecodeSnapshot parses data produced by EncodeSnapshot.
func DecodeSnapshot(data []byte) ([]Record, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", doc.Version)
	}

	records := make([]Record, 0, len(doc.Records))
	for i, sr := range doc.Records {
		if sr.ID == "" || sr.SavedBy == "" || sr.ListingID == "" {
			return nil, fmt.Errorf("snapshot record #%d is incomplete", i)
		}
		r := Record{
			ID:               sr.ID,
			SavedBy:          sr.SavedBy,
			ListingID:        sr.ListingID,
			CreatedAt:        millis(sr.CreatedAt),
			ExpiresAt:        timex.FromOptionalMilli(sr.ExpiresAt),
			Revealed:         sr.Revealed,
			RevealedAt:       timex.FromOptionalMilli(sr.RevealedAt),
			RevealExpiresAt:  timex.FromOptionalMilli(sr.RevealExpiresAt),
			GeneratedReplies: sr.GeneratedReplies,
			SaveLapsed:       sr.SaveLapsed,
			RevealClosed:     sr.RevealClosed,
		}
		for _, m := range sr.Messages {
			r.Messages = append(r.Messages, Message{SenderID: m.SenderID, Text: m.Text, SentAt: millis(m.SentAt)})
		}
		if sr.Attachment != nil {
			r.Attachment = &Attachment{Ref: PayloadRef(sr.Attachment.Ref), AttachedAt: millis(sr.Attachment.AttachedAt)}
		}
		records = append(records, r)
	}

	return records, nil
}

func millis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
