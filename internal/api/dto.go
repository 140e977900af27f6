package api

import (
	"time"

	"github.com/dmitrijs2005/matchbox/internal/catalog"
	"github.com/dmitrijs2005/matchbox/internal/ledger"
)

type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// SignInRequest picks an actor by provider, or directly by id when ActorID
// is set.
type SignInRequest struct {
	Provider string `json:"provider,omitempty"`
	ActorID  string `json:"actor_id,omitempty"`
}

type SignInResponse struct {
	AccessToken string        `json:"access_token"`
	Actor       catalog.Actor `json:"actor"`
}

type ListListingsResponse struct {
	Listings []catalog.Listing `json:"listings"`
}

type RecordRequest struct {
	RecordID string `json:"record_id"`
}

type RecordResponse struct {
	Record Record `json:"record"`
}

type ListRecordsResponse struct {
	Records []Record `json:"records"`
}

type CreateSaveRequest struct {
	ListingID string `json:"listing_id"`
}

type CreateSaveResponse struct {
	Record  Record `json:"record"`
	Created bool   `json:"created"`
}

type GenerateRepliesResponse struct {
	Replies []string `json:"replies"`
}

type SendMessageRequest struct {
	RecordID string `json:"record_id"`
	Text     string `json:"text"`
}

// AudioUploadRequest asks for a storage slot for a clip with the given
// content digest (hex).
type AudioUploadRequest struct {
	RecordID string `json:"record_id"`
	Digest   string `json:"digest"`
}

// AudioUploadResponse carries the storage key to attach. UploadURL is empty
// when the server has no object storage configured.
type AudioUploadResponse struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AttachAudioRequest struct {
	RecordID string `json:"record_id"`
	Ref      string `json:"ref"`
}

type AudioURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Message struct {
	SenderID string    `json:"sender_id"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sent_at"`
}

type Attachment struct {
	Ref        string    `json:"ref"`
	AttachedAt time.Time `json:"attached_at"`
}

// Record is the wire form of a ledger record, with its owner and derived
// status resolved by the server.
type Record struct {
	ID               string      `json:"id"`
	SavedBy          string      `json:"saved_by"`
	ListingID        string      `json:"listing_id"`
	OwnerID          string      `json:"owner_id"`
	Status           string      `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	ExpiresAt        *time.Time  `json:"expires_at,omitempty"`
	Revealed         bool        `json:"revealed"`
	RevealedAt       *time.Time  `json:"revealed_at,omitempty"`
	RevealExpiresAt  *time.Time  `json:"reveal_expires_at,omitempty"`
	GeneratedReplies []string    `json:"generated_replies,omitempty"`
	Messages         []Message   `json:"messages,omitempty"`
	Attachment       *Attachment `json:"attachment,omitempty"`
}

// FromRecord converts a ledger record for the wire.
func FromRecord(r ledger.Record, ownerID string, now time.Time) Record {
	out := Record{
		ID:               r.ID,
		SavedBy:          r.SavedBy,
		ListingID:        r.ListingID,
		OwnerID:          ownerID,
		Status:           string(r.Status(now)),
		CreatedAt:        r.CreatedAt,
		ExpiresAt:        optional(r.ExpiresAt),
		Revealed:         r.Revealed,
		RevealedAt:       optional(r.RevealedAt),
		RevealExpiresAt:  optional(r.RevealExpiresAt),
		GeneratedReplies: r.GeneratedReplies,
	}
	for _, m := range r.Messages {
		out.Messages = append(out.Messages, Message{SenderID: m.SenderID, Text: m.Text, SentAt: m.SentAt})
	}
	if r.Attachment != nil {
		out.Attachment = &Attachment{Ref: string(r.Attachment.Ref), AttachedAt: r.Attachment.AttachedAt}
	}
	return out
}

func optional(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
