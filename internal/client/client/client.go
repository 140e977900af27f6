package client

import (
	"context"

	"github.com/dmitrijs2005/matchbox/internal/api"
	"github.com/dmitrijs2005/matchbox/internal/catalog"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	SignIn(ctx context.Context, provider, actorID string) (catalog.Actor, error)
	ListListings(ctx context.Context) ([]catalog.Listing, error)
	ListRecords(ctx context.Context) ([]api.Record, error)
	GetRecord(ctx context.Context, recordID string) (api.Record, error)
	CreateSave(ctx context.Context, listingID string) (api.Record, bool, error)
	RequestReveal(ctx context.Context, recordID string) (api.Record, error)
	GenerateReplies(ctx context.Context, recordID string) ([]string, error)
	SendMessage(ctx context.Context, recordID, text string) (api.Record, error)
	RequestAudioUpload(ctx context.Context, recordID, digestHex string) (api.AudioUploadResponse, error)
	AttachAudio(ctx context.Context, recordID, ref string) (api.Record, error)
	GetAudioURL(ctx context.Context, recordID string) (api.AudioURLResponse, error)
}
