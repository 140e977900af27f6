package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/matchbox/internal/api"
	"github.com/dmitrijs2005/matchbox/internal/catalog"
	"github.com/dmitrijs2005/matchbox/internal/common"
)

// fakeClient implements client.Client with canned data and records calls.
type fakeClient struct {
	actors   map[string]catalog.Actor
	listings []catalog.Listing
	records  map[string]api.Record

	pingErr   error
	saveErr   error
	uploadURL string

	uploads  []string
	attached map[string]string
	closed   bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		actors: map[string]catalog.Actor{
			"u_me":   {ID: "u_me", Name: "Me", Provider: "email"},
			"u_maya": {ID: "u_maya", Name: "Maya", Provider: "facebook"},
		},
		listings: []catalog.Listing{
			{ID: "p1", OwnerID: "u_maya", Name: "Maya"},
			{ID: "p2", OwnerID: "u_alex", Name: "Alex"},
			{ID: "p3", OwnerID: "u_me", Name: "Me"},
		},
		records:  map[string]api.Record{},
		attached: map[string]string{},
	}
}

func (f *fakeClient) Close() error { f.closed = true; return nil }

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) SignIn(_ context.Context, provider, actorID string) (catalog.Actor, error) {
	if actorID != "" {
		a, ok := f.actors[actorID]
		if !ok {
			return catalog.Actor{}, fmt.Errorf("actor %q: %w", actorID, common.ErrorNotFound)
		}
		return a, nil
	}
	for _, a := range f.actors {
		if a.Provider == provider {
			return a, nil
		}
	}
	return f.actors["u_me"], nil
}

func (f *fakeClient) ListListings(context.Context) ([]catalog.Listing, error) {
	return f.listings, nil
}

func (f *fakeClient) ListRecords(context.Context) ([]api.Record, error) {
	out := make([]api.Record, 0, len(f.records))
	for _, id := range []string{"r1", "r2", "r3"} {
		if r, ok := f.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeClient) GetRecord(_ context.Context, id string) (api.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return api.Record{}, fmt.Errorf("record %q: %w", id, common.ErrorNotFound)
	}
	return r, nil
}

func (f *fakeClient) CreateSave(_ context.Context, listingID string) (api.Record, bool, error) {
	if f.saveErr != nil {
		return api.Record{}, false, f.saveErr
	}
	for _, r := range f.records {
		if r.ListingID == listingID {
			return r, false, nil
		}
	}
	r := api.Record{ID: fmt.Sprintf("r%d", len(f.records)+1), ListingID: listingID, SavedBy: "u_me", Status: "pending"}
	for _, l := range f.listings {
		if l.ID == listingID {
			r.OwnerID = l.OwnerID
		}
	}
	f.records[r.ID] = r
	return r, true, nil
}

func (f *fakeClient) RequestReveal(_ context.Context, id string) (api.Record, error) {
	r := f.records[id]
	r.Revealed, r.Status = true, "revealed"
	f.records[id] = r
	return r, nil
}

func (f *fakeClient) GenerateReplies(context.Context, string) ([]string, error) {
	return []string{"a", "b", "c"}, nil
}

func (f *fakeClient) SendMessage(_ context.Context, id, text string) (api.Record, error) {
	r := f.records[id]
	r.Messages = append(r.Messages, api.Message{SenderID: "u_me", Text: text})
	f.records[id] = r
	return r, nil
}

func (f *fakeClient) RequestAudioUpload(_ context.Context, id, digest string) (api.AudioUploadResponse, error) {
	f.uploads = append(f.uploads, digest)
	key := "audio/" + id + "/" + digest + ".webm"
	resp := api.AudioUploadResponse{Key: key}
	if f.uploadURL != "" {
		resp.UploadURL = f.uploadURL + "/" + key
	}
	return resp, nil
}

func (f *fakeClient) AttachAudio(_ context.Context, id, ref string) (api.Record, error) {
	f.attached[id] = ref
	r := f.records[id]
	r.Attachment = &api.Attachment{Ref: ref}
	f.records[id] = r
	return r, nil
}

func (f *fakeClient) GetAudioURL(_ context.Context, id string) (api.AudioURLResponse, error) {
	ref, ok := f.attached[id]
	if !ok {
		return api.AudioURLResponse{}, fmt.Errorf("%w: no attachment", common.ErrorInvalidState)
	}
	return api.AudioURLResponse{URL: "http://s3.local/" + ref}, nil
}
