package services

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/matchbox/internal/api"
	"github.com/dmitrijs2005/matchbox/internal/catalog"
	"github.com/dmitrijs2005/matchbox/internal/client/client"
)

// HistoryItem is a record as shown in the interaction history.
type HistoryItem struct {
	Record      api.Record
	ListingName string
	// Incoming is true when the current actor owns the saved listing.
	Incoming bool
}

// MatchService covers the deck (matches, pass, save) and every ledger action
// on a record, always on behalf of the session's actor.
type MatchService interface {
	Matches(ctx context.Context) ([]catalog.Listing, error)
	Pass(ctx context.Context, listingID string) error
	Save(ctx context.Context, listingID string) (api.Record, bool, error)
	ResetDeck(ctx context.Context) error
	History(ctx context.Context) ([]HistoryItem, error)
	Record(ctx context.Context, recordID string) (api.Record, error)
	Reveal(ctx context.Context, recordID string) (api.Record, error)
	Replies(ctx context.Context, recordID string) ([]string, error)
	Send(ctx context.Context, recordID, text string) (api.Record, error)
}

type matchService struct {
	client  client.Client
	session *Session
	deck    *DeckStore
}

func NewMatchService(c client.Client, session *Session, deck *DeckStore) MatchService {
	return &matchService{client: c, session: session, deck: deck}
}

// Matches lists the listings the actor can still act on: not their own,
// not passed and not already saved.
func (m *matchService) Matches(ctx context.Context) ([]catalog.Listing, error) {
	actor, err := m.session.Actor()
	if err != nil {
		return nil, err
	}

	listings, err := m.client.ListListings(ctx)
	if err != nil {
		return nil, err
	}
	deck, err := m.deck.Get(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Listing, 0, len(listings))
	for _, l := range listings {
		if l.OwnerID == actor.ID || slices.Contains(deck.Passed, l.ID) || slices.Contains(deck.Saved, l.ID) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *matchService) Pass(ctx context.Context, listingID string) error {
	actor, err := m.session.Actor()
	if err != nil {
		return err
	}
	return m.deck.Pass(ctx, actor.ID, listingID)
}

// Save creates (or returns the existing) save record on the server, then
// adds the listing to the local saved deck.
func (m *matchService) Save(ctx context.Context, listingID string) (api.Record, bool, error) {
	actor, err := m.session.Actor()
	if err != nil {
		return api.Record{}, false, err
	}

	rec, created, err := m.client.CreateSave(ctx, listingID)
	if err != nil {
		return api.Record{}, false, err
	}
	if err := m.deck.MarkSaved(ctx, actor.ID, listingID); err != nil {
		return api.Record{}, false, err
	}
	return rec, created, nil
}

func (m *matchService) ResetDeck(ctx context.Context) error {
	actor, err := m.session.Actor()
	if err != nil {
		return err
	}
	return m.deck.ResetPassed(ctx, actor.ID)
}

func (m *matchService) History(ctx context.Context) ([]HistoryItem, error) {
	actor, err := m.session.Actor()
	if err != nil {
		return nil, err
	}

	records, err := m.client.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	listings, err := m.client.ListListings(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(listings))
	for _, l := range listings {
		names[l.ID] = l.Name
	}

	items := make([]HistoryItem, 0, len(records))
	for _, r := range records {
		name := names[r.ListingID]
		if name == "" {
			name = r.ListingID
		}
		items = append(items, HistoryItem{Record: r, ListingName: name, Incoming: r.OwnerID == actor.ID})
	}
	return items, nil
}

func (m *matchService) Record(ctx context.Context, recordID string) (api.Record, error) {
	if _, err := m.session.Actor(); err != nil {
		return api.Record{}, err
	}
	return m.client.GetRecord(ctx, recordID)
}

func (m *matchService) Reveal(ctx context.Context, recordID string) (api.Record, error) {
	if _, err := m.session.Actor(); err != nil {
		return api.Record{}, err
	}
	return m.client.RequestReveal(ctx, recordID)
}

func (m *matchService) Replies(ctx context.Context, recordID string) ([]string, error) {
	if _, err := m.session.Actor(); err != nil {
		return nil, err
	}
	return m.client.GenerateReplies(ctx, recordID)
}

func (m *matchService) Send(ctx context.Context, recordID, text string) (api.Record, error) {
	if _, err := m.session.Actor(); err != nil {
		return api.Record{}, err
	}
	return m.client.SendMessage(ctx, recordID, text)
}
