package services

import (
	"context"
	"database/sql"
	"slices"

	"github.com/dmitrijs2005/matchbox/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/matchbox/internal/common"
	"github.com/dmitrijs2005/matchbox/internal/dbx"
)

// Deck is one actor's local view of the daily matches.
type Deck struct {
	Saved  []string `json:"saved"`
	Passed []string `json:"passed"`
}

type demoState struct {
	Actors map[string]Deck `json:"actors"`
}

// DeckStore keeps every actor's deck in one JSON document under
// common.ClientStateKey.
type DeckStore struct {
	db *sql.DB
}

func NewDeckStore(db *sql.DB) *DeckStore {
	return &DeckStore{db: db}
}

func (d *DeckStore) Get(ctx context.Context, actorID string) (Deck, error) {
	var st demoState
	if _, err := metadata.GetJSON(ctx, metadata.NewSQLiteRepository(d.db), common.ClientStateKey, &st); err != nil {
		return Deck{}, err
	}
	return st.Actors[actorID], nil
}

func (d *DeckStore) Pass(ctx context.Context, actorID, listingID string) error {
	return d.update(ctx, actorID, func(deck *Deck) {
		deck.Passed = appendUnique(deck.Passed, listingID)
	})
}

func (d *DeckStore) MarkSaved(ctx context.Context, actorID, listingID string) error {
	return d.update(ctx, actorID, func(deck *Deck) {
		deck.Saved = appendUnique(deck.Saved, listingID)
	})
}

// ResetPassed brings passed listings back into the actor's matches.
func (d *DeckStore) ResetPassed(ctx context.Context, actorID string) error {
	return d.update(ctx, actorID, func(deck *Deck) {
		deck.Passed = nil
	})
}

func (d *DeckStore) update(ctx context.Context, actorID string, fn func(*Deck)) error {
	return dbx.WithTx(ctx, d.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		var st demoState
		if _, err := metadata.GetJSON(ctx, repo, common.ClientStateKey, &st); err != nil {
			return err
		}
		if st.Actors == nil {
			st.Actors = map[string]Deck{}
		}

		deck := st.Actors[actorID]
		fn(&deck)
		st.Actors[actorID] = deck

		return metadata.SetJSON(ctx, repo, common.ClientStateKey, st)
	})
}

func appendUnique(list []string, id string) []string {
	if slices.Contains(list, id) {
		return list
	}
	return append(list, id)
}
