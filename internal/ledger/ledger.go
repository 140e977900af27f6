// Package ledger implements the Save-Reveal Ledger: the set of save records,
// their expiry and reveal transitions, who may act on them, and the message
// and attachment history of each record.
//
// All mutations go through one mutex, are validated and applied on a copy,
// persisted, and only then committed. A rejected or failed action leaves
// the ledger untouched. Every returned Record is a detached copy.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/catalog"
	"github.com/dmitrijs2005/matchbox/internal/common"
	"github.com/dmitrijs2005/matchbox/internal/logging"
	"github.com/google/uuid"
)

// Directory resolves listings (and through them, owners) and actors.
// *catalog.Catalog satisfies it.
type Directory interface {
	Listing(id string) (catalog.Listing, error)
	OwnerOf(listingID string) (string, error)
	Actor(id string) (catalog.Actor, error)
}

// StateStore persists the ledger snapshot as a single blob. Get returns
// nil, nil when the key has never been written.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Windows holds the configured durations. Both windows are multiples of Tick.
type Windows struct {
	Tick        time.Duration
	SaveTicks   int
	RevealTicks int
}

// DefaultWindows mirrors the demo: a one-minute tick, saves open for four
// ticks, reveals open for one.
func DefaultWindows() Windows {
	return Windows{Tick: time.Minute, SaveTicks: 4, RevealTicks: 1}
}

func (w Windows) Save() time.Duration   { return time.Duration(w.SaveTicks) * w.Tick }
func (w Windows) Reveal() time.Duration { return time.Duration(w.RevealTicks) * w.Tick }

func (w Windows) validate() error {
	if w.Tick <= 0 || w.SaveTicks <= 0 || w.RevealTicks <= 0 {
		return fmt.Errorf("%w: windows must be positive (tick=%s save=%d reveal=%d)",
			common.ErrorValidation, w.Tick, w.SaveTicks, w.RevealTicks)
	}
	return nil
}

type saveKey struct {
	savedBy   string
	listingID string
}

// Ledger owns all save records.
type Ledger struct {
	mu sync.Mutex

	dir      Directory
	windows  Windows
	replies  ReplyGenerator
	store    StateStore
	stateKey string
	logger   logging.Logger
	newID    func() string

	records map[string]*Record
	bySave  map[saveKey]string
	order   []string
}

type Option func(*Ledger)

// WithStore persists every mutation to store under key and loads the
// existing snapshot on construction.
func WithStore(store StateStore, key string) Option {
	return func(l *Ledger) {
		l.store = store
		l.stateKey = key
	}
}

func WithReplyGenerator(g ReplyGenerator) Option {
	return func(l *Ledger) { l.replies = g }
}

func WithLogger(logger logging.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithIDGenerator overrides record id generation (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// New builds a ledger and, when a store is configured, restores its snapshot.
func New(ctx context.Context, dir Directory, windows Windows, opts ...Option) (*Ledger, error) {
	if dir == nil {
		return nil, errors.New("ledger: nil directory")
	}
	if err := windows.validate(); err != nil {
		return nil, err
	}

	l := &Ledger{
		dir:      dir,
		windows:  windows,
		replies:  TemplateGenerator{},
		stateKey: common.LedgerStateKey,
		logger:   logging.Nop{},
		newID:    uuid.NewString,
		records:  make(map[string]*Record),
		bySave:   make(map[saveKey]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("module", "ledger")

	if err := l.load(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	data, err := l.store.Get(ctx, l.stateKey)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	records, err := DecodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	for i := range records {
		r := records[i]
		key := saveKey{r.SavedBy, r.ListingID}
		if _, dup := l.records[r.ID]; dup {
			return fmt.Errorf("load ledger: duplicate record id %q", r.ID)
		}
		if _, dup := l.bySave[key]; dup {
			return fmt.Errorf("load ledger: duplicate save of %q by %q", r.ListingID, r.SavedBy)
		}
		l.records[r.ID] = &r
		l.bySave[key] = r.ID
		l.order = append(l.order, r.ID)
	}
	l.logger.Info(ctx, "ledger restored", "records", len(records))
	return nil
}

// Windows returns the configured windows.
func (l *Ledger) Windows() Windows { return l.windows }

// CreateSave records initiatorID saving listingID. Saving the same listing
// twice returns the existing record unchanged and created=false.
func (l *Ledger) CreateSave(ctx context.Context, initiatorID, listingID string, now time.Time) (Record, bool, error) {
	if _, err := l.dir.Actor(initiatorID); err != nil {
		return Record{}, false, err
	}
	if _, err := l.dir.Listing(listingID); err != nil {
		return Record{}, false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if id, ok := l.bySave[saveKey{initiatorID, listingID}]; ok {
		return l.records[id].clone(), false, nil
	}

	r := Record{
		ID:        l.newID(),
		SavedBy:   initiatorID,
		ListingID: listingID,
		CreatedAt: now,
		ExpiresAt: now.Add(l.windows.Save()),
	}
	if err := l.commitLocked(ctx, r); err != nil {
		return Record{}, false, err
	}

	l.logger.Info(ctx, "save created", "record_id", r.ID, "saved_by", initiatorID, "listing_id", listingID)
	return r.clone(), true, nil
}

// RequestReveal opens the reveal window. Only the listing owner may call it,
// only once, and only while the save window is open.
func (l *Ledger) RequestReveal(ctx context.Context, actorID, recordID string, now time.Time) (Record, error) {
	return l.mutate(ctx, recordID, func(r *Record) error {
		if err := l.requireOwner(actorID, r, "request a reveal"); err != nil {
			return err
		}
		if r.Revealed {
			return fmt.Errorf("%w: record %s is already revealed", common.ErrorInvalidState, r.ID)
		}
		if r.saveWindowLapsed(now) {
			return fmt.Errorf("%w: save window of record %s has lapsed", common.ErrorInvalidState, r.ID)
		}

		r.Revealed = true
		r.RevealedAt = now
		r.RevealExpiresAt = now.Add(l.windows.Reveal())
		return nil
	})
}

// GenerateReplies replaces the record's suggestions with ReplyCount fresh
// ones. The caller must own the listing and the record must be revealed;
// once the reveal window closes generation is refused.
func (l *Ledger) GenerateReplies(ctx context.Context, actorID, recordID string, now time.Time) ([]string, error) {
	rec, err := l.mutate(ctx, recordID, func(r *Record) error {
		if err := l.requireOwner(actorID, r, "generate replies"); err != nil {
			return err
		}
		if !r.Revealed {
			return fmt.Errorf("%w: record %s must be revealed before generating replies", common.ErrorForbidden, r.ID)
		}
		if r.revealWindowClosed(now) {
			return fmt.Errorf("%w: reveal window of record %s is closed", common.ErrorInvalidState, r.ID)
		}

		listing, err := l.dir.Listing(r.ListingID)
		if err != nil {
			return err
		}
		replies := l.replies.Generate(listing)
		if len(replies) != ReplyCount {
			return fmt.Errorf("%w: generator returned %d replies", common.ErrorInternal, len(replies))
		}
		r.GeneratedReplies = replies
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec.GeneratedReplies, nil
}

// SendMessage appends text from actorID as given. Either participant may
// send, whether or not the record is revealed. SentAt never goes backwards.
func (l *Ledger) SendMessage(ctx context.Context, actorID, recordID, text string, now time.Time) (Record, error) {
	if strings.TrimSpace(text) == "" {
		return Record{}, fmt.Errorf("%w: message text is empty", common.ErrorValidation)
	}

	return l.mutate(ctx, recordID, func(r *Record) error {
		owner, err := l.ownerOf(r)
		if err != nil {
			return err
		}
		if actorID != r.SavedBy && actorID != owner {
			return fmt.Errorf("%w: %s is not a participant of record %s", common.ErrorForbidden, actorID, r.ID)
		}

		sentAt := now
		if last := r.lastSentAt(); sentAt.Before(last) {
			sentAt = last
		}
		r.Messages = append(r.Messages, Message{SenderID: actorID, Text: text, SentAt: sentAt})
		return nil
	})
}

// AttachAudio sets the record's attachment, replacing any previous one.
// Only the owner may attach, and only inside an open reveal window.
func (l *Ledger) AttachAudio(ctx context.Context, actorID, recordID string, ref PayloadRef, now time.Time) (Record, error) {
	return l.mutate(ctx, recordID, func(r *Record) error {
		if err := l.attachAllowed(actorID, r, now); err != nil {
			return err
		}
		if strings.TrimSpace(string(ref)) == "" {
			return fmt.Errorf("%w: empty payload reference", common.ErrorValidation)
		}

		r.Attachment = &Attachment{Ref: ref, AttachedAt: now}
		return nil
	})
}

// CheckAttach reports whether AttachAudio by actorID would currently be
// accepted, without changing anything.
func (l *Ledger) CheckAttach(actorID, recordID string, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.records[recordID]
	if !ok {
		return fmt.Errorf("record %q: %w", recordID, common.ErrorNotFound)
	}
	return l.attachAllowed(actorID, r, now)
}

func (l *Ledger) attachAllowed(actorID string, r *Record, now time.Time) error {
	if err := l.requireOwner(actorID, r, "attach audio"); err != nil {
		return err
	}
	if !r.Revealed {
		return fmt.Errorf("%w: record %s is not revealed", common.ErrorInvalidState, r.ID)
	}
	if r.revealWindowClosed(now) {
		return fmt.Errorf("%w: reveal window of record %s is closed", common.ErrorInvalidState, r.ID)
	}
	return nil
}

// ExpireSweep marks unrevealed records whose save window has passed as
// lapsed and revealed records whose reveal window has passed as closed.
// It returns the ids that changed in this call, in creation order.
func (l *Ledger) ExpireSweep(ctx context.Context, now time.Time) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var changed []Record
	for _, id := range l.order {
		r := l.records[id]
		switch {
		case !r.Revealed && !r.SaveLapsed && !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt):
			c := r.clone()
			c.SaveLapsed = true
			changed = append(changed, c)
		case r.Revealed && !r.RevealClosed && !r.RevealExpiresAt.IsZero() && now.After(r.RevealExpiresAt):
			c := r.clone()
			c.RevealClosed = true
			changed = append(changed, c)
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}

	if err := l.commitLocked(ctx, changed...); err != nil {
		return nil, err
	}

	ids := make([]string, len(changed))
	for i, c := range changed {
		ids[i] = c.ID
	}
	l.logger.Debug(ctx, "expiry sweep", "transitioned", len(ids))
	return ids, nil
}

// Get returns a copy of one record.
func (l *Ledger) Get(recordID string) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.records[recordID]
	if !ok {
		return Record{}, fmt.Errorf("record %q: %w", recordID, common.ErrorNotFound)
	}
	return r.clone(), nil
}

// List returns copies of all records in creation order.
func (l *Ledger) List() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Record, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.records[id].clone())
	}
	return out
}

// ListFor returns the records actorID takes part in, as initiator or as
// the listing owner, in creation order.
func (l *Ledger) ListFor(actorID string) []Record {
	all := l.List()
	out := all[:0]
	for _, r := range all {
		owner, err := l.ownerOf(&r)
		if err != nil {
			continue
		}
		if r.SavedBy == actorID || owner == actorID {
			out = append(out, r)
		}
	}
	return out
}

// OwnerOf resolves the owner of a record's listing.
func (l *Ledger) OwnerOf(r Record) (string, error) {
	return l.ownerOf(&r)
}

func (l *Ledger) ownerOf(r *Record) (string, error) {
	return l.dir.OwnerOf(r.ListingID)
}

func (l *Ledger) requireOwner(actorID string, r *Record, action string) error {
	owner, err := l.ownerOf(r)
	if err != nil {
		return err
	}
	if actorID != owner {
		return fmt.Errorf("%w: only the owner of listing %s may %s", common.ErrorForbidden, r.ListingID, action)
	}
	return nil
}

// mutate applies fn to a copy of the record and commits it only if fn and
// persistence both succeed.
func (l *Ledger) mutate(ctx context.Context, recordID string, fn func(r *Record) error) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, ok := l.records[recordID]
	if !ok {
		return Record{}, fmt.Errorf("record %q: %w", recordID, common.ErrorNotFound)
	}

	next := cur.clone()
	if err := fn(&next); err != nil {
		return Record{}, err
	}
	if err := l.commitLocked(ctx, next); err != nil {
		return Record{}, err
	}
	return next.clone(), nil
}

// commitLocked persists the ledger with changed records substituted (or
// appended when new), then installs them in memory. l.mu must be held.
func (l *Ledger) commitLocked(ctx context.Context, changed ...Record) error {
	if l.store != nil {
		all := make([]Record, 0, len(l.order)+len(changed))
		pos := make(map[string]int, len(l.order))
		for _, id := range l.order {
			pos[id] = len(all)
			all = append(all, *l.records[id])
		}
		for _, c := range changed {
			if i, ok := pos[c.ID]; ok {
				all[i] = c
			} else {
				all = append(all, c)
			}
		}

		data, err := EncodeSnapshot(all)
		if err != nil {
			return fmt.Errorf("encode ledger: %w", err)
		}
		if err := l.store.Set(ctx, l.stateKey, data); err != nil {
			l.logger.Error(ctx, "ledger persist failed", "error", err)
			return fmt.Errorf("persist ledger: %w", err)
		}
	}

	for i := range changed {
		c := changed[i]
		if _, ok := l.records[c.ID]; !ok {
			l.order = append(l.order, c.ID)
			l.bySave[saveKey{c.SavedBy, c.ListingID}] = c.ID
		}
		l.records[c.ID] = &c
	}
	return nil
}
