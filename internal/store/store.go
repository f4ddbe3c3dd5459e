// Package store holds the authoritative in-memory entry collection and
// flushes it to a Persister after every mutation.
package store

import (
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/logging"
)

// Persister loads and saves the whole collection.
type Persister interface {
	Load() ([]entry.Entry, error)
	Save([]entry.Entry) error
}

// ChangeKind identifies what a mutation did.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeUpdated  ChangeKind = "updated"
	ChangeUnlocked ChangeKind = "unlocked"
	ChangeCleared  ChangeKind = "cleared"
)

// Change is delivered to subscribers after a mutation is applied.
type Change struct {
	Kind ChangeKind
	IDs  []string
	At   time.Time
}

// Listener receives changes. It runs outside the store lock and may call back
// into the store.
type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}

// Store is safe for concurrent use. Every mutation holds the lock through the
// synchronous flush, so the persisted document always matches some
// serialization of the mutations.
type Store struct {
	mu        sync.Mutex
	entries   []entry.Entry
	index     map[string]int
	persister Persister
	log       logrus.FieldLogger
	now       func() time.Time

	subMu  sync.Mutex
	subs   []subscription
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = logging.OrDiscard(log) }
}

// WithClock overrides time.Now for defaults stamped by Add.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the collection from p.
func Open(p Persister, opts ...Option) (*Store, error) {
	entries, err := p.Load()
	if err != nil {
		return nil, err
	}

	s := &Store{
		persister: p,
		log:       logging.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.entries = entry.CloneAll(entries)
	s.reindex()

	s.log.WithField("entries", len(s.entries)).Debug("store opened")
	return s, nil
}

// Add appends e. An empty id is filled in; an id already present is rejected
// with DUPLICATE_ID and nothing is written. A WRITE_FAILURE still leaves e in memory.
func (s *Store) Add(e entry.Entry) (entry.Entry, error) {
	s.mu.Lock()

	e = e.Clone()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, ok := s.index[e.ID]; ok {
		s.mu.Unlock()
		return entry.Entry{}, errors.NewDuplicateID(e.ID)
	}
	if e.CreationDate.IsZero() {
		e.CreationDate = s.now().UTC()
	}
	if e.EarliestUnlock.IsZero() {
		e.EarliestUnlock = e.CreationDate
	}

	s.entries = append(s.entries, e)
	s.index[e.ID] = len(s.entries) - 1
	err := s.flushLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeAdded, IDs: []string{e.ID}, At: s.now()})
	return e.Clone(), err
}

// Update replaces the stored entry with the same id. Creation date and lock
// state are kept from the stored entry: an unlocked entry stays unlocked with
// its original timestamp and a locked one only unlocks through ReevaluateAll.
func (s *Store) Update(e entry.Entry) (entry.Entry, error) {
	s.mu.Lock()

	i, ok := s.index[e.ID]
	if !ok {
		s.mu.Unlock()
		return entry.Entry{}, errors.NewNotFound(e.ID)
	}
	updated := s.merge(s.entries[i], e)
	s.entries[i] = updated
	err := s.flushLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeUpdated, IDs: []string{e.ID}, At: s.now()})
	return updated.Clone(), err
}

// Put updates e if its id exists, otherwise adds it. created reports which.
func (s *Store) Put(e entry.Entry) (result entry.Entry, created bool, err error) {
	s.mu.Lock()
	_, exists := s.index[e.ID]
	s.mu.Unlock()

	if exists {
		result, err = s.Update(e)
		if errors.Is(err, errors.ErrNotFound) {
			// Cleared between the check and the update.
			result, err = s.Add(e)
			return result, true, err
		}
		return result, false, err
	}
	result, err = s.Add(e)
	if errors.Is(err, errors.ErrDuplicateID) {
		result, err = s.Update(e)
		return result, false, err
	}
	return result, true, err
}

func (s *Store) merge(stored, incoming entry.Entry) entry.Entry {
	out := incoming.Clone()
	out.ID = stored.ID
	out.CreationDate = stored.CreationDate
	out.UnlockedAt = nil
	if stored.UnlockedAt != nil {
		u := *stored.UnlockedAt
		out.UnlockedAt = &u
	}
	if out.EarliestUnlock.IsZero() {
		out.EarliestUnlock = stored.EarliestUnlock
	}
	return out
}

// ReevaluateAll unlocks every locked entry whose conditions hold for ctx.
// unlockedAt is stamped as the later of ctx.Now and the entry's creation date.
// It flushes once, and only when something unlocked. The newly unlocked
// entries are returned in collection order.
func (s *Store) ReevaluateAll(ctx entry.Context) ([]entry.Entry, error) {
	s.mu.Lock()

	var unlocked []entry.Entry
	for i := range s.entries {
		e := &s.entries[i]
		if entry.Evaluate(*e, ctx).Status != entry.StatusShouldUnlockNow {
			continue
		}
		at := ctx.Now.UTC()
		if at.Before(e.CreationDate) {
			at = e.CreationDate
		}
		e.UnlockedAt = &at
		unlocked = append(unlocked, e.Clone())
	}

	if len(unlocked) == 0 {
		s.mu.Unlock()
		return nil, nil
	}
	err := s.flushLocked()
	s.mu.Unlock()

	ids := make([]string, len(unlocked))
	for i, e := range unlocked {
		ids[i] = e.ID
		s.log.WithFields(logrus.Fields{"entry_id": e.ID, "title": e.Title}).Info("entry unlocked")
	}
	s.notify(Change{Kind: ChangeUnlocked, IDs: ids, At: ctx.Now})
	return unlocked, err
}

// ClearAll removes every entry and flushes the empty collection.
func (s *Store) ClearAll() (int, error) {
	s.mu.Lock()

	ids := make([]string, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.ID
	}
	s.entries = nil
	s.reindex()
	err := s.flushLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeCleared, IDs: ids, At: s.now()})
	return len(ids), err
}

// Get returns a copy of the entry with id.
func (s *Store) Get(id string) (entry.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return entry.Entry{}, errors.NewNotFound(id)
	}
	return s.entries[i].Clone(), nil
}

// Query returns copies of the entries matching q, sorted by q.Sort.
func (s *Store) Query(q entry.Query) []entry.Entry {
	return entry.Apply(s.Snapshot(), q)
}

// Snapshot returns a copy of the collection in insertion order.
func (s *Store) Snapshot() []entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entry.CloneAll(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Subscribe registers fn for future changes. The returned func unsubscribes.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(c)
	}
}

func (s *Store) flushLocked() error {
	if err := s.persister.Save(entry.CloneAll(s.entries)); err != nil {
		s.log.WithError(err).Error("failed to persist entries")
		var sErr *errors.SparkError
		if stderrors.As(err, &sErr) {
			return sErr
		}
		return errors.NewWriteFailure(err)
	}
	return nil
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		s.index[e.ID] = i
	}
}
