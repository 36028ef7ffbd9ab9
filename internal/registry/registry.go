// Package registry keeps the ordered list of accounts and mirrors it to a
// key-value storage slot after every change.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/accountkeeper/internal/kv"
	"github.com/atinyakov/accountkeeper/internal/models"
)

// StorageKey is the slot holding the serialized account list.
const StorageKey = "accounts"

// Op names the change an Event reports.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpUpdate Op = "update"
	OpLoad   Op = "load"
)

// Event describes a change to the in-memory list.
type Event struct {
	Op Op
	// Index is the affected position, or -1 for OpLoad.
	Index int
	// Accounts is a snapshot of the list after the change.
	Accounts []models.Account
}

// Observer is called after every change to the list.
type Observer func(Event)

type subscriber struct {
	id uuid.UUID
	fn Observer
}

// Registry is an ordered, index-addressed list of accounts. The position of
// an account is its only identifier.
type Registry struct {
	store kv.Store
	log   *zap.Logger

	mu       sync.Mutex
	accounts []models.Account

	subMu       sync.Mutex
	subscribers []subscriber
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for storage outcomes.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// New returns an empty Registry persisting to store.
func New(store kv.Store, opts ...Option) *Registry {
	r := &Registry{
		store:    store,
		log:      zap.NewNop(),
		accounts: []models.Account{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers fn for change events and returns a function removing it.
func (r *Registry) Subscribe(fn Observer) (unsubscribe func()) {
	id := uuid.New()

	r.subMu.Lock()
	r.subscribers = append(r.subscribers, subscriber{id: id, fn: fn})
	r.subMu.Unlock()

	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		for i, s := range r.subscribers {
			if s.id == id {
				r.subscribers = append(r.subscribers[:i], r.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Add appends account to the end of the list and persists the list.
func (r *Registry) Add(ctx context.Context, account models.Account) error {
	r.mu.Lock()
	r.accounts = append(r.accounts, normalize(account))
	idx := len(r.accounts) - 1
	err := r.persistLocked(ctx)
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.notify(Event{Op: OpAdd, Index: idx, Accounts: snap})
	return err
}

// Remove deletes the account at index and persists the list. An index
// outside the list returns ErrIndexOutOfRange and changes nothing.
func (r *Registry) Remove(ctx context.Context, index int) error {
	r.mu.Lock()
	if index < 0 || index >= len(r.accounts) {
		n := len(r.accounts)
		r.mu.Unlock()
		return fmt.Errorf("remove %d of %d: %w", index, n, ErrIndexOutOfRange)
	}
	r.accounts = append(r.accounts[:index], r.accounts[index+1:]...)
	err := r.persistLocked(ctx)
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.notify(Event{Op: OpRemove, Index: index, Accounts: snap})
	return err
}

// Update replaces the account at index and persists the list. An index
// outside the list returns ErrIndexOutOfRange and changes nothing.
func (r *Registry) Update(ctx context.Context, index int, account models.Account) error {
	r.mu.Lock()
	if index < 0 || index >= len(r.accounts) {
		n := len(r.accounts)
		r.mu.Unlock()
		return fmt.Errorf("update %d of %d: %w", index, n, ErrIndexOutOfRange)
	}
	r.accounts[index] = normalize(account)
	err := r.persistLocked(ctx)
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.notify(Event{Op: OpUpdate, Index: index, Accounts: snap})
	return err
}

// Persist writes the complete list to the storage slot.
func (r *Registry) Persist(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persistLocked(ctx)
}

// Load replaces the list with the persisted snapshot. When nothing was
// persisted yet, or the slot holds an empty value, the list is left as is.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	loaded, err := r.loadLocked(ctx)
	snap := r.snapshotLocked()
	r.mu.Unlock()

	if err != nil || !loaded {
		return err
	}
	r.log.Debug("accounts loaded", zap.Int("count", len(snap)))
	r.notify(Event{Op: OpLoad, Index: -1, Accounts: snap})
	return nil
}

func (r *Registry) loadLocked(ctx context.Context) (bool, error) {
	raw, ok, err := r.store.GetItem(ctx, StorageKey)
	if err != nil {
		r.log.Error("failed to read accounts", zap.Error(err))
		return false, fmt.Errorf("load: %w: %w", ErrStorageUnavailable, err)
	}
	if !ok || raw == "" {
		r.log.Debug("no persisted accounts")
		return false, nil
	}

	var stored []models.StoredAccount
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.log.Error("failed to decode accounts", zap.Error(err))
		return false, fmt.Errorf("load: %w: %w", ErrDeserializationFailed, err)
	}

	accounts := make([]models.Account, 0, len(stored))
	for _, s := range stored {
		accounts = append(accounts, fromStored(s))
	}
	r.accounts = accounts
	return true, nil
}

// Accounts returns a copy of the list.
func (r *Registry) Accounts() []models.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Len returns the number of accounts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

// At returns a copy of the account at index.
func (r *Registry) At(index int) (models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.accounts) {
		return models.Account{}, fmt.Errorf("get %d of %d: %w", index, len(r.accounts), ErrIndexOutOfRange)
	}
	return r.accounts[index].Clone(), nil
}

func (r *Registry) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(r.accounts)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := r.store.SetItem(ctx, StorageKey, string(data)); err != nil {
		r.log.Error("failed to persist accounts", zap.Error(err))
		return fmt.Errorf("persist: %w: %w", ErrStorageUnavailable, err)
	}
	r.log.Debug("accounts persisted", zap.Int("count", len(r.accounts)))
	return nil
}

func (r *Registry) snapshotLocked() []models.Account {
	out := make([]models.Account, len(r.accounts))
	for i, a := range r.accounts {
		out[i] = a.Clone()
	}
	return out
}

func (r *Registry) notify(ev Event) {
	r.subMu.Lock()
	subs := make([]subscriber, len(r.subscribers))
	copy(subs, r.subscribers)
	r.subMu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}
