// Package modifier keeps the time-boxed rule overlays (boosts and
// blocks) a chat can have against a house. Expired modifiers are purged
// lazily on the next read; there is no background timer.
package modifier

import (
	"time"

	"marvin/internal/house"
	"marvin/internal/storage"
)

type Kind string

const (
	Boost Kind = "boost"
	Block Kind = "block"
)

type Registry struct {
	store *storage.Storage
	now   func() time.Time
}

func New(store *storage.Storage) *Registry {
	return &Registry{store: store, now: time.Now}
}

// WithClock swaps the time source, for tests.
func (m *Registry) WithClock(now func() time.Time) *Registry {
	m.now = now
	return m
}

// Install adds a modifier expiring after ttl.
func (m *Registry) Install(chatID int64, kind Kind, h house.House, ttl time.Duration) error {
	expires := m.now().Add(ttl)
	return m.store.Update(chatID, func(r *storage.Record) error {
		r.Modifiers = append(r.Modifiers, storage.Modifier{
			Kind:      string(kind),
			House:     h,
			ExpiresAt: expires,
		})
		return nil
	})
}

// Active purges every expired modifier for the chat, then returns the
// most recently installed one matching the house, if any.
func (m *Registry) Active(chatID int64, h house.House) (*storage.Modifier, error) {
	now := m.now()
	var found *storage.Modifier
	err := m.store.Update(chatID, func(r *storage.Record) error {
		kept := r.Modifiers[:0]
		for _, mod := range r.Modifiers {
			if !mod.ExpiresAt.After(now) {
				continue
			}
			kept = append(kept, mod)
		}
		r.Modifiers = kept

		for i := len(r.Modifiers) - 1; i >= 0; i-- {
			if r.Modifiers[i].House == h {
				mod := r.Modifiers[i]
				found = &mod
				break
			}
		}
		return nil
	})
	return found, err
}
