// Package trigger stores the per-chat keyword triggers: a plain
// key-value lookup from a word to a text or media response.
package trigger

import (
	"sort"
	"strings"

	"marvin/internal/storage"
)

const (
	KindText    = "text"
	KindGIF     = "gif"
	KindPhoto   = "photo"
	KindSticker = "sticker"
)

// Separator splits the trigger word from its response in /add commands.
const Separator = "->"

type Store struct {
	store *storage.Storage
}

func New(store *storage.Storage) *Store {
	return &Store{store: store}
}

// Save creates or updates a trigger. created reports which happened.
func (s *Store) Save(chatID int64, word, response, kind, mediaID string) (created bool, err error) {
	word = strings.ToLower(strings.TrimSpace(word))
	err = s.store.Update(chatID, func(r *storage.Record) error {
		_, exists := r.Triggers[word]
		created = !exists
		r.Triggers[word] = storage.Trigger{
			Word:     word,
			Response: response,
			Kind:     kind,
			MediaID:  mediaID,
		}
		return nil
	})
	return created, err
}

// Delete removes a trigger; found reports whether it existed.
func (s *Store) Delete(chatID int64, word string) (found bool, err error) {
	word = strings.ToLower(strings.TrimSpace(word))
	err = s.store.Update(chatID, func(r *storage.Record) error {
		_, found = r.Triggers[word]
		delete(r.Triggers, word)
		return nil
	})
	return found, err
}

// Lookup matches a full message text against the chat's triggers.
func (s *Store) Lookup(chatID int64, text string) (storage.Trigger, bool, error) {
	word := strings.ToLower(strings.TrimSpace(text))
	var trig storage.Trigger
	var found bool
	err := s.store.View(chatID, func(r *storage.Record) error {
		trig, found = r.Triggers[word]
		return nil
	})
	return trig, found, err
}

// List returns the chat's triggers sorted by word.
func (s *Store) List(chatID int64) ([]storage.Trigger, error) {
	var list []storage.Trigger
	err := s.store.View(chatID, func(r *storage.Record) error {
		for _, t := range r.Triggers {
			list = append(list, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Word < list[j].Word })
	return list, nil
}
