// Package retention tracks the bot's own transient announcements and
// deletes them once their time-to-live has passed. The sweep runs once
// per handled inbound activity; there is no timer thread.
package retention

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"marvin/internal/messenger"
	"marvin/internal/storage"
)

// Message lifetimes for the bot's own transient output.
const (
	ShortTTL    = 30 * time.Second
	StandardTTL = 60 * time.Second
	LongTTL     = 90 * time.Second
	SnitchTTL   = 48 * time.Hour
)

type Queue struct {
	store *storage.Storage
	msgr  messenger.Messenger
	now   func() time.Time
}

func New(store *storage.Storage, msgr messenger.Messenger) *Queue {
	return &Queue{store: store, msgr: msgr, now: time.Now}
}

// WithClock swaps the time source, for tests.
func (q *Queue) WithClock(now func() time.Time) *Queue {
	q.now = now
	return q
}

// Record registers a sent message for later deletion.
func (q *Queue) Record(chatID int64, messageID int, ttl time.Duration, kind string) error {
	created := q.now()
	return q.store.Update(chatID, func(r *storage.Record) error {
		r.ServiceMessages = append(r.ServiceMessages, storage.ServiceMessage{
			MessageID:  messageID,
			CreatedAt:  created,
			TTLSeconds: int(ttl / time.Second),
			Kind:       kind,
			Status:     "sent",
		})
		return nil
	})
}

// Sweep deletes every expired service message of the chat. Deletion
// failures (including "already gone") are logged and the record is
// removed regardless; there is no retry.
func (q *Queue) Sweep(chatID int64) error {
	now := q.now()

	var expired []storage.ServiceMessage
	err := q.store.Update(chatID, func(r *storage.Record) error {
		kept := r.ServiceMessages[:0]
		for _, sm := range r.ServiceMessages {
			if sm.ExpiresAt().After(now) {
				kept = append(kept, sm)
				continue
			}
			expired = append(expired, sm)
		}
		r.ServiceMessages = kept
		return nil
	})
	if err != nil {
		return err
	}

	for _, sm := range expired {
		if err := q.msgr.DeleteMessage(chatID, sm.MessageID); err != nil && !errors.Is(err, messenger.ErrNotFound) {
			log.Warn().Err(err).Int64("chat_id", chatID).Int("message_id", sm.MessageID).
				Msg("failed to delete expired service message")
		}
	}
	return nil
}
