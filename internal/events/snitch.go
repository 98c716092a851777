package events

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"marvin/internal/retention"
	"marvin/internal/storage"
	"marvin/pkg/util"
)

// The snitch mini-game is a persisted state machine, not a waiting
// coroutine: an open service message plus an expiry check evaluated on
// the next matching inbound message.
const (
	SnitchCatchPhrase = "I catch the snitch"

	KindSnitch   = "Snitch"
	SnitchOpen   = "open"
	SnitchClosed = "closed"
	snitchReward = 20
	snitchTTL    = retention.SnitchTTL
)

// HandleReply checks an inbound message against any outstanding snitch.
// The first correct phrase while the snitch is open wins the reward and
// closes it; later correct phrases get a "too late" notice. handled is
// true when the message was consumed by the mini-game.
func (e *Engine) HandleReply(chatID int64, termID string, userID int64, username, text string) (bool, error) {
	if !strings.EqualFold(strings.TrimSpace(text), SnitchCatchPhrase) {
		return false, nil
	}

	now := e.now()
	var caught, seen bool
	err := e.store.Update(chatID, func(r *storage.Record) error {
		for i := range r.ServiceMessages {
			sm := &r.ServiceMessages[i]
			if sm.Kind != KindSnitch {
				continue
			}
			seen = true
			if sm.Status == SnitchOpen && now.Before(sm.ExpiresAt()) {
				sm.Status = SnitchClosed
				caught = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	switch {
	case caught:
		total, err := e.ledger.Apply(chatID, termID, userID, snitchReward)
		if err != nil {
			return true, err
		}
		e.announce(chatID, fmt.Sprintf(
			"🟡 *Caught!* %s plucks the Golden Snitch out of the air and earns %d points. New total: %d.",
			util.Mention(userID, username), snitchReward, total))
	case seen:
		e.notice(chatID, fmt.Sprintf("%s, too late. The snitch is already caught.", util.Mention(userID, username)))
	default:
		// No snitch in play; the phrase means nothing right now.
		return false, nil
	}
	return true, nil
}

// notice sends a short-lived informational message.
func (e *Engine) notice(chatID int64, text string) {
	msgID, err := e.msgr.SendText(chatID, text)
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to send notice")
		return
	}
	if err := e.retention.Record(chatID, msgID, retention.ShortTTL, "Standard"); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to record notice for cleanup")
	}
}
