// Package events is the counter-driven random event engine. Every
// inbound message advances per-chat counters; when a counter passes its
// threshold one outcome of that tier fires. Deciding an outcome is a
// pure function over the injected RNG; executing and announcing it is
// kept separate.
package events

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"marvin/internal/activity"
	"marvin/internal/ledger"
	"marvin/internal/messenger"
	"marvin/internal/modifier"
	"marvin/internal/retention"
	"marvin/internal/storage"
)

type Tier string

const (
	TierStandard Tier = "standard"
	TierEpic     Tier = "epic"
)

// Outcome counts per tier. Selection is uniform.
const (
	standardOutcomes = 7
	epicOutcomes     = 4
)

// ModifierTTL is how long an event-installed boost or block lasts.
const ModifierTTL = 4 * time.Hour

type Engine struct {
	store     *storage.Storage
	msgr      messenger.Messenger
	ledger    *ledger.Ledger
	mods      *modifier.Registry
	activity  *activity.Tracker
	retention *retention.Queue
	rng       *rand.Rand
	now       func() time.Time
}

func New(store *storage.Storage, msgr messenger.Messenger, l *ledger.Ledger, mods *modifier.Registry,
	tracker *activity.Tracker, queue *retention.Queue, rng *rand.Rand) *Engine {
	return &Engine{
		store:     store,
		msgr:      msgr,
		ledger:    l,
		mods:      mods,
		activity:  tracker,
		retention: queue,
		rng:       rng,
		now:       time.Now,
	}
}

// WithClock swaps the time source, for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// EventResult reports a fired event. Nil means the counter just ticked.
type EventResult struct {
	Tier         Tier
	Outcome      int
	Announcement string
}

// Decide selects the outcome index for a tier with a single uniform
// draw. Exposed so the selection distribution can be tested directly.
func Decide(rng *rand.Rand, tier Tier) int {
	if tier == TierEpic {
		return rng.Intn(epicOutcomes)
	}
	return rng.Intn(standardOutcomes)
}

// Tick advances the chat's counter for the tier. When the post-increment
// value exceeds frequency, the counter resets to 1 and one randomly
// selected outcome executes.
func (e *Engine) Tick(chatID int64, termID string, tier Tier, frequency int) (*EventResult, error) {
	fired, err := e.store.BumpCounter(chatID, "events:"+string(tier), frequency)
	if err != nil {
		return nil, err
	}
	if !fired {
		return nil, nil
	}

	outcome := Decide(e.rng, tier)
	log.Debug().Int64("chat_id", chatID).Str("tier", string(tier)).Int("outcome", outcome).Msg("event fired")

	var res *EventResult
	if tier == TierEpic {
		res, err = e.executeEpic(chatID, termID, outcome)
	} else {
		res, err = e.executeStandard(chatID, termID, outcome)
	}
	if err != nil {
		return nil, err
	}
	if res != nil && res.Announcement != "" {
		e.announce(chatID, res.Announcement)
	}
	return res, nil
}

// announce sends a transient event announcement and registers it for
// deletion.
func (e *Engine) announce(chatID int64, text string) {
	msgID, err := e.msgr.SendText(chatID, text)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send event announcement")
		return
	}
	if err := e.retention.Record(chatID, msgID, retention.LongTTL, "Event"); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to record event announcement")
	}
}
