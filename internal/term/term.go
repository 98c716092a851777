// Package term owns the competitive term lifecycle for each chat. Term
// expiry is detected lazily: the next activity that asks for the current
// term performs the rollover.
package term

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"marvin/internal/house"
	"marvin/internal/ledger"
	"marvin/internal/messenger"
	"marvin/internal/storage"
)

type Manager struct {
	store      *storage.Storage
	msgr       messenger.Messenger
	termLength time.Duration
	now        func() time.Time
}

func NewManager(store *storage.Storage, msgr messenger.Messenger, termLengthDays int) *Manager {
	return &Manager{
		store:      store,
		msgr:       msgr,
		termLength: time.Duration(termLengthDays) * 24 * time.Hour,
		now:        time.Now,
	}
}

// WithClock swaps the time source, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// RolloverResult describes a finished term, computed inside the rollover
// transaction and rendered afterwards.
type RolloverResult struct {
	ClosedTerm   storage.Term
	Totals       map[house.House]int
	WinningHouse house.House
	Champion     *ledger.Champion
	HadPoints    bool
}

// EnsureCurrentTerm returns the chat's current term, creating the first
// one on demand. When the current term has expired it tallies the final
// standings, overwrites the last-winner snapshot, closes the term and
// opens a new one, all in one transaction, so concurrent activities
// near expiry roll over at most once. A rollover also broadcasts the
// results; that announcement is pinned and permanent.
func (m *Manager) EnsureCurrentTerm(chatID int64) (storage.Term, error) {
	now := m.now()
	var current storage.Term
	var rollover *RolloverResult

	err := m.store.Update(chatID, func(r *storage.Record) error {
		cur := r.CurrentTerm()
		if cur != nil && now.Before(cur.EndAt) {
			current = *cur
			return nil
		}

		if cur != nil {
			// Term expired: summarize before anything is reset.
			res := &RolloverResult{
				ClosedTerm: *cur,
				Totals:     ledger.SummarizeRecord(r, cur.TermID),
			}
			res.WinningHouse, res.HadPoints = pickWinner(res.Totals)
			if res.HadPoints {
				res.Champion = ledger.ChampionOfRecord(r, cur.TermID, res.WinningHouse)
				winner := &storage.HistoricalWinner{
					House:       res.WinningHouse,
					HousePoints: res.Totals[res.WinningHouse],
				}
				if res.Champion != nil {
					winner.ChampionID = res.Champion.UserID
					winner.ChampionName = res.Champion.Username
					winner.ChampionPoints = res.Champion.Points
				}
				r.LastWinner = winner
			} else {
				// A pointless term leaves no winner; a stale snapshot
				// from an earlier term must not survive it.
				r.LastWinner = nil
			}
			cur.IsCurrent = false
			rollover = res
		}

		next := storage.Term{
			TermID:    uuid.NewString(),
			StartAt:   now,
			EndAt:     now.Add(m.termLength),
			IsCurrent: true,
		}
		r.Terms = append(r.Terms, next)
		current = next
		return nil
	})
	if err != nil {
		return storage.Term{}, err
	}

	if rollover != nil {
		m.announceRollover(chatID, rollover)
	}
	return current, nil
}

// LastWinner returns the snapshot of the previous term, if any.
func (m *Manager) LastWinner(chatID int64) (*storage.HistoricalWinner, error) {
	var winner *storage.HistoricalWinner
	err := m.store.View(chatID, func(r *storage.Record) error {
		winner = r.LastWinner
		return nil
	})
	return winner, err
}

// pickWinner returns the house with the highest total. Ties resolve to
// the earlier house in declared precedence order. ok is false when no
// house scored at all.
func pickWinner(totals map[house.House]int) (house.House, bool) {
	if len(totals) == 0 {
		return house.Unaffiliated, false
	}
	var winner house.House
	best := 0
	found := false
	for _, h := range house.Competing() {
		total, ok := totals[h]
		if !ok {
			continue
		}
		if !found || total > best {
			winner = h
			best = total
			found = true
		}
	}
	if !found {
		// Only unaffiliated users scored.
		return house.Unaffiliated, false
	}
	return winner, true
}

func (m *Manager) announceRollover(chatID int64, res *RolloverResult) {
	msgID, err := m.msgr.SendText(chatID, renderRollover(res))
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to broadcast term results")
		return
	}
	if err := m.msgr.PinMessage(chatID, msgID); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to pin term results")
	}
}
