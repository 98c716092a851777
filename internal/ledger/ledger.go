// Package ledger holds the per-term point balances. Balances are scoped
// to one (chat, term, user) and a new term starts every user back at
// zero simply by never having an entry for it.
package ledger

import (
	"time"

	"marvin/internal/house"
	"marvin/internal/storage"
)

type Ledger struct {
	store *storage.Storage
	now   func() time.Time
}

func New(store *storage.Storage) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Champion is the highest-scoring active member of a house in a term.
type Champion struct {
	UserID   int64
	Username string
	House    house.House
	Points   int
}

// CurrentPoints returns the balance for the entry, 0 when none exists.
// No entry is created by reading.
func (l *Ledger) CurrentPoints(chatID int64, termID string, userID int64) (int, error) {
	var points int
	err := l.store.View(chatID, func(r *storage.Record) error {
		points = r.Points[storage.PointKey(termID, userID)].Points
		return nil
	})
	return points, err
}

// Apply adds delta to the entry, creating it when absent. The whole
// read-modify-write runs under the chat lock, so concurrent callers for
// the same key never lose updates.
func (l *Ledger) Apply(chatID int64, termID string, userID int64, delta int) (int, error) {
	var total int
	err := l.store.Update(chatID, func(r *storage.Record) error {
		key := storage.PointKey(termID, userID)
		entry := r.Points[key]
		entry.TermID = termID
		entry.UserID = userID
		entry.Points += delta
		entry.UpdatedAt = l.now()
		r.Points[key] = entry
		total = entry.Points
		return nil
	})
	return total, err
}

// ResetUser zeroes the entry and returns the prior balance. Used by the
// "vanish the leader's points" event; the prior total survives only in
// the announcement text.
func (l *Ledger) ResetUser(chatID int64, termID string, userID int64) (int, error) {
	var prior int
	err := l.store.Update(chatID, func(r *storage.Record) error {
		key := storage.PointKey(termID, userID)
		entry, ok := r.Points[key]
		if !ok {
			return nil
		}
		prior = entry.Points
		entry.Points = 0
		entry.UpdatedAt = l.now()
		r.Points[key] = entry
		return nil
	})
	return prior, err
}

// SummarizeByHouse totals the term's points per house, counting active
// members only.
func (l *Ledger) SummarizeByHouse(chatID int64, termID string) (map[house.House]int, error) {
	var totals map[house.House]int
	err := l.store.View(chatID, func(r *storage.Record) error {
		totals = SummarizeRecord(r, termID)
		return nil
	})
	return totals, err
}

// ChampionOf returns the house champion, or nil when the house has no
// scoring active member this term.
func (l *Ledger) ChampionOf(chatID int64, termID string, h house.House) (*Champion, error) {
	var champ *Champion
	err := l.store.View(chatID, func(r *storage.Record) error {
		champ = ChampionOfRecord(r, termID, h)
		return nil
	})
	return champ, err
}

// TopScorer returns the single highest entry across all houses, or nil
// when the term has no entries from active members.
func (l *Ledger) TopScorer(chatID int64, termID string) (*Champion, error) {
	var top *Champion
	err := l.store.View(chatID, func(r *storage.Record) error {
		top = TopScorerRecord(r, termID)
		return nil
	})
	return top, err
}

// The Record-level helpers below are pure so the term manager can reuse
// them inside its own rollover transaction.

func SummarizeRecord(r *storage.Record, termID string) map[house.House]int {
	totals := make(map[house.House]int)
	for _, entry := range r.Points {
		if entry.TermID != termID {
			continue
		}
		member, ok := r.Members[storage.UserKey(entry.UserID)]
		if !ok || !member.Active() {
			continue
		}
		totals[member.House] += entry.Points
	}
	return totals
}

func ChampionOfRecord(r *storage.Record, termID string, h house.House) *Champion {
	var best *Champion
	for _, entry := range r.Points {
		if entry.TermID != termID {
			continue
		}
		member, ok := r.Members[storage.UserKey(entry.UserID)]
		if !ok || !member.Active() || member.House != h {
			continue
		}
		if better(best, entry) {
			best = &Champion{
				UserID:   entry.UserID,
				Username: member.Username,
				House:    member.House,
				Points:   entry.Points,
			}
		}
	}
	return best
}

func TopScorerRecord(r *storage.Record, termID string) *Champion {
	var best *Champion
	for _, entry := range r.Points {
		if entry.TermID != termID {
			continue
		}
		member, ok := r.Members[storage.UserKey(entry.UserID)]
		if !ok || !member.Active() {
			continue
		}
		if better(best, entry) {
			best = &Champion{
				UserID:   entry.UserID,
				Username: member.Username,
				House:    member.House,
				Points:   entry.Points,
			}
		}
	}
	return best
}

// better applies the deterministic tie-break: highest points first, then
// lowest user id.
func better(best *Champion, entry storage.PointEntry) bool {
	if best == nil {
		return true
	}
	if entry.Points != best.Points {
		return entry.Points > best.Points
	}
	return entry.UserID < best.UserID
}
