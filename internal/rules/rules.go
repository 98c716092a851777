// Package rules decides what a peer +/- reaction does to the ledger,
// taking active modifiers into account.
//
// Blocks only suppress positive peer deltas. Negative peer deltas, admin
// bulk awards and event-engine awards all go through untouched.
package rules

import (
	"fmt"

	"marvin/internal/house"
	"marvin/internal/ledger"
	"marvin/internal/modifier"
	"marvin/internal/storage"
)

type Evaluator struct {
	store  *storage.Storage
	ledger *ledger.Ledger
	mods   *modifier.Registry
}

func New(store *storage.Storage, l *ledger.Ledger, mods *modifier.Registry) *Evaluator {
	return &Evaluator{store: store, ledger: l, mods: mods}
}

// Outcome is the structured result of a peer reaction, left for the
// caller to render.
type Outcome struct {
	Blocked  bool
	Boosted  bool
	NewTotal int
	House    house.House // receiver's house
}

// EvaluatePeerReaction applies a peer reaction of sign +1 or -1 against
// toUser's balance.
func (e *Evaluator) EvaluatePeerReaction(chatID int64, termID string, fromUser, toUser int64, sign int) (Outcome, error) {
	if sign != 1 && sign != -1 {
		return Outcome{}, fmt.Errorf("invalid reaction sign %d", sign)
	}

	var receiver storage.Member
	err := e.store.View(chatID, func(r *storage.Record) error {
		receiver = r.Members[storage.UserKey(toUser)]
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{House: receiver.House}
	delta := sign

	if sign > 0 {
		mod, err := e.mods.Active(chatID, receiver.House)
		if err != nil {
			return Outcome{}, err
		}
		if mod != nil {
			switch modifier.Kind(mod.Kind) {
			case modifier.Block:
				out.Blocked = true
				return out, nil
			case modifier.Boost:
				delta = 2 * sign
				out.Boosted = true
			}
		}
	}

	total, err := e.ledger.Apply(chatID, termID, toUser, delta)
	if err != nil {
		return Outcome{}, err
	}
	out.NewTotal = total
	return out, nil
}
