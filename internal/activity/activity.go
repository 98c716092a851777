// Package activity tracks who is talking in each chat. It feeds the
// /activity listing and supplies the active-member pools the event
// engine draws victims and beneficiaries from.
package activity

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"marvin/internal/house"
	"marvin/internal/messenger"
	"marvin/internal/storage"
)

type Tracker struct {
	store *storage.Storage
	msgr  messenger.Messenger
	rng   *rand.Rand
	now   func() time.Time
}

func New(store *storage.Storage, msgr messenger.Messenger, rng *rand.Rand) *Tracker {
	return &Tracker{store: store, msgr: msgr, rng: rng, now: time.Now}
}

// WithClock swaps the time source, for tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Touch upserts the speaker's activity entry and marks them as the
// chat's most recent speaker.
func (t *Tracker) Touch(chatID, userID int64, username, status string) error {
	seen := t.now()
	return t.store.Update(chatID, func(r *storage.Record) error {
		key := storage.UserKey(userID)
		member := r.Members[key]
		member.UserID = userID
		member.Username = username
		member.Status = status
		member.LastSeen = seen
		r.Members[key] = member
		r.LastSpeakerID = userID
		return nil
	})
}

// SetHouse stores a house assignment for an already-seen member.
func (t *Tracker) SetHouse(chatID, userID int64, h house.House) error {
	return t.store.Update(chatID, func(r *storage.Record) error {
		key := storage.UserKey(userID)
		member, ok := r.Members[key]
		if !ok {
			return fmt.Errorf("user %d has never spoken in chat %d", userID, chatID)
		}
		member.House = h
		r.Members[key] = member
		return nil
	})
}

// MarkLeft flags a member who is no longer part of the chat.
func (t *Tracker) MarkLeft(chatID, userID int64) error {
	return t.store.Update(chatID, func(r *storage.Record) error {
		key := storage.UserKey(userID)
		member, ok := r.Members[key]
		if !ok {
			return nil
		}
		member.Status = "left"
		r.Members[key] = member
		return nil
	})
}

// LastSpeaker returns the most recent active speaker, if one is known.
func (t *Tracker) LastSpeaker(chatID int64) (storage.Member, bool, error) {
	var member storage.Member
	var ok bool
	err := t.store.View(chatID, func(r *storage.Record) error {
		if r.LastSpeakerID == 0 {
			return nil
		}
		m, found := r.Members[storage.UserKey(r.LastSpeakerID)]
		if found && m.Active() {
			member = m
			ok = true
		}
		return nil
	})
	return member, ok, err
}

// Resolve finds a stored member by username, case-insensitively.
func (t *Tracker) Resolve(chatID int64, username string) (storage.Member, bool, error) {
	username = strings.TrimPrefix(username, "@")
	var member storage.Member
	var ok bool
	err := t.store.View(chatID, func(r *storage.Record) error {
		for _, m := range r.Members {
			if strings.EqualFold(m.Username, username) {
				member = m
				ok = true
				return nil
			}
		}
		return nil
	})
	return member, ok, err
}

// List returns members sorted by most recent activity. With idleOnly
// set, only members quiet for more than two days are returned.
func (t *Tracker) List(chatID int64, idleOnly bool) ([]storage.Member, error) {
	cutoff := t.now().Add(-48 * time.Hour)
	var members []storage.Member
	err := t.store.View(chatID, func(r *storage.Record) error {
		for _, m := range r.Members {
			if !m.Active() {
				continue
			}
			if idleOnly && m.LastSeen.After(cutoff) {
				continue
			}
			members = append(members, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(members, func(i, j int) bool { return members[i].LastSeen.After(members[j].LastSeen) })
	return members, nil
}

// Sample picks up to n distinct active members uniformly at random,
// without replacement. Each candidate is re-verified against the chat
// platform; lookups that degrade to unknown (or show the user gone)
// exclude the candidate and update the stored status.
func (t *Tracker) Sample(chatID int64, n int) ([]storage.Member, error) {
	var pool []storage.Member
	err := t.store.View(chatID, func(r *storage.Record) error {
		for _, m := range r.Members {
			if m.Active() {
				pool = append(pool, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	var picked []storage.Member
	for _, candidate := range pool {
		if len(picked) == n {
			break
		}
		live, err := t.msgr.GetMember(chatID, candidate.UserID)
		if err != nil || !live.Status.Active() {
			_ = t.MarkLeft(chatID, candidate.UserID)
			continue
		}
		picked = append(picked, candidate)
	}
	return picked, nil
}
