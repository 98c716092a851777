package storage

import (
	"strconv"
	"time"

	"marvin/internal/house"
)

// Member is a chat participant as last seen by the bot.
type Member struct {
	UserID   int64       `json:"user_id"`
	Username string      `json:"username"`
	Status   string      `json:"status"` // "member", "administrator", "creator", "left", "kicked", "unknown"
	House    house.House `json:"house,omitempty"`
	LastSeen time.Time   `json:"last_seen"`
}

// Active reports whether the member still counts for points, champions
// and random-selection pools.
func (m Member) Active() bool {
	switch m.Status {
	case "member", "administrator", "creator":
		return true
	}
	return false
}

type Trigger struct {
	Word     string `json:"word"`
	Response string `json:"response"`
	Kind     string `json:"kind"` // "text", "gif", "photo", "sticker"
	MediaID  string `json:"media_id,omitempty"`
}

type Term struct {
	TermID    string    `json:"term_id"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	IsCurrent bool      `json:"is_current"`
}

type PointEntry struct {
	TermID    string    `json:"term_id"`
	UserID    int64     `json:"user_id"`
	Points    int       `json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Modifier struct {
	Kind      string      `json:"kind"` // "boost" or "block"
	House     house.House `json:"house"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type ServiceMessage struct {
	MessageID  int       `json:"message_id"`
	CreatedAt  time.Time `json:"created_at"`
	TTLSeconds int       `json:"ttl_seconds"`
	Kind       string    `json:"kind"`   // "Standard", "Snitch", "MediaTrigger", ...
	Status     string    `json:"status"` // "sent", "open", "closed"
}

func (m ServiceMessage) ExpiresAt() time.Time {
	return m.CreatedAt.Add(time.Duration(m.TTLSeconds) * time.Second)
}

// HistoricalWinner is the snapshot of the last finished term, one per
// chat, overwritten on every rollover.
type HistoricalWinner struct {
	House          house.House `json:"house"`
	HousePoints    int         `json:"house_points"`
	ChampionID     int64       `json:"champion_id,omitempty"`
	ChampionName   string      `json:"champion_name,omitempty"`
	ChampionPoints int         `json:"champion_points,omitempty"`
}

// Record is everything the bot persists for one chat.
type Record struct {
	Members         map[string]Member  `json:"members,omitempty"`  // key = user id
	Triggers        map[string]Trigger `json:"triggers,omitempty"` // key = trigger word
	Terms           []Term             `json:"terms,omitempty"`
	Points          map[string]PointEntry `json:"points,omitempty"` // key = term id + user id
	Modifiers       []Modifier            `json:"modifiers,omitempty"`
	Counters        map[string]int        `json:"counters,omitempty"` // key = counter name
	ServiceMessages []ServiceMessage      `json:"service_messages,omitempty"`
	LastWinner      *HistoricalWinner     `json:"last_winner,omitempty"`
	LastSpeakerID   int64                 `json:"last_speaker_id,omitempty"`
}

// PointKey builds the unique (term, user) key for Record.Points.
func PointKey(termID string, userID int64) string {
	return termID + ":" + strconv.FormatInt(userID, 10)
}

func UserKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// CurrentTerm returns the term marked current, if any.
func (r *Record) CurrentTerm() *Term {
	for i := range r.Terms {
		if r.Terms[i].IsCurrent {
			return &r.Terms[i]
		}
	}
	return nil
}
