// Package storage keeps one persisted record per chat on top of the
// JSON-file datastore. All reads and writes of a chat record go through
// a per-chat mutex, so read-modify-write cycles are atomic per chat
// while different chats proceed independently.
package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/keshon/datastore"
)

type Storage struct {
	ds *datastore.DataStore

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open datastore: %w", err)
	}
	return &Storage{ds: ds, locks: make(map[int64]*sync.Mutex)}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func (s *Storage) chatLock(chatID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[chatID] = l
	}
	return l
}

// getOrCreateChatRecord loads the chat record. The datastore hands back
// generic JSON values after a reload, so the record is round-tripped
// through json to get a typed struct either way.
func (s *Storage) getOrCreateChatRecord(chatID int64) (*Record, error) {
	data, exists := s.ds.Get(strconv.FormatInt(chatID, 10))
	if !exists {
		return &Record{
			Members:  map[string]Member{},
			Triggers: map[string]Trigger{},
			Points:   map[string]PointEntry{},
			Counters: map[string]int{},
		}, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling chat record: %w", err)
	}

	var record Record
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("error unmarshalling chat record: %w", err)
	}

	if record.Members == nil {
		record.Members = map[string]Member{}
	}
	if record.Triggers == nil {
		record.Triggers = map[string]Trigger{}
	}
	if record.Points == nil {
		record.Points = map[string]PointEntry{}
	}
	if record.Counters == nil {
		record.Counters = map[string]int{}
	}

	return &record, nil
}

// Update runs fn against the chat record under the chat lock and writes
// the mutated record back. An error from fn discards the write.
func (s *Storage) Update(chatID int64, fn func(*Record) error) error {
	l := s.chatLock(chatID)
	l.Lock()
	defer l.Unlock()

	record, err := s.getOrCreateChatRecord(chatID)
	if err != nil {
		return err
	}
	if err := fn(record); err != nil {
		return err
	}
	s.ds.Add(strconv.FormatInt(chatID, 10), record)
	return nil
}

// View runs fn against a read-only snapshot of the chat record.
func (s *Storage) View(chatID int64, fn func(*Record) error) error {
	l := s.chatLock(chatID)
	l.Lock()
	defer l.Unlock()

	record, err := s.getOrCreateChatRecord(chatID)
	if err != nil {
		return err
	}
	return fn(record)
}

// BumpCounter increments the named per-chat counter. When the
// post-increment value exceeds threshold the counter resets to 1 (not 0)
// and fired is true.
func (s *Storage) BumpCounter(chatID int64, name string, threshold int) (fired bool, err error) {
	err = s.Update(chatID, func(r *Record) error {
		v := r.Counters[name] + 1
		if v > threshold {
			v = 1
			fired = true
		}
		r.Counters[name] = v
		return nil
	})
	return fired, err
}
