package messenger

import "sync"

// SentMessage is one message captured by the Recorder.
type SentMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	Sticker   string
	Media     string
	Pinned    bool
	Deleted   bool
}

// Recorder is an in-memory Messenger used by tests and dry runs.
type Recorder struct {
	mu      sync.Mutex
	nextID  int
	Sent    []SentMessage
	Members map[int64]map[int64]Member // chatID -> userID
}

func NewRecorder() *Recorder {
	return &Recorder{Members: map[int64]map[int64]Member{}}
}

// SetMember seeds the member table used by GetMember.
func (r *Recorder) SetMember(chatID, userID int64, m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Members[chatID] == nil {
		r.Members[chatID] = map[int64]Member{}
	}
	r.Members[chatID][userID] = m
}

func (r *Recorder) record(m SentMessage) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.MessageID = r.nextID
	r.Sent = append(r.Sent, m)
	return m.MessageID
}

func (r *Recorder) SendText(chatID int64, text string) (int, error) {
	return r.record(SentMessage{ChatID: chatID, Text: text}), nil
}

func (r *Recorder) SendSticker(chatID int64, stickerID string) (int, error) {
	return r.record(SentMessage{ChatID: chatID, Sticker: stickerID}), nil
}

func (r *Recorder) SendMedia(chatID int64, kind MediaKind, fileID string) (int, error) {
	return r.record(SentMessage{ChatID: chatID, Media: fileID}), nil
}

func (r *Recorder) PinMessage(chatID int64, messageID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Sent {
		if r.Sent[i].ChatID == chatID && r.Sent[i].MessageID == messageID {
			r.Sent[i].Pinned = true
			return nil
		}
	}
	return ErrNotFound
}

func (r *Recorder) DeleteMessage(chatID int64, messageID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Sent {
		if r.Sent[i].ChatID == chatID && r.Sent[i].MessageID == messageID && !r.Sent[i].Deleted {
			r.Sent[i].Deleted = true
			return nil
		}
	}
	return ErrNotFound
}

func (r *Recorder) GetMember(chatID, userID int64) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chat, ok := r.Members[chatID]; ok {
		if m, ok := chat[userID]; ok {
			return m, nil
		}
	}
	return Member{Status: StatusUnknown}, nil
}

// Texts returns every non-deleted text message sent to the chat.
func (r *Recorder) Texts(chatID int64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.Sent {
		if m.ChatID == chatID && m.Text != "" && !m.Deleted {
			out = append(out, m.Text)
		}
	}
	return out
}
