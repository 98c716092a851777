// Package messenger abstracts the chat platform. The engine never talks
// to the transport directly; everything rides on this interface.
package messenger

import "errors"

// ErrNotFound is returned by DeleteMessage when the message is already
// gone. Cleanup paths treat it as success.
var ErrNotFound = errors.New("message not found")

type MemberStatus string

const (
	StatusMember  MemberStatus = "member"
	StatusAdmin   MemberStatus = "administrator"
	StatusCreator MemberStatus = "creator"
	StatusLeft    MemberStatus = "left"
	StatusKicked  MemberStatus = "kicked"
	StatusUnknown MemberStatus = "unknown"
)

func (s MemberStatus) Active() bool {
	switch s {
	case StatusMember, StatusAdmin, StatusCreator:
		return true
	}
	return false
}

// IsAdmin reports whether the member may use administrator commands.
func (s MemberStatus) IsAdmin() bool {
	return s == StatusAdmin || s == StatusCreator
}

type Member struct {
	Status      MemberStatus
	DisplayName string
}

type MediaKind string

const (
	MediaGIF   MediaKind = "gif"
	MediaPhoto MediaKind = "photo"
)

type Messenger interface {
	SendText(chatID int64, text string) (messageID int, err error)
	SendSticker(chatID int64, stickerID string) (messageID int, err error)
	SendMedia(chatID int64, kind MediaKind, fileID string) (messageID int, err error)
	PinMessage(chatID int64, messageID int) error
	DeleteMessage(chatID int64, messageID int) error
	// GetMember degrades to StatusUnknown on lookup failure; callers
	// exclude unknown members from selection pools.
	GetMember(chatID, userID int64) (Member, error)
}
