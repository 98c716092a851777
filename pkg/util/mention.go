package util

import "fmt"

// Mention renders a tappable user mention for Markdown-mode messages.
// Falls back to the bare name when the user id is unknown.
func Mention(userID int64, name string) string {
	if name == "" {
		name = fmt.Sprintf("user %d", userID)
	}
	if userID == 0 {
		return name
	}
	return fmt.Sprintf("[%s](tg://user?id=%d)", name, userID)
}
