package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMention(t *testing.T) {
	assert.Equal(t, "[harry](tg://user?id=42)", Mention(42, "harry"))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-15 09:30:00", FormatDate(d))
}

func TestRelativeTime(t *testing.T) {
	assert.Contains(t, RelativeTime(time.Now().Add(-2*time.Hour)), "ago")
}
