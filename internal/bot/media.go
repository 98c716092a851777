package bot

import (
	"strings"

	"github.com/rs/zerolog/log"

	"marvin/internal/retention"
	"marvin/internal/storage"
	"marvin/internal/trigger"
)

// KindMediaTrigger marks the prompt service message that waits for a
// media reply to finish an /add ... -> MEDIA trigger.
const KindMediaTrigger = "MediaTrigger"

// MediaInbound is one inbound GIF, photo or sticker.
type MediaInbound struct {
	ChatID int64
	UserID int64
	Kind   string // trigger.KindGIF, KindPhoto or KindSticker
	FileID string
	Reply  *Reply
}

// HandleMedia finishes a pending media trigger: if the media replies to
// an outstanding MediaTrigger prompt, the captured file becomes the
// trigger's response. Any other media is ignored.
func (e *Engine) HandleMedia(in MediaInbound) {
	if in.Reply == nil || !in.Reply.IsBot {
		return
	}

	var pending bool
	err := e.Store.View(in.ChatID, func(r *storage.Record) error {
		for _, sm := range r.ServiceMessages {
			if sm.Kind == KindMediaTrigger && sm.MessageID == in.Reply.MessageID {
				pending = true
				return nil
			}
		}
		return nil
	})
	if err != nil || !pending {
		return
	}

	word, ok := parseTriggerWordFromPrompt(in.Reply.Text)
	if !ok {
		return
	}

	if _, err := e.Triggers.Save(in.ChatID, word, "media", in.Kind, in.FileID); err != nil {
		log.Warn().Err(err).Int64("chat_id", in.ChatID).Str("trigger", word).Msg("failed to save media trigger")
		return
	}
	e.confirm(in.ChatID, "Trigger ["+word+"] saved with your "+in.Kind+".")
}

// parseTriggerWordFromPrompt recovers the trigger word from the first
// line of the prompt, which echoes the original "/add word -> MEDIA".
func parseTriggerWordFromPrompt(prompt string) (string, bool) {
	line, _, _ := strings.Cut(prompt, "\n")
	_, rest, ok := strings.Cut(line, " ")
	if !ok {
		return "", false
	}
	word, _, ok := strings.Cut(rest, trigger.Separator)
	if !ok {
		return "", false
	}
	word = strings.ToLower(strings.TrimSpace(word))
	return word, word != ""
}

// confirm sends a short-lived confirmation notice.
func (e *Engine) confirm(chatID int64, text string) {
	msgID, err := e.Msgr.SendText(chatID, text)
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to send confirmation")
		return
	}
	if err := e.Retention.Record(chatID, msgID, retention.ShortTTL, "Standard"); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to record confirmation for cleanup")
	}
}
