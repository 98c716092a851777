package command

import (
	"strings"

	"marvin/internal/bot"
	"marvin/internal/retention"
	"marvin/internal/trigger"
)

// MediaKeyword on the response side of /add opens a media capture: the
// next GIF, photo or sticker replied to the prompt becomes the response.
const MediaKeyword = "MEDIA"

type AddCommand struct{}

func (c *AddCommand) Name() string        { return "add" }
func (c *AddCommand) Description() string { return "Add a trigger: /add word -> response" }
func (c *AddCommand) Aliases() []string   { return []string{} }
func (c *AddCommand) RequireAdmin() bool  { return false }

func (c *AddCommand) Run(ctx *Context) error {
	word, response, ok := strings.Cut(ctx.Args, trigger.Separator)
	word = strings.ToLower(strings.TrimSpace(word))
	response = strings.TrimSpace(response)
	if !ok || word == "" || response == "" {
		return ctx.ReplyTransient(
			"I need both halves: /add triggerWord -> triggerResponse",
			retention.ShortTTL, "Standard")
	}

	if response == MediaKeyword {
		prompt := "/add " + word + " " + trigger.Separator + " " + MediaKeyword + "\n" +
			"Reply to this message with the GIF, photo or sticker you want [" + word + "] to answer with."
		msgID, err := ctx.Msgr.SendText(ctx.ChatID, prompt)
		if err != nil {
			return err
		}
		return ctx.Retention.Record(ctx.ChatID, msgID, retention.LongTTL, bot.KindMediaTrigger)
	}

	created, err := ctx.Triggers.Save(ctx.ChatID, word, response, trigger.KindText, "")
	if err != nil {
		return err
	}
	verb := "updated"
	if created {
		verb = "saved"
	}
	return ctx.ReplyTransient("Trigger ["+word+"] "+verb+".", retention.ShortTTL, "Standard")
}

func init() {
	Register(&AddCommand{})
}
