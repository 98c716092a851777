package command

import (
	"strings"

	"marvin/internal/retention"
)

type DelCommand struct{}

func (c *DelCommand) Name() string        { return "del" }
func (c *DelCommand) Description() string { return "Delete a trigger: /del word" }
func (c *DelCommand) Aliases() []string   { return []string{"delete"} }
func (c *DelCommand) RequireAdmin() bool  { return false }

func (c *DelCommand) Run(ctx *Context) error {
	word := strings.ToLower(strings.TrimSpace(ctx.Args))
	if word == "" {
		return ctx.ReplyTransient("Which trigger? /del triggerWord", retention.ShortTTL, "Standard")
	}
	found, err := ctx.Triggers.Delete(ctx.ChatID, word)
	if err != nil {
		return err
	}
	if !found {
		return ctx.ReplyTransient("No trigger ["+word+"] here.", retention.ShortTTL, "Standard")
	}
	return ctx.ReplyTransient("Trigger ["+word+"] deleted.", retention.ShortTTL, "Standard")
}

func init() {
	Register(&DelCommand{})
}
