package command

import "marvin/internal/retention"

type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Point at the full command list" }
func (c *HelpCommand) Aliases() []string   { return []string{} }
func (c *HelpCommand) RequireAdmin() bool  { return false }

func (c *HelpCommand) Run(ctx *Context) error {
	return ctx.ReplyTransient(
		"Send me /start in a private chat and I'll list everything I can do.",
		retention.ShortTTL, "Standard")
}

func init() {
	Register(&HelpCommand{})
}
