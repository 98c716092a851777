package command

import (
	"strings"

	"marvin/internal/retention"
	"marvin/internal/trigger"
)

type ListCommand struct{}

func (c *ListCommand) Name() string        { return "list" }
func (c *ListCommand) Description() string { return "List trigger words" }
func (c *ListCommand) Aliases() []string   { return []string{} }
func (c *ListCommand) RequireAdmin() bool  { return false }

func (c *ListCommand) Run(ctx *Context) error {
	triggers, err := ctx.Triggers.List(ctx.ChatID)
	if err != nil {
		return err
	}
	if len(triggers) == 0 {
		return ctx.ReplyTransient("No triggers here yet. /add one!", retention.ShortTTL, "Standard")
	}
	words := make([]string, 0, len(triggers))
	for _, t := range triggers {
		words = append(words, t.Word)
	}
	return ctx.ReplyTransient("*Triggers:* "+strings.Join(words, ", "), retention.LongTTL, "Standard")
}

type ListDetailCommand struct{}

func (c *ListDetailCommand) Name() string        { return "listdetail" }
func (c *ListDetailCommand) Description() string { return "PM the full trigger list with responses" }
func (c *ListDetailCommand) Aliases() []string   { return []string{} }
func (c *ListDetailCommand) RequireAdmin() bool  { return false }

func (c *ListDetailCommand) Run(ctx *Context) error {
	triggers, err := ctx.Triggers.List(ctx.ChatID)
	if err != nil {
		return err
	}
	if len(triggers) == 0 {
		return ctx.ReplyTransient("No triggers here yet. /add one!", retention.ShortTTL, "Standard")
	}

	var sb strings.Builder
	sb.WriteString("*Triggers in this chat:*\n")
	for _, t := range triggers {
		sb.WriteString("\n*" + t.Word + "*\n")
		if t.Kind == trigger.KindText {
			sb.WriteString(t.Response + "\n")
		} else {
			sb.WriteString("(" + t.Kind + ")\n")
		}
	}

	// Delivered privately so the full list does not flood the group.
	if _, err := ctx.Msgr.SendText(ctx.UserID, sb.String()); err != nil {
		return ctx.ReplyTransient(
			"I couldn't PM you. Open a private chat with me and send /start first.",
			retention.ShortTTL, "Standard")
	}
	if !ctx.Private {
		return ctx.ReplyTransient("Sent you the full list in private.", retention.ShortTTL, "Standard")
	}
	return nil
}

func init() {
	Register(&ListCommand{})
	Register(&ListDetailCommand{})
}
