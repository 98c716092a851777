package command

import (
	"strings"

	"marvin/internal/retention"
	"marvin/pkg/util"
)

type ActivityCommand struct{}

func (c *ActivityCommand) Name() string        { return "activity" }
func (c *ActivityCommand) Description() string { return "Show who has gone quiet" }
func (c *ActivityCommand) Aliases() []string   { return []string{} }
func (c *ActivityCommand) RequireAdmin() bool  { return false }

func (c *ActivityCommand) Run(ctx *Context) error {
	full := strings.EqualFold(strings.TrimSpace(ctx.Args), "full")
	members, err := ctx.Activity.List(ctx.ChatID, !full)
	if err != nil {
		return err
	}

	if len(members) == 0 {
		if full {
			return ctx.ReplyTransient("I haven't seen anyone speak here yet.", retention.ShortTTL, "Standard")
		}
		return ctx.ReplyTransient("Nobody's been quiet lately. Chatty bunch.", retention.StandardTTL, "Standard")
	}

	var sb strings.Builder
	if full {
		sb.WriteString("*Last seen:*\n")
	} else {
		sb.WriteString("*Quiet for more than two days:*\n")
	}
	for _, m := range members {
		sb.WriteString(m.Username + " - " + util.RelativeTime(m.LastSeen) + "\n")
	}
	return ctx.ReplyTransient(sb.String(), retention.LongTTL, "Standard")
}

func init() {
	Register(&ActivityCommand{})
}
