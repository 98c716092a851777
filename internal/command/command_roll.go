package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"marvin/internal/retention"
)

type RollCommand struct{}

func (c *RollCommand) Name() string        { return "roll" }
func (c *RollCommand) Description() string { return "Roll dice, 1d8 by default" }
func (c *RollCommand) Aliases() []string   { return []string{"dice"} }
func (c *RollCommand) RequireAdmin() bool  { return false }

var rollSpecRe = regexp.MustCompile(`^(\d{1,2})[dD](\d{1,3})$`)

func (c *RollCommand) Run(ctx *Context) error {
	count, sides := 1, 8
	if args := strings.TrimSpace(ctx.Args); args != "" {
		m := rollSpecRe.FindStringSubmatch(args)
		if m == nil {
			return ctx.ReplyTransient(
				"That's no dice I've ever seen. Try /roll or /roll 2d8.",
				retention.ShortTTL, "Standard")
		}
		count, _ = strconv.Atoi(m[1])
		sides, _ = strconv.Atoi(m[2])
		if count < 1 || sides < 2 {
			return ctx.ReplyTransient(
				"That's no dice I've ever seen. Try /roll or /roll 2d8.",
				retention.ShortTTL, "Standard")
		}
	}

	total := 0
	rolls := make([]string, 0, count)
	for i := 0; i < count; i++ {
		v := ctx.Rng.Intn(sides) + 1
		total += v
		rolls = append(rolls, strconv.Itoa(v))
	}

	var sb strings.Builder
	if line, ok := ctx.Sass.RollLine(); ok {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("🎲 %dd%d: %s", count, sides, strings.Join(rolls, " + ")))
	if count > 1 {
		sb.WriteString(fmt.Sprintf(" = *%d*", total))
	}
	return ctx.ReplyTransient(sb.String(), retention.LongTTL, "Standard")
}

func init() {
	Register(&RollCommand{})
}
