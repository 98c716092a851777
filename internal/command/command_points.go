package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"marvin/internal/house"
	"marvin/internal/retention"
	"marvin/pkg/util"
)

// maxAdminDelta bounds a single /points award in either direction.
const maxAdminDelta = 20

type PointsCommand struct{}

func (c *PointsCommand) Name() string { return "points" }
func (c *PointsCommand) Description() string {
	return "Award points (admin) or show the standings"
}
func (c *PointsCommand) Aliases() []string  { return []string{} }
func (c *PointsCommand) RequireAdmin() bool { return false }

func (c *PointsCommand) Run(ctx *Context) error {
	fields := strings.Fields(ctx.Args)
	if len(fields) == 1 && strings.EqualFold(fields[0], "totals") {
		return c.totals(ctx)
	}
	if len(fields) == 2 {
		return c.award(ctx, fields[0], fields[1])
	}
	return ctx.ReplyTransient(
		"Try /points totals, or /points @username <amount>.",
		retention.ShortTTL, "Standard")
}

func (c *PointsCommand) totals(ctx *Context) error {
	cur, err := ctx.Terms.EnsureCurrentTerm(ctx.ChatID)
	if err != nil {
		return err
	}
	totals, err := ctx.Ledger.SummarizeByHouse(ctx.ChatID, cur.TermID)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("*House standings:*\n")
	scored := false
	houses := house.Competing()
	sort.SliceStable(houses, func(i, j int) bool { return totals[houses[i]] > totals[houses[j]] })
	for _, h := range houses {
		total, ok := totals[h]
		if !ok {
			continue
		}
		scored = true
		line := fmt.Sprintf("%s %s: %d", h.Emoji(), h.DisplayName(), total)
		if champ, err := ctx.Ledger.ChampionOf(ctx.ChatID, cur.TermID, h); err == nil && champ != nil {
			line += fmt.Sprintf(" (champion: %s, %d)", champ.Username, champ.Points)
		}
		sb.WriteString(line + "\n")
	}
	if !scored {
		sb.WriteString("No points awarded yet this term.\n")
	}
	sb.WriteString("\nThe term ends " + util.RelativeTime(cur.EndAt) + ".")

	if winner, err := ctx.Terms.LastWinner(ctx.ChatID); err == nil && winner != nil {
		sb.WriteString(fmt.Sprintf("\nLast term: %s %s won with %d points.",
			winner.House.Emoji(), winner.House.DisplayName(), winner.HousePoints))
	}
	return ctx.ReplyTransient(sb.String(), retention.LongTTL, "Standard")
}

func (c *PointsCommand) award(ctx *Context, mention, amount string) error {
	if !ctx.IsAdmin() {
		return ctx.ReplyTransient(
			"Yer not a Wizard Harry ... or ... an Admin.",
			retention.ShortTTL, "Standard")
	}

	delta, err := strconv.Atoi(amount)
	if err != nil || delta == 0 {
		return ctx.ReplyTransient(
			"That's not a number of points I can award.",
			retention.ShortTTL, "Standard")
	}
	if delta > maxAdminDelta || delta < -maxAdminDelta {
		return ctx.ReplyTransient(
			fmt.Sprintf("Stupefy! %d at once? %d points either way is the limit.", delta, maxAdminDelta),
			retention.ShortTTL, "Standard")
	}

	member, ok, err := ctx.Activity.Resolve(ctx.ChatID, mention)
	if err != nil {
		return err
	}
	if !ok {
		return ctx.ReplyTransient(
			"I don't know "+strings.TrimPrefix(mention, "@")+". They need to speak up first.",
			retention.ShortTTL, "Standard")
	}

	cur, err := ctx.Terms.EnsureCurrentTerm(ctx.ChatID)
	if err != nil {
		return err
	}
	total, err := ctx.Ledger.Apply(ctx.ChatID, cur.TermID, member.UserID, delta)
	if err != nil {
		return err
	}

	verb := "awarded to"
	shown := delta
	if delta < 0 {
		verb = "taken from"
		shown = -delta
	}
	text := fmt.Sprintf("%d points %s %s. They now have %d.", shown, verb, member.Username, total)
	if member.House != house.Unaffiliated {
		text = fmt.Sprintf("%d points %s %s of %s. They now have %d.",
			shown, verb, member.Username, member.House.DisplayName(), total)
	}
	return ctx.ReplyTransient(text, retention.StandardTTL, "Standard")
}

func init() {
	Register(&PointsCommand{})
}
