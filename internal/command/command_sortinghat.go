package command

import (
	"strings"

	"marvin/internal/house"
	"marvin/internal/retention"
)

type SortingHatCommand struct{}

func (c *SortingHatCommand) Name() string { return "sortinghat" }
func (c *SortingHatCommand) Description() string {
	return "Sort members into houses, or show the roster"
}
func (c *SortingHatCommand) Aliases() []string  { return []string{"sort"} }
func (c *SortingHatCommand) RequireAdmin() bool { return false }

func (c *SortingHatCommand) Run(ctx *Context) error {
	fields := strings.Fields(ctx.Args)
	switch len(fields) {
	case 0:
		return c.roster(ctx)
	case 1:
		return c.lookup(ctx, fields[0])
	default:
		return c.assign(ctx, fields[0], strings.Join(fields[1:], " "))
	}
}

func (c *SortingHatCommand) roster(ctx *Context) error {
	members, err := ctx.Activity.List(ctx.ChatID, false)
	if err != nil {
		return err
	}
	byHouse := map[house.House][]string{}
	for _, m := range members {
		byHouse[m.House] = append(byHouse[m.House], m.Username)
	}

	var sb strings.Builder
	sb.WriteString("*The Sorting Hat's ledger:*\n")
	for _, h := range house.Competing() {
		names := byHouse[h]
		if len(names) == 0 {
			continue
		}
		sb.WriteString("\n" + h.Emoji() + " *" + h.DisplayName() + "*: " + strings.Join(names, ", ") + "\n")
	}
	if names := byHouse[house.Unaffiliated]; len(names) > 0 {
		sb.WriteString("\n" + house.Unaffiliated.Emoji() + " *" + house.Unaffiliated.DisplayName() + "s*: " + strings.Join(names, ", ") + "\n")
	}
	if sb.Len() == len("*The Sorting Hat's ledger:*\n") {
		return ctx.ReplyTransient("The hat hasn't met anyone here yet.", retention.ShortTTL, "Standard")
	}
	return ctx.ReplyTransient(sb.String(), retention.LongTTL, "Standard")
}

func (c *SortingHatCommand) lookup(ctx *Context, mention string) error {
	member, ok, err := ctx.Activity.Resolve(ctx.ChatID, mention)
	if err != nil {
		return err
	}
	if !ok {
		return c.unknownUser(ctx, mention)
	}
	if member.House == house.Unaffiliated {
		return ctx.ReplyTransient(
			member.Username+" hasn't been sorted yet. A "+house.Unaffiliated.DisplayName()+", for now.",
			retention.StandardTTL, "Standard")
	}
	return ctx.ReplyTransient(
		member.House.Emoji()+" "+member.Username+" belongs to "+member.House.DisplayName()+".",
		retention.StandardTTL, "Standard")
}

func (c *SortingHatCommand) assign(ctx *Context, mention, houseName string) error {
	h, ok := house.Parse(houseName)
	if !ok {
		return ctx.ReplyTransient(
			"Never heard of that house. Try Gryffindor, Slytherin, Hufflepuff, Ravenclaw or HouseElf.",
			retention.ShortTTL, "Standard")
	}
	member, ok, err := ctx.Activity.Resolve(ctx.ChatID, mention)
	if err != nil {
		return err
	}
	if !ok {
		return c.unknownUser(ctx, mention)
	}
	if err := ctx.Activity.SetHouse(ctx.ChatID, member.UserID, h); err != nil {
		return err
	}
	return ctx.Reply(h.Emoji() + " *" + member.Username + "* ... " + h.DisplayName() + "!\n\n_" + h.Verse() + "_")
}

func (c *SortingHatCommand) unknownUser(ctx *Context, mention string) error {
	mention = strings.TrimPrefix(mention, "@")
	return ctx.ReplyTransient(
		"I don't know "+mention+" yet. They need to say something first.",
		retention.ShortTTL, "Standard")
}

func init() {
	Register(&SortingHatCommand{})
}
