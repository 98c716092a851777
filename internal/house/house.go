// Package house defines the closed set of house affiliations and their
// rendering for chat surfaces (emoji, display name, sorting verse).
package house

import "strings"

type House string

const (
	Gryffindor House = "Gryffindor"
	Slytherin  House = "Slytherin"
	Hufflepuff House = "Hufflepuff"
	Ravenclaw  House = "Ravenclaw"
	HouseElf   House = "HouseElf"
	// Unaffiliated marks users that were never sorted ("muggles").
	Unaffiliated House = ""
)

// Competing lists the houses in declared precedence order. The order is
// load-bearing: term rollover ties resolve to the earliest house here.
func Competing() []House {
	return []House{Gryffindor, Slytherin, Hufflepuff, Ravenclaw, HouseElf}
}

// Parse resolves user input like "gryffindor" or "HouseElf" to a House.
func Parse(s string) (House, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gryffindor":
		return Gryffindor, true
	case "slytherin":
		return Slytherin, true
	case "hufflepuff":
		return Hufflepuff, true
	case "ravenclaw":
		return Ravenclaw, true
	case "houseelf", "house elf":
		return HouseElf, true
	}
	return Unaffiliated, false
}

func (h House) Emoji() string {
	switch h {
	case Gryffindor:
		return "🦁"
	case Slytherin:
		return "🐍"
	case Hufflepuff:
		return "🦡"
	case Ravenclaw:
		return "🦅"
	case HouseElf:
		return "🧝‍♀️"
	default:
		return "❌"
	}
}

func (h House) DisplayName() string {
	switch h {
	case HouseElf:
		return "House Elf"
	case Unaffiliated:
		return "Muggle"
	default:
		return string(h)
	}
}

// Verse is the sorting-hat announcement sent when a user is assigned.
func (h House) Verse() string {
	switch h {
	case Gryffindor:
		return "🦁 Gryffindor! 🦁\n\nWhere dwell the brave at heart,\nTheir daring, nerve, and chivalry,\nSet Gryffindors apart!"
	case Slytherin:
		return "🐍 Slytherin! 🐍\n\nYou'll make your real friends,\nThose cunning folks use any means,\nTo achieve their ends!"
	case Hufflepuff:
		return "🦡 Hufflepuff! 🦡\n\nWhere they are just and loyal,\nThose patient Hufflepuffs are true,\nAnd unafraid of toil!"
	case Ravenclaw:
		return "🦅 Ravenclaw! 🦅\n\nIf you've a ready mind,\nWhere those of wit and learning,\nWill always find their kind!"
	case HouseElf:
		return "🧝‍♀️ House Elf 🧝‍♀️\n\nA little unsure of their home,\nThey get to clean up our dirty work."
	default:
		return ""
	}
}
