package events

import (
	"fmt"

	"marvin/internal/house"
	"marvin/internal/modifier"
	"marvin/pkg/util"
)

const underdogBonus = 75

// Epic tier: rare, major swings to the rules or standings.
func (e *Engine) executeEpic(chatID int64, termID string, outcome int) (*EventResult, error) {
	res := &EventResult{Tier: TierEpic, Outcome: outcome}

	switch outcome {
	case 0:
		return e.installOnLastSpeaker(chatID, res, modifier.Block,
			"🚫 *Umbridge decree!* House %s %s is barred from receiving peer points for the next 4 hours.")
	case 1:
		return e.installOnLastSpeaker(chatID, res, modifier.Boost,
			"🔥 *Felix Felicis!* House %s %s earns double peer points for the next 4 hours.")
	case 2:
		return e.vanishLeader(chatID, termID, res)
	case 3:
		return e.underdogChampionBonus(chatID, termID, res)
	default:
		return nil, fmt.Errorf("unknown epic outcome %d", outcome)
	}
}

// installOnLastSpeaker pins a modifier on the house of the most recent
// active speaker. Speakers without a house are spared.
func (e *Engine) installOnLastSpeaker(chatID int64, res *EventResult, kind modifier.Kind, format string) (*EventResult, error) {
	speaker, ok, err := e.activity.LastSpeaker(chatID)
	if err != nil {
		return nil, err
	}
	if !ok || speaker.House == house.Unaffiliated {
		return res, nil
	}
	if err := e.mods.Install(chatID, kind, speaker.House, ModifierTTL); err != nil {
		return nil, err
	}
	res.Announcement = fmt.Sprintf(format, speaker.House.Emoji(), speaker.House.DisplayName())
	return res, nil
}

// vanishLeader zeroes the term's top scorer. The prior total survives
// only in the announcement.
func (e *Engine) vanishLeader(chatID int64, termID string, res *EventResult) (*EventResult, error) {
	top, err := e.ledger.TopScorer(chatID, termID)
	if err != nil {
		return nil, err
	}
	if top == nil {
		return res, nil
	}
	prior, err := e.ledger.ResetUser(chatID, termID, top.UserID)
	if err != nil {
		return nil, err
	}
	res.Announcement = fmt.Sprintf(
		"🧨 *Evanesco!* The points of %s, all %d of them, vanish into thin air. Back to zero.",
		util.Mention(top.UserID, top.Username), prior)
	return res, nil
}

// underdogChampionBonus hands the champion of the lowest-ranked house a
// flat bonus. House Elves are skipped unless they are the only house
// with any points on the board; with no data anywhere this is a no-op.
func (e *Engine) underdogChampionBonus(chatID int64, termID string, res *EventResult) (*EventResult, error) {
	totals, err := e.ledger.SummarizeByHouse(chatID, termID)
	if err != nil {
		return nil, err
	}

	target, ok := lowestHouse(totals)
	if !ok {
		return res, nil
	}

	champ, err := e.ledger.ChampionOf(chatID, termID, target)
	if err != nil {
		return nil, err
	}
	if champ == nil {
		return res, nil
	}

	total, err := e.ledger.Apply(chatID, termID, champ.UserID, underdogBonus)
	if err != nil {
		return nil, err
	}
	res.Announcement = fmt.Sprintf(
		"🌟 *The underdogs rally!* %s, champion of last-placed %s %s, is awarded %d points. New total: %d.",
		util.Mention(champ.UserID, champ.Username), target.Emoji(), target.DisplayName(), underdogBonus, total)
	return res, nil
}

// lowestHouse ranks houses with data ascending by total, skipping the
// non-competitive House Elves unless nobody else has scored.
func lowestHouse(totals map[house.House]int) (house.House, bool) {
	var target house.House
	found := false
	for _, h := range house.Competing() {
		if h == house.HouseElf {
			continue
		}
		total, ok := totals[h]
		if !ok {
			continue
		}
		if !found || total < totals[target] {
			target = h
			found = true
		}
	}
	if found {
		return target, true
	}
	if _, ok := totals[house.HouseElf]; ok {
		return house.HouseElf, true
	}
	return house.Unaffiliated, false
}
