package events

import (
	"fmt"
	"strings"

	"marvin/internal/storage"
	"marvin/pkg/util"
)

// Standard tier: frequent, mild point swings. All point changes here go
// straight to the ledger; modifiers do not apply to engine awards.
func (e *Engine) executeStandard(chatID int64, termID string, outcome int) (*EventResult, error) {
	res := &EventResult{Tier: TierStandard, Outcome: outcome}

	switch outcome {
	case 0:
		return e.announceSnitch(chatID, res)
	case 1:
		return e.lastSpeakerDelta(chatID, termID, res, -10,
			"💥 Peeves drops a chandelier on %s! 10 points from their hourglass. New total: %d")
	case 2:
		return e.randomMembersDelta(chatID, termID, res, 1, 10,
			"🦉 An owl delivers a mysterious prize! %s gains 10 points.")
	case 3:
		return e.lastSpeakerDelta(chatID, termID, res, -2,
			"🐀 Scabbers nibbles at %s's homework. 2 points lost. New total: %d")
	case 4:
		return e.lastSpeakerDelta(chatID, termID, res, 2,
			"✨ A charm well cast! %s earns 2 points. New total: %d")
	case 5:
		return e.randomMembersDelta(chatID, termID, res, 3, -5,
			"🌩 Filch catches students out of bed! %s each lose 5 points.")
	case 6:
		return e.randomMembersDelta(chatID, termID, res, 3, 5,
			"🍀 Liquid luck in the air! %s each gain 5 points.")
	default:
		return nil, fmt.Errorf("unknown standard outcome %d", outcome)
	}
}

// lastSpeakerDelta applies delta to the chat's most recent active
// speaker. No known speaker makes the event a quiet no-op.
func (e *Engine) lastSpeakerDelta(chatID int64, termID string, res *EventResult, delta int, format string) (*EventResult, error) {
	speaker, ok, err := e.activity.LastSpeaker(chatID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return res, nil
	}
	total, err := e.ledger.Apply(chatID, termID, speaker.UserID, delta)
	if err != nil {
		return nil, err
	}
	res.Announcement = fmt.Sprintf(format, util.Mention(speaker.UserID, speaker.Username), total)
	return res, nil
}

// randomMembersDelta applies delta to n distinct uniformly random active
// members, sampled without replacement.
func (e *Engine) randomMembersDelta(chatID int64, termID string, res *EventResult, n, delta int, format string) (*EventResult, error) {
	picked, err := e.activity.Sample(chatID, n)
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return res, nil
	}

	mentions := make([]string, 0, len(picked))
	for _, m := range picked {
		if _, err := e.ledger.Apply(chatID, termID, m.UserID, delta); err != nil {
			return nil, err
		}
		mentions = append(mentions, util.Mention(m.UserID, m.Username))
	}
	res.Announcement = fmt.Sprintf(format, strings.Join(mentions, ", "))
	return res, nil
}

// announceSnitch opens the snitch mini-game. This is the only outcome
// that awards nothing immediately: the points go to whoever replies
// with the catch phrase first while the snitch is still open.
func (e *Engine) announceSnitch(chatID int64, res *EventResult) (*EventResult, error) {
	text := fmt.Sprintf(
		"🏆 *The Golden Snitch has been released!* 🏆\n\nFirst to reply \"%s\" grabs %d points for their house. It stays loose for 48 hours. Fly fast.",
		SnitchCatchPhrase, snitchReward)

	msgID, err := e.msgr.SendText(chatID, text)
	if err != nil {
		return nil, err
	}

	created := e.now()
	err = e.store.Update(chatID, func(r *storage.Record) error {
		r.ServiceMessages = append(r.ServiceMessages, storage.ServiceMessage{
			MessageID:  msgID,
			CreatedAt:  created,
			TTLSeconds: int(snitchTTL.Seconds()),
			Kind:       KindSnitch,
			Status:     SnitchOpen,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Announcement = "" // already sent
	return res, nil
}
