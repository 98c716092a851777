// Package bot runs the transport-neutral inbound pipeline. The
// transport adapter translates platform updates into Inbound values;
// everything the reputation engine does happens synchronously inside
// HandleMessage.
package bot

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"marvin/internal/activity"
	"marvin/internal/config"
	"marvin/internal/events"
	"marvin/internal/ledger"
	"marvin/internal/messenger"
	"marvin/internal/retention"
	"marvin/internal/rules"
	"marvin/internal/sass"
	"marvin/internal/storage"
	"marvin/internal/term"
	"marvin/internal/trigger"
	"marvin/pkg/util"
)

type Engine struct {
	Cfg       *config.Config
	Store     *storage.Storage
	Msgr      messenger.Messenger
	Ledger    *ledger.Ledger
	Rules     *rules.Evaluator
	Terms     *term.Manager
	Events    *events.Engine
	Retention *retention.Queue
	Activity  *activity.Tracker
	Triggers  *trigger.Store
	Sass      *sass.Pool
}

// Inbound is one plain text group message.
type Inbound struct {
	ChatID    int64
	MessageID int
	UserID    int64
	Username  string
	Status    string // sender's membership status as reported by the platform
	Text      string
	Reply     *Reply
}

// Reply describes the message an Inbound replies to, when it does.
type Reply struct {
	MessageID int
	UserID    int64
	Username  string
	IsBot     bool
	Text      string
}

var (
	positiveMarks = map[string]bool{"+": true, "❤️": true, "😍": true, "👍": true}
	negativeMarks = map[string]bool{"-": true, "😡": true, "👎": true}
)

// ReactionSign classifies a message text as a peer reaction: +1, -1 or
// 0 for not a reaction.
func ReactionSign(text string) int {
	switch {
	case positiveMarks[text]:
		return 1
	case negativeMarks[text]:
		return -1
	default:
		return 0
	}
}

// HandleMessage runs the whole per-activity pipeline: term upkeep,
// trigger lookup, activity tracking, sass, the snitch check, peer
// reactions, event ticks, and finally the retention sweep.
func (e *Engine) HandleMessage(in Inbound) {
	currentTerm, err := e.Terms.EnsureCurrentTerm(in.ChatID)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", in.ChatID).Msg("failed to ensure current term")
		return
	}

	e.answerTrigger(in)

	if err := e.Activity.Touch(in.ChatID, in.UserID, in.Username, in.Status); err != nil {
		log.Warn().Err(err).Int64("chat_id", in.ChatID).Msg("failed to record activity")
	}

	e.maybeSass(in.ChatID)

	handled, err := e.Events.HandleReply(in.ChatID, currentTerm.TermID, in.UserID, in.Username, in.Text)
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", in.ChatID).Msg("snitch check failed")
	}

	if !handled {
		e.handlePeerReaction(in, currentTerm.TermID)
	}

	if _, err := e.Events.Tick(in.ChatID, currentTerm.TermID, events.TierStandard, e.Cfg.StandardEventFrequency); err != nil {
		log.Warn().Err(err).Int64("chat_id", in.ChatID).Msg("standard event tick failed")
	}
	if _, err := e.Events.Tick(in.ChatID, currentTerm.TermID, events.TierEpic, e.Cfg.EpicEventFrequency); err != nil {
		log.Warn().Err(err).Int64("chat_id", in.ChatID).Msg("epic event tick failed")
	}

	if err := e.Retention.Sweep(in.ChatID); err != nil {
		log.Warn().Err(err).Int64("chat_id", in.ChatID).Msg("retention sweep failed")
	}
}

// answerTrigger replies when the message text matches a stored trigger.
func (e *Engine) answerTrigger(in Inbound) {
	trig, found, err := e.Triggers.Lookup(in.ChatID, in.Text)
	if err != nil || !found {
		return
	}
	switch trig.Kind {
	case trigger.KindSticker:
		_, err = e.Msgr.SendSticker(in.ChatID, trig.MediaID)
	case trigger.KindGIF:
		_, err = e.Msgr.SendMedia(in.ChatID, messenger.MediaGIF, trig.MediaID)
	case trigger.KindPhoto:
		_, err = e.Msgr.SendMedia(in.ChatID, messenger.MediaPhoto, trig.MediaID)
	default:
		_, err = e.Msgr.SendText(in.ChatID, trig.Response)
	}
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", in.ChatID).Str("trigger", trig.Word).Msg("failed to answer trigger")
	}
}

// maybeSass emits an unprompted personality line every Nth message.
func (e *Engine) maybeSass(chatID int64) {
	fired, err := e.Store.BumpCounter(chatID, "sass", e.Cfg.SassFrequency)
	if err != nil || !fired {
		return
	}
	if line, ok := e.Sass.Line(); ok {
		if _, err := e.Msgr.SendText(chatID, line); err != nil {
			log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to send sass")
		}
	}
}

// handlePeerReaction routes a +/- reply through the rules evaluator.
// Replies to the bot itself are ignored.
func (e *Engine) handlePeerReaction(in Inbound, termID string) {
	if in.Reply == nil || in.Reply.IsBot {
		return
	}
	sign := ReactionSign(in.Text)
	if sign == 0 {
		return
	}

	outcome, err := e.Rules.EvaluatePeerReaction(in.ChatID, termID, in.UserID, in.Reply.UserID, sign)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", in.ChatID).Msg("failed to evaluate peer reaction")
		return
	}

	text := renderReaction(in, sign, outcome)
	msgID, err := e.Msgr.SendText(in.ChatID, text)
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", in.ChatID).Msg("failed to announce reaction")
		return
	}
	if err := e.Retention.Record(in.ChatID, msgID, retention.StandardTTL, "Standard"); err != nil {
		log.Warn().Err(err).Int64("chat_id", in.ChatID).Msg("failed to record reaction announcement")
	}
}

func renderReaction(in Inbound, sign int, outcome rules.Outcome) string {
	giver := util.Mention(in.UserID, in.Username)
	receiver := util.Mention(in.Reply.UserID, in.Reply.Username)

	if outcome.Blocked {
		return fmt.Sprintf("🚫 %s's house is currently barred from receiving points. %s's generosity evaporates.",
			receiver, giver)
	}

	verb := "awarded"
	points := "a House point"
	if sign < 0 {
		verb = "deducted"
	}
	if outcome.Boosted {
		points = "a doubled House point"
	}
	return fmt.Sprintf("%s has %s %s of %s %s!\nTheir new total for this Term is: %d",
		giver, verb, receiver, outcome.House.Emoji(), points, outcome.NewTotal)
}
