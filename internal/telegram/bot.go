// Package telegram is the transport adapter: it turns Bot API updates
// into engine inbounds and command invocations.
package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"marvin/internal/bot"
	"marvin/internal/command"
	"marvin/internal/trigger"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	engine *bot.Engine
	deps   *command.Deps
}

func NewBot(api *tgbotapi.BotAPI, engine *bot.Engine, deps *command.Deps) *Bot {
	return &Bot{api: api, engine: engine, deps: deps}
}

// Run consumes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	log.Info().Str("bot", b.api.Self.UserName).Msg("listening for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.dispatch(update.Message)
		}
	}
}

func (b *Bot) dispatch(msg *tgbotapi.Message) {
	if msg.From.IsBot {
		return
	}

	if msg.IsCommand() {
		b.runCommand(msg)
		return
	}

	if kind, fileID, ok := mediaOf(msg); ok {
		b.engine.HandleMedia(bot.MediaInbound{
			ChatID: msg.Chat.ID,
			UserID: msg.From.ID,
			Kind:   kind,
			FileID: fileID,
			Reply:  replyOf(msg),
		})
		return
	}

	if msg.Text == "" {
		return
	}
	b.engine.HandleMessage(bot.Inbound{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		UserID:    msg.From.ID,
		Username:  usernameOf(msg.From),
		Status:    "member",
		Text:      msg.Text,
		Reply:     replyOf(msg),
	})
}

func (b *Bot) runCommand(msg *tgbotapi.Message) {
	cmd, ok := command.Get(msg.Command())
	if !ok {
		return
	}
	ctx := &command.Context{
		Deps:     b.deps,
		ChatID:   msg.Chat.ID,
		UserID:   msg.From.ID,
		Username: usernameOf(msg.From),
		Args:     msg.CommandArguments(),
		Private:  msg.Chat.IsPrivate(),
	}
	if err := cmd.Run(ctx); err != nil {
		log.Error().Err(err).Str("command", msg.Command()).Int64("chat_id", msg.Chat.ID).Msg("command failed")
	}
}

func mediaOf(msg *tgbotapi.Message) (kind, fileID string, ok bool) {
	switch {
	case msg.Sticker != nil:
		return trigger.KindSticker, msg.Sticker.FileID, true
	case msg.Animation != nil:
		return trigger.KindGIF, msg.Animation.FileID, true
	case len(msg.Photo) > 0:
		return trigger.KindPhoto, msg.Photo[len(msg.Photo)-1].FileID, true
	}
	return "", "", false
}

func replyOf(msg *tgbotapi.Message) *bot.Reply {
	r := msg.ReplyToMessage
	if r == nil || r.From == nil {
		return nil
	}
	text := r.Text
	if text == "" {
		text = r.Caption
	}
	return &bot.Reply{
		MessageID: r.MessageID,
		UserID:    r.From.ID,
		Username:  usernameOf(r.From),
		IsBot:     r.From.IsBot,
		Text:      text,
	}
}

func usernameOf(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}
