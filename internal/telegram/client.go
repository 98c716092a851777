package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"marvin/internal/messenger"
	"marvin/pkg/ratelimit"
)

// Outbound pacing. Telegram allows roughly 30 messages per second
// overall; the limiter starts below that and adapts from there.
const (
	initialSendRate rate.Limit = 20
	minSendRate     rate.Limit = 1
	maxSendRate     rate.Limit = 25
)

// Client adapts the Bot API to the messenger interface the engine
// speaks. Every outbound call goes through an adaptive rate limiter so
// a chatty evening does not trip Telegram's flood control.
type Client struct {
	api *tgbotapi.BotAPI
	lim *ratelimit.Limiter
}

func NewClient(api *tgbotapi.BotAPI) *Client {
	return &Client{
		api: api,
		lim: ratelimit.New(initialSendRate, minSendRate, maxSendRate),
	}
}

func (c *Client) SendText(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := c.send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) SendSticker(chatID int64, stickerID string) (int, error) {
	sent, err := c.send(tgbotapi.NewSticker(chatID, tgbotapi.FileID(stickerID)))
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) SendMedia(chatID int64, kind messenger.MediaKind, fileID string) (int, error) {
	var msg tgbotapi.Chattable
	switch kind {
	case messenger.MediaPhoto:
		msg = tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	default:
		msg = tgbotapi.NewAnimation(chatID, tgbotapi.FileID(fileID))
	}
	sent, err := c.send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) PinMessage(chatID int64, messageID int) error {
	return c.request(tgbotapi.PinChatMessageConfig{
		ChatID:              chatID,
		MessageID:           messageID,
		DisableNotification: true,
	})
}

func (c *Client) DeleteMessage(chatID int64, messageID int) error {
	err := c.request(tgbotapi.NewDeleteMessage(chatID, messageID))
	if err != nil && strings.Contains(err.Error(), "message to delete not found") {
		return messenger.ErrNotFound
	}
	return err
}

func (c *Client) GetMember(chatID, userID int64) (messenger.Member, error) {
	c.wait()
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	c.report(err)
	if err != nil {
		return messenger.Member{Status: messenger.StatusUnknown}, err
	}

	m := messenger.Member{Status: mapStatus(member.Status)}
	if member.User != nil {
		m.DisplayName = member.User.UserName
		if m.DisplayName == "" {
			m.DisplayName = strings.TrimSpace(member.User.FirstName + " " + member.User.LastName)
		}
	}
	return m, nil
}

func (c *Client) send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	c.wait()
	sent, err := c.api.Send(msg)
	c.report(err)
	return sent, err
}

func (c *Client) request(msg tgbotapi.Chattable) error {
	c.wait()
	_, err := c.api.Request(msg)
	c.report(err)
	return err
}

func (c *Client) wait() {
	// Wait cannot fail without a context deadline.
	_ = c.lim.Wait(context.Background())
}

// report feeds the call outcome back into the limiter. Only flood
// control slows us down; other API errors say nothing about pace.
func (c *Client) report(err error) {
	switch {
	case err == nil:
		c.lim.Success()
	case strings.Contains(err.Error(), "Too Many Requests"):
		c.lim.Throttled()
	}
}

func mapStatus(s string) messenger.MemberStatus {
	switch s {
	case "creator":
		return messenger.StatusCreator
	case "administrator":
		return messenger.StatusAdmin
	case "member", "restricted":
		return messenger.StatusMember
	case "left":
		return messenger.StatusLeft
	case "kicked":
		return messenger.StatusKicked
	default:
		return messenger.StatusUnknown
	}
}
