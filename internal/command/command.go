// Package command holds the chat command framework: the Command
// interface, the registry commands add themselves to at init time, and
// the middleware decorators applied on registration.
package command

import (
	"math/rand"
	"time"

	"marvin/internal/activity"
	"marvin/internal/config"
	"marvin/internal/ledger"
	"marvin/internal/messenger"
	"marvin/internal/retention"
	"marvin/internal/sass"
	"marvin/internal/storage"
	"marvin/internal/term"
	"marvin/internal/trigger"
)

type Command interface {
	Name() string
	Description() string
	Aliases() []string
	RequireAdmin() bool
	Run(ctx *Context) error
}

// Deps bundles everything a command may need. The transport adapter
// builds one Deps and shares it across invocations.
type Deps struct {
	Cfg       *config.Config
	Store     *storage.Storage
	Msgr      messenger.Messenger
	Ledger    *ledger.Ledger
	Terms     *term.Manager
	Activity  *activity.Tracker
	Triggers  *trigger.Store
	Retention *retention.Queue
	Sass      *sass.Pool
	Rng       *rand.Rand
}

// Context is one command invocation.
type Context struct {
	*Deps
	ChatID   int64
	UserID   int64
	Username string
	Args     string // raw text after the command name
	Private  bool
}

// Reply sends a plain response that is not cleaned up later.
func (c *Context) Reply(text string) error {
	_, err := c.Msgr.SendText(c.ChatID, text)
	return err
}

// ReplyTransient sends a response and registers it for deletion after
// ttl.
func (c *Context) ReplyTransient(text string, ttl time.Duration, kind string) error {
	msgID, err := c.Msgr.SendText(c.ChatID, text)
	if err != nil {
		return err
	}
	return c.Retention.Record(c.ChatID, msgID, ttl, kind)
}

// IsAdmin asks the chat platform whether the caller is a chat
// administrator or the chat creator.
func (c *Context) IsAdmin() bool {
	member, err := c.Msgr.GetMember(c.ChatID, c.UserID)
	if err != nil {
		return false
	}
	return member.Status.IsAdmin()
}
