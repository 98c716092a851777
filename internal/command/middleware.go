package command

import (
	"github.com/rs/zerolog/log"

	"marvin/internal/retention"
)

type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx *Context) error
}

func (w *wrappedCommand) Run(ctx *Context) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return w.Command.Run(ctx)
}

// Apply wraps cmd in the given middlewares, innermost first.
func Apply(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// WithAdminCheck blocks admin-only commands for regular members.
func WithAdminCheck() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *Context) error {
				if cmd.RequireAdmin() && !ctx.IsAdmin() {
					return ctx.ReplyTransient(
						"Yer not a Wizard Harry ... or ... an Admin.",
						retention.ShortTTL, "Standard")
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithCommandLog writes an audit line for every invocation.
func WithCommandLog() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *Context) error {
				log.Info().
					Str("command", cmd.Name()).
					Int64("chat_id", ctx.ChatID).
					Int64("user_id", ctx.UserID).
					Msg("command invoked")
				return cmd.Run(ctx)
			},
		}
	}
}
