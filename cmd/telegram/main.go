// cmd/telegram/main.go
package main

import (
	"context"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"marvin/internal/activity"
	"marvin/internal/bot"
	"marvin/internal/command"
	"marvin/internal/config"
	"marvin/internal/events"
	"marvin/internal/ledger"
	"marvin/internal/modifier"
	"marvin/internal/retention"
	"marvin/internal/rules"
	"marvin/internal/sass"
	"marvin/internal/storage"
	"marvin/internal/telegram"
	"marvin/internal/term"
	"marvin/internal/trigger"
	v "marvin/internal/version"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogging(cfg.LogPath)

	log.Info().Str("version", v.Version()).Msgf("starting %v bot", v.AppName)

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer store.Close()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Telegram")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	msgr := telegram.NewClient(api)

	ledg := ledger.New(store)
	mods := modifier.New(store)
	ruleEval := rules.New(store, ledg, mods)
	terms := term.NewManager(store, msgr, cfg.TermLengthDays)
	queue := retention.New(store, msgr)
	tracker := activity.New(store, msgr, rng)
	triggers := trigger.New(store)
	lines := sass.Load(cfg.SassPath, cfg.RollSassPath, rng)
	eventEngine := events.New(store, msgr, ledg, mods, tracker, queue, rng)

	engine := &bot.Engine{
		Cfg:       cfg,
		Store:     store,
		Msgr:      msgr,
		Ledger:    ledg,
		Rules:     ruleEval,
		Terms:     terms,
		Events:    eventEngine,
		Retention: queue,
		Activity:  tracker,
		Triggers:  triggers,
		Sass:      lines,
	}

	deps := &command.Deps{
		Cfg:       cfg,
		Store:     store,
		Msgr:      msgr,
		Ledger:    ledg,
		Terms:     terms,
		Activity:  tracker,
		Triggers:  triggers,
		Retention: queue,
		Sass:      lines,
		Rng:       rng,
	}

	tgBot := telegram.NewBot(api, engine, deps)

	errCh := make(chan error, 1)
	go func() {
		if err := tgBot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("telegram bot error")
		}
		cancel()
	case <-ctx.Done():
	}

	log.Info().Msg("telegram bot exited cleanly")
}

// setupLogging writes human-readable logs to stderr and, when a path is
// configured, JSON logs to a rotated file.
func setupLogging(logPath string) {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	var w io.Writer = console
	if logPath != "" {
		w = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
