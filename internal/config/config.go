package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN,required"`
	StoragePath   string `env:"STORAGE_PATH" envDefault:"marvin.json"`

	// TermLengthDays is how long one reputation term ("season") runs
	// before points are tallied and reset.
	TermLengthDays int `env:"TERM_LENGTH_DAYS" envDefault:"90"`

	// How many group messages pass between flavor emissions.
	SassFrequency          int `env:"SASS_FREQUENCY" envDefault:"400"`
	StandardEventFrequency int `env:"STANDARD_EVENT_FREQUENCY" envDefault:"150"`
	EpicEventFrequency     int `env:"EPIC_EVENT_FREQUENCY" envDefault:"1000"`

	SassPath     string `env:"SASS_PATH" envDefault:"Sass.json"`
	RollSassPath string `env:"ROLL_SASS_PATH" envDefault:"rollSass.json"`

	// LogPath enables rotated file logging when set.
	LogPath string `env:"LOG_PATH"`
}

func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, falling back to system environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}
