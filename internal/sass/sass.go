// Package sass loads Marvin's personality lines. Sass.json feeds the
// periodic unprompted remarks, rollSass.json prefixes dice rolls.
package sass

import (
	"encoding/json"
	"math/rand"
	"os"

	"github.com/rs/zerolog/log"
)

type Pool struct {
	lines     []string
	rollLines []string
	rng       *rand.Rand
}

// Load reads both line files. A missing or broken file just disables
// that flavor of sass.
func Load(sassPath, rollSassPath string, rng *rand.Rand) *Pool {
	return &Pool{
		lines:     loadLines(sassPath),
		rollLines: loadLines(rollSassPath),
		rng:       rng,
	}
}

func loadLines(path string) []string {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("sass file not loaded")
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("sass file is not a JSON string array")
		return nil
	}
	return lines
}

// Line returns a random personality line, if any are loaded.
func (p *Pool) Line() (string, bool) {
	if len(p.lines) == 0 {
		return "", false
	}
	return p.lines[p.rng.Intn(len(p.lines))], true
}

// RollLine returns a random dice-roll remark, if any are loaded.
func (p *Pool) RollLine() (string, bool) {
	if len(p.rollLines) == 0 {
		return "", false
	}
	return p.rollLines[p.rng.Intn(len(p.rollLines))], true
}
