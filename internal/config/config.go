// Package config loads server settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/quiz"
)

// BankDataFile is the question bank looked up in the XDG data directories
const BankDataFile = "minequiz/questions.txt"

// LocalBankFile is the question bank looked up next to the binary
const LocalBankFile = "assets/questions.txt"

// InvalidConfig reports a setting that cannot produce a playable game
type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

// Config holds every server setting
type Config struct {
	Addr      string `env:"ADDR" envDefault:":8080"`
	PublicURL string `env:"PUBLIC_URL"`
	Debug     bool   `env:"DEBUG"`

	BoardSize     int      `env:"BOARD_SIZE" envDefault:"16"`
	MineCount     int      `env:"MINE_COUNT" envDefault:"40"`
	DefuseSeconds int      `env:"DEFUSE_SECONDS" envDefault:"30"`
	ResetDelayMS  int      `env:"RESET_DELAY_MS" envDefault:"150"`
	SpinMS        int      `env:"SPIN_MS" envDefault:"5000"`
	Teams         []string `env:"TEAMS" envSeparator:"," envDefault:"Group 1,Group 2,Group 3,Group 4,Group 6"`

	PreQuizRate         float64 `env:"PRE_QUIZ_EFFECT_RATE" envDefault:"0.3"`
	PostQuizRate        float64 `env:"POST_QUIZ_EFFECT_RATE" envDefault:"0.3"`
	PenaltyTargetsActor bool    `env:"PENALTY_TARGETS_ACTOR" envDefault:"true"`
	SwapRedraw          bool    `env:"SWAP_REDRAW" envDefault:"false"`
	RevealCount         int     `env:"REVEAL_COUNT" envDefault:"3"`

	QuestionsFile string `env:"QUESTIONS_FILE"`
}

// Load reads .env when present, parses the environment and validates the result
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects boards and rates that cannot be played
func (c *Config) Validate() error {
	if c.BoardSize < 2 || c.BoardSize > 26 {
		return &InvalidConfig{fmt.Sprintf("BOARD_SIZE must be between 2 and 26, got %d", c.BoardSize)}
	}
	if c.MineCount < 1 || c.MineCount >= c.BoardSize*c.BoardSize {
		return &InvalidConfig{fmt.Sprintf("MINE_COUNT must be between 1 and %d, got %d", c.BoardSize*c.BoardSize-1, c.MineCount)}
	}
	if c.DefuseSeconds < 1 {
		return &InvalidConfig{"DEFUSE_SECONDS must be positive"}
	}
	if c.ResetDelayMS < 0 || c.SpinMS < 0 {
		return &InvalidConfig{"RESET_DELAY_MS and SPIN_MS cannot be negative"}
	}
	for name, rate := range map[string]float64{"PRE_QUIZ_EFFECT_RATE": c.PreQuizRate, "POST_QUIZ_EFFECT_RATE": c.PostQuizRate} {
		if rate < 0 || rate > 1 {
			return &InvalidConfig{fmt.Sprintf("%s must be within [0, 1], got %g", name, rate)}
		}
	}
	if c.RevealCount < 0 {
		return &InvalidConfig{"REVEAL_COUNT cannot be negative"}
	}
	return nil
}

// Game converts the settings into controller rules. teams overrides the
// configured roster when it names at least two teams.
func (c *Config) Game(teams []string) game.Config {
	if len(teams) < game.MinTeams {
		teams = c.Teams
	}
	if len(teams) < game.MinTeams {
		teams = game.DefaultTeams
	}
	return game.Config{
		Teams:               append([]string(nil), teams...),
		BoardSize:           c.BoardSize,
		MineCount:           c.MineCount,
		DefuseTime:          time.Duration(c.DefuseSeconds) * time.Second,
		ResetDelay:          time.Duration(c.ResetDelayMS) * time.Millisecond,
		PreQuizRate:         c.PreQuizRate,
		PostQuizRate:        c.PostQuizRate,
		PenaltyTargetsActor: c.PenaltyTargetsActor,
		SwapRedraw:          c.SwapRedraw,
		RevealCount:         c.RevealCount,
	}
}

// SpinDuration is how long the wheel animates before it resolves
func (c *Config) SpinDuration() time.Duration {
	return time.Duration(c.SpinMS) * time.Millisecond
}

// BankPath finds the default question bank: QUESTIONS_FILE, then the XDG
// data directories, then the local assets directory. An empty result means
// no file was found.
func (c *Config) BankPath() string {
	if c.QuestionsFile != "" {
		return c.QuestionsFile
	}
	if p, err := xdg.SearchDataFile(BankDataFile); err == nil {
		return p
	}
	if _, err := os.Stat(LocalBankFile); err == nil {
		return LocalBankFile
	}
	return ""
}

// LoadBank reads and parses the default question bank
func (c *Config) LoadBank() ([]quiz.Question, error) {
	path := c.BankPath()
	if path == "" {
		return nil, fmt.Errorf("no question bank found: %w", fs.ErrNotExist)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()

	bank, err := quiz.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	log.WithFields(log.Fields{"path": path, "questions": len(bank)}).Info("loaded question bank")
	return bank, nil
}
