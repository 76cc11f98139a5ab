// Package config loads promptgen-cli settings from PROMPTGEN_* environment
// variables and command line flags. Flags win over the environment.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds promptgen-cli configuration.
type Config struct {
	Template    string `env:"PROMPTGEN_TEMPLATE"`
	TemplateDir string `env:"PROMPTGEN_TEMPLATE_DIR"`
	Prompt      string `env:"PROMPTGEN_PROMPT"`
	WildcardDir string `env:"PROMPTGEN_WILDCARD_DIR" envDefault:"wildcards"`
	Wrap        string `env:"PROMPTGEN_WRAP"         envDefault:"__"`
	Seed        string `env:"PROMPTGEN_SEED"`
	Count       int    `env:"PROMPTGEN_COUNT"        envDefault:"1"`
	Blocks      bool   `env:"PROMPTGEN_BLOCKS"`
	Interactive bool   `env:"PROMPTGEN_INTERACTIVE"`
	Watch       bool   `env:"PROMPTGEN_WATCH"`
	LogLevel    string `env:"PROMPTGEN_LOG_LEVEL"    envDefault:"warn"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseConfig parses the environment, then flags, into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Template, "template", cfg.Template, "template name to render from -template-dir")
	fs.StringVar(&cfg.TemplateDir, "template-dir", cfg.TemplateDir, "directory holding .tpl templates")
	fs.StringVar(&cfg.Prompt, "prompt", cfg.Prompt, "inline template source to render")
	fs.StringVar(&cfg.WildcardDir, "wildcards", cfg.WildcardDir, "wildcard directory")
	fs.StringVar(&cfg.Wrap, "wrap", cfg.Wrap, "marker around wildcard names")
	fs.StringVar(&cfg.Seed, "seed", cfg.Seed, "seed for reproducible output")
	fs.IntVar(&cfg.Count, "count", cfg.Count, "number of prompts to render")
	fs.BoolVar(&cfg.Blocks, "blocks", cfg.Blocks, "print captured prompt blocks instead of the output")
	fs.BoolVar(&cfg.Interactive, "interactive", cfg.Interactive, "browse wildcards interactively")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload wildcard files when they change")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration that cannot produce output.
func (c Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("count must be positive, got %d", c.Count)
	}
	if _, _, err := c.SeedValue(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if !c.Interactive && c.Template == "" && c.Prompt == "" {
		return fmt.Errorf("one of -template, -prompt or -interactive is required")
	}
	if c.Template != "" && c.Prompt != "" {
		return fmt.Errorf("-template and -prompt are mutually exclusive")
	}
	return nil
}

// SeedValue returns the parsed seed and whether one was set.
func (c Config) SeedValue() (uint64, bool, error) {
	raw := strings.TrimSpace(c.Seed)
	if raw == "" {
		return 0, false, nil
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid seed %q: %w", raw, err)
	}
	return seed, true, nil
}

// Level returns the configured slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
