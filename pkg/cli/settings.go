package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/pagefactory/pkg/config"
	"github.com/devicelab-dev/pagefactory/pkg/logger"
)

// isSet reports whether a flag was given on this command or any parent.
// When run as a subcommand, global flags live in the parent context.
func isSet(c *cli.Context, name string) bool {
	for _, ctx := range c.Lineage() {
		if ctx != nil && ctx.IsSet(name) {
			return true
		}
	}
	return false
}

// loadSettings layers defaults, pagefactory.yaml, .env, the environment and
// finally explicit flags, then starts logging.
func loadSettings(c *cli.Context) (*config.Config, error) {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if isSet(c, "browser") {
		cfg.Browser = c.String("browser")
	}
	if isSet(c, "headless") {
		cfg.Headless = c.Bool("headless")
	}
	if isSet(c, "maximize") {
		cfg.Maximize = c.Bool("maximize")
	}
	if isSet(c, "webdriver-url") {
		cfg.WebDriverURL = c.String("webdriver-url")
	}
	if isSet(c, "base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if isSet(c, "wait-timeout") {
		cfg.WaitTimeout = c.Duration("wait-timeout")
	}
	if isSet(c, "log-file") {
		cfg.LogFile = c.String("log-file")
	}
	if c.Bool("verbose") {
		cfg.LogLevel = "debug"
		if cfg.LogFile == "" {
			if err := os.MkdirAll(config.GetLogDir(), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
			cfg.LogFile = config.DefaultLogFile()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.LogFile, cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		logger.Debug("loaded config from %s", cfg.Source)
	}
	return cfg, nil
}
