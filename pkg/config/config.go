// Package config handles configuration for pagefactory.
//
// Settings are layered: built-in defaults, then pagefactory.yaml, then
// variables from a .env file, then the process environment. Command-line
// flags are applied last by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvBrowser      = "PAGEFACTORY_BROWSER"
	EnvHeadless     = "PAGEFACTORY_HEADLESS"
	EnvMaximize     = "PAGEFACTORY_MAXIMIZE"
	EnvWebDriverURL = "PAGEFACTORY_WEBDRIVER_URL"
	EnvBaseURL      = "PAGEFACTORY_BASE_URL"
	EnvWaitTimeout  = "PAGEFACTORY_WAIT_TIMEOUT"
	EnvLogLevel     = "PAGEFACTORY_LOG_LEVEL"
	EnvLogFile      = "PAGEFACTORY_LOG_FILE"
)

// Defaults.
const (
	DefaultBrowser      = "chrome"
	DefaultWebDriverURL = "http://localhost:4444/wd/hub"
	DefaultWaitTimeout  = 10 * time.Second
	DefaultLogLevel     = "info"
)

// Browsers lists the browsers a session can be opened for.
var Browsers = []string{"chrome", "firefox", "edge", "ie"}

// Config represents the workspace configuration (pagefactory.yaml).
type Config struct {
	// Browser settings
	Browser      string `yaml:"browser"`      // chrome, firefox, edge, ie
	Headless     bool   `yaml:"headless"`     // run without a window (not supported for ie)
	Maximize     bool   `yaml:"maximize"`     // maximize the window after start
	WebDriverURL string `yaml:"webdriverUrl"` // remote end, e.g. a Selenium grid
	BaseURL      string `yaml:"baseUrl"`      // prefix for relative page URLs

	// Lookup settings
	WaitTimeout time.Duration `yaml:"waitTimeout"` // e.g. "10s"
	Locators    []string      `yaml:"locators"`    // locator files or directories

	// Logging
	LogLevel string `yaml:"logLevel"`
	LogFile  string `yaml:"logFile"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Browser:      DefaultBrowser,
		WebDriverURL: DefaultWebDriverURL,
		WaitTimeout:  DefaultWaitTimeout,
		LogLevel:     DefaultLogLevel,
	}
}

// Load loads configuration from a file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Source = path

	return cfg, nil
}

// LoadFromDir looks for pagefactory.yaml or pagefactory.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"pagefactory.yaml", "pagefactory.yml"} {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}

	// No config file found, return defaults
	return Default(), nil
}

// Discover loads the config from dir, falling back to the pagefactory home
// directory when dir has none.
func Discover(dir string) (*Config, error) {
	cfg, err := LoadFromDir(dir)
	if err != nil || cfg.Source != "" {
		return cfg, err
	}
	if home := GetHome(); home != "" && home != dir {
		return LoadFromDir(home)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides settings from PAGEFACTORY_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup(EnvBrowser); ok {
		c.Browser = v
	}
	if v, ok := lookup(EnvWebDriverURL); ok {
		c.WebDriverURL = v
	}
	if v, ok := lookup(EnvBaseURL); ok {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.LogFile = v
	}
	if v, ok := lookup(EnvHeadless); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHeadless, err)
		}
		c.Headless = b
	}
	if v, ok := lookup(EnvMaximize); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaximize, err)
		}
		c.Maximize = b
	}
	if v, ok := lookup(EnvWaitTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWaitTimeout, err)
		}
		c.WaitTimeout = d
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	var errs []error
	if !IsSupportedBrowser(c.Browser) {
		errs = append(errs, fmt.Errorf("unsupported browser %q (want one of %s)", c.Browser, strings.Join(Browsers, ", ")))
	}
	if strings.EqualFold(c.Browser, "ie") && c.Headless {
		errs = append(errs, errors.New("headless mode is not supported for ie"))
	}
	if c.WebDriverURL == "" {
		errs = append(errs, errors.New("webdriverUrl is required"))
	}
	if c.WaitTimeout < 0 {
		errs = append(errs, fmt.Errorf("waitTimeout must not be negative, got %s", c.WaitTimeout))
	}
	return errors.Join(errs...)
}

// IsSupportedBrowser reports whether name is one of Browsers.
func IsSupportedBrowser(name string) bool {
	for _, b := range Browsers {
		if strings.EqualFold(b, name) {
			return true
		}
	}
	return false
}

// PageURL joins BaseURL and a page path. Absolute URLs are returned as is.
func (c *Config) PageURL(path string) string {
	if path == "" || strings.Contains(path, "://") || c.BaseURL == "" {
		return path
	}
	return strings.TrimSuffix(c.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}
