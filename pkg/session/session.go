// Package session opens and tracks the remote browser session that page
// objects run against.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"

	"github.com/devicelab-dev/pagefactory/pkg/config"
	"github.com/devicelab-dev/pagefactory/pkg/core"
	seldriver "github.com/devicelab-dev/pagefactory/pkg/driver/selenium"
	"github.com/devicelab-dev/pagefactory/pkg/logger"
)

// Opener starts a remote session. selenium.NewRemote is the default.
type Opener func(caps selenium.Capabilities, urlPrefix string) (selenium.WebDriver, error)

// Capabilities builds the session capabilities for cfg's browser.
func Capabilities(cfg *config.Config) (selenium.Capabilities, error) {
	var args []string
	if cfg.Headless {
		args = append(args, "--headless")
	}

	switch browser := strings.ToLower(strings.TrimSpace(cfg.Browser)); browser {
	case "chrome":
		caps := selenium.Capabilities{"browserName": "chrome"}
		caps.AddChrome(chrome.Capabilities{Args: args})
		return caps, nil

	case "firefox":
		caps := selenium.Capabilities{"browserName": "firefox"}
		caps.AddFirefox(firefox.Capabilities{Args: args})
		return caps, nil

	case "edge":
		caps := selenium.Capabilities{"browserName": "MicrosoftEdge"}
		if len(args) > 0 {
			caps["ms:edgeOptions"] = map[string]interface{}{"args": args}
		}
		return caps, nil

	case "ie", "internet explorer":
		if cfg.Headless {
			return nil, core.ErrUnsupportedOperation.WithMessage("internet explorer does not support headless mode")
		}
		return selenium.Capabilities{"browserName": "internet explorer"}, nil

	default:
		return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("browser not supported: %q", cfg.Browser))
	}
}

// Session is one open browser.
type Session struct {
	wd     selenium.WebDriver
	driver *seldriver.Driver
	cfg    *config.Config
}

// Driver returns the session as a core.Driver for page objects.
func (s *Session) Driver() core.Driver {
	return s.driver
}

// WebDriver returns the underlying selenium session.
func (s *Session) WebDriver() selenium.WebDriver {
	return s.wd
}

// Open navigates to url, resolved against the configured base URL.
func (s *Session) Open(url string) error {
	target := s.cfg.PageURL(url)
	logger.Info("navigating to %s", target)
	return s.wd.Get(target)
}

// Manager hands out a single shared session, opening it on first use.
type Manager struct {
	cfg  *config.Config
	open Opener

	mu      sync.Mutex
	current *Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithOpener replaces the function used to start sessions.
func WithOpener(open Opener) Option {
	return func(m *Manager) { m.open = open }
}

// NewManager creates a Manager for cfg.
func NewManager(cfg *config.Config, opts ...Option) *Manager {
	m := &Manager{cfg: cfg, open: selenium.NewRemote}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the open session, starting one if needed.
func (m *Manager) Get() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return m.current, nil
	}

	caps, err := Capabilities(m.cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("starting %s session at %s (headless=%v)", m.cfg.Browser, m.cfg.WebDriverURL, m.cfg.Headless)
	wd, err := m.open(caps, m.cfg.WebDriverURL)
	if err != nil {
		return nil, core.ErrDriverFault.WithMessage("failed to start browser session").WithCause(err)
	}

	if m.cfg.Maximize {
		if err := wd.MaximizeWindow(""); err != nil {
			logger.Warn("failed to maximize window: %v", err)
		}
	}

	m.current = &Session{wd: wd, driver: seldriver.Wrap(wd), cfg: m.cfg}
	return m.current, nil
}

// Quit closes the open session, if any. The next Get starts a new one.
func (m *Manager) Quit() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}
	err := m.current.wd.Quit()
	m.current = nil
	return err
}
