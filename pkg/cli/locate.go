package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/playwright-community/playwright-go"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/pagefactory/pkg/config"
	"github.com/devicelab-dev/pagefactory/pkg/core"
	pwdriver "github.com/devicelab-dev/pagefactory/pkg/driver/playwright"
	"github.com/devicelab-dev/pagefactory/pkg/driver/webdriver"
	"github.com/devicelab-dev/pagefactory/pkg/locator"
	"github.com/devicelab-dev/pagefactory/pkg/logger"
	"github.com/devicelab-dev/pagefactory/pkg/repository"
	"github.com/devicelab-dev/pagefactory/pkg/session"
	"github.com/devicelab-dev/pagefactory/pkg/validator"
	"github.com/devicelab-dev/pagefactory/pkg/wait"
)

// Driver names accepted by --driver.
const (
	driverSelenium   = "selenium"
	driverWebDriver  = "webdriver"
	driverPlaywright = "playwright"
)

var locateCommand = &cli.Command{
	Name:      "locate",
	Usage:     "Resolve every element of a locator file against a live browser",
	ArgsUsage: "<file-or-folder>...",
	Description: `Open a browser, navigate to each page's URL and resolve every element
through its locators in priority order. Each tried locator is listed with its
outcome, so stale fallbacks are easy to spot.

Examples:
  pagefactory locate locators/login.yaml
  pagefactory locate --page login --wait locators/
  pagefactory locate --describe locators/login.yaml
  pagefactory --driver playwright --headless locate locators/`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "page",
			Usage: "Only resolve the page with this name",
		},
		&cli.BoolFlag{
			Name:  "wait",
			Usage: "Wait up to --wait-timeout for elements that are not there yet",
		},
		&cli.BoolFlag{
			Name:  "describe",
			Usage: "Print tag, text, position and state of each located element",
		},
	},
	Action: runLocate,
}

// browserSession is the part of an open browser the locate command needs.
type browserSession struct {
	driver   core.Driver
	navigate func(url string) error
	close    func() error
}

// openBrowser starts a browser; replaced in tests.
var openBrowser = func(cfg *config.Config, driverName string) (*browserSession, error) {
	switch strings.ToLower(driverName) {
	case driverSelenium, "":
		return openSelenium(cfg)
	case driverWebDriver:
		return openWebDriver(cfg)
	case driverPlaywright:
		return openPlaywright(cfg)
	default:
		return nil, fmt.Errorf("unknown driver %q (want %s, %s or %s)", driverName, driverSelenium, driverWebDriver, driverPlaywright)
	}
}

func openSelenium(cfg *config.Config) (*browserSession, error) {
	mgr := session.NewManager(cfg)
	s, err := mgr.Get()
	if err != nil {
		return nil, err
	}
	return &browserSession{driver: s.Driver(), navigate: s.Open, close: mgr.Quit}, nil
}

func openWebDriver(cfg *config.Config) (*browserSession, error) {
	caps, err := session.Capabilities(cfg)
	if err != nil {
		return nil, err
	}
	client := webdriver.NewClient(cfg.WebDriverURL)
	if err := client.Connect(map[string]interface{}(caps)); err != nil {
		return nil, err
	}
	if cfg.Maximize {
		if err := client.MaximizeWindow(); err != nil {
			logger.Warn("failed to maximize window: %v", err)
		}
	}
	return &browserSession{
		driver:   webdriver.NewDriver(client),
		navigate: func(url string) error { return client.Navigate(cfg.PageURL(url)) },
		close:    client.Disconnect,
	}, nil
}

func openPlaywright(cfg *config.Config) (*browserSession, error) {
	pw, err := playwright.Run(&playwright.RunOptions{
		Stdout: logger.GetWriter(),
		Stderr: logger.GetWriter(),
	})
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	opts := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(cfg.Headless)}
	var browserType playwright.BrowserType
	switch strings.ToLower(cfg.Browser) {
	case "chrome":
		browserType = pw.Chromium
		opts.Channel = playwright.String("chrome")
	case "edge":
		browserType = pw.Chromium
		opts.Channel = playwright.String("msedge")
	case "firefox":
		browserType = pw.Firefox
	default:
		pw.Stop()
		return nil, core.ErrUnsupportedOperation.WithMessage(fmt.Sprintf("playwright cannot drive %q", cfg.Browser))
	}

	browser, err := browserType.Launch(opts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}
	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	return &browserSession{
		driver: pwdriver.New(page),
		navigate: func(url string) error {
			_, err := page.Goto(cfg.PageURL(url))
			return err
		},
		close: func() error {
			if err := browser.Close(); err != nil {
				logger.Warn("failed to close browser: %v", err)
			}
			return pw.Stop()
		},
	}, nil
}

func runLocate(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("at least one locator file or folder is required")
	}

	cfg, err := loadSettings(c)
	if err != nil {
		return err
	}

	result := validator.New().Validate(c.Args().Slice()...)
	if !result.IsValid() {
		for _, e := range result.Errors {
			fmt.Fprintf(c.App.Writer, "  %s✗%s %v\n", color(colorRed), color(colorReset), e)
		}
		return cli.Exit("fix the locator files first (see pagefactory validate)", 1)
	}

	pages, err := selectPages(result.Repositories, c.String("page"))
	if err != nil {
		return err
	}

	browser, err := openBrowser(cfg, c.String("driver"))
	if err != nil {
		return err
	}
	defer func() {
		if err := browser.close(); err != nil {
			logger.Warn("failed to close session: %v", err)
		}
	}()

	var waiter *wait.Waiter
	if c.Bool("wait") {
		waiter = wait.New(browser.driver, wait.WithTimeout(cfg.WaitTimeout))
	}

	missing := 0
	for _, p := range pages {
		if p.URL != "" {
			if err := browser.navigate(p.URL); err != nil {
				return fmt.Errorf("failed to open %s: %w", p.URL, err)
			}
		}
		missing += locatePage(c.Context, c.App.Writer, browser.driver, waiter, c.Bool("describe"), p)
	}

	fmt.Fprintln(c.App.Writer)
	if missing > 0 {
		return cli.Exit(fmt.Sprintf("%d elements could not be located", missing), 1)
	}
	fmt.Fprintf(c.App.Writer, "%sall elements located%s\n", color(colorGreen), color(colorReset))
	return nil
}

// locatePage resolves every element of p and returns how many failed.
func locatePage(ctx context.Context, w io.Writer, driver core.Driver, waiter *wait.Waiter, describe bool, p *repository.Page) int {
	printPageHeader(w, p.Name, p.URL)

	missing := 0
	for _, e := range p.Elements {
		if e.Multiple {
			// Collections use their first locator only.
			sel := e.Locators.First()
			elems, err := locator.NewDefault(driver, sel).FindElements()
			printCount(w, e.Name, sel, len(elems), err)
			if err != nil {
				missing++
			}
			continue
		}

		r := locator.New(driver, e.Locators)
		found, attempts, err := r.Locate()
		if waiter != nil && errors.Is(err, core.ErrElementNotFound) {
			logger.Debug("waiting for %s.%s", p.Name, e.Name)
			if _, waitErr := waiter.For(ctx, r, wait.Present); waitErr == nil {
				found, attempts, err = r.Locate()
			} else {
				err = waitErr
			}
		}
		printResolution(w, e.Name, attempts, err)
		if err != nil {
			missing++
			continue
		}
		if describe {
			info, err := core.Describe(found)
			if err != nil {
				printCause(w, err)
				continue
			}
			printSnapshot(w, info)
		}
	}
	return missing
}

// selectPages flattens repositories into pages, optionally keeping one name.
func selectPages(repos []*repository.Repository, name string) ([]*repository.Page, error) {
	var pages []*repository.Page
	for _, repo := range repos {
		if name == "" {
			pages = append(pages, repo.Pages...)
			continue
		}
		if p := repo.Page(name); p != nil {
			pages = append(pages, p)
		}
	}
	if len(pages) == 0 {
		if name != "" {
			return nil, fmt.Errorf("page %q not found", name)
		}
		return nil, fmt.Errorf("no pages to locate")
	}
	return pages, nil
}
