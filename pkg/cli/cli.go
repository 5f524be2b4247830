// Package cli provides the command-line interface for pagefactory.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/pagefactory/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Usage:   "Path to pagefactory.yaml (default: ./pagefactory.yaml, then $PAGEFACTORY_HOME)",
		EnvVars: []string{"PAGEFACTORY_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "env-file",
		Usage:   "Load variables from a .env file",
		Value:   ".env",
		EnvVars: []string{"PAGEFACTORY_ENV_FILE"},
	},
	&cli.StringFlag{
		Name:    "browser",
		Aliases: []string{"b"},
		Usage:   "Browser to run (chrome, firefox, edge, ie)",
		EnvVars: []string{"PAGEFACTORY_BROWSER"},
	},
	&cli.BoolFlag{
		Name:    "headless",
		Usage:   "Run the browser without a window",
		EnvVars: []string{"PAGEFACTORY_HEADLESS"},
	},
	&cli.BoolFlag{
		Name:    "maximize",
		Usage:   "Maximize the browser window",
		EnvVars: []string{"PAGEFACTORY_MAXIMIZE"},
	},
	&cli.StringFlag{
		Name:    "webdriver-url",
		Usage:   "WebDriver server URL (chromedriver, geckodriver or a Selenium grid)",
		EnvVars: []string{"PAGEFACTORY_WEBDRIVER_URL"},
	},
	&cli.StringFlag{
		Name:    "base-url",
		Usage:   "Prefix for relative page URLs",
		EnvVars: []string{"PAGEFACTORY_BASE_URL"},
	},
	&cli.DurationFlag{
		Name:    "wait-timeout",
		Usage:   "How long to wait for elements (e.g. 5s)",
		EnvVars: []string{"PAGEFACTORY_WAIT_TIMEOUT"},
	},
	&cli.StringFlag{
		Name:    "driver",
		Aliases: []string{"d"},
		Usage:   "Driver to use (selenium, webdriver, playwright)",
		Value:   driverSelenium,
		EnvVars: []string{"PAGEFACTORY_DRIVER"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable debug logging (to $PAGEFACTORY_HOME/logs/pagefactory.log unless --log-file is set)",
		EnvVars: []string{"PAGEFACTORY_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write logs to this file instead of stderr",
		EnvVars: []string{"PAGEFACTORY_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// NewApp builds the CLI application.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "pagefactory",
		Usage:   "Page objects with fallback locators for browser tests",
		Version: Version,
		Description: `pagefactory checks locator repositories and resolves their elements
against a live browser, trying each element's locators in priority order.

Examples:
  pagefactory validate locators/
  pagefactory --browser firefox --headless locate locators/login.yaml
  pagefactory --driver playwright locate --page login locators/`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			validateCommand,
			locateCommand,
			versionCommand,
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-ansi") {
				colorsEnabled = false
			}
			return nil
		},
		After: func(c *cli.Context) error {
			logger.Close()
			return nil
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var versionCommand = &cli.Command{
	Name:  "version",
	Usage: "Print the version",
	Action: func(c *cli.Context) error {
		fmt.Fprintf(c.App.Writer, "pagefactory %s\n", Version)
		return nil
	},
}
