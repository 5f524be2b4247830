package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/pagefactory/pkg/validator"
)

var validateCommand = &cli.Command{
	Name:      "validate",
	Usage:     "Check locator files without opening a browser",
	ArgsUsage: "<file-or-folder>...",
	Description: `Parse every locator file and report malformed locators, unknown
strategies, missing names and duplicate pages or elements.

When no path is given, the locators listed in pagefactory.yaml are checked.

Examples:
  pagefactory validate locators/
  pagefactory validate login.yaml checkout.yaml`,
	Action: runValidate,
}

func runValidate(c *cli.Context) error {
	cfg, err := loadSettings(c)
	if err != nil {
		return err
	}

	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = cfg.Locators
	}
	if len(paths) == 0 {
		return fmt.Errorf("at least one locator file or folder is required")
	}

	result := validator.New().Validate(paths...)
	w := c.App.Writer

	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s✓%s %s\n", color(colorGreen), color(colorReset), f)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  %s⚠%s %s\n", color(colorYellow), color(colorReset), warning)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s✗%s %v\n", color(colorRed), color(colorReset), e)
	}

	fmt.Fprintf(w, "\n%d files, %d pages, %d elements", len(result.Files), result.Pages(), result.Elements())
	if len(result.Warnings) > 0 {
		fmt.Fprintf(w, ", %d warnings", len(result.Warnings))
	}
	fmt.Fprintln(w)

	if !result.IsValid() {
		return cli.Exit(fmt.Sprintf("%d errors found", len(result.Errors)), 1)
	}
	return nil
}
