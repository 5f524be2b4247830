package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/devicelab-dev/pagefactory/pkg/core"
	"github.com/devicelab-dev/pagefactory/pkg/locator"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// colorsEnabled determines if ANSI colors should be used
var colorsEnabled = true

func init() {
	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		colorsEnabled = false
		return
	}
	// Check if stdout is a terminal
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		if (fileInfo.Mode() & os.ModeCharDevice) == 0 {
			colorsEnabled = false
		}
	}
}

// color returns the color code if colors are enabled, empty string otherwise
func color(c string) string {
	if colorsEnabled {
		return c
	}
	return ""
}

// formatDuration formats a duration for humans.
// Shows milliseconds below one second, seconds otherwise.
func formatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	if ms < 60000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	mins := ms / 60000
	secs := (ms % 60000) / 1000
	return fmt.Sprintf("%dm %ds", mins, secs)
}

func printPageHeader(w io.Writer, name, url string) {
	if url != "" {
		fmt.Fprintf(w, "\n  %s%s%s %s(%s)%s\n", color(colorBold), name, color(colorReset), color(colorGray), url, color(colorReset))
	} else {
		fmt.Fprintf(w, "\n  %s%s%s\n", color(colorBold), name, color(colorReset))
	}
	fmt.Fprintln(w, strings.Repeat("─", 60))
}

// printResolution prints one element's outcome followed by every selector
// that was tried. Selectors after the winning one are listed as pending.
func printResolution(w io.Writer, name string, attempts []locator.Attempt, err error) {
	var (
		total  time.Duration
		tried  int
		winner fmt.Stringer
	)
	for _, a := range attempts {
		if !a.Status.IsTerminal() {
			continue
		}
		tried++
		total += a.Duration
		if a.Status == core.AttemptFound {
			winner = a.Selector
		}
	}

	if err == nil && winner != nil {
		fmt.Fprintf(w, "    %s✓%s %s %s%s%s (%d tried, %s)\n",
			color(colorGreen), color(colorReset), name,
			color(colorCyan), winner, color(colorReset),
			tried, formatDuration(total))
	} else {
		fmt.Fprintf(w, "    %s✗%s %s (%s)\n", color(colorRed), color(colorReset), name, formatDuration(total))
		printCause(w, err)
	}

	for _, a := range attempts {
		symbol, symbolColor := "·", colorGray
		switch a.Status {
		case core.AttemptFound:
			symbol, symbolColor = "✓", colorGreen
		case core.AttemptFault:
			symbol, symbolColor = "!", colorRed
		case core.AttemptPending:
			fmt.Fprintf(w, "          %s%-40s pending%s\n", color(colorGray), a.Selector, color(colorReset))
			continue
		}
		fmt.Fprintf(w, "        %s%s%s %-40s %s%s %s%s\n",
			color(symbolColor), symbol, color(colorReset), a.Selector,
			color(colorGray), a.Status, formatDuration(a.Duration), color(colorReset))
	}
}

// printCause prints err under an element line, tagged with its category.
func printCause(w io.Writer, err error) {
	if err == nil {
		return
	}
	if cat := core.CategoryOf(err); cat != core.ErrCategoryNone {
		fmt.Fprintf(w, "      %s╰─%s [%s] %v\n", color(colorGray), color(colorReset), cat, err)
		return
	}
	fmt.Fprintf(w, "      %s╰─%s %v\n", color(colorGray), color(colorReset), err)
}

// printSnapshot prints what a located element looks like right now.
func printSnapshot(w io.Writer, info *core.ElementInfo) {
	state := "visible"
	if !info.Visible {
		state = "hidden"
	}
	if !info.Enabled {
		state += ", disabled"
	}
	if info.Selected {
		state += ", selected"
	}
	x, y := info.Bounds.Center()
	fmt.Fprintf(w, "          %s<%s> %q at (%d,%d) %dx%d, %s%s\n",
		color(colorGray), info.TagName, truncate(info.Text, 40), x, y,
		info.Bounds.Width, info.Bounds.Height, state, color(colorReset))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func printCount(w io.Writer, name string, sel fmt.Stringer, n int, err error) {
	switch {
	case err != nil:
		fmt.Fprintf(w, "    %s✗%s %s %s\n", color(colorRed), color(colorReset), name, sel)
		printCause(w, err)
	case n == 0:
		fmt.Fprintf(w, "    %s⚠%s %s %s%s%s (no elements)\n",
			color(colorYellow), color(colorReset), name, color(colorCyan), sel, color(colorReset))
	default:
		fmt.Fprintf(w, "    %s✓%s %s %s%s%s (%d elements)\n",
			color(colorGreen), color(colorReset), name, color(colorCyan), sel, color(colorReset), n)
	}
}
