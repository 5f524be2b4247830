package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/pagefactory/pkg/by"
	"github.com/devicelab-dev/pagefactory/pkg/config"
	"github.com/devicelab-dev/pagefactory/pkg/core"
	"github.com/devicelab-dev/pagefactory/pkg/driver/mock"
	"github.com/devicelab-dev/pagefactory/pkg/locator"
	"github.com/devicelab-dev/pagefactory/pkg/repository"
)

const loginLocators = `
pages:
  - name: login
    url: /login
    elements:
      - name: Username
        locators:
          - id: username
          - css: "input[name=user]"
      - name: Rows
        multiple: true
        locators: "css=tr; xpath=//tr"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// runApp runs the CLI against an isolated config and returns its output.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "pagefactory.yaml", "browser: firefox\nwaitTimeout: 50ms\n")

	var out bytes.Buffer
	app := NewApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}

	full := append([]string{"pagefactory", "--no-ansi", "--config", cfgPath, "--env-file", filepath.Join(dir, ".env")}, args...)
	err := app.Run(full)
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "pagefactory "+Version) {
		t.Errorf("output = %q", out)
	}
}

func TestVersionFlag(t *testing.T) {
	for _, flag := range []string{"--version", "-v"} {
		out, err := runApp(t, flag)
		if err != nil {
			t.Fatalf("%s failed: %v", flag, err)
		}
		if !strings.Contains(out, Version) {
			t.Errorf("%s output = %q", flag, out)
		}
	}
}

func TestGlobalFlags_UniqueNames(t *testing.T) {
	seen := map[string]bool{"help": true, "h": true, "version": true, "v": true}
	for _, f := range GlobalFlags {
		for _, name := range f.Names() {
			if seen[name] {
				t.Errorf("flag name %q is defined twice", name)
			}
			seen[name] = true
		}
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "login.yaml", loginLocators)

	out, err := runApp(t, "validate", good)
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "✓ "+good) {
		t.Errorf("missing file line in %q", out)
	}
	if !strings.Contains(out, "1 files, 1 pages, 2 elements") {
		t.Errorf("missing summary in %q", out)
	}
	if !strings.Contains(out, "fallbacks ignored") {
		t.Errorf("expected list fallback warning in %q", out)
	}
}

func TestValidateCommand_Invalid(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "pages:\n  - name: p\n    elements:\n      - name: x\n        locators: \"bogus=1\"\n")

	out, err := runApp(t, "validate", bad)
	if err == nil {
		t.Fatal("expected error for invalid file")
	}
	var exit cli.ExitCoder
	if !errors.As(err, &exit) || exit.ExitCode() != 1 {
		t.Errorf("error = %v, want exit code 1", err)
	}
	if !strings.Contains(out, "✗") || !strings.Contains(out, "unknown locator strategy") {
		t.Errorf("output = %q", out)
	}
}

func TestValidateCommand_NoPaths(t *testing.T) {
	if _, err := runApp(t, "validate"); err == nil {
		t.Error("expected error without paths or configured locators")
	}
}

// stubBrowser replaces openBrowser with one backed by d.
func stubBrowser(t *testing.T, d *mock.Driver) *[]string {
	t.Helper()
	var visited []string
	orig := openBrowser
	openBrowser = func(cfg *config.Config, driverName string) (*browserSession, error) {
		return &browserSession{
			driver: d,
			navigate: func(url string) error {
				visited = append(visited, cfg.PageURL(url))
				return nil
			},
			close: func() error { return nil },
		}, nil
	}
	t.Cleanup(func() { openBrowser = orig })
	return &visited
}

func TestLocateCommand(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "login.yaml", loginLocators)

	d := mock.New(mock.Config{}).
		Add(by.CSSOf("input[name=user]"), mock.NewElement("u", "input", "")).
		Add(by.CSSOf("tr"), mock.NewElement("r1", "tr", ""), mock.NewElement("r2", "tr", ""))
	visited := stubBrowser(t, d)

	out, err := runApp(t, "--base-url", "https://example.com", "locate", file)
	if err != nil {
		t.Fatalf("locate failed: %v\n%s", err, out)
	}

	if len(*visited) != 1 || (*visited)[0] != "https://example.com/login" {
		t.Errorf("visited = %v", *visited)
	}
	for _, want := range []string{"login", "Username", "not_found", "found", "(2 elements)", "all elements located"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Username falls back to css, Rows uses only its first locator.
	got := d.Selectors()
	want := []by.Selector{by.IDOf("username"), by.CSSOf("input[name=user]"), by.CSSOf("tr")}
	if len(got) != len(want) {
		t.Fatalf("selectors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selector %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLocateCommand_Describe(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "login.yaml", loginLocators)

	user := mock.NewElement("u", "input", "alice")
	user.Bounds = core.Bounds{X: 10, Y: 20, Width: 100, Height: 30}
	user.Disabled = true
	stubBrowser(t, mock.New(mock.Config{}).Add(by.IDOf("username"), user))

	out, err := runApp(t, "locate", "--describe", file)
	if err != nil {
		t.Fatalf("locate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `<input> "alice" at (60,35) 100x30, visible, disabled`) {
		t.Errorf("missing snapshot in:\n%s", out)
	}
	if !strings.Contains(out, "pending") {
		t.Errorf("fallback after the match should be listed as pending:\n%s", out)
	}
}

func TestLocateCommand_Missing(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "login.yaml", loginLocators)
	stubBrowser(t, mock.New(mock.Config{}))

	out, err := runApp(t, "locate", "--wait", file)
	if err == nil {
		t.Fatal("expected error when elements are missing")
	}
	if !strings.Contains(err.Error(), "1 elements could not be located") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(out, "✗ Username") {
		t.Errorf("output = %q", out)
	}
}

func TestLocateCommand_UnknownPage(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "login.yaml", loginLocators)
	stubBrowser(t, mock.New(mock.Config{}))

	_, err := runApp(t, "locate", "--page", "checkout", file)
	if err == nil || !strings.Contains(err.Error(), `page "checkout" not found`) {
		t.Errorf("error = %v", err)
	}
}

func TestSelectPages(t *testing.T) {
	repo, err := repository.Parse([]byte(loginLocators), "login.yaml")
	if err != nil {
		t.Fatal(err)
	}
	repos := []*repository.Repository{repo}

	pages, err := selectPages(repos, "")
	if err != nil || len(pages) != 1 {
		t.Errorf("selectPages(all) = %v, %v", pages, err)
	}
	pages, err = selectPages(repos, "LOGIN")
	if err != nil || len(pages) != 1 || pages[0].Name != "login" {
		t.Errorf("selectPages(LOGIN) = %v, %v", pages, err)
	}
	if _, err := selectPages(nil, ""); err == nil {
		t.Error("expected error with no pages")
	}
}

func TestOpenBrowser_UnknownDriver(t *testing.T) {
	_, err := openBrowser(config.Default(), "puppeteer")
	if err == nil || !strings.Contains(err.Error(), "unknown driver") {
		t.Errorf("error = %v", err)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0ms"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{59 * time.Second, "59.0s"},
		{90 * time.Second, "1m 30s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPrintResolution(t *testing.T) {
	colorsEnabled = false

	attempts := []locator.Attempt{
		{Selector: by.IDOf("q"), Status: core.AttemptNotFound, Duration: 2 * time.Millisecond},
		{Selector: by.CSSOf("#search"), Status: core.AttemptFound, Duration: 3 * time.Millisecond},
	}
	var buf bytes.Buffer
	printResolution(&buf, "Search", attempts, nil)
	out := buf.String()

	if !strings.Contains(out, "✓ Search") || !strings.Contains(out, "(2 tried, 5ms)") {
		t.Errorf("output = %q", out)
	}
	if strings.Count(out, "\n") != 3 {
		t.Errorf("expected a summary line and one line per attempt, got %q", out)
	}

	buf.Reset()
	printResolution(&buf, "Search", attempts[:1], core.ErrElementNotFound)
	if !strings.Contains(buf.String(), "✗ Search") || !strings.Contains(buf.String(), "╰─ [lookup]") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintResolution_EarlyMatch(t *testing.T) {
	colorsEnabled = false

	attempts := []locator.Attempt{
		{Selector: by.IDOf("q"), Status: core.AttemptFound, Duration: 4 * time.Millisecond},
		{Selector: by.CSSOf("#search"), Status: core.AttemptPending},
	}
	var buf bytes.Buffer
	printResolution(&buf, "Search", attempts, nil)
	out := buf.String()

	if !strings.Contains(out, `✓ Search id="q" (1 tried, 4ms)`) {
		t.Errorf("winner should be the found selector, got %q", out)
	}
	if !strings.Contains(out, `css="#search"`) || !strings.Contains(out, "pending") {
		t.Errorf("pending selector missing from %q", out)
	}
}

func TestPrintCause(t *testing.T) {
	colorsEnabled = false

	tests := []struct {
		err  error
		want string
	}{
		{core.ErrDriverFault.WithCause(errors.New("session gone")), "╰─ [driver] driver failure: session gone"},
		{errors.New("plain"), "╰─ plain"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		printCause(&buf, tt.err)
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("printCause(%v) = %q, want %q", tt.err, buf.String(), tt.want)
		}
	}
}

func TestPrintCount(t *testing.T) {
	colorsEnabled = false

	tests := []struct {
		n    int
		err  error
		want string
	}{
		{3, nil, "(3 elements)"},
		{0, nil, "(no elements)"},
		{0, errors.New("session gone"), "session gone"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		printCount(&buf, "Rows", by.CSSOf("tr"), tt.n, tt.err)
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("printCount(%d, %v) = %q, want %q", tt.n, tt.err, buf.String(), tt.want)
		}
	}
}

func TestLoadSettings_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	t.Setenv("PAGEFACTORY_HOME", home)
	config.ResetHome()
	t.Cleanup(config.ResetHome)

	cfgPath := writeFile(t, dir, "pagefactory.yaml", "browser: firefox\nheadless: false\nwaitTimeout: 3s\n")

	var got *config.Config
	app := NewApp()
	app.Writer = &bytes.Buffer{}
	app.Commands = append(app.Commands, &cli.Command{
		Name: "probe",
		Action: func(c *cli.Context) error {
			var err error
			got, err = loadSettings(c)
			return err
		},
	})

	err := app.Run([]string{"pagefactory", "--config", cfgPath, "--env-file", filepath.Join(dir, ".env"),
		"--browser", "chrome", "--headless", "--verbose", "probe"})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got.Browser != "chrome" || !got.Headless {
		t.Errorf("flags not applied: %+v", got)
	}
	if got.WaitTimeout != 3*time.Second {
		t.Errorf("WaitTimeout = %v, want 3s from file", got.WaitTimeout)
	}
	if got.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug with --verbose", got.LogLevel)
	}
	if got.Source != cfgPath {
		t.Errorf("Source = %q", got.Source)
	}
	wantLog := filepath.Join(home, "logs", "pagefactory.log")
	if got.LogFile != wantLog {
		t.Errorf("LogFile = %q, want %q with --verbose", got.LogFile, wantLog)
	}
	if _, err := os.Stat(wantLog); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
