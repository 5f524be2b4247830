package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagefactory.log")
	if err := Init(path, "debug"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Close()

	Info("opened %s", "session-1")
	Debug("trying %s", "id=q")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "opened session-1") {
		t.Errorf("log missing info line: %s", content)
	}
	if !strings.Contains(content, "trying id=q") {
		t.Errorf("log missing debug line: %s", content)
	}
	if GetWriter() == nil {
		t.Error("GetWriter() should return the log file")
	}
}

func TestInit_InvalidLevel(t *testing.T) {
	if err := Init("", "chatty"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestInit_BadPath(t *testing.T) {
	if err := Init(filepath.Join(t.TempDir(), "missing", "x.log"), "info"); err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestSetOutput_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, logrus.WarnLevel)
	defer Close()

	Info("hidden")
	Warn("shown %d", 1)
	Error("also shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown 1") || !strings.Contains(out, "also shown") {
		t.Errorf("warn/error lines missing: %s", out)
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, logrus.DebugLevel)
	defer Close()

	WithFields(logrus.Fields{"field": "Search"}).Debug("resolved")

	if !strings.Contains(buf.String(), "field=Search") {
		t.Errorf("expected structured field in output: %s", buf.String())
	}
}

func TestClose_Silences(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, logrus.InfoLevel)
	Close()

	Info("after close")
	if buf.Len() != 0 {
		t.Errorf("expected no output after Close, got %q", buf.String())
	}
}
