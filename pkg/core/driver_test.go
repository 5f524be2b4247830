package core

import (
	"errors"
	"testing"
)

func TestBounds_Center(t *testing.T) {
	tests := []struct {
		bounds    Bounds
		expectedX int
		expectedY int
	}{
		{Bounds{X: 0, Y: 0, Width: 100, Height: 100}, 50, 50},
		{Bounds{X: 10, Y: 20, Width: 100, Height: 200}, 60, 120},
		{Bounds{X: 0, Y: 0, Width: 0, Height: 0}, 0, 0},
	}

	for _, tt := range tests {
		x, y := tt.bounds.Center()
		if x != tt.expectedX || y != tt.expectedY {
			t.Errorf("Bounds%+v.Center() = (%d, %d), want (%d, %d)",
				tt.bounds, x, y, tt.expectedX, tt.expectedY)
		}
	}
}

type stubElement struct {
	failTag bool
}

func (s *stubElement) Click() error               { return nil }
func (s *stubElement) SendKeys(string) error      { return nil }
func (s *stubElement) Clear() error               { return nil }
func (s *stubElement) Submit() error              { return nil }
func (s *stubElement) Text() (string, error)      { return "Search", nil }
func (s *stubElement) IsDisplayed() (bool, error) { return true, nil }
func (s *stubElement) IsEnabled() (bool, error)   { return true, nil }
func (s *stubElement) IsSelected() (bool, error)  { return false, nil }
func (s *stubElement) Rect() (Bounds, error) {
	return Bounds{X: 1, Y: 2, Width: 30, Height: 40}, nil
}
func (s *stubElement) Attribute(name string) (string, error) {
	return "attr-" + name, nil
}
func (s *stubElement) TagName() (string, error) {
	if s.failTag {
		return "", errors.New("stale element reference")
	}
	return "input", nil
}

func TestDescribe(t *testing.T) {
	info, err := Describe(&stubElement{}, "name", "type")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.TagName != "input" {
		t.Errorf("TagName = %s, want input", info.TagName)
	}
	if info.Text != "Search" {
		t.Errorf("Text = %s, want Search", info.Text)
	}
	if info.Bounds.Width != 30 {
		t.Errorf("Bounds.Width = %d, want 30", info.Bounds.Width)
	}
	if !info.Visible || !info.Enabled || info.Selected {
		t.Errorf("unexpected state flags: %+v", info)
	}
	if info.Attributes["type"] != "attr-type" {
		t.Errorf("Attributes[type] = %s, want attr-type", info.Attributes["type"])
	}
}

func TestDescribe_PropagatesError(t *testing.T) {
	if _, err := Describe(&stubElement{failTag: true}); err == nil {
		t.Error("expected error from TagName to propagate")
	}
}
