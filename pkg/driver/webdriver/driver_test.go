package webdriver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devicelab-dev/pagefactory/pkg/by"
	"github.com/devicelab-dev/pagefactory/pkg/core"
	"github.com/devicelab-dev/pagefactory/pkg/locator"
)

// fakeBrowser serves find requests from a table keyed by "using|value".
func fakeBrowser(t *testing.T, found map[string][]string, faults map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		key, _ := body["using"].(string)
		value, _ := body["value"].(string)
		key += "|" + value

		if code, ok := faults[key]; ok {
			writeError(w, http.StatusInternalServerError, code, "boom")
			return
		}

		switch r.URL.Path {
		case "/session/s1/element":
			ids := found[key]
			if len(ids) == 0 {
				writeError(w, http.StatusNotFound, CodeNoSuchElement, "Unable to locate element")
				return
			}
			writeJSON(w, map[string]interface{}{"value": map[string]interface{}{w3cElementKey: ids[0]}})
		case "/session/s1/elements":
			refs := []interface{}{}
			for _, id := range found[key] {
				refs = append(refs, map[string]interface{}{w3cElementKey: id})
			}
			writeJSON(w, map[string]interface{}{"value": refs})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		sel   by.Selector
		using string
		value string
	}{
		{by.IDOf("q"), "css selector", `[id="q"]`},
		{by.IDOf(`a"b`), "css selector", `[id="a\"b"]`},
		{by.NameOf("user"), "css selector", `[name="user"]`},
		{by.ClassNameOf("btn"), "css selector", `[class~="btn"]`},
		{by.CSSOf("#search"), "css selector", "#search"},
		{by.XPathOf("//a"), "xpath", "//a"},
		{by.TagNameOf("li"), "tag name", "li"},
		{by.LinkTextOf("Home"), "link text", "Home"},
		{by.PartialLinkTextOf("Ho"), "partial link text", "Ho"},
	}

	for _, tt := range tests {
		t.Run(tt.sel.String(), func(t *testing.T) {
			using, value := translate(tt.sel)
			if using != tt.using || value != tt.value {
				t.Errorf("translate() = %q, %q; want %q, %q", using, value, tt.using, tt.value)
			}
		})
	}
}

func TestDriver_FindElement(t *testing.T) {
	server := fakeBrowser(t, map[string][]string{`css selector|[id="q"]`: {"el-q"}}, nil)
	defer server.Close()

	d := NewDriver(Attach(server.URL, "s1"))
	elem, err := d.FindElement(by.IDOf("q"))
	if err != nil {
		t.Fatalf("FindElement failed: %v", err)
	}
	if elem.(*Element).ID() != "el-q" {
		t.Errorf("ID = %q", elem.(*Element).ID())
	}
}

func TestDriver_FindElementNotFound(t *testing.T) {
	server := fakeBrowser(t, nil, nil)
	defer server.Close()

	_, err := NewDriver(Attach(server.URL, "s1")).FindElement(by.CSSOf("#missing"))

	var nse *core.NoSuchElementError
	if !errors.As(err, &nse) {
		t.Fatalf("error = %v, want *core.NoSuchElementError", err)
	}
	if nse.Selector != by.CSSOf("#missing") {
		t.Errorf("Selector = %v", nse.Selector)
	}
	if !IsCode(err, CodeNoSuchElement) {
		t.Error("remote error should remain reachable as the cause")
	}
}

func TestDriver_FindElementFault(t *testing.T) {
	server := fakeBrowser(t, nil, map[string]string{"xpath|//a": CodeInvalidSession})
	defer server.Close()

	_, err := NewDriver(Attach(server.URL, "s1")).FindElement(by.XPathOf("//a"))
	if err == nil {
		t.Fatal("expected error")
	}
	if core.IsNoSuchElement(err) {
		t.Error("invalid session must not be reported as not found")
	}
	if !IsCode(err, CodeInvalidSession) {
		t.Errorf("error = %v", err)
	}
}

func TestDriver_FindElements(t *testing.T) {
	server := fakeBrowser(t, map[string][]string{"tag name|li": {"a", "b", "c"}}, nil)
	defer server.Close()

	d := NewDriver(Attach(server.URL, "s1"))
	elems, err := d.FindElements(by.TagNameOf("li"))
	if err != nil {
		t.Fatalf("FindElements failed: %v", err)
	}
	if len(elems) != 3 {
		t.Errorf("got %d elements, want 3", len(elems))
	}

	none, err := d.FindElements(by.TagNameOf("table"))
	if err != nil || len(none) != 0 {
		t.Errorf("FindElements(table) = %v, %v", none, err)
	}
}

func TestDriver_FallbackThroughResolver(t *testing.T) {
	server := fakeBrowser(t,
		map[string][]string{"xpath|//input[@name='q']": {"el-x"}},
		nil,
	)
	defer server.Close()

	d := NewDriver(Attach(server.URL, "s1"))
	r := locator.New(d, by.MustSpec(by.IDOf("q"), by.CSSOf("#search"), by.XPathOf("//input[@name='q']")))

	elem, attempts, err := r.Locate()
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if elem.(*Element).ID() != "el-x" {
		t.Errorf("found %q, want el-x", elem.(*Element).ID())
	}
	if len(attempts) != 3 {
		t.Errorf("attempts = %d, want 3", len(attempts))
	}
}

func TestDriver_FaultStopsResolver(t *testing.T) {
	server := fakeBrowser(t,
		map[string][]string{"css selector|#search": {"el-s"}},
		map[string]string{`css selector|[id="q"]`: CodeInvalidSession},
	)
	defer server.Close()

	r := locator.New(NewDriver(Attach(server.URL, "s1")), by.MustSpec(by.IDOf("q"), by.CSSOf("#search")))

	_, err := r.FindElement()
	if !errors.Is(err, core.ErrDriverFault) {
		t.Errorf("error = %v, want ErrDriverFault", err)
	}
}
