// Package webdriver implements core.Driver over the W3C WebDriver HTTP
// protocol, talking directly to chromedriver, geckodriver or a Selenium grid.
package webdriver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// W3C WebDriver element identifier key (standard constant)
const w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Error codes the driver gives special meaning to.
const (
	CodeNoSuchElement  = "no such element"
	CodeStaleElement   = "stale element reference"
	CodeInvalidSession = "invalid session id"
)

// Error is an error reported by the remote end.
type Error struct {
	Status  int    // HTTP status
	Code    string // W3C error code, e.g. "no such element"
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is a remote error with the given code.
func IsCode(err error, code string) bool {
	var wdErr *Error
	return errors.As(err, &wdErr) && wdErr.Code == code
}

// Client handles HTTP communication with a WebDriver server.
type Client struct {
	serverURL string
	sessionID string
	client    *http.Client
}

// NewClient creates a new client.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Attach creates a client bound to an existing session.
func Attach(serverURL, sessionID string) *Client {
	c := NewClient(serverURL)
	c.sessionID = sessionID
	return c
}

// SessionID returns the current session, empty when not connected.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Connect creates a new session with the given capabilities.
func (c *Client) Connect(capabilities map[string]interface{}) error {
	body := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"alwaysMatch": capabilities,
		},
	}

	resp, err := c.post("/session", body)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid session response")
	}

	c.sessionID, _ = value["sessionId"].(string)
	if c.sessionID == "" {
		return fmt.Errorf("no session ID in response")
	}
	return nil
}

// Disconnect closes the session.
func (c *Client) Disconnect() error {
	if c.sessionID == "" {
		return nil
	}
	_, err := c.delete(c.sessionPath())
	c.sessionID = ""
	return err
}

// Navigation

// Navigate opens a URL.
func (c *Client) Navigate(url string) error {
	_, err := c.post(c.sessionPath()+"/url", map[string]interface{}{
		"url": url,
	})
	return err
}

// CurrentURL returns the URL of the current page.
func (c *Client) CurrentURL() (string, error) {
	return c.getString(c.sessionPath() + "/url")
}

// Title returns the current page title.
func (c *Client) Title() (string, error) {
	return c.getString(c.sessionPath() + "/title")
}

// MaximizeWindow maximizes the current window.
func (c *Client) MaximizeWindow() error {
	_, err := c.post(c.sessionPath()+"/window/maximize", map[string]interface{}{})
	return err
}

// SetImplicitWait sets the implicit wait timeout.
func (c *Client) SetImplicitWait(timeout time.Duration) error {
	_, err := c.post(c.sessionPath()+"/timeouts", map[string]interface{}{
		"implicit": timeout.Milliseconds(),
	})
	return err
}

// Element Operations

// FindElement finds a single element.
func (c *Client) FindElement(using, value string) (string, error) {
	body := map[string]interface{}{
		"using": using,
		"value": value,
	}

	resp, err := c.post(c.sessionPath()+"/element", body)
	if err != nil {
		return "", err
	}

	elemValue, ok := resp["value"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid find element response")
	}
	id := extractElementID(elemValue)
	if id == "" {
		return "", fmt.Errorf("no element reference in response")
	}
	return id, nil
}

// FindElements finds multiple elements.
func (c *Client) FindElements(using, value string) ([]string, error) {
	body := map[string]interface{}{
		"using": using,
		"value": value,
	}

	resp, err := c.post(c.sessionPath()+"/elements", body)
	if err != nil {
		return nil, err
	}

	values, ok := resp["value"].([]interface{})
	if !ok {
		return nil, nil
	}

	var ids []string
	for _, v := range values {
		if elem, ok := v.(map[string]interface{}); ok {
			if id := extractElementID(elem); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// ClickElement clicks an element.
func (c *Client) ClickElement(elementID string) error {
	_, err := c.post(c.elementPath(elementID)+"/click", map[string]interface{}{})
	return err
}

// ClearElement clears an element's text.
func (c *Client) ClearElement(elementID string) error {
	_, err := c.post(c.elementPath(elementID)+"/clear", map[string]interface{}{})
	return err
}

// SendKeysToElement types text into an element.
func (c *Client) SendKeysToElement(elementID, text string) error {
	_, err := c.post(c.elementPath(elementID)+"/value", map[string]interface{}{
		"text": text,
	})
	return err
}

// SubmitElement submits the form that owns the element. W3C has no submit
// endpoint, so this goes through a script.
func (c *Client) SubmitElement(elementID string) error {
	_, err := c.ExecuteScript(
		`var e = arguments[0]; var f = e.form || e.closest("form"); if (f) { f.requestSubmit ? f.requestSubmit() : f.submit(); }`,
		[]interface{}{map[string]interface{}{w3cElementKey: elementID}},
	)
	return err
}

// GetElementText returns an element's text.
func (c *Client) GetElementText(elementID string) (string, error) {
	return c.getString(c.elementPath(elementID) + "/text")
}

// GetElementAttribute returns an element's attribute value.
func (c *Client) GetElementAttribute(elementID, name string) (string, error) {
	return c.getString(c.elementPath(elementID) + "/attribute/" + name)
}

// GetElementTagName returns an element's tag name.
func (c *Client) GetElementTagName(elementID string) (string, error) {
	return c.getString(c.elementPath(elementID) + "/name")
}

// GetElementRect returns an element's position and size.
func (c *Client) GetElementRect(elementID string) (x, y, w, h int, err error) {
	resp, err := c.get(c.elementPath(elementID) + "/rect")
	if err != nil {
		return 0, 0, 0, 0, err
	}
	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return 0, 0, 0, 0, fmt.Errorf("invalid rect response")
	}

	xf, _ := value["x"].(float64)
	yf, _ := value["y"].(float64)
	wf, _ := value["width"].(float64)
	hf, _ := value["height"].(float64)
	return int(xf), int(yf), int(wf), int(hf), nil
}

// IsElementDisplayed checks if element is visible.
func (c *Client) IsElementDisplayed(elementID string) (bool, error) {
	return c.getBool(c.elementPath(elementID) + "/displayed")
}

// IsElementEnabled checks if element is enabled.
func (c *Client) IsElementEnabled(elementID string) (bool, error) {
	return c.getBool(c.elementPath(elementID) + "/enabled")
}

// IsElementSelected checks if a checkbox, radio or option is selected.
func (c *Client) IsElementSelected(elementID string) (bool, error) {
	return c.getBool(c.elementPath(elementID) + "/selected")
}

// ExecuteScript runs a synchronous script and returns its value.
func (c *Client) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	if args == nil {
		args = []interface{}{}
	}
	resp, err := c.post(c.sessionPath()+"/execute/sync", map[string]interface{}{
		"script": script,
		"args":   args,
	})
	if err != nil {
		return nil, err
	}
	return resp["value"], nil
}

// HTTP Helpers

func (c *Client) sessionPath() string {
	return "/session/" + c.sessionID
}

func (c *Client) elementPath(elementID string) string {
	return c.sessionPath() + "/element/" + elementID
}

// getString reads a string value. A null value (a missing attribute) is
// returned as "".
func (c *Client) getString(path string) (string, error) {
	resp, err := c.get(path)
	if err != nil {
		return "", err
	}
	switch value := resp["value"].(type) {
	case string:
		return value, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("GET %s: expected a string, got %T", path, value)
	}
}

func (c *Client) getBool(path string) (bool, error) {
	resp, err := c.get(path)
	if err != nil {
		return false, err
	}
	value, ok := resp["value"].(bool)
	if !ok {
		return false, fmt.Errorf("GET %s: expected a boolean, got %T", path, resp["value"])
	}
	return value, nil
}

func (c *Client) get(path string) (map[string]interface{}, error) {
	return c.request("GET", path, nil)
}

func (c *Client) post(path string, body interface{}) (map[string]interface{}, error) {
	return c.request("POST", path, body)
}

func (c *Client) delete(path string) (map[string]interface{}, error) {
	return c.request("DELETE", path, nil)
}

func (c *Client) request(method, path string, body interface{}) (map[string]interface{}, error) {
	url := c.serverURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &Error{Status: resp.StatusCode, Code: "unknown error", Message: strings.TrimSpace(string(respBody))}
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for WebDriver error
	if errValue, ok := result["value"].(map[string]interface{}); ok {
		if errType, ok := errValue["error"].(string); ok && errType != "" {
			msg, _ := errValue["message"].(string)
			return result, &Error{Status: resp.StatusCode, Code: errType, Message: msg}
		}
	}
	if resp.StatusCode >= 400 {
		return result, &Error{Status: resp.StatusCode, Code: "unknown error", Message: http.StatusText(resp.StatusCode)}
	}

	return result, nil
}

func extractElementID(value map[string]interface{}) string {
	// W3C format
	if id, ok := value[w3cElementKey].(string); ok {
		return id
	}
	// Legacy format
	if id, ok := value["ELEMENT"].(string); ok {
		return id
	}
	return ""
}
