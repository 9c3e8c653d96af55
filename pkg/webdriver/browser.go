package webdriver

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/devicelab-dev/wdclient/pkg/command"
	"github.com/devicelab-dev/wdclient/pkg/errcode"
	"github.com/devicelab-dev/wdclient/pkg/logger"
)

// Status returns the remote end's readiness report.
func (s *Session) Status(ctx context.Context) (map[string]interface{}, error) {
	resp, err := s.exec.Execute(ctx, command.Status, "", nil)
	if err != nil {
		return nil, err
	}
	return resp.ValueMap(), nil
}

// Sessions lists the sessions the remote end knows about.
func (s *Session) Sessions(ctx context.Context) ([]interface{}, error) {
	resp, err := s.exec.Execute(ctx, command.GetAllSessions, "", nil)
	if err != nil {
		return nil, err
	}
	items, _ := resp.Value().([]interface{})
	return items, nil
}

// Get navigates to url.
func (s *Session) Get(ctx context.Context, url string) error {
	_, err := s.Execute(ctx, command.Get, map[string]interface{}{"url": url})
	return err
}

// Title returns the page title, "" when the server returns null.
func (s *Session) Title(ctx context.Context) (string, error) {
	resp, err := s.Execute(ctx, command.GetTitle, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

// CurrentURL returns the URL of the current page.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	resp, err := s.Execute(ctx, command.GetCurrentURL, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

// PageSource returns the serialized DOM of the current page.
func (s *Session) PageSource(ctx context.Context) (string, error) {
	resp, err := s.Execute(ctx, command.GetPageSource, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

func (s *Session) Back(ctx context.Context) error {
	_, err := s.Execute(ctx, command.GoBack, nil)
	return err
}

func (s *Session) Forward(ctx context.Context) error {
	_, err := s.Execute(ctx, command.GoForward, nil)
	return err
}

func (s *Session) Refresh(ctx context.Context) error {
	_, err := s.Execute(ctx, command.Refresh, nil)
	return err
}

// ExecuteScript runs script synchronously in the page. Element arguments are
// sent as references and element results come back as *Element.
func (s *Session) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	cmd := command.ExecuteScript
	if s.w3c {
		cmd = command.W3CExecuteScript
	}
	return s.script(ctx, cmd, script, args)
}

// ExecuteAsyncScript runs script asynchronously; it finishes by calling the
// callback passed as its last argument.
func (s *Session) ExecuteAsyncScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	cmd := command.ExecuteAsyncScript
	if s.w3c {
		cmd = command.W3CExecuteScriptAsync
	}
	return s.script(ctx, cmd, script, args)
}

func (s *Session) script(ctx context.Context, cmd command.Command, script string, args []interface{}) (interface{}, error) {
	if args == nil {
		args = []interface{}{}
	}
	resp, err := s.Execute(ctx, cmd, map[string]interface{}{"script": script, "args": args})
	if err != nil {
		return nil, err
	}
	return resp.Value(), nil
}

// FindElement returns the first element matching the locator.
func (s *Session) FindElement(ctx context.Context, by By, value string) (*Element, error) {
	resp, err := s.Execute(ctx, command.FindElement, by.params(value, s.w3c))
	if err != nil {
		return nil, err
	}
	return toElement(resp.Value())
}

// FindElements returns every element matching the locator.
func (s *Session) FindElements(ctx context.Context, by By, value string) ([]*Element, error) {
	resp, err := s.Execute(ctx, command.FindElements, by.params(value, s.w3c))
	if err != nil {
		return nil, err
	}
	return toElements(resp.Value())
}

// ScreenshotBase64 returns the viewport screenshot as base64 PNG data.
func (s *Session) ScreenshotBase64(ctx context.Context) (string, error) {
	resp, err := s.Execute(ctx, command.Screenshot, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

// ScreenshotPNG returns the viewport screenshot as PNG bytes.
func (s *Session) ScreenshotPNG(ctx context.Context) ([]byte, error) {
	return decodePNG(s.ScreenshotBase64(ctx))
}

// SaveScreenshot writes the viewport screenshot to filename.
func (s *Session) SaveScreenshot(ctx context.Context, filename string) error {
	return savePNG(filename, func() ([]byte, error) { return s.ScreenshotPNG(ctx) })
}

func decodePNG(data string, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	png, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return png, nil
}

func savePNG(filename string, capture func() ([]byte, error)) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".png") {
		logger.Warn("screenshot name %q does not match file type, it should end with .png", filename)
	}
	png, err := capture()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, png, 0644); err != nil {
		return fmt.Errorf("save screenshot: %w", err)
	}
	return nil
}

// Orientation returns the current screen orientation.
func (s *Session) Orientation(ctx context.Context) (Orientation, error) {
	resp, err := s.Execute(ctx, command.GetScreenOrientation, nil)
	if err != nil {
		return "", err
	}
	return Orientation(toString(resp.Value())), nil
}

// SetOrientation rotates the screen. Only Landscape and Portrait are
// accepted; anything else fails without a request.
func (s *Session) SetOrientation(ctx context.Context, o Orientation) error {
	v := Orientation(strings.ToUpper(string(o)))
	if v != Landscape && v != Portrait {
		return errcode.New(errcode.Unknown, "you can only set the orientation to 'LANDSCAPE' and 'PORTRAIT'")
	}
	_, err := s.Execute(ctx, command.SetScreenOrientation, map[string]interface{}{"orientation": string(v)})
	return err
}

// LogTypes returns the available log types. Legacy sessions report none.
func (s *Session) LogTypes(ctx context.Context) ([]string, error) {
	if !s.w3c {
		return []string{}, nil
	}
	resp, err := s.Execute(ctx, command.GetAvailableLogTypes, nil)
	if err != nil {
		return nil, err
	}
	return toStrings(resp.Value()), nil
}

// Log fetches and clears the entries of one log type.
func (s *Session) Log(ctx context.Context, logType string) ([]map[string]interface{}, error) {
	resp, err := s.Execute(ctx, command.GetLog, map[string]interface{}{"type": logType})
	if err != nil {
		return nil, err
	}
	items, _ := resp.Value().([]interface{})
	entries := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			entries = append(entries, m)
		}
	}
	return entries, nil
}
