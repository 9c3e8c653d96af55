package webdriver

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/devicelab-dev/wdclient/pkg/command"
	"github.com/devicelab-dev/wdclient/pkg/errcode"
	"github.com/devicelab-dev/wdclient/pkg/remote"
)

const (
	submitScript = "var e = arguments[0].ownerDocument.createEvent('Event');" +
		"e.initEvent('submit', true, true);" +
		"if (arguments[0].dispatchEvent(e)) { arguments[0].submit() }"
	scrollIntoViewScript = "arguments[0].scrollIntoView(true); return arguments[0].getBoundingClientRect()"
	propertyScript       = "return arguments[0][arguments[1]]"
)

// Element is a handle to a remote DOM node, valid while its session is.
type Element struct {
	session *Session
	id      string
	w3c     bool
}

// ID returns the server-assigned element id, empty for a nil handle.
func (e *Element) ID() string {
	if e == nil {
		return ""
	}
	return e.id
}

// MarshalJSON encodes the handle as a wire element reference, so elements
// that reach encoding/json directly still go out in both dialects' form.
func (e *Element) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]string{remote.ElementKey: e.id, remote.W3CElementKey: e.id})
}

// Session returns the owning session.
func (e *Element) Session() *Session { return e.session }

// Equal reports whether other names the same remote element.
func (e *Element) Equal(other remote.ElementRef) bool {
	return other != nil && e.id == other.ID()
}

func (e *Element) String() string {
	return fmt.Sprintf("Element(session=%q, id=%q)", e.session.ID(), e.id)
}

func (e *Element) execute(ctx context.Context, cmd command.Command, params map[string]interface{}) (remote.Response, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	params["id"] = e.id
	return e.session.Execute(ctx, cmd, params)
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	resp, err := e.execute(ctx, command.GetElementTagName, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

// Text returns the rendered text.
func (e *Element) Text(ctx context.Context) (string, error) {
	resp, err := e.execute(ctx, command.GetElementText, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

func (e *Element) Size(ctx context.Context) (Size, error) {
	cmd := command.GetElementSize
	if e.w3c {
		cmd = command.GetElementRect
	}
	resp, err := e.execute(ctx, cmd, nil)
	if err != nil {
		return Size{}, err
	}
	return sizeOf(resp.Value()), nil
}

// Location returns the top-left corner, rounded to whole pixels.
func (e *Element) Location(ctx context.Context) (Point, error) {
	cmd := command.GetElementLocation
	if e.w3c {
		cmd = command.GetElementRect
	}
	resp, err := e.execute(ctx, cmd, nil)
	if err != nil {
		return Point{}, err
	}
	return rounded(resp.Value()), nil
}

// Rect returns position and size. Legacy sessions need two requests.
func (e *Element) Rect(ctx context.Context) (Rect, error) {
	if e.w3c {
		resp, err := e.execute(ctx, command.GetElementRect, nil)
		if err != nil {
			return Rect{}, err
		}
		var r Rect
		return r, decode(resp.Value(), &r)
	}
	size, err := e.Size(ctx)
	if err != nil {
		return Rect{}, err
	}
	loc, err := e.Location(ctx)
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: loc.X, Y: loc.Y, Width: size.Width, Height: size.Height}, nil
}

// LocationOnceScrolledIntoView scrolls the element into view and returns its
// new location.
func (e *Element) LocationOnceScrolledIntoView(ctx context.Context) (Point, error) {
	if !e.w3c {
		resp, err := e.execute(ctx, command.GetElementLocationOnceScrolledIntoView, nil)
		if err != nil {
			return Point{}, err
		}
		m, _ := resp.Value().(map[string]interface{})
		return Point{X: toFloat(m["x"]), Y: toFloat(m["y"])}, nil
	}
	v, err := e.session.ExecuteScript(ctx, scrollIntoViewScript, e)
	if err != nil {
		return Point{}, err
	}
	return rounded(v), nil
}

// CSSValue returns the computed value of a CSS property.
func (e *Element) CSSValue(ctx context.Context, property string) (string, error) {
	resp, err := e.execute(ctx, command.GetElementValueOfCSSProperty, map[string]interface{}{"propertyName": property})
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

func (e *Element) Click(ctx context.Context) error {
	_, err := e.execute(ctx, command.ClickElement, nil)
	return err
}

func (e *Element) Clear(ctx context.Context) error {
	_, err := e.execute(ctx, command.ClearElement, nil)
	return err
}

// Submit submits the form the element belongs to. W3C has no submit
// endpoint: the enclosing form is looked up and a submit event dispatched.
func (e *Element) Submit(ctx context.Context) error {
	if !e.w3c {
		_, err := e.execute(ctx, command.SubmitElement, nil)
		return err
	}
	form, err := e.FindElement(ctx, ByXPath, "./ancestor-or-self::form")
	if err != nil {
		return err
	}
	_, err = e.session.ExecuteScript(ctx, submitScript, form)
	return err
}

// Property returns a DOM property, reading it through script when the server
// has no property endpoint.
func (e *Element) Property(ctx context.Context, name string) (interface{}, error) {
	resp, err := e.execute(ctx, command.GetElementProperty, map[string]interface{}{"name": name})
	var remoteErr *errcode.Error
	if errors.As(err, &remoteErr) {
		return e.session.ExecuteScript(ctx, propertyScript, e, name)
	}
	if err != nil {
		return nil, err
	}
	return resp.Value(), nil
}

// Attribute returns an attribute value; ok is false when the attribute is
// absent. Legacy servers report booleans as "True"/"False", which are
// lower-cased for everything but "value".
func (e *Element) Attribute(ctx context.Context, name string) (value string, ok bool, err error) {
	resp, err := e.execute(ctx, command.GetElementAttribute, map[string]interface{}{"name": name})
	if err != nil {
		return "", false, err
	}
	v := resp.Value()
	if v == nil {
		return "", false, nil
	}
	value = toString(v)
	if !e.w3c && name != "value" {
		if lower := strings.ToLower(value); lower == "true" || lower == "false" {
			value = lower
		}
	}
	return value, true, nil
}

func (e *Element) IsSelected(ctx context.Context) (bool, error) {
	resp, err := e.execute(ctx, command.IsElementSelected, nil)
	if err != nil {
		return false, err
	}
	return toBool(resp.Value()), nil
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	resp, err := e.execute(ctx, command.IsElementEnabled, nil)
	if err != nil {
		return false, err
	}
	return toBool(resp.Value()), nil
}

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	resp, err := e.execute(ctx, command.IsElementDisplayed, nil)
	if err != nil {
		return false, err
	}
	return toBool(resp.Value()), nil
}

// SendKeys types into the element. For remote sessions, keys naming a local
// file are replaced by the path of an uploaded copy.
func (e *Element) SendKeys(ctx context.Context, keys ...string) error {
	if e.session.IsRemote() {
		if local := e.session.FileDetector().LocalFile(keys...); local != "" {
			remotePath, err := e.upload(ctx, local)
			if err != nil {
				return err
			}
			keys = []string{remotePath}
		}
	}
	text := strings.Join(keys, "")
	_, err := e.execute(ctx, command.SendKeysToElement, map[string]interface{}{
		"text":  text,
		"value": typing(text),
	})
	return err
}

// upload zips the file and sends it to the remote end, returning the remote
// path. Servers without an upload endpoint get the local path back.
func (e *Element) upload(ctx context.Context, filename string) (string, error) {
	content, err := zipFile(filename)
	if err != nil {
		return "", err
	}
	resp, err := e.execute(ctx, command.UploadFile, map[string]interface{}{"file": content})
	if err != nil {
		if uploadUnsupported(err) {
			return filename, nil
		}
		return "", err
	}
	return toString(resp.Value()), nil
}

func uploadUnsupported(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"Unrecognized command: POST",
		"Command not found: POST ",
		`{"status":405,"value":["GET","HEAD","DELETE"]}`,
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// zipFile returns a base64 deflated zip holding filename under its base name.
func zipFile(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: filepath.Base(filename), Method: zip.Deflate})
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(w, f); err != nil {
		return "", fmt.Errorf("zip upload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("zip upload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ScreenshotBase64 returns a screenshot of the element as base64 PNG data.
func (e *Element) ScreenshotBase64(ctx context.Context) (string, error) {
	resp, err := e.execute(ctx, command.ElementScreenshot, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

func (e *Element) ScreenshotPNG(ctx context.Context) ([]byte, error) {
	return decodePNG(e.ScreenshotBase64(ctx))
}

func (e *Element) SaveScreenshot(ctx context.Context, filename string) error {
	return savePNG(filename, func() ([]byte, error) { return e.ScreenshotPNG(ctx) })
}

// FindElement returns the first descendant matching the locator.
func (e *Element) FindElement(ctx context.Context, by By, value string) (*Element, error) {
	resp, err := e.execute(ctx, command.FindChildElement, by.params(value, e.w3c))
	if err != nil {
		return nil, err
	}
	return toElement(resp.Value())
}

// FindElements returns every descendant matching the locator.
func (e *Element) FindElements(ctx context.Context, by By, value string) ([]*Element, error) {
	resp, err := e.execute(ctx, command.FindChildElements, by.params(value, e.w3c))
	if err != nil {
		return nil, err
	}
	return toElements(resp.Value())
}

// typing splits text into the per-character form the value field expects.
func typing(text string) []string {
	out := make([]string, 0, len(text))
	for _, r := range text {
		out = append(out, string(r))
	}
	return out
}
