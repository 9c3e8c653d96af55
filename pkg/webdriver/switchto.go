package webdriver

import (
	"context"
	"errors"
	"fmt"

	"github.com/devicelab-dev/wdclient/pkg/command"
	"github.com/devicelab-dev/wdclient/pkg/errcode"
)

// SwitchTo moves the session's focus between frames, windows and alerts.
type SwitchTo struct {
	session *Session
}

// ActiveElement returns the element that has focus.
func (t *SwitchTo) ActiveElement(ctx context.Context) (*Element, error) {
	cmd := command.GetActiveElement
	if t.session.w3c {
		cmd = command.W3CGetActiveElement
	}
	resp, err := t.session.Execute(ctx, cmd, nil)
	if err != nil {
		return nil, err
	}
	return toElement(resp.Value())
}

// Alert returns the open alert, failing with NoAlertPresent when there is
// none.
func (t *SwitchTo) Alert(ctx context.Context) (*Alert, error) {
	a := &Alert{session: t.session}
	if _, err := a.Text(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// DefaultContent selects the top-level browsing context.
func (t *SwitchTo) DefaultContent(ctx context.Context) error {
	_, err := t.session.Execute(ctx, command.SwitchToFrame, map[string]interface{}{"id": nil})
	return err
}

// Frame selects a frame by index (int), element (*Element) or name or id
// (string). W3C has no by-name switch, so names are resolved to an element
// first and a failed lookup reports NoSuchFrame.
func (t *SwitchTo) Frame(ctx context.Context, ref interface{}) error {
	if name, ok := ref.(string); ok && t.session.w3c {
		el, err := t.session.FindElement(ctx, ByIDOrName, name)
		if errors.Is(err, errcode.ErrNoSuchElement) {
			return errcode.ErrNoSuchFrame.WithMessage(name).WithCause(err)
		}
		if err != nil {
			return err
		}
		ref = el
	}
	_, err := t.session.Execute(ctx, command.SwitchToFrame, map[string]interface{}{"id": ref})
	return err
}

// ParentFrame selects the parent of the current frame.
func (t *SwitchTo) ParentFrame(ctx context.Context) error {
	_, err := t.session.Execute(ctx, command.SwitchToParentFrame, nil)
	return err
}

// NewWindow opens a "tab" or "window" ("" lets the server choose) and
// switches to it.
func (t *SwitchTo) NewWindow(ctx context.Context, typeHint string) (string, error) {
	var hint interface{}
	if typeHint != "" {
		hint = typeHint
	}
	resp, err := t.session.Execute(ctx, command.NewWindow, map[string]interface{}{"type": hint})
	if err != nil {
		return "", err
	}
	handle := toString(resp.ValueMap()["handle"])
	if handle == "" {
		return "", fmt.Errorf("new window response carried no handle")
	}
	return handle, t.w3cWindow(ctx, handle)
}

// Window selects a window by handle or, for W3C sessions, by window.name.
func (t *SwitchTo) Window(ctx context.Context, nameOrHandle string) error {
	if !t.session.w3c {
		_, err := t.session.Execute(ctx, command.SwitchToWindow, map[string]interface{}{"name": nameOrHandle})
		return err
	}
	return t.w3cWindow(ctx, nameOrHandle)
}

func (t *SwitchTo) w3cWindow(ctx context.Context, name string) error {
	err := t.handle(ctx, name)
	if err == nil || !errors.Is(err, errcode.ErrNoSuchWindow) {
		return err
	}

	original, herr := t.session.WindowHandle(ctx)
	if herr != nil {
		return herr
	}
	handles, herr := t.session.WindowHandles(ctx)
	if herr != nil {
		return herr
	}
	for _, h := range handles {
		found, herr := t.windowNamed(ctx, h, name)
		if herr != nil {
			return herr
		}
		if found {
			return nil
		}
	}
	if herr := t.handle(ctx, original); herr != nil {
		return herr
	}
	return err
}

// windowNamed switches to handle and reports whether its window.name is name.
func (t *SwitchTo) windowNamed(ctx context.Context, handle, name string) (bool, error) {
	if err := t.handle(ctx, handle); err != nil {
		return false, err
	}
	current, err := t.session.ExecuteScript(ctx, "return window.name")
	if err != nil {
		return false, err
	}
	return current == name, nil
}

func (t *SwitchTo) handle(ctx context.Context, h string) error {
	_, err := t.session.Execute(ctx, command.SwitchToWindow, map[string]interface{}{"handle": h})
	return err
}
