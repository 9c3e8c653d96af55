package webdriver

import (
	"context"

	"github.com/devicelab-dev/wdclient/pkg/command"
	"github.com/devicelab-dev/wdclient/pkg/errcode"
	"github.com/devicelab-dev/wdclient/pkg/logger"
)

// CurrentWindow is the legacy handle meaning "the window in focus".
const CurrentWindow = "current"

// Close closes the current window.
func (s *Session) Close(ctx context.Context) error {
	_, err := s.Execute(ctx, command.Close, nil)
	return err
}

// WindowHandle returns the handle of the current window.
func (s *Session) WindowHandle(ctx context.Context) (string, error) {
	cmd := command.GetCurrentWindowHandle
	if s.w3c {
		cmd = command.W3CGetCurrentWindowHandle
	}
	resp, err := s.Execute(ctx, cmd, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

// WindowHandles returns the handles of every open window.
func (s *Session) WindowHandles(ctx context.Context) ([]string, error) {
	cmd := command.GetWindowHandles
	if s.w3c {
		cmd = command.W3CGetWindowHandles
	}
	resp, err := s.Execute(ctx, cmd, nil)
	if err != nil {
		return nil, err
	}
	return toStrings(resp.Value()), nil
}

func (s *Session) MaximizeWindow(ctx context.Context) error {
	if s.w3c {
		_, err := s.Execute(ctx, command.W3CMaximizeWindow, nil)
		return err
	}
	_, err := s.Execute(ctx, command.MaximizeWindow, map[string]interface{}{"windowHandle": CurrentWindow})
	return err
}

func (s *Session) FullscreenWindow(ctx context.Context) error {
	_, err := s.Execute(ctx, command.FullscreenWindow, nil)
	return err
}

func (s *Session) MinimizeWindow(ctx context.Context) error {
	_, err := s.Execute(ctx, command.MinimizeWindow, nil)
	return err
}

// SetWindowSize resizes a window. W3C sessions can only address the current
// window and ignore handle with a warning; "" means the current window.
func (s *Session) SetWindowSize(ctx context.Context, width, height int, handle string) error {
	handle = windowHandle(handle)
	if s.w3c {
		warnHandle(handle)
		_, err := s.SetWindowRect(ctx, nil, &Size{Width: float64(width), Height: float64(height)})
		return err
	}
	_, err := s.Execute(ctx, command.SetWindowSize, map[string]interface{}{
		"width":        width,
		"height":       height,
		"windowHandle": handle,
	})
	return err
}

// WindowSize returns a window's width and height.
func (s *Session) WindowSize(ctx context.Context, handle string) (Size, error) {
	handle = windowHandle(handle)
	if s.w3c {
		warnHandle(handle)
		r, err := s.WindowRect(ctx)
		return Size{Width: r.Width, Height: r.Height}, err
	}
	resp, err := s.Execute(ctx, command.GetWindowSize, map[string]interface{}{"windowHandle": handle})
	if err != nil {
		return Size{}, err
	}
	return sizeOf(resp.Value()), nil
}

// SetWindowPosition moves a window; handle is treated as in SetWindowSize.
func (s *Session) SetWindowPosition(ctx context.Context, x, y int, handle string) error {
	handle = windowHandle(handle)
	if s.w3c {
		warnHandle(handle)
		_, err := s.SetWindowRect(ctx, &Point{X: float64(x), Y: float64(y)}, nil)
		return err
	}
	_, err := s.Execute(ctx, command.SetWindowPosition, map[string]interface{}{
		"x":            x,
		"y":            y,
		"windowHandle": handle,
	})
	return err
}

// WindowPosition returns a window's x and y.
func (s *Session) WindowPosition(ctx context.Context, handle string) (Point, error) {
	handle = windowHandle(handle)
	if s.w3c {
		warnHandle(handle)
		r, err := s.WindowRect(ctx)
		return Point{X: r.X, Y: r.Y}, err
	}
	resp, err := s.Execute(ctx, command.GetWindowPosition, map[string]interface{}{"windowHandle": handle})
	if err != nil {
		return Point{}, err
	}
	m, _ := resp.Value().(map[string]interface{})
	return Point{X: toFloat(m["x"]), Y: toFloat(m["y"])}, nil
}

// WindowRect returns the current window's position and size.
func (s *Session) WindowRect(ctx context.Context) (Rect, error) {
	resp, err := s.Execute(ctx, command.GetWindowRect, nil)
	if err != nil {
		return Rect{}, err
	}
	var r Rect
	return r, decode(resp.Value(), &r)
}

// SetWindowRect moves and/or resizes the current window. At least one of pos
// and size is required. W3C only.
func (s *Session) SetWindowRect(ctx context.Context, pos *Point, size *Size) (Rect, error) {
	if !s.w3c {
		return Rect{}, errcode.New(errcode.UnsupportedCommand, "set window rect is only supported for W3C compatible browsers")
	}
	if pos == nil && size == nil {
		return Rect{}, errcode.New(errcode.InvalidArgument, "x and y or width and height must be specified")
	}
	params := map[string]interface{}{"x": nil, "y": nil, "width": nil, "height": nil}
	if pos != nil {
		params["x"], params["y"] = pos.X, pos.Y
	}
	if size != nil {
		params["width"], params["height"] = size.Width, size.Height
	}
	resp, err := s.Execute(ctx, command.SetWindowRect, params)
	if err != nil {
		return Rect{}, err
	}
	var r Rect
	return r, decode(resp.Value(), &r)
}

func windowHandle(h string) string {
	if h == "" {
		return CurrentWindow
	}
	return h
}

func warnHandle(h string) {
	if h != CurrentWindow {
		logger.Warn("only 'current' window is supported for W3C compatible browsers, ignoring handle %q", h)
	}
}
