package webdriver

import (
	"context"

	"github.com/devicelab-dev/wdclient/pkg/command"
	"github.com/devicelab-dev/wdclient/pkg/logger"
)

// Firefox browsing contexts.
const (
	ContextChrome  = "chrome"
	ContextContent = "content"
)

// Firefox adds the geckodriver endpoints to a session.
type Firefox struct {
	*Session
}

// NewFirefox creates a session over the Firefox registry.
func NewFirefox(opts Options) *Firefox {
	opts.Registry = command.NewFirefoxRegistry()
	return &Firefox{Session: New(opts)}
}

// Context returns the current browsing context.
func (f *Firefox) Context(ctx context.Context) (string, error) {
	resp, err := f.Execute(ctx, command.GetContext, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

func (f *Firefox) SetContext(ctx context.Context, name string) error {
	_, err := f.Execute(ctx, command.SetContext, map[string]interface{}{"context": name})
	return err
}

// InContext runs fn with the browsing context switched to name and restores
// the previous one afterwards, even when fn fails.
func (f *Firefox) InContext(ctx context.Context, name string, fn func() error) (err error) {
	initial, err := f.Context(ctx)
	if err != nil {
		return err
	}
	if err := f.SetContext(ctx, name); err != nil {
		return err
	}
	defer func() {
		if rerr := f.SetContext(ctx, initial); rerr != nil {
			if err == nil {
				err = rerr
			} else {
				logger.Warn("restore context %q: %v", initial, rerr)
			}
		}
	}()
	return fn()
}

// InstallAddon installs the add-on at a path on the remote machine and
// returns its id. temporary is omitted when nil.
func (f *Firefox) InstallAddon(ctx context.Context, path string, temporary *bool) (string, error) {
	params := map[string]interface{}{"path": path}
	if temporary != nil {
		params["temporary"] = *temporary
	}
	resp, err := f.Execute(ctx, command.InstallAddon, params)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

func (f *Firefox) UninstallAddon(ctx context.Context, id string) error {
	_, err := f.Execute(ctx, command.UninstallAddon, map[string]interface{}{"id": id})
	return err
}

// FullPageScreenshotBase64 captures the whole document, not just the
// viewport.
func (f *Firefox) FullPageScreenshotBase64(ctx context.Context) (string, error) {
	resp, err := f.Execute(ctx, command.FullPageScreenshot, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

func (f *Firefox) FullPageScreenshotPNG(ctx context.Context) ([]byte, error) {
	return decodePNG(f.FullPageScreenshotBase64(ctx))
}

func (f *Firefox) SaveFullPageScreenshot(ctx context.Context, filename string) error {
	return savePNG(filename, func() ([]byte, error) { return f.FullPageScreenshotPNG(ctx) })
}
