package webdriver

import (
	"context"

	"github.com/devicelab-dev/wdclient/pkg/command"
)

// Chromium adds the Chrome and Edge vendor endpoints to a session.
type Chromium struct {
	*Session
}

// NewChromium creates a session over the Chromium registry for vendorPrefix
// ("goog" for Chrome, "ms" for Edge).
func NewChromium(opts Options, vendorPrefix string) *Chromium {
	opts.Registry = command.NewChromiumRegistry(vendorPrefix)
	return &Chromium{Session: New(opts)}
}

// LaunchApp starts a Chrome app by id.
func (c *Chromium) LaunchApp(ctx context.Context, id string) error {
	_, err := c.Execute(ctx, command.LaunchApp, map[string]interface{}{"id": id})
	return err
}

// NetworkConditions returns the emulated network conditions.
func (c *Chromium) NetworkConditions(ctx context.Context) (map[string]interface{}, error) {
	resp, err := c.Execute(ctx, command.GetNetworkConditions, nil)
	if err != nil {
		return nil, err
	}
	return resp.ValueMap(), nil
}

// SetNetworkConditions emulates e.g. {"offline": false, "latency": 5,
// "download_throughput": 500 * 1024, "upload_throughput": 500 * 1024}.
func (c *Chromium) SetNetworkConditions(ctx context.Context, conditions map[string]interface{}) error {
	_, err := c.Execute(ctx, command.SetNetworkConditions, map[string]interface{}{"network_conditions": conditions})
	return err
}

// ExecuteCDP runs a Chrome DevTools Protocol command and returns its result.
func (c *Chromium) ExecuteCDP(ctx context.Context, cmd string, args map[string]interface{}) (interface{}, error) {
	if args == nil {
		args = map[string]interface{}{}
	}
	resp, err := c.Execute(ctx, command.ExecuteCDPCommand, map[string]interface{}{"cmd": cmd, "params": args})
	if err != nil {
		return nil, err
	}
	return resp.Value(), nil
}

// CastSinks lists the Cast sinks the browser can see.
func (c *Chromium) CastSinks(ctx context.Context) ([]interface{}, error) {
	resp, err := c.Execute(ctx, command.GetSinks, nil)
	if err != nil {
		return nil, err
	}
	sinks, _ := resp.Value().([]interface{})
	return sinks, nil
}

// CastIssueMessage returns the last Cast issue, if any.
func (c *Chromium) CastIssueMessage(ctx context.Context) (string, error) {
	resp, err := c.Execute(ctx, command.GetIssueMessage, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

func (c *Chromium) SetCastSinkToUse(ctx context.Context, sink string) error {
	return c.cast(ctx, command.SetSinkToUse, sink)
}

func (c *Chromium) StartTabMirroring(ctx context.Context, sink string) error {
	return c.cast(ctx, command.StartTabMirroring, sink)
}

func (c *Chromium) StopCasting(ctx context.Context, sink string) error {
	return c.cast(ctx, command.StopCasting, sink)
}

func (c *Chromium) cast(ctx context.Context, cmd command.Command, sink string) error {
	_, err := c.Execute(ctx, cmd, map[string]interface{}{"sinkName": sink})
	return err
}
