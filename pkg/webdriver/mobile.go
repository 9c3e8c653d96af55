package webdriver

import (
	"context"

	"github.com/devicelab-dev/wdclient/pkg/command"
)

// ConnectionType is a network connection bitmask.
type ConnectionType int

const (
	AirplaneMode ConnectionType = 1
	WiFiNetwork  ConnectionType = 2
	DataNetwork  ConnectionType = 4
	AllNetwork   ConnectionType = WiFiNetwork | DataNetwork
)

func (c ConnectionType) AirplaneMode() bool { return c&AirplaneMode != 0 }
func (c ConnectionType) WiFi() bool { return c&WiFiNetwork != 0 }
func (c ConnectionType) Data() bool { return c&DataNetwork != 0 }

// Mobile holds the verbs only mobile remote ends implement.
type Mobile struct {
	session *Session
}

// NetworkConnection returns the active connection mask.
func (m *Mobile) NetworkConnection(ctx context.Context) (ConnectionType, error) {
	resp, err := m.session.Execute(ctx, command.GetNetworkConnection, nil)
	if err != nil {
		return 0, err
	}
	return ConnectionType(toFloat(resp.Value())), nil
}

// SetNetworkConnection requests a connection mask and returns the one the
// device ended up with.
func (m *Mobile) SetNetworkConnection(ctx context.Context, c ConnectionType) (ConnectionType, error) {
	resp, err := m.session.Execute(ctx, command.SetNetworkConnection, map[string]interface{}{
		"name":       "network_connection",
		"parameters": map[string]interface{}{"type": int(c)},
	})
	if err != nil {
		return 0, err
	}
	return ConnectionType(toFloat(resp.Value())), nil
}

// Context returns the current context, e.g. "NATIVE_APP" or "WEBVIEW_1".
func (m *Mobile) Context(ctx context.Context) (string, error) {
	resp, err := m.session.Execute(ctx, command.CurrentContextHandle, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

func (m *Mobile) Contexts(ctx context.Context) ([]string, error) {
	resp, err := m.session.Execute(ctx, command.ContextHandles, nil)
	if err != nil {
		return nil, err
	}
	return toStrings(resp.Value()), nil
}

func (m *Mobile) SetContext(ctx context.Context, name string) error {
	_, err := m.session.Execute(ctx, command.SwitchToContext, map[string]interface{}{"name": name})
	return err
}
