package webdriver

import (
	"context"

	"github.com/devicelab-dev/wdclient/pkg/command"
)

// Safari adds the safaridriver endpoints to a session.
type Safari struct {
	*Session
}

// NewSafari creates a session over the Safari registry.
func NewSafari(opts Options) *Safari {
	opts.Registry = command.NewSafariRegistry()
	return &Safari{Session: New(opts)}
}

func (s *Safari) SetPermission(ctx context.Context, permission string, value bool) error {
	_, err := s.Execute(ctx, command.SetPermissions, map[string]interface{}{
		"permissions": map[string]interface{}{permission: value},
	})
	return err
}

// Permission returns a session permission; ok is false when it is unset or
// not a boolean.
func (s *Safari) Permission(ctx context.Context, permission string) (value, ok bool, err error) {
	resp, err := s.Execute(ctx, command.GetPermissions, nil)
	if err != nil {
		return false, false, err
	}
	permissions, _ := resp.ValueMap()["permissions"].(map[string]interface{})
	value, ok = permissions[permission].(bool)
	return value, ok, nil
}

// Debug attaches the Web Inspector and pauses on a debugger statement.
func (s *Safari) Debug(ctx context.Context) error {
	if _, err := s.Execute(ctx, command.AttachDebugger, nil); err != nil {
		return err
	}
	_, err := s.ExecuteScript(ctx, "debugger;")
	return err
}
