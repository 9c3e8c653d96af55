package webdriver

import (
	"context"

	"github.com/devicelab-dev/wdclient/pkg/command"
)

// Alert is the user prompt currently open in the session.
type Alert struct {
	session *Session
}

// Text returns the prompt message.
func (a *Alert) Text(ctx context.Context) (string, error) {
	cmd := command.GetAlertText
	if a.session.w3c {
		cmd = command.W3CGetAlertText
	}
	resp, err := a.session.Execute(ctx, cmd, nil)
	if err != nil {
		return "", err
	}
	return toString(resp.Value()), nil
}

func (a *Alert) Dismiss(ctx context.Context) error {
	cmd := command.DismissAlert
	if a.session.w3c {
		cmd = command.W3CDismissAlert
	}
	_, err := a.session.Execute(ctx, cmd, nil)
	return err
}

func (a *Alert) Accept(ctx context.Context) error {
	cmd := command.AcceptAlert
	if a.session.w3c {
		cmd = command.W3CAcceptAlert
	}
	_, err := a.session.Execute(ctx, cmd, nil)
	return err
}

// SendKeys types into a prompt dialog.
func (a *Alert) SendKeys(ctx context.Context, keys string) error {
	if a.session.w3c {
		_, err := a.session.Execute(ctx, command.W3CSetAlertValue, map[string]interface{}{
			"value": typing(keys),
			"text":  keys,
		})
		return err
	}
	_, err := a.session.Execute(ctx, command.SetAlertValue, map[string]interface{}{"text": keys})
	return err
}
