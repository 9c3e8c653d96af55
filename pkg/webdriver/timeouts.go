package webdriver

import (
	"context"
	"errors"
	"time"

	"github.com/devicelab-dev/wdclient/pkg/command"
	"github.com/devicelab-dev/wdclient/pkg/errcode"
)

// ImplicitlyWait sets how long element lookups keep retrying.
func (s *Session) ImplicitlyWait(ctx context.Context, d time.Duration) error {
	if s.w3c {
		_, err := s.Execute(ctx, command.SetTimeouts, map[string]interface{}{"implicit": d.Milliseconds()})
		return err
	}
	_, err := s.Execute(ctx, command.ImplicitWait, map[string]interface{}{"ms": floatMillis(d)})
	return err
}

// SetScriptTimeout bounds ExecuteAsyncScript.
func (s *Session) SetScriptTimeout(ctx context.Context, d time.Duration) error {
	if s.w3c {
		_, err := s.Execute(ctx, command.SetTimeouts, map[string]interface{}{"script": d.Milliseconds()})
		return err
	}
	_, err := s.Execute(ctx, command.SetScriptTimeout, map[string]interface{}{"ms": floatMillis(d)})
	return err
}

// SetPageLoadTimeout bounds navigation. Servers that reject the W3C shape get
// the legacy {ms, type} form instead.
func (s *Session) SetPageLoadTimeout(ctx context.Context, d time.Duration) error {
	_, err := s.Execute(ctx, command.SetTimeouts, map[string]interface{}{"pageLoad": d.Milliseconds()})
	var remoteErr *errcode.Error
	if !errors.As(err, &remoteErr) {
		return err
	}
	_, err = s.Execute(ctx, command.SetTimeouts, map[string]interface{}{"ms": floatMillis(d), "type": "page load"})
	return err
}

// Timeouts returns the session's current timeouts.
func (s *Session) Timeouts(ctx context.Context) (Timeouts, error) {
	resp, err := s.Execute(ctx, command.GetTimeouts, nil)
	if err != nil {
		return Timeouts{}, err
	}
	m := resp.ValueMap()
	return Timeouts{
		Implicit: millis(m["implicit"]),
		PageLoad: millis(m["pageLoad"]),
		Script:   millis(m["script"]),
	}, nil
}

// SetTimeouts sets all three timeouts at once.
func (s *Session) SetTimeouts(ctx context.Context, t Timeouts) error {
	_, err := s.Execute(ctx, command.SetTimeouts, t.params())
	return err
}

func floatMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
