package webdriver

import (
	"context"
	"errors"

	"github.com/devicelab-dev/wdclient/pkg/command"
	"github.com/devicelab-dev/wdclient/pkg/errcode"
)

// Cookies returns every cookie visible to the current page.
func (s *Session) Cookies(ctx context.Context) ([]Cookie, error) {
	resp, err := s.Execute(ctx, command.GetAllCookies, nil)
	if err != nil {
		return nil, err
	}
	var cookies []Cookie
	if err := decode(resp.Value(), &cookies); err != nil {
		return nil, err
	}
	return cookies, nil
}

// Cookie returns the named cookie, or nil when there is none.
func (s *Session) Cookie(ctx context.Context, name string) (*Cookie, error) {
	if !s.w3c {
		cookies, err := s.Cookies(ctx)
		if err != nil {
			return nil, err
		}
		for i := range cookies {
			if cookies[i].Name == name {
				return &cookies[i], nil
			}
		}
		return nil, nil
	}

	resp, err := s.Execute(ctx, command.GetCookie, map[string]interface{}{"name": name})
	if errors.Is(err, errcode.ErrNoSuchCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var c Cookie
	if err := decode(resp.Value(), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// AddCookie sets a cookie. SameSite, when set, must be "Strict" or "Lax".
func (s *Session) AddCookie(ctx context.Context, c Cookie) error {
	if c.SameSite != "" && c.SameSite != "Strict" && c.SameSite != "Lax" {
		return errcode.New(errcode.InvalidArgument, "sameSite must be 'Strict' or 'Lax', got "+c.SameSite)
	}
	_, err := s.Execute(ctx, command.AddCookie, map[string]interface{}{"cookie": c})
	return err
}

func (s *Session) DeleteCookie(ctx context.Context, name string) error {
	_, err := s.Execute(ctx, command.DeleteCookie, map[string]interface{}{"name": name})
	return err
}

func (s *Session) DeleteAllCookies(ctx context.Context) error {
	_, err := s.Execute(ctx, command.DeleteAllCookies, nil)
	return err
}
