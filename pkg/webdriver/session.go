// Package webdriver is the user-facing session API: it negotiates
// capabilities, decides the protocol dialect once at session start and exposes
// the browser, window, element and alert verbs as thin wrappers over
// remote.Executor.
package webdriver

import (
	"context"
	"fmt"
	"time"

	"github.com/devicelab-dev/wdclient/pkg/command"
	"github.com/devicelab-dev/wdclient/pkg/errcode"
	"github.com/devicelab-dev/wdclient/pkg/logger"
	"github.com/devicelab-dev/wdclient/pkg/remote"
	"github.com/devicelab-dev/wdclient/pkg/service"
	"github.com/devicelab-dev/wdclient/pkg/transport"
)

// State is the session lifecycle position.
type State int

const (
	Unstarted State = iota
	Starting
	Active
	Quitting
	Quit
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Active:
		return "active"
	case Quitting:
		return "quitting"
	case Quit:
		return "quit"
	default:
		return "unstarted"
	}
}

// CapabilitiesProvider is a browser options builder.
type CapabilitiesProvider interface {
	ToCapabilities() map[string]interface{}
}

// Options configures a Session.
type Options struct {
	// ServerURL of the remote end. Replaced by the service URL once a local
	// Service has started.
	ServerURL string
	// Browser selects the command registry family when Registry is nil.
	Browser  string
	Registry *command.Registry

	// Capability sources, merged in this order, later wins.
	Options      CapabilitiesProvider
	Capabilities map[string]interface{}
	// Profile is an encoded Firefox profile.
	Profile string

	// Service, when set, is started before the session and stopped at Quit.
	Service *service.Service

	// Client is shared and left open at Quit. Otherwise the session owns a
	// client built from KeepAlive and the timeouts.
	Client         *transport.Client
	KeepAlive      bool
	Timeout        time.Duration
	ConnectTimeout time.Duration

	// FileDetector maps SendKeys arguments to a local file to upload. Only
	// consulted for remote sessions; defaults to LocalFileDetector.
	FileDetector FileDetector
}

// Session is one WebDriver session. It is owned by a single caller and is
// not safe for concurrent use.
type Session struct {
	opts     Options
	exec     *remote.Executor
	service  *service.Service
	detector FileDetector

	id    string
	w3c   bool
	caps  map[string]interface{}
	state State
}

// New creates an unstarted session.
func New(opts Options) *Session {
	registry := opts.Registry
	if registry == nil {
		registry = command.ForBrowser(opts.Browser)
	}
	s := &Session{
		opts:     opts,
		service:  opts.Service,
		detector: opts.FileDetector,
	}
	if s.detector == nil {
		s.detector = LocalFileDetector{}
	}
	s.exec = remote.NewExecutor(opts.ServerURL, registry, remote.Options{
		Client:         opts.Client,
		KeepAlive:      opts.KeepAlive,
		Timeout:        opts.Timeout,
		ConnectTimeout: opts.ConnectTimeout,
		ElementFactory: s.newElement,
	})
	return s
}

// Start creates and starts a session.
func Start(ctx context.Context, opts Options) (*Session, error) {
	s := New(opts)
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) newElement(id string, w3c bool) interface{} {
	return &Element{session: s, id: id, w3c: w3c}
}

// Start launches the local service, if any, and creates the remote session.
// A failed start stops the service again and leaves the session unstarted.
func (s *Session) Start(ctx context.Context) error {
	if s.state != Unstarted {
		return fmt.Errorf("start session: already %s", s.state)
	}
	s.state = Starting

	if err := s.StartService(ctx); err != nil {
		s.state = Unstarted
		return err
	}
	if err := s.StartSession(ctx, s.desiredCapabilities()); err != nil {
		if s.service != nil {
			if stopErr := s.service.Stop(ctx); stopErr != nil {
				logger.Warn("stop service after failed session start: %v", stopErr)
			}
		}
		s.state = Unstarted
		return err
	}
	s.state = Active
	return nil
}

// StartService starts the local driver and rebases the session onto it. A
// no-op for sessions without a Service.
func (s *Session) StartService(ctx context.Context) error {
	if s.service == nil {
		return nil
	}
	if err := s.service.Start(ctx); err != nil {
		return err
	}
	s.exec.SetBaseURL(s.service.URL())
	return nil
}

// StartSession sends NEW_SESSION with both capability shapes and fixes the
// dialect for the rest of the session: W3C iff the reply has no top-level
// status field.
func (s *Session) StartSession(ctx context.Context, caps map[string]interface{}) error {
	if s.state != Unstarted && s.state != Starting {
		return fmt.Errorf("start session: already %s", s.state)
	}
	if caps == nil {
		caps = map[string]interface{}{}
	}
	params := map[string]interface{}{
		"capabilities":        W3CCapabilities(caps),
		"desiredCapabilities": caps,
	}
	resp, err := s.exec.Execute(ctx, command.NewSession, "", params)
	if err != nil {
		return err
	}

	payload := map[string]interface{}(resp)
	if _, ok := resp["sessionId"]; !ok {
		if m := resp.ValueMap(); m != nil {
			payload = m
		}
	}
	id, _ := payload["sessionId"].(string)
	if id == "" {
		return errcode.ErrSessionNotCreated.WithMessage("new session response carried no session id")
	}

	s.id = id
	s.caps, _ = payload["value"].(map[string]interface{})
	if len(s.caps) == 0 {
		s.caps, _ = payload["capabilities"].(map[string]interface{})
	}
	_, legacy := resp.Status()
	s.w3c = !legacy
	s.exec.SetW3C(s.w3c)
	s.state = Active

	logger.Info("session %s started (w3c=%t)", s.id, s.w3c)
	return nil
}

// Execute runs a command scoped to this session. Legacy servers also get the
// session id in the body.
func (s *Session) Execute(ctx context.Context, cmd command.Command, params map[string]interface{}) (remote.Response, error) {
	if _, ok := params["sessionId"]; !ok && s.id != "" && !s.w3c {
		withID := make(map[string]interface{}, len(params)+1)
		for k, v := range params {
			withID[k] = v
		}
		withID["sessionId"] = s.id
		params = withID
	}
	return s.exec.Execute(ctx, cmd, s.id, params)
}

// Quit deletes the remote session, stops the local service and releases the
// transport. Remote and shutdown failures are logged, not returned, so local
// cleanup always runs. Later calls do nothing.
func (s *Session) Quit(ctx context.Context) error {
	if s.state == Quitting || s.state == Quit {
		return nil
	}
	s.state = Quitting

	if s.id != "" {
		if _, err := s.Execute(ctx, command.Quit, nil); err != nil {
			logger.Warn("delete session %s: %v", s.id, err)
		}
	}
	if s.service != nil {
		if err := s.service.Stop(ctx); err != nil {
			logger.Warn("stop service: %v", err)
		}
	}
	err := s.exec.Close()
	s.state = Quit
	return err
}

// ID returns the server-assigned session id, empty before StartSession.
func (s *Session) ID() string { return s.id }

// W3C reports whether the session speaks the W3C dialect.
func (s *Session) W3C() bool { return s.w3c }

// Capabilities returns the capabilities the server echoed at session start.
func (s *Session) Capabilities() map[string]interface{} { return s.caps }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// ServerURL returns the remote end URL currently in use.
func (s *Session) ServerURL() string { return s.exec.BaseURL() }

// Registry returns the command registry.
func (s *Session) Registry() *command.Registry { return s.exec.Registry() }

// IsRemote reports whether the session talks to a server it did not spawn.
func (s *Session) IsRemote() bool { return s.service == nil }

// FileDetector returns the detector used by Element.SendKeys.
func (s *Session) FileDetector() FileDetector { return s.detector }

// SetFileDetector replaces the file detector. nil restores the default.
func (s *Session) SetFileDetector(d FileDetector) {
	if d == nil {
		d = LocalFileDetector{}
	}
	s.detector = d
}

// SwitchTo returns the frame, window and alert switcher.
func (s *Session) SwitchTo() *SwitchTo { return &SwitchTo{session: s} }

// Mobile returns the mobile network and context verbs.
func (s *Session) Mobile() *Mobile { return &Mobile{session: s} }

func (s *Session) String() string {
	return fmt.Sprintf("Session(id=%q, w3c=%t, state=%s)", s.id, s.w3c, s.state)
}
