// Package service supervises a local WebDriver executable such as
// chromedriver or geckodriver: it picks a port, spawns the process, waits for
// it to answer on /status and tears it down again.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/phayes/freeport"

	"github.com/devicelab-dev/wdclient/pkg/logger"
	"github.com/devicelab-dev/wdclient/pkg/transport"
)

const (
	// pollAttempts bounds both the startup and the shutdown-confirmation poll.
	pollAttempts        = 30
	defaultPollInterval = time.Second
	defaultStopTimeout  = 10 * time.Second
	defaultHost         = "localhost"
)

// State is the supervisor's lifecycle position.
type State int

const (
	NotStarted State = iota
	Launching
	Connectable
	Stopping
	Stopped
	Crashed
)

func (s State) String() string {
	switch s {
	case Launching:
		return "launching"
	case Connectable:
		return "connectable"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	case Crashed:
		return "crashed"
	default:
		return "not started"
	}
}

// CommandLineFunc builds the driver arguments for a resolved port.
type CommandLineFunc func(port int) []string

// Options configures a Service.
type Options struct {
	Path string
	// Port to listen on; 0 picks a free one at Start.
	Port int
	// Args are appended after --port=N by the default command line.
	Args []string
	// CommandLine replaces the default command line entirely.
	CommandLine CommandLineFunc
	// Env entries ("KEY=value") added to the inherited environment.
	Env []string
	// LogPath receives the driver's stdout and stderr. Ignored when
	// LogOutput is set. Output is discarded when both are empty.
	LogPath   string
	LogOutput io.Writer
	// Host the driver is reached on, "localhost" by default.
	Host string
	// PollInterval separates connectability probes.
	PollInterval time.Duration
	// StopTimeout bounds the wait between terminate and kill.
	StopTimeout time.Duration
	// StartErrorMessage is appended to start failures, e.g. a download hint.
	StartErrorMessage string
}

// Service supervises one driver process. A process belongs to exactly one
// Service.
type Service struct {
	opts Options
	port int
	http *transport.Client

	mu       sync.Mutex
	state    State
	cmd      *exec.Cmd
	logFile  *os.File
	exited   chan struct{}
	exitCode int
}

// New creates a stopped service.
func New(opts Options) *Service {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = defaultStopTimeout
	}
	if opts.Host == "" {
		opts.Host = defaultHost
	}
	return &Service{
		opts: opts,
		port: opts.Port,
		http: newProbeClient(),
	}
}

// newProbeClient builds the client used for /status and /shutdown.
func newProbeClient() *transport.Client {
	return transport.New(transport.Options{
		Timeout:        2 * time.Second,
		ConnectTimeout: time.Second,
	})
}

// DefaultCommandLine is --port=N followed by extra.
func DefaultCommandLine(extra ...string) CommandLineFunc {
	return func(port int) []string {
		return append([]string{"--port=" + strconv.Itoa(port)}, extra...)
	}
}

// Port returns the port, resolved once Start has run.
func (s *Service) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// URL returns the service base URL.
func (s *Service) URL() string {
	return fmt.Sprintf("http://%s:%d", s.opts.Host, s.Port())
}

// State returns the lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start spawns the driver and blocks until it answers GET /status with 200,
// the process exits, or the poll bound is exhausted.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state == Launching || s.state == Connectable {
		s.mu.Unlock()
		return &Error{Path: s.opts.Path, Err: ErrAlreadyRunning}
	}

	if s.http.Closed() {
		s.http = newProbeClient()
	}

	if s.port == 0 {
		// The port is released before the driver binds it; another process
		// can take it in between.
		port, err := freeport.GetFreePort()
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("find free port: %w", err)
		}
		s.port = port
	}

	commandLine := s.opts.CommandLine
	if commandLine == nil {
		commandLine = DefaultCommandLine(s.opts.Args...)
	}
	cmd := exec.Command(s.opts.Path, commandLine(s.port)...)
	cmd.Env = append(os.Environ(), s.opts.Env...)

	sink := s.opts.LogOutput
	if sink == nil && s.opts.LogPath != "" {
		f, err := os.OpenFile(s.opts.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("open driver log: %w", err)
		}
		s.logFile = f
		sink = f
	}
	cmd.Stdout = sink
	cmd.Stderr = sink

	if err := cmd.Start(); err != nil {
		s.closeLogLocked()
		s.mu.Unlock()
		return s.startError(err)
	}

	s.cmd = cmd
	s.exited = make(chan struct{})
	s.state = Launching
	go s.wait(cmd, s.exited)
	s.mu.Unlock()

	logger.Info("started %s (pid %d) on port %d", s.opts.Path, cmd.Process.Pid, s.port)

	if err := s.waitConnectable(ctx); err != nil {
		s.kill()
		if !errors.Is(err, ErrUnexpectedExit) {
			s.mu.Lock()
			s.state = Stopped
			s.mu.Unlock()
		}
		return err
	}

	s.mu.Lock()
	s.state = Connectable
	s.mu.Unlock()
	return nil
}

func (s *Service) startError(err error) error {
	e := &Error{Path: s.opts.Path, Hint: s.opts.StartErrorMessage, Cause: err}
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		e.Err = ErrExecutableNotFound
	case errors.Is(err, fs.ErrPermission):
		e.Err = ErrPermissionDenied
	default:
		e.Err = ErrExecutableNotFound
	}
	return e
}

func (s *Service) wait(cmd *exec.Cmd, exited chan struct{}) {
	_ = cmd.Wait()
	s.mu.Lock()
	s.exitCode = cmd.ProcessState.ExitCode()
	if s.state == Launching || s.state == Connectable {
		s.state = Crashed
	}
	s.mu.Unlock()
	close(exited)
}

// waitConnectable polls up to pollAttempts times, checking for an early exit
// before every probe.
func (s *Service) waitConnectable(ctx context.Context) error {
	errNotReady := errors.New("not ready")
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.opts.PollInterval), pollAttempts-1),
		ctx,
	)
	err := backoff.Retry(func() error {
		if err := s.assertRunning(); err != nil {
			return backoff.Permanent(err)
		}
		if s.IsConnectable(ctx) {
			return nil
		}
		return errNotReady
	}, b)

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, errNotReady):
		return &Error{Path: s.opts.Path, Err: ErrCannotConnect, Hint: s.opts.StartErrorMessage}
	default:
		return err
	}
}

func (s *Service) assertRunning() error {
	select {
	case <-s.exited:
		s.mu.Lock()
		code := s.exitCode
		s.mu.Unlock()
		return &Error{Path: s.opts.Path, Err: ErrUnexpectedExit, ExitCode: code}
	default:
		return nil
	}
}

// IsConnectable reports whether GET /status answers 200.
func (s *Service) IsConnectable(ctx context.Context) bool {
	resp, err := s.http.Do(ctx, http.MethodGet, s.URL()+"/status", nil)
	return err == nil && resp.StatusCode == http.StatusOK
}

// Stop asks the driver to shut down, waits for it to stop answering, then
// terminates and kills it and any child processes it left behind. Failures
// along the way are logged, not returned. Safe to call more than once.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cmd == nil {
		s.closeLogLocked()
		if s.state != NotStarted {
			s.state = Stopped
		}
		s.mu.Unlock()
		return nil
	}
	s.state = Stopping
	s.mu.Unlock()

	s.sendShutdown(ctx)

	s.mu.Lock()
	s.closeLogLocked()
	s.mu.Unlock()

	s.kill()

	s.mu.Lock()
	s.state = Stopped
	s.mu.Unlock()
	return s.http.Close()
}

// sendShutdown issues GET /shutdown and waits for the port to go quiet.
func (s *Service) sendShutdown(ctx context.Context) {
	if _, err := s.http.Do(ctx, http.MethodGet, s.URL()+"/shutdown", nil); err != nil {
		return
	}
	for i := 0; i < pollAttempts; i++ {
		if !s.IsConnectable(ctx) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.opts.PollInterval):
		}
	}
	logger.Warn("%s is still connectable after %d attempts of issuing shutdown; check if the driver is still running",
		s.URL(), pollAttempts)
}

// kill terminates the process, waits up to StopTimeout for it to exit and
// then kills it regardless, along with its children. OS errors from racing a
// process that already exited are expected and ignored.
func (s *Service) kill() {
	s.mu.Lock()
	cmd, exited := s.cmd, s.exited
	s.cmd = nil
	s.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return
	}

	children := childProcesses(cmd.Process.Pid)

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		_ = cmd.Process.Kill()
	}
	select {
	case <-exited:
	case <-time.After(s.opts.StopTimeout):
		logger.Warn("%s did not exit within %v of terminate", s.opts.Path, s.opts.StopTimeout)
	}
	_ = cmd.Process.Kill()
	killAll(children)
	select {
	case <-exited:
	case <-time.After(s.opts.StopTimeout):
	}
}

func (s *Service) closeLogLocked() {
	if s.logFile != nil {
		s.logFile.Close()
		s.logFile = nil
	}
}
