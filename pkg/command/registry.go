package command

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
)

// ErrUnknownCommand is returned when a command has no entry in a Registry.
var ErrUnknownCommand = errors.New("unrecognized command")

// MissingParamError reports a URL placeholder that neither the session id nor
// the params could fill. It is a programming error, never a network failure.
type MissingParamError struct {
	Command Command
	Param   string
	Path    string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("%s: %q is a required placeholder in %s that is not provided", e.Command, e.Param, e.Path)
}

// Spec is the HTTP method and URL template of one command.
type Spec struct {
	Method string
	Path   string
}

func (s Spec) String() string {
	return fmt.Sprintf("<%s - %s>", s.Method, s.Path)
}

func get(path string) Spec { return Spec{Method: http.MethodGet, Path: path} }
func post(path string) Spec { return Spec{Method: http.MethodPost, Path: path} }
func del(path string) Spec { return Spec{Method: http.MethodDelete, Path: path} }

// Invocation is one command call: the command, the session it targets and
// its parameters. Built fresh per call.
type Invocation struct {
	Command   Command
	SessionID string
	Params    map[string]interface{}
}

// Request is an Invocation resolved against a Registry.
type Request struct {
	Method string
	Path   string
}

const (
	sessionPath = "/session/{sessionId}"
	elementPath = sessionPath + "/element/{id}"
	windowPath  = sessionPath + "/window/{windowHandle}"
)

var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// Registry maps commands to endpoint specs for one browser family.
type Registry struct {
	family   Family
	commands map[Command]Spec
	aliases  map[Command]Command
}

// NewRegistry returns a registry holding the base W3C and legacy command set.
func NewRegistry() *Registry {
	return &Registry{
		family:   FamilyBase,
		commands: baseCommands(),
		aliases:  map[Command]Command{DeleteSession: Quit},
	}
}

// Family returns the browser family this registry was built for.
func (r *Registry) Family() Family {
	return r.family
}

// AddCommand registers or replaces a single command.
func (r *Registry) AddCommand(cmd Command, method, path string) error {
	if cmd == "" {
		return fmt.Errorf("add command: empty command name")
	}
	r.commands[cmd] = Spec{Method: method, Path: path}
	return nil
}

// AddCommands merges specs into the registry, overwriting existing entries.
func (r *Registry) AddCommands(specs map[Command]Spec) {
	for cmd, spec := range specs {
		r.commands[cmd] = spec
	}
}

// AddAlias makes cmd resolve to the spec of target. Aliases are checked
// before direct lookup and are not chained.
func (r *Registry) AddAlias(cmd, target Command) error {
	if cmd == "" || target == "" {
		return fmt.Errorf("add alias: %q and %q both need to be valid commands", cmd, target)
	}
	r.aliases[cmd] = target
	return nil
}

// Resolve returns the spec registered for cmd after alias resolution.
func (r *Registry) Resolve(cmd Command) (Spec, error) {
	if target, ok := r.aliases[cmd]; ok {
		cmd = target
	}
	spec, ok := r.commands[cmd]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return spec, nil
}

// Commands lists every registered command in sorted order.
func (r *Registry) Commands() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i] < cmds[j] })
	return cmds
}

// Encode resolves inv to a concrete method and path. Placeholders are filled
// from the union of {sessionId: inv.SessionID} and inv.Params; extra params
// are left alone for the request body.
func (r *Registry) Encode(inv Invocation) (Request, error) {
	spec, err := r.Resolve(inv.Command)
	if err != nil {
		return Request{}, err
	}
	path, err := BuildPath(spec.Path, inv.SessionID, inv.Params)
	if err != nil {
		var missing *MissingParamError
		if errors.As(err, &missing) {
			missing.Command = inv.Command
		}
		return Request{}, err
	}
	return Request{Method: spec.Method, Path: path}, nil
}

// BuildPath substitutes every {name} placeholder in template. {sessionId} is
// only ever filled from sessionID; a "sessionId" key in params is ignored.
func BuildPath(template, sessionID string, params map[string]interface{}) (string, error) {
	var missing string
	path := placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		if name == "sessionId" && sessionID != "" {
			return url.PathEscape(sessionID)
		}
		v, ok := params[name]
		if !ok || v == nil || name == "sessionId" {
			if missing == "" {
				missing = name
			}
			return m
		}
		return url.PathEscape(fmt.Sprint(v))
	})
	if missing != "" {
		return "", &MissingParamError{Param: missing, Path: template}
	}
	return path, nil
}

// Placeholders returns the placeholder names used by template, in order.
func Placeholders(template string) []string {
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		names = append(names, m[1])
	}
	return names
}
