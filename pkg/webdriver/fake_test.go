package webdriver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// request is one call seen by the fake remote end.
type request struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

type reply struct {
	status int
	body   string
}

// fakeRemote answers "METHOD /path" routes with canned replies and records
// every request. Unrouted requests get {"value": null}.
type fakeRemote struct {
	*httptest.Server
	mu       sync.Mutex
	routes   map[string][]reply
	requests []request
}

func newFakeRemote(t *testing.T) *fakeRemote {
	t.Helper()
	f := &fakeRemote{routes: map[string][]reply{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// on queues replies for a route; the last one repeats.
func (f *fakeRemote) on(method, path string, status int, body string) *fakeRemote {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method + " " + path
	f.routes[key] = append(f.routes[key], reply{status: status, body: body})
	return f
}

func (f *fakeRemote) serve(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	var body map[string]interface{}
	_ = json.Unmarshal(data, &body)

	f.mu.Lock()
	f.requests = append(f.requests, request{Method: r.Method, Path: r.URL.Path, Body: body})
	key := r.Method + " " + r.URL.Path
	rep := reply{status: http.StatusOK, body: `{"value":null}`}
	if queued := f.routes[key]; len(queued) > 0 {
		rep = queued[0]
		if len(queued) > 1 {
			f.routes[key] = queued[1:]
		}
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	_, _ = w.Write([]byte(rep.body))
}

func (f *fakeRemote) calls() []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]request(nil), f.requests...)
}

func (f *fakeRemote) last() request {
	calls := f.calls()
	if len(calls) == 0 {
		return request{}
	}
	return calls[len(calls)-1]
}

func (f *fakeRemote) count(method, path string) int {
	n := 0
	for _, r := range f.calls() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

const (
	w3cNewSession    = `{"value":{"sessionId":"s1","capabilities":{"browserName":"chrome"}}}`
	legacyNewSession = `{"status":0,"sessionId":"s1","value":{"browserName":"chrome"}}`
)

// startSession starts a session against f answering NEW_SESSION with reply.
func startSession(t *testing.T, f *fakeRemote, reply string) *Session {
	t.Helper()
	f.on(http.MethodPost, "/session", http.StatusOK, reply)
	s := New(Options{ServerURL: f.URL, Browser: "chrome"})
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Quit(context.Background()) })
	return s
}

func w3cSession(t *testing.T) (*Session, *fakeRemote) {
	f := newFakeRemote(t)
	return startSession(t, f, w3cNewSession), f
}

func legacySession(t *testing.T) (*Session, *fakeRemote) {
	f := newFakeRemote(t)
	return startSession(t, f, legacyNewSession), f
}

// elementJSON is the W3C wire form of an element reference.
func elementJSON(id string) string {
	return `{"element-6066-11e4-a52e-4f735466cecf":"` + id + `"}`
}
