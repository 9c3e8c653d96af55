package webdriver

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/wdclient/pkg/command"
	"github.com/devicelab-dev/wdclient/pkg/errcode"
	"github.com/devicelab-dev/wdclient/pkg/service"
	"github.com/devicelab-dev/wdclient/pkg/transport"
)

func TestStartSessionTopLevelIDIsW3C(t *testing.T) {
	f := newFakeRemote(t)
	s := startSession(t, f, `{"sessionId":"s1","value":{"browserName":"chrome"}}`)

	assert.True(t, s.W3C())
	assert.Equal(t, "s1", s.ID())
	assert.Equal(t, Active, s.State())
	assert.Equal(t, map[string]interface{}{"browserName": "chrome"}, s.Capabilities())
}

func TestStartSessionNestedW3CReply(t *testing.T) {
	s, _ := w3cSession(t)
	assert.True(t, s.W3C())
	assert.Equal(t, "s1", s.ID())
	assert.Equal(t, "chrome", s.Capabilities()["browserName"])
}

func TestStartSessionLegacyReply(t *testing.T) {
	s, _ := legacySession(t)
	assert.False(t, s.W3C())
	assert.Equal(t, "s1", s.ID())
	assert.Equal(t, "chrome", s.Capabilities()["browserName"])
}

func TestDialectIsSticky(t *testing.T) {
	s, f := w3cSession(t)
	f.on(http.MethodGet, "/session/s1/title", http.StatusOK, `{"status":0,"value":"legacy looking"}`)

	title, err := s.Title(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "legacy looking", title)
	assert.True(t, s.W3C(), "a later legacy-shaped reply must not flip the dialect")

	// Still W3C endpoints afterwards.
	_, err = s.WindowHandle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/session/s1/window", f.last().Path)
}

func TestStartSessionWithoutIDFails(t *testing.T) {
	f := newFakeRemote(t)
	f.on(http.MethodPost, "/session", http.StatusOK, `{"value":{"capabilities":{}}}`)
	s := New(Options{ServerURL: f.URL})

	err := s.Start(context.Background())
	assert.ErrorIs(t, err, errcode.ErrSessionNotCreated)
	assert.Equal(t, Unstarted, s.State())
}

func TestStartSessionServerError(t *testing.T) {
	f := newFakeRemote(t)
	f.on(http.MethodPost, "/session", http.StatusInternalServerError,
		`{"value":{"error":"session not created","message":"no chrome binary"}}`)

	_, err := Start(context.Background(), Options{ServerURL: f.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, errcode.ErrSessionNotCreated)
	assert.Contains(t, err.Error(), "no chrome binary")
}

func TestNewSessionBody(t *testing.T) {
	f := newFakeRemote(t)
	f.on(http.MethodPost, "/session", http.StatusOK, w3cNewSession)
	s := New(Options{
		ServerURL: f.URL,
		Capabilities: map[string]interface{}{
			"browserName":    "firefox",
			"platform":       "LINUX",
			"acceptSslCerts": true,
			"nativeEvents":   true,
		},
	})
	require.NoError(t, s.Start(context.Background()))
	defer s.Quit(context.Background())

	body := f.calls()[0].Body
	want := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"firstMatch":  []interface{}{map[string]interface{}{}},
			"alwaysMatch": map[string]interface{}{
				"browserName":         "firefox",
				"platformName":        "linux",
				"acceptInsecureCerts": true,
			},
		},
		"desiredCapabilities": map[string]interface{}{
			"browserName":    "firefox",
			"platform":       "LINUX",
			"acceptSslCerts": true,
			"nativeEvents":   true,
		},
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("new session body mismatch (-want +got):\n%s", diff)
	}
}

type fakeOptions map[string]interface{}

func (o fakeOptions) ToCapabilities() map[string]interface{} { return o }

func TestDesiredCapabilitiesMergeOrder(t *testing.T) {
	s := New(Options{
		Options:      fakeOptions{"browserName": "chrome", "goog:chromeOptions": map[string]interface{}{"args": []interface{}{"--headless"}}},
		Capabilities: map[string]interface{}{"browserName": "firefox"},
		Profile:      "UEsDBA==",
	})
	caps := s.desiredCapabilities()
	assert.Equal(t, "firefox", caps["browserName"])
	assert.Equal(t, "UEsDBA==", caps["firefox_profile"])
	assert.Contains(t, caps, "goog:chromeOptions")

	s = New(Options{
		Capabilities: map[string]interface{}{"moz:firefoxOptions": map[string]interface{}{"args": []interface{}{"-headless"}}},
		Profile:      "UEsDBA==",
	})
	caps = s.desiredCapabilities()
	assert.NotContains(t, caps, "firefox_profile")
	assert.Equal(t, "UEsDBA==", caps["moz:firefoxOptions"].(map[string]interface{})["profile"])
}

func TestW3CCapabilities(t *testing.T) {
	in := map[string]interface{}{
		"browserName":       "chrome",
		"version":           "99",
		"browserVersion":    "100",
		"platform":          "WINDOWS",
		"proxy":             map[string]interface{}{"proxyType": "MANUAL", "httpProxy": "p:1"},
		"goog:loggingPrefs": map[string]interface{}{"browser": "ALL"},
		"javascriptEnabled": true,
		"acceptSslCerts":    false,
		"firefox_profile":   "PROFILE",
	}
	got := W3CCapabilities(in)
	want := map[string]interface{}{
		"firstMatch":  []interface{}{map[string]interface{}{}},
		"alwaysMatch": map[string]interface{}{
			"browserName":        "chrome",
			"browserVersion":     "100",
			"platformName":       "windows",
			"proxy":              map[string]interface{}{"proxyType": "manual", "httpProxy": "p:1"},
			"goog:loggingPrefs":  map[string]interface{}{"browser": "ALL"},
			"moz:firefoxOptions": map[string]interface{}{"profile": "PROFILE"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("W3CCapabilities() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "MANUAL", in["proxy"].(map[string]interface{})["proxyType"], "input must not be modified")

	withProfile := W3CCapabilities(map[string]interface{}{
		"firefox_profile":    "NEW",
		"moz:firefoxOptions": map[string]interface{}{"profile": "KEEP"},
	})
	assert.Equal(t, "KEEP", withProfile["alwaysMatch"].(map[string]interface{})["moz:firefoxOptions"].(map[string]interface{})["profile"])
}

func TestLegacyBodyCarriesSessionID(t *testing.T) {
	s, f := legacySession(t)
	require.NoError(t, s.Get(context.Background(), "https://example.com"))
	assert.Equal(t, map[string]interface{}{"url": "https://example.com", "sessionId": "s1"}, f.last().Body)

	w, wf := w3cSession(t)
	require.NoError(t, w.Get(context.Background(), "https://example.com"))
	assert.Equal(t, map[string]interface{}{"url": "https://example.com"}, wf.last().Body)
}

func TestQuitIsIdempotent(t *testing.T) {
	s, f := w3cSession(t)
	el := &Element{session: s, id: "e1", w3c: true}

	require.NoError(t, s.Quit(context.Background()))
	require.NoError(t, s.Quit(context.Background()))
	assert.Equal(t, 1, f.count(http.MethodDelete, "/session/s1"))
	assert.Equal(t, Quit, s.State())

	before := len(f.calls())
	_, err := el.Text(context.Background())
	require.Error(t, err, "handles must not outlive their session")
	assert.ErrorIs(t, err, errcode.ErrUnknown)
	assert.True(t, errors.Is(err, transport.ErrClosed))
	assert.Len(t, f.calls(), before)
}

func TestQuitSwallowsRemoteFailure(t *testing.T) {
	s, f := w3cSession(t)
	f.on(http.MethodDelete, "/session/s1", http.StatusInternalServerError,
		`{"value":{"error":"unknown error","message":"browser gone"}}`)

	assert.NoError(t, s.Quit(context.Background()))
	assert.Equal(t, Quit, s.State())
}

func TestQuitBeforeStart(t *testing.T) {
	f := newFakeRemote(t)
	s := New(Options{ServerURL: f.URL})
	require.NoError(t, s.Quit(context.Background()))
	assert.Empty(t, f.calls())
}

func TestSharedClientSurvivesQuit(t *testing.T) {
	f := newFakeRemote(t)
	f.on(http.MethodPost, "/session", http.StatusOK, w3cNewSession)
	client := transport.New(transport.Options{KeepAlive: true})
	defer client.Close()

	s, err := Start(context.Background(), Options{ServerURL: f.URL, Client: client})
	require.NoError(t, err)
	require.NoError(t, s.Quit(context.Background()))
	assert.False(t, client.Closed())
}

func TestStartTwiceFails(t *testing.T) {
	s, _ := w3cSession(t)
	assert.Error(t, s.Start(context.Background()))
}

func TestStartSessionOnActiveSessionFails(t *testing.T) {
	s, f := w3cSession(t)
	f.on(http.MethodPost, "/session", http.StatusOK, legacyNewSession)
	before := len(f.calls())

	err := s.StartSession(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, before, len(f.calls()), "no new session request")
	assert.Equal(t, "s1", s.ID())
	assert.True(t, s.W3C(), "dialect stays as decided at start")
	assert.Equal(t, Active, s.State())
}

func TestStartSessionDirectlyActivates(t *testing.T) {
	f := newFakeRemote(t)
	f.on(http.MethodPost, "/session", http.StatusOK, w3cNewSession)
	s := New(Options{ServerURL: f.URL})
	defer s.Quit(context.Background())

	require.NoError(t, s.StartSession(context.Background(), nil))
	assert.Equal(t, Active, s.State())
	assert.Error(t, s.StartSession(context.Background(), nil))
}

func TestStartServiceFailureLeavesSessionUnstarted(t *testing.T) {
	svc := service.New(service.Options{Path: "wdclient-no-such-driver-on-path"})
	s := New(Options{Service: svc})

	err := s.Start(context.Background())
	assert.ErrorIs(t, err, service.ErrExecutableNotFound)
	assert.Equal(t, Unstarted, s.State())
	assert.False(t, s.IsRemote())
}

func TestRegistryFromBrowser(t *testing.T) {
	assert.Equal(t, command.FamilyChromium, New(Options{Browser: "chrome"}).Registry().Family())
	assert.Equal(t, command.FamilyFirefox, New(Options{Browser: "firefox"}).Registry().Family())
	assert.Equal(t, command.FamilyBase, New(Options{}).Registry().Family())
}

func TestStatusAndSessions(t *testing.T) {
	f := newFakeRemote(t)
	f.on(http.MethodGet, "/status", http.StatusOK, `{"value":{"ready":true,"message":"ok"}}`)
	f.on(http.MethodGet, "/sessions", http.StatusOK, `{"value":[{"id":"a"},{"id":"b"}]}`)
	s := New(Options{ServerURL: f.URL})
	defer s.Quit(context.Background())

	status, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, true, status["ready"])

	sessions, err := s.Sessions(context.Background())
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Unstarted, "unstarted"},
		{Starting, "starting"},
		{Active, "active"},
		{Quitting, "quitting"},
		{Quit, "quit"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
