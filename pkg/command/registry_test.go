package command

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFindElement(t *testing.T) {
	r := NewRegistry()

	spec, err := r.Resolve(FindElement)
	require.NoError(t, err)
	assert.Equal(t, Spec{Method: http.MethodPost, Path: "/session/{sessionId}/element"}, spec)

	req, err := r.Encode(Invocation{
		Command:   FindElement,
		SessionID: "abc123",
		Params:    map[string]interface{}{"using": "css selector", "value": "#q"},
	})
	require.NoError(t, err)
	if diff := cmp.Diff(Request{Method: http.MethodPost, Path: "/session/abc123/element"}, req); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
}

func TestAliasResolvesToTarget(t *testing.T) {
	r := NewRegistry()
	for _, target := range r.Commands() {
		alias := Command("alias-" + string(target))
		require.NoError(t, r.AddAlias(alias, target))

		want, err := r.Resolve(target)
		require.NoError(t, err)
		got, err := r.Resolve(alias)
		require.NoError(t, err)
		assert.Equal(t, want, got, "alias of %s", target)
	}
}

func TestDeleteSessionAliasesQuit(t *testing.T) {
	r := NewRegistry()
	got, err := r.Resolve(DeleteSession)
	require.NoError(t, err)
	assert.Equal(t, del("/session/{sessionId}"), got)
}

func TestAliasCheckedBeforeDirectLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.AddAlias(GetTitle, GetPageSource))

	got, err := r.Resolve(GetTitle)
	require.NoError(t, err)
	assert.Equal(t, "/session/{sessionId}/source", got.Path)
}

func TestAddAliasRejectsEmpty(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.AddAlias("", GetTitle))
	assert.Error(t, r.AddAlias(GetTitle, ""))
}

func TestResolveUnknownCommand(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve(Command("noSuchThing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCommand))
	assert.Contains(t, err.Error(), "noSuchThing")

	// Family commands are not part of the base set.
	_, err = r.Resolve(ExecuteCDPCommand)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestEncodeMissingPlaceholder(t *testing.T) {
	r := NewRegistry()
	_, err := r.Encode(Invocation{Command: GetElementAttribute, SessionID: "s1", Params: map[string]interface{}{"id": "e1"}})
	require.Error(t, err)

	var missing *MissingParamError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "name", missing.Param)
	assert.Equal(t, GetElementAttribute, missing.Command)
	assert.Contains(t, err.Error(), `"name"`)
}

func TestEncodeMissingSessionID(t *testing.T) {
	r := NewRegistry()
	_, err := r.Encode(Invocation{Command: GetTitle, Params: map[string]interface{}{"sessionId": "ignored"}})

	var missing *MissingParamError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "sessionId", missing.Param)
}

func TestEncodeEscapesAndKeepsExtras(t *testing.T) {
	r := NewRegistry()
	params := map[string]interface{}{"name": "a b/c", "extra": true}
	req, err := r.Encode(Invocation{Command: GetCookie, SessionID: "s1", Params: params})
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/session/s1/cookie/a%20b%2Fc", req.Path)
	assert.Len(t, params, 2, "params must not be consumed")
}

func TestEncodeNonStringPlaceholder(t *testing.T) {
	r := NewRegistry()
	req, err := r.Encode(Invocation{
		Command:   GetWindowSize,
		SessionID: "s1",
		Params:    map[string]interface{}{"windowHandle": "current"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/session/s1/window/current/size", req.Path)

	path, err := BuildPath("/x/{n}", "", map[string]interface{}{"n": 3})
	require.NoError(t, err)
	assert.Equal(t, "/x/3", path)
}

func TestEveryTemplateSatisfiable(t *testing.T) {
	registries := []*Registry{
		NewRegistry(),
		NewChromiumRegistry(VendorGoogle),
		NewChromiumRegistry(VendorMicrosoft),
		NewFirefoxRegistry(),
		NewSafariRegistry(),
	}
	for _, r := range registries {
		for _, cmd := range r.Commands() {
			spec, err := r.Resolve(cmd)
			require.NoError(t, err)

			params := map[string]interface{}{}
			for _, name := range Placeholders(spec.Path) {
				if name != "sessionId" {
					params[name] = "v"
				}
			}
			req, err := r.Encode(Invocation{Command: cmd, SessionID: "s", Params: params})
			if !assert.NoError(t, err, "%s %s", r.Family(), cmd) {
				continue
			}
			assert.NotContains(t, req.Path, "{", "%s %s", r.Family(), cmd)
			assert.Contains(t, []string{http.MethodGet, http.MethodPost, http.MethodDelete}, req.Method)
		}
	}
}

func TestFamiliesDoNotMutateBase(t *testing.T) {
	base := NewRegistry()
	before := base.Commands()

	chromium := NewChromiumRegistry(VendorMicrosoft)
	_ = NewFirefoxRegistry()
	_ = NewSafariRegistry()
	require.NoError(t, chromium.AddCommand("custom", http.MethodGet, "/custom"))

	if diff := cmp.Diff(before, NewRegistry().Commands()); diff != "" {
		t.Errorf("base registry changed (-want +got):\n%s", diff)
	}
	_, err := base.Resolve("custom")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Greater(t, len(chromium.Commands()), len(before))
}

func TestChromiumVendorPrefix(t *testing.T) {
	tests := []struct {
		vendor string
		cmd    Command
		want   string
	}{
		{VendorGoogle, ExecuteCDPCommand, "/session/s/goog/cdp/execute"},
		{VendorMicrosoft, ExecuteCDPCommand, "/session/s/ms/cdp/execute"},
		{VendorGoogle, GetSinks, "/session/s/goog/cast/get_sinks"},
		{VendorMicrosoft, StopCasting, "/session/s/ms/cast/stop_casting"},
		{VendorGoogle, LaunchApp, "/session/s/chromium/launch_app"},
	}
	for _, tt := range tests {
		r := NewChromiumRegistry(tt.vendor)
		req, err := r.Encode(Invocation{Command: tt.cmd, SessionID: "s"})
		require.NoError(t, err)
		if req.Path != tt.want {
			t.Errorf("Encode(%s, %s) = %q, want %q", tt.vendor, tt.cmd, req.Path, tt.want)
		}
	}
}

func TestForBrowser(t *testing.T) {
	tests := []struct {
		name string
		want Family
	}{
		{"chrome", FamilyChromium},
		{"MicrosoftEdge", FamilyChromium},
		{"msedge", FamilyChromium},
		{"firefox", FamilyFirefox},
		{"Safari", FamilySafari},
		{"internet explorer", FamilyBase},
		{"", FamilyBase},
	}
	for _, tt := range tests {
		if got := ForBrowser(tt.name).Family(); got != tt.want {
			t.Errorf("ForBrowser(%q).Family() = %v, want %v", tt.name, got, tt.want)
		}
	}

	req, err := ForBrowser("msedge").Encode(Invocation{Command: ExecuteCDPCommand, SessionID: "s"})
	require.NoError(t, err)
	assert.Equal(t, "/session/s/ms/cdp/execute", req.Path)
}

func TestAddCommandRejectsEmpty(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.AddCommand("", http.MethodGet, "/x"))
}

func TestSpecString(t *testing.T) {
	assert.Equal(t, "<GET - /status>", get("/status").String())
}
