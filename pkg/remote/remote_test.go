package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/wdclient/pkg/command"
	"github.com/devicelab-dev/wdclient/pkg/errcode"
	"github.com/devicelab-dev/wdclient/pkg/transport"
)

type testElement struct {
	id  string
	w3c bool
}

func (e *testElement) ID() string { return e.id }

func testFactory(id string, w3c bool) interface{} {
	return &testElement{id: id, w3c: w3c}
}

// recordingServer captures the last request and replies with status/body.
type recordingServer struct {
	*httptest.Server
	calls  int32
	method string
	path   string
	body   []byte
}

func newRecordingServer(t *testing.T, status int, reply string) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&rs.calls, 1)
		rs.method = r.Method
		rs.path = r.URL.Path
		rs.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(rs.Close)
	return rs
}

func newTestExecutor(t *testing.T, url string) *Executor {
	t.Helper()
	e := NewExecutor(url, command.NewRegistry(), Options{ElementFactory: testFactory})
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Response
	}{
		{"error status keeps decoded body", 404, `{"status":10,"value":"stale element"}`,
			Response{"status": 404, "value": map[string]interface{}{"status": float64(10), "value": "stale element"}}},
		{"error status raw body", 500, `oops`, Response{"status": 500, "value": "oops"}},
		{"success inserts value", 200, `{"sessionId":"s1"}`, Response{"sessionId": "s1", "value": nil}},
		{"success as-is", 200, `{"value":3}`, Response{"value": float64(3)}},
		{"success non-json", 200, `plain`, Response{"status": 0, "value": "plain"}},
		{"success empty", 200, ``, Response{"status": 0, "value": ""}},
		{"success json array", 200, `[1]`, Response{"status": 0, "value": []interface{}{float64(1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeResponse(tt.status, []byte(tt.body))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeResponse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStaleElementFromLegacyBody(t *testing.T) {
	resp := DecodeResponse(404, []byte(`{"status":10,"value":"stale element"}`))
	err := CheckResponse(resp)
	require.Error(t, err)

	var e *errcode.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errcode.StaleElementReference, e.Kind)
	assert.Equal(t, "stale element", e.Message)
	assert.ErrorIs(t, err, errcode.ErrStaleElementReference)
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    errcode.Kind
		message string
	}{
		{"w3c error under http 404", 404,
			`{"value":{"error":"no such element","message":"Unable to locate #q","stacktrace":""}}`,
			errcode.NoSuchElement, "Unable to locate #q"},
		{"legacy 200 with status", 200, `{"status":7,"value":{"message":"gone"}}`,
			errcode.NoSuchElement, "gone"},
		{"legacy string status", 200, `{"status":"no such frame","message":"top"}`,
			errcode.NoSuchFrame, "top"},
		{"nested message object", 500,
			`{"value":{"status":23,"value":{"message":"window closed"}}}`,
			errcode.NoSuchWindow, "window closed"},
		{"value is a json string", 200,
			`{"status":13,"value":"{\"error\":\"invalid argument\",\"message\":\"bad\"}"}`,
			errcode.InvalidArgument, "bad"},
		{"non-json error body", 502, `Bad Gateway`, errcode.Unknown, "Bad Gateway"},
		{"unknown slug", 500, `{"value":{"error":"teapot","message":"short and stout"}}`,
			errcode.Unknown, "short and stout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckResponse(DecodeResponse(tt.status, []byte(tt.body)))
			var e *errcode.Error
			require.True(t, errors.As(err, &e), "got %v", err)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.message, e.Message)
		})
	}
}

func TestCheckResponseSuccess(t *testing.T) {
	for _, resp := range []Response{
		{"value": 1},
		{"status": 0, "value": 1},
		{"status": float64(0), "value": 1},
		{"status": "success", "value": 1},
		{"status": nil, "value": 1},
	} {
		assert.NoError(t, CheckResponse(resp), "%v", resp)
	}
}

func TestCheckResponseStacktraceAndScreen(t *testing.T) {
	body := `{"value":{"error":"javascript error","message":"boom","screen":"aGk=",
		"stackTrace":[{"className":"Foo","methodName":"bar","fileName":"foo.js","lineNumber":12},
		{"methodName":"baz"},"junk"]}}`
	err := CheckResponse(DecodeResponse(500, []byte(body)))

	var e *errcode.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errcode.JavascriptError, e.Kind)
	assert.Equal(t, "aGk=", e.Screen)
	assert.Equal(t, []string{
		"    at Foo.bar (foo.js:12)",
		"    at baz (<anonymous>)",
	}, e.Stacktrace)

	err = CheckResponse(DecodeResponse(500, []byte(`{"value":{"error":"timeout","message":"m","stacktrace":"a\nb"}}`)))
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"a", "b"}, e.Stacktrace)
}

func TestCheckResponseAlertText(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"value":{"error":"unexpected alert open","message":"m","data":{"text":"Are you sure?"}}}`, "Are you sure?"},
		{`{"status":26,"value":{"message":"m","alert":{"text":"legacy"}}}`, "legacy"},
		{`{"value":{"error":"unexpected alert open","message":"m"}}`, ""},
	}
	for _, tt := range tests {
		err := CheckResponse(DecodeResponse(500, []byte(tt.body)))
		var e *errcode.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errcode.UnexpectedAlertOpen, e.Kind)
		assert.Equal(t, tt.want, e.AlertText)
	}
}

func TestExecuteWrapsW3CElement(t *testing.T) {
	srv := newRecordingServer(t, 200, `{"value":{"element-6066-11e4-a52e-4f735466cecf":"xyz"}}`)
	e := newTestExecutor(t, srv.URL)
	e.SetW3C(true)

	resp, err := e.Execute(context.Background(), command.FindElement, "s1",
		map[string]interface{}{"using": "css selector", "value": "#q"})
	require.NoError(t, err)

	el, ok := resp.Value().(*testElement)
	require.True(t, ok, "value is %T", resp.Value())
	assert.Equal(t, "xyz", el.ID())
	assert.True(t, el.w3c)
	assert.Equal(t, http.MethodPost, srv.method)
	assert.Equal(t, "/session/s1/element", srv.path)
}

func TestExecuteUnwrapsElementParams(t *testing.T) {
	srv := newRecordingServer(t, 200, `{"value":null}`)
	e := newTestExecutor(t, srv.URL)

	_, err := e.Execute(context.Background(), command.W3CExecuteScript, "s1", map[string]interface{}{
		"script": "return arguments[0]",
		"args":   []interface{}{&testElement{id: "id1"}, map[string]interface{}{"deep": &testElement{id: "id2"}}},
		"el":     &testElement{id: "id1"},
	})
	require.NoError(t, err)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(srv.body, &sent))
	wire := map[string]interface{}{"ELEMENT": "id1", "element-6066-11e4-a52e-4f735466cecf": "id1"}
	assert.Equal(t, wire, sent["el"])
	args := sent["args"].([]interface{})
	assert.Equal(t, wire, args[0])
	assert.Equal(t, map[string]interface{}{
		"deep": map[string]interface{}{"ELEMENT": "id2", "element-6066-11e4-a52e-4f735466cecf": "id2"},
	}, args[1])
}

func TestUnwrapTypedContainers(t *testing.T) {
	wire := func(id string) map[string]interface{} {
		return map[string]interface{}{ElementKey: id, W3CElementKey: id}
	}
	var nilRef *testElement

	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"pointer slice", []*testElement{{id: "a"}, {id: "b"}}, []interface{}{wire("a"), wire("b")}},
		{"interface slice", []ElementRef{&testElement{id: "a"}}, []interface{}{wire("a")}},
		{"array", [1]*testElement{{id: "a"}}, []interface{}{wire("a")}},
		{"typed map", map[string]*testElement{"x": {id: "a"}}, map[string]interface{}{"x": wire("a")}},
		{"nested", map[string][]*testElement{"x": {{id: "a"}}}, map[string]interface{}{"x": []interface{}{wire("a")}}},
		{"nil ref", nilRef, nil},
		{"nil in slice", []*testElement{nil}, []interface{}{nil}},
		{"plain slice", []string{"a"}, []interface{}{"a"}},
		{"nil slice", []string(nil), []string(nil)},
		{"non-string keys", map[int]string{1: "a"}, map[int]string{1: "a"}},
		{"scalar", 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, UnwrapElements(tt.in)); diff != "" {
				t.Errorf("UnwrapElements() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestElementRoundTrip(t *testing.T) {
	orig := &testElement{id: "round"}
	sent := UnwrapElements(map[string]interface{}{"x": []interface{}{orig}})

	// Simulate an echo server: encode and decode the JSON.
	data, err := json.Marshal(sent)
	require.NoError(t, err)
	var echoed interface{}
	require.NoError(t, json.Unmarshal(data, &echoed))

	got := WrapElements(echoed, testFactory, false).(map[string]interface{})
	el := got["x"].([]interface{})[0].(*testElement)
	assert.Equal(t, orig.ID(), el.ID())
}

func TestWrapPrefersLegacyKey(t *testing.T) {
	got := WrapElements(map[string]interface{}{"ELEMENT": "a", W3CElementKey: "b"}, testFactory, false)
	assert.Equal(t, "a", got.(*testElement).ID())

	got = WrapElements(map[string]interface{}{"ELEMENT": nil, W3CElementKey: "b"}, testFactory, false)
	assert.Equal(t, "b", got.(*testElement).ID())

	got = WrapElements(map[string]interface{}{"ELEMENT": "c"}, nil, false)
	assert.Equal(t, "c", got.(ElementRef).ID())
}

func TestExecuteStripsSessionIDUnderW3C(t *testing.T) {
	srv := newRecordingServer(t, 200, `{"value":null}`)
	e := newTestExecutor(t, srv.URL)
	params := map[string]interface{}{"url": "https://example.com", "sessionId": "s1"}

	_, err := e.Execute(context.Background(), command.Get, "s1", params)
	require.NoError(t, err)
	assert.Contains(t, string(srv.body), `"sessionId"`)

	e.SetW3C(true)
	_, err = e.Execute(context.Background(), command.Get, "s1", params)
	require.NoError(t, err)
	assert.NotContains(t, string(srv.body), `"sessionId"`)
	assert.Contains(t, params, "sessionId", "caller params must not be modified")
}

func TestExecuteMissingPlaceholderSendsNothing(t *testing.T) {
	srv := newRecordingServer(t, 200, `{"value":null}`)
	e := newTestExecutor(t, srv.URL)

	_, err := e.Execute(context.Background(), command.GetElementText, "s1", nil)
	var missing *command.MissingParamError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "id", missing.Param)

	_, err = e.Execute(context.Background(), command.Command("bogus"), "s1", nil)
	assert.ErrorIs(t, err, command.ErrUnknownCommand)

	assert.Equal(t, int32(0), atomic.LoadInt32(&srv.calls))
}

func TestExecuteTransportFailureIsUnknownError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	e := newTestExecutor(t, "http://"+addr)
	_, err = e.Execute(context.Background(), command.Status, "", nil)
	require.Error(t, err)

	var ee *errcode.Error
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, errcode.Unknown, ee.Kind)
	assert.Contains(t, ee.Message, "send request")
}

func TestExecuteAfterClose(t *testing.T) {
	srv := newRecordingServer(t, 200, `{"value":null}`)
	e := NewExecutor(srv.URL, nil, Options{})
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	_, err := e.Execute(context.Background(), command.GetTitle, "s1", nil)
	assert.ErrorIs(t, err, errcode.ErrUnknown)
	assert.ErrorIs(t, err, transport.ErrClosed)
	assert.Equal(t, int32(0), atomic.LoadInt32(&srv.calls))
}

func TestExecuteSharedClientNotClosed(t *testing.T) {
	srv := newRecordingServer(t, 200, `{"value":"ok"}`)
	client := transport.New(transport.Options{KeepAlive: true})
	defer client.Close()

	a := NewExecutor(srv.URL, nil, Options{Client: client})
	b := NewExecutor(srv.URL, nil, Options{Client: client})
	require.NoError(t, a.Close())

	resp, err := b.Execute(context.Background(), command.GetTitle, "s2", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Value())
}

func TestExecuteBodyOnlyForPost(t *testing.T) {
	srv := newRecordingServer(t, 200, `{"value":"t"}`)
	e := newTestExecutor(t, srv.URL+"/wd/hub/")

	_, err := e.Execute(context.Background(), command.GetTitle, "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, srv.method)
	assert.Equal(t, "/wd/hub/session/s1/title", srv.path)
	assert.Empty(t, srv.body)

	_, err = e.Execute(context.Background(), command.Refresh, "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(srv.body))
}

func TestResponseSessionID(t *testing.T) {
	assert.Equal(t, "s1", Response{"sessionId": "s1"}.SessionID())
	assert.Equal(t, "s2", Response{"value": map[string]interface{}{"sessionId": "s2"}}.SessionID())
	assert.Equal(t, "", Response{"value": nil}.SessionID())
}
