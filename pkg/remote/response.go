// Package remote executes WebDriver commands against a remote end: it encodes
// an invocation, sends it, decodes the reply and turns wire errors into
// *errcode.Error values.
package remote

import (
	"encoding/json"
	"fmt"
)

// Response is the normalized envelope every reply is decoded into: a "value"
// key always, and a "status" key for legacy servers and errors.
type Response map[string]interface{}

// Value returns the payload.
func (r Response) Value() interface{} {
	return r["value"]
}

// Status returns the status field and whether it was present at all.
func (r Response) Status() (interface{}, bool) {
	s, ok := r["status"]
	return s, ok
}

// SessionID returns the session id from the top level or from under value.
func (r Response) SessionID() string {
	if id := asString(r["sessionId"]); id != "" {
		return id
	}
	if m, ok := r["value"].(map[string]interface{}); ok {
		return asString(m["sessionId"])
	}
	return ""
}

// ValueMap returns the payload as an object, or nil.
func (r Response) ValueMap() map[string]interface{} {
	m, _ := r["value"].(map[string]interface{})
	return m
}

// DecodeResponse normalizes one HTTP reply into an envelope.
//
// Non-2xx replies become {status: <http code>, value: <body>}. A 2xx JSON
// object is returned as-is with "value" guaranteed present. Anything else is
// wrapped as a success envelope around the decoded or raw body.
func DecodeResponse(statusCode int, body []byte) Response {
	var data interface{}
	isJSON := json.Unmarshal(body, &data) == nil
	if !isJSON {
		data = string(body)
	}

	if statusCode < 200 || statusCode >= 300 {
		return Response{"status": statusCode, "value": data}
	}
	if m, ok := data.(map[string]interface{}); ok {
		if _, ok := m["value"]; !ok {
			m["value"] = nil
		}
		return Response(m)
	}
	return Response{"status": 0, "value": data}
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// truthy follows JSON-ish truthiness: null, false, 0, "" and empty
// containers are false.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case map[string]interface{}:
		return len(t) > 0
	case []interface{}:
		return len(t) > 0
	}
	return true
}
