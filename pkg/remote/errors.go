package remote

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devicelab-dev/wdclient/pkg/errcode"
)

// CheckResponse returns nil when resp carries no status or a success status,
// and the matching *errcode.Error otherwise.
func CheckResponse(resp Response) error {
	status, ok := resp.Status()
	if !ok || status == nil || errcode.IsSuccess(status) {
		return nil
	}

	var value interface{}
	message := asString(resp["message"])
	if errcode.IsNumeric(status) {
		status, value, message = statusValueMessage(resp)
	}
	kind := errcode.ExceptionFor(status)

	if s, ok := value.(string); ok {
		return errcode.New(kind, s)
	}

	m, _ := value.(map[string]interface{})
	e := &errcode.Error{Kind: kind, Message: message}
	if screen, ok := m["screen"].(string); ok {
		e.Screen = screen
	}
	st := m["stackTrace"]
	if !truthy(st) {
		st = m["stacktrace"]
	}
	e.Stacktrace = stacktrace(st)

	if kind == errcode.UnexpectedAlertOpen {
		if data, ok := m["data"]; ok {
			e.AlertText = nestedText(data)
		} else if alert, ok := m["alert"]; ok {
			e.AlertText = nestedText(alert)
		}
	}
	return e
}

// statusValueMessage digs the real status, value and message out of a legacy
// shaped error. Mixed legacy/W3C servers nest the payload up to three levels
// deep ({value: {value: {message}}}); each level is checked in turn.
func statusValueMessage(resp Response) (interface{}, interface{}, string) {
	status := resp["status"]
	var value interface{}
	var message string

	if raw := resp["value"]; truthy(raw) {
		v := parseJSONString(raw)
		if m, ok := v.(map[string]interface{}); ok && len(m) == 1 {
			if inner, ok := m["value"]; ok {
				v = inner
			}
		}

		if m, ok := v.(map[string]interface{}); ok {
			value = m
			status = m["error"]
			if status == nil {
				status = m["status"]
				msg := m["message"]
				if !truthy(msg) {
					msg = m["value"]
				}
				if nested, ok := msg.(map[string]interface{}); ok {
					value = nested
					message = asString(nested["message"])
				} else {
					message = asString(msg)
				}
			} else {
				message = asString(m["message"])
			}
		} else {
			value = v
		}
	}

	// Plain legacy replies ({status: 7, value: {message}}) carry the code
	// only at the top level.
	if status == nil {
		status = resp["status"]
	}
	if !truthy(value) {
		value = resp["value"]
	}
	if message == "" {
		if m, ok := value.(map[string]interface{}); ok {
			if msg, ok := m["message"]; ok {
				message = asString(msg)
			}
		}
	}
	return status, value, message
}

func parseJSONString(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	var out interface{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return v
	}
	return out
}

func nestedText(v interface{}) string {
	m, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	return asString(m["text"])
}

// stacktrace renders a remote stack as lines. Servers send either one
// newline-separated string or a list of frame objects.
func stacktrace(v interface{}) []string {
	if !truthy(v) {
		return nil
	}
	switch st := v.(type) {
	case string:
		return strings.Split(st, "\n")
	case []interface{}:
		lines := make([]string, 0, len(st))
		for _, f := range st {
			frame, ok := f.(map[string]interface{})
			if !ok {
				continue
			}
			file := "<anonymous>"
			if name, ok := frame["fileName"]; ok && name != nil {
				file = asString(name)
			}
			if line := frame["lineNumber"]; truthy(line) {
				file = fmt.Sprintf("%s:%v", file, line)
			}
			method := "<anonymous>"
			if name, ok := frame["methodName"]; ok && name != nil {
				method = asString(name)
			}
			if class := frame["className"]; truthy(class) {
				method = asString(class) + "." + method
			}
			lines = append(lines, fmt.Sprintf("    at %s (%s)", method, file))
		}
		return lines
	}
	return nil
}
