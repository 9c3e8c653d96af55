// Package errcode classifies WebDriver wire status codes and W3C error slugs.
package errcode

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind is the failure class a status resolves to.
type Kind int

const (
	Unknown Kind = iota
	NoSuchSession
	InvalidSessionID
	SessionNotCreated
	NoSuchElement
	StaleElementReference
	ElementNotVisible
	ElementNotInteractable
	ElementClickIntercepted
	ElementNotSelectable
	InvalidElementState
	NoSuchFrame
	NoSuchWindow
	MoveTargetOutOfBounds
	NoAlertPresent
	UnexpectedAlertOpen
	JavascriptError
	ScriptTimeout
	Timeout
	InvalidSelector
	NoSuchCookie
	UnableToSetCookie
	InvalidCookieDomain
	InvalidArgument
	InvalidCoordinates
	InsecureCertificate
	UnsupportedCommand
	UnableToCaptureScreen
	ImeNotAvailable
	ImeActivationFailed
)

var kindNames = map[Kind]string{
	Unknown:                 "unknown error",
	NoSuchSession:           "no such session",
	InvalidSessionID:        "invalid session id",
	SessionNotCreated:       "session not created",
	NoSuchElement:           "no such element",
	StaleElementReference:   "stale element reference",
	ElementNotVisible:       "element not visible",
	ElementNotInteractable:  "element not interactable",
	ElementClickIntercepted: "element click intercepted",
	ElementNotSelectable:    "element not selectable",
	InvalidElementState:     "invalid element state",
	NoSuchFrame:             "no such frame",
	NoSuchWindow:            "no such window",
	MoveTargetOutOfBounds:   "move target out of bounds",
	NoAlertPresent:          "no such alert",
	UnexpectedAlertOpen:     "unexpected alert open",
	JavascriptError:         "javascript error",
	ScriptTimeout:           "script timeout",
	Timeout:                 "timeout",
	InvalidSelector:         "invalid selector",
	NoSuchCookie:            "no such cookie",
	UnableToSetCookie:       "unable to set cookie",
	InvalidCookieDomain:     "invalid cookie domain",
	InvalidArgument:         "invalid argument",
	InvalidCoordinates:      "invalid coordinates",
	InsecureCertificate:     "insecure certificate",
	UnsupportedCommand:      "unsupported command",
	UnableToCaptureScreen:   "unable to capture screen",
	ImeNotAvailable:         "ime not available",
	ImeActivationFailed:     "ime engine activation failed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[Unknown]
}

// Entry is one row of the status table.
type Entry struct {
	Name       string
	Code       int
	Slug       string
	HTTPStatus int
	Kind       Kind
	// CanonicalJSON marks the row that owns Code for legacy lookups.
	CanonicalJSON bool
	// CanonicalW3C marks the row that owns Slug for W3C lookups.
	CanonicalW3C bool
}

// noCode marks rows the legacy protocol has no numeric code for.
const noCode = -1

// table is scanned in order; the first canonical match wins.
var table = []Entry{
	{"Success", 0, "success", 200, Unknown, true, true},
	{"NoSuchSession", 6, "invalid session id", 404, NoSuchSession, true, false},
	{"NoSuchElement", 7, "no such element", 404, NoSuchElement, true, true},
	{"NoSuchFrame", 8, "no such frame", 404, NoSuchFrame, true, true},
	{"UnknownCommand", 9, "unknown command", 404, UnsupportedCommand, true, true},
	{"StaleElement", 10, "stale element reference", 404, StaleElementReference, true, true},
	{"ElementNotVisible", 11, "element not visible", 400, ElementNotVisible, true, true},
	{"InvalidElementState", 12, "invalid element state", 400, InvalidElementState, true, true},
	{"UnknownError", 13, "unknown error", 500, Unknown, true, true},
	{"ElementNotSelectable", 15, "element not selectable", 400, ElementNotSelectable, true, true},
	{"JavascriptError", 17, "javascript error", 500, JavascriptError, true, true},
	{"XpathLookup", 19, "invalid selector", 400, InvalidSelector, false, false},
	{"Timeout", 21, "timeout", 500, Timeout, true, true},
	{"NoSuchWindow", 23, "no such window", 404, NoSuchWindow, true, true},
	{"InvalidCookieDomain", 24, "invalid cookie domain", 400, InvalidCookieDomain, true, true},
	{"UnableToSetCookie", 25, "unable to set cookie", 500, UnableToSetCookie, true, true},
	{"UnhandledAlertOpen", 26, "unexpected alert open", 500, UnexpectedAlertOpen, true, true},
	{"NoAlertPresent", 27, "no such alert", 404, NoAlertPresent, true, true},
	{"ScriptTimeout", 28, "script timeout", 500, ScriptTimeout, true, true},
	{"InvalidElementCoordinates", 29, "invalid element coordinates", 400, InvalidCoordinates, true, true},
	{"ImeNotAvailable", 30, "ime not available", 500, ImeNotAvailable, true, false},
	{"ImeActivationFailed", 31, "ime engine activation failed", 500, ImeActivationFailed, true, false},
	{"InvalidSelector", 32, "invalid selector", 400, InvalidSelector, true, true},
	{"SessionNotCreated", 33, "session not created", 500, SessionNotCreated, true, true},
	{"MoveTargetOutOfBounds", 34, "move target out of bounds", 500, MoveTargetOutOfBounds, true, true},
	{"InvalidXpathSelector", 51, "invalid selector", 400, InvalidSelector, false, false},
	{"InvalidXpathReturnType", 52, "invalid selector", 400, InvalidSelector, false, true},
	{"ElementNotInteractable", 60, "element not interactable", 400, ElementNotInteractable, true, true},
	{"InvalidArgument", 61, "invalid argument", 400, InvalidArgument, true, true},
	{"NoSuchCookie", 62, "no such cookie", 404, NoSuchCookie, true, true},
	{"Screenshot", 63, "unable to capture screen", 500, UnableToCaptureScreen, true, true},
	{"ElementClickIntercepted", 64, "element click intercepted", 400, ElementClickIntercepted, true, true},
	{"MethodNotAllowed", 405, "unsupported operation", 500, UnsupportedCommand, false, true},
	{"UnknownMethod", 405, "unknown method", 405, UnsupportedCommand, false, true},
	{"InsecureCertificate", noCode, "insecure certificate", 500, InsecureCertificate, false, true},
	{"InvalidSessionId", noCode, "invalid session id", 500, InvalidSessionID, false, true},
	{"InvalidCoordinates", noCode, "invalid coordinates", 500, InvalidCoordinates, false, true},
}

// Table returns a copy of the status table in lookup order.
func Table() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// Match reports whether status names this entry. Numeric values (ints,
// floats from JSON, numeric strings) match Code when the row is canonical for
// the legacy protocol; other strings match Slug, ignoring case and
// surrounding space, when the row is canonical for W3C.
func (e Entry) Match(status interface{}) bool {
	if code, ok := numeric(status); ok {
		return e.CanonicalJSON && code == e.Code
	}
	s, ok := status.(string)
	if !ok {
		return false
	}
	return e.CanonicalW3C && strings.EqualFold(strings.TrimSpace(s), e.Slug)
}

// ExceptionFor maps a status to its failure kind. Unknown and non-canonical
// statuses resolve to Unknown.
func ExceptionFor(status interface{}) Kind {
	if status == nil {
		return Unknown
	}
	for _, e := range table[1:] {
		if e.Match(status) {
			return e.Kind
		}
	}
	return Unknown
}

// IsSuccess reports whether status is the success code or slug.
func IsSuccess(status interface{}) bool {
	return table[0].Match(status)
}

// IsNumeric reports whether status is a legacy numeric code, including codes
// sent as strings.
func IsNumeric(status interface{}) bool {
	_, ok := numeric(status)
	return ok
}

func numeric(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}
