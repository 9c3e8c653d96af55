package webdriver

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Point is a position in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width and height in CSS pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is a position plus a size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Cookie as exchanged with the cookie endpoints.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Path     string `json:"path,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
	HTTPOnly bool   `json:"httpOnly,omitempty"`
	Expiry   int64  `json:"expiry,omitempty"`
	SameSite string `json:"sameSite,omitempty"`
}

// Timeouts are the session's implicit, page load and script timeouts.
type Timeouts struct {
	Implicit time.Duration
	PageLoad time.Duration
	Script   time.Duration
}

func (t Timeouts) params() map[string]interface{} {
	return map[string]interface{}{
		"implicit": t.Implicit.Milliseconds(),
		"pageLoad": t.PageLoad.Milliseconds(),
		"script":   t.Script.Milliseconds(),
	}
}

// Orientation of a mobile screen.
type Orientation string

const (
	Landscape Orientation = "LANDSCAPE"
	Portrait  Orientation = "PORTRAIT"
)

// decode converts a decoded JSON tree into out.
func decode(v interface{}, out interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %T: %w", out, err)
	}
	return nil
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func toStrings(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, toString(item))
	}
	return out
}

func toBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

func millis(v interface{}) time.Duration {
	return time.Duration(toFloat(v) * float64(time.Millisecond))
}

// rounded keeps x and y of a location map, rounded to whole pixels.
func rounded(v interface{}) Point {
	m, _ := v.(map[string]interface{})
	return Point{X: math.Round(toFloat(m["x"])), Y: math.Round(toFloat(m["y"]))}
}

func sizeOf(v interface{}) Size {
	m, _ := v.(map[string]interface{})
	return Size{Width: toFloat(m["width"]), Height: toFloat(m["height"])}
}

func toElement(v interface{}) (*Element, error) {
	e, ok := v.(*Element)
	if !ok {
		return nil, fmt.Errorf("expected an element reference, got %T", v)
	}
	return e, nil
}

func toElements(v interface{}) ([]*Element, error) {
	items, _ := v.([]interface{})
	out := make([]*Element, 0, len(items))
	for _, item := range items {
		e, err := toElement(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// truthy mirrors JSON truthiness: null, false, 0, "" and empty containers
// are false.
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
