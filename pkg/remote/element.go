package remote

import "reflect"

// Keys identifying an element reference on the wire. Either one alone is
// enough; requests always carry both.
const (
	ElementKey    = "ELEMENT"
	W3CElementKey = "element-6066-11e4-a52e-4f735466cecf"
)

// ElementRef is anything that names a remote element.
type ElementRef interface {
	ID() string
}

// ElementFactory builds the handle a response element reference becomes.
type ElementFactory func(id string, w3c bool) interface{}

// wireElement is the handle used when no factory is configured.
type wireElement string

func (e wireElement) ID() string { return string(e) }

// UnwrapElements returns a copy of v in which every ElementRef, at any depth
// of maps and slices, is replaced by its two-key wire form. Typed containers
// such as []*Element or map[string]*Element are walked as well; a nil
// ElementRef becomes null.
func UnwrapElements(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case ElementRef:
		if isNilRef(t) {
			return nil
		}
		id := t.ID()
		return map[string]interface{}{ElementKey: id, W3CElementKey: id}
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = UnwrapElements(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = UnwrapElements(item)
		}
		return out
	case string, bool, float64, int, int64, []byte:
		return v
	default:
		return unwrapContainer(v)
	}
}

// unwrapContainer handles typed slices, arrays and string-keyed maps.
func unwrapContainer(v interface{}) interface{} {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return v
		}
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = UnwrapElements(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
			return v
		}
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = UnwrapElements(iter.Value().Interface())
		}
		return out
	default:
		return v
	}
}

func isNilRef(ref ElementRef) bool {
	rv := reflect.ValueOf(ref)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// WrapElements returns a copy of v in which every wire element reference is
// replaced by factory(id, w3c). The legacy key wins when both are present and
// non-null.
func WrapElements(v interface{}, factory ElementFactory, w3c bool) interface{} {
	if factory == nil {
		factory = func(id string, _ bool) interface{} { return wireElement(id) }
	}
	return wrap(v, factory, w3c)
}

func wrap(v interface{}, factory ElementFactory, w3c bool) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		legacy, hasLegacy := t[ElementKey]
		modern, hasModern := t[W3CElementKey]
		if hasLegacy || hasModern {
			id := modern
			if legacy != nil {
				id = legacy
			}
			if id != nil {
				return factory(asString(id), w3c)
			}
		}
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = wrap(item, factory, w3c)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = wrap(item, factory, w3c)
		}
		return out
	default:
		return v
	}
}
