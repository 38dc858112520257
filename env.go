package sense

import "reflect"

// Environment resolves dotted host paths (for example "navigator.connection")
// to the live object that exposes them. It replaces ambient globals: every
// activation receives the environment explicitly, so tests and several hosts
// can coexist in one process.
type Environment interface {
	Lookup(path string) (any, bool)
}

// Env is a static Environment backed by a map.
type Env map[string]any

// Lookup returns the object registered at path. Nil values count as absent.
func (e Env) Lookup(path string) (any, bool) {
	v, ok := e[path]
	if !ok || isNil(v) {
		return nil, false
	}
	return v, true
}

// lookup guards against a nil environment.
func lookup(env Environment, path string) (any, bool) {
	if isNil(env) {
		return nil, false
	}
	v, ok := env.Lookup(path)
	if !ok || isNil(v) {
		return nil, false
	}
	return v, true
}

// isNil reports whether v is nil or a typed nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
