package trigger

import (
	"cmp"
	"fmt"
	"reflect"
)

// System gates behaviour on a set of triggers. Every trigger must pass for
// the system to fire, and an inactive system never fires.
type System struct {
	// Root is the conventional name of the evaluation context ("self",
	// "game"). A leading path segment equal to Root is skipped.
	Root string

	triggers []Trigger
	active   bool
}

// NewSystem returns an active system evaluating triggers against a context named root
func NewSystem(root string, triggers ...Trigger) *System {
	return &System{
		Root:     root,
		triggers: append([]Trigger(nil), triggers...),
		active:   true,
	}
}

// Active reports whether the system can still fire
func (s *System) Active() bool { return s.active }

// Activate re-enables a deactivated system
func (s *System) Activate() { s.active = true }

// Deactivate stops the system from firing until it is re-activated
func (s *System) Deactivate() { s.active = false }

// Triggers returns a copy of the current trigger set
func (s *System) Triggers() []Trigger {
	return append([]Trigger(nil), s.triggers...)
}

// Replace swaps the whole trigger set
func (s *System) Replace(triggers ...Trigger) {
	s.triggers = append([]Trigger(nil), triggers...)
}

// IsTriggered evaluates every trigger against ctx in order and reports
// whether all of them pass. Resolution and comparator failures are returned
// as errors; they are configuration mistakes and never read as "not triggered".
func (s *System) IsTriggered(ctx any) (bool, error) {
	if !s.active {
		return false, nil
	}

	result := true
	for _, t := range s.triggers {
		ok, err := s.evaluate(t, ctx)
		if err != nil {
			return false, err
		}
		result = result && ok
	}
	return result, nil
}

// MustBeTriggered is IsTriggered for callers that treat a misconfigured gate
// as fatal. It panics on error.
func (s *System) MustBeTriggered(ctx any) bool {
	ok, err := s.IsTriggered(ctx)
	if err != nil {
		panic(err)
	}
	return ok
}

func (s *System) evaluate(t Trigger, ctx any) (bool, error) {
	path := t.Path
	if len(path) > 0 && path[0] == s.Root {
		path = path[1:]
	}

	actual, err := Resolve(ctx, path)
	if err != nil {
		if re, ok := err.(*ResolutionError); ok {
			re.Path = t.Path
		}
		return false, err
	}

	if t.Compare == nil {
		return Equal(actual, t.Target), nil
	}
	return compare(t, actual)
}

func compare(t Trigger, actual any) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = &ConfigurationError{Path: t.Path, Cause: fmt.Errorf("comparator panicked: %v", r)}
		}
	}()

	ok, err = t.Compare(actual, t.Target)
	if err != nil {
		return false, &ConfigurationError{Path: t.Path, Cause: err}
	}
	return ok, nil
}

// Equal is the default trigger comparison. Numbers compare by value across
// Go numeric kinds, a nil target matches nil pointers, maps, slices and
// interfaces, and everything else uses == or reflect.DeepEqual.
func Equal(actual, target any) bool {
	if target == nil {
		return isNil(actual)
	}
	if eq, ok := numericEqual(actual, target); ok {
		return eq
	}

	at, tt := reflect.TypeOf(actual), reflect.TypeOf(target)
	if at == nil || at != tt {
		return false
	}
	if at.Comparable() && shallow(at) {
		return actual == target
	}
	return reflect.DeepEqual(actual, target)
}

func shallow(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct, reflect.Array, reflect.Interface:
		return false
	}
	return true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

type number struct {
	kind reflect.Kind // Int64, Uint64 or Float64
	i    int64
	u    uint64
	f    float64
}

func toNumber(v any) (number, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: reflect.Int64, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: reflect.Uint64, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: reflect.Float64, f: rv.Float()}, true
	}
	return number{}, false
}

// numericEqual compares two numbers without losing integer precision.
// ok is false when either side is not a number.
func numericEqual(actual, target any) (eq, ok bool) {
	a, ok := toNumber(actual)
	if !ok {
		return false, false
	}
	b, ok := toNumber(target)
	if !ok {
		return false, false
	}
	return a.compare(b) == 0, true
}

// compare returns -1, 0 or +1. Integers compare exactly; floats are used
// only when either side is a float.
func (n number) compare(o number) int {
	switch {
	case n.kind == reflect.Float64 || o.kind == reflect.Float64:
		return cmp.Compare(n.float(), o.float())
	case n.kind == reflect.Int64 && o.kind == reflect.Int64:
		return cmp.Compare(n.i, o.i)
	case n.kind == reflect.Uint64 && o.kind == reflect.Uint64:
		return cmp.Compare(n.u, o.u)
	case n.kind == reflect.Int64:
		if n.i < 0 {
			return -1
		}
		return cmp.Compare(uint64(n.i), o.u)
	default:
		if o.i < 0 {
			return 1
		}
		return cmp.Compare(n.u, uint64(o.i))
	}
}

func (n number) float() float64 {
	switch n.kind {
	case reflect.Int64:
		return float64(n.i)
	case reflect.Uint64:
		return float64(n.u)
	}
	return n.f
}
