package trigger

import (
	"reflect"
	"strings"
)

// Attributer exposes computed values to trigger paths. Implementations must
// not modify the receiver.
type Attributer interface {
	TriggerAttribute(name string) (any, bool)
}

// Resolve walks path from ctx and returns the value at the end of it.
//
// Each segment may name an exported struct field (Go name, json tag name, or
// the Go name in any case) or a key of a string-keyed map. A value that
// implements Attributer is asked for the segment when neither matches.
// Methods are never called otherwise, so resolving has no side effects.
// Pointers and interfaces are followed transparently. A segment that matches
// nothing, or a nil value in the middle of the path, yields a
// *ResolutionError.
func Resolve(ctx any, path []string) (any, error) {
	v := reflect.ValueOf(ctx)
	for _, seg := range path {
		next, ok := step(v, seg)
		if !ok {
			return nil, &ResolutionError{Path: path, Segment: seg}
		}
		v = next
	}
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

func step(v reflect.Value, name string) (reflect.Value, bool) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	outer := v
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		if f, ok := field(v, name); ok {
			return f, true
		}
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String && !v.IsNil() {
			mv := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
			if mv.IsValid() {
				return mv, true
			}
		}
	}
	return attribute(outer, v, name)
}

// attribute asks an Attributer for name. The original value, its
// dereferenced form and that form's address are tried in turn so pointer and
// value receivers both count.
func attribute(outer, v reflect.Value, name string) (reflect.Value, bool) {
	candidates := []reflect.Value{outer, v}
	if v.CanAddr() {
		candidates = append(candidates, v.Addr())
	}
	for _, c := range candidates {
		if !c.CanInterface() {
			continue
		}
		a, ok := c.Interface().(Attributer)
		if !ok {
			continue
		}
		val, found := a.TriggerAttribute(name)
		if !found {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(val), true
	}
	return reflect.Value{}, false
}

func field(v reflect.Value, name string) (reflect.Value, bool) {
	if sf, ok := v.Type().FieldByName(name); ok && sf.IsExported() {
		return fieldByIndex(v, sf.Index)
	}

	var folded []int
	for _, sf := range reflect.VisibleFields(v.Type()) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		if jsonName(sf) == name {
			return fieldByIndex(v, sf.Index)
		}
		if folded == nil && strings.EqualFold(sf.Name, name) {
			folded = sf.Index
		}
	}
	if folded != nil {
		return fieldByIndex(v, folded)
	}
	return reflect.Value{}, false
}

func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	f, err := v.FieldByIndexErr(index)
	if err != nil {
		return reflect.Value{}, false
	}
	return f, true
}

func jsonName(sf reflect.StructField) string {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
