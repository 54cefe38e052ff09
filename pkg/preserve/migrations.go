package preserve

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Migration backfills or converts state for saves older than Version
type Migration[T Entity] struct {
	Version     int
	Description string
	Apply       func(e T) error
}

// Migrations is an ordered version -> transform registry. Version 1 is the
// shape an entity has before any migration is registered.
type Migrations[T Entity] struct {
	steps []Migration[T]
}

// NewMigrations creates an empty registry
func NewMigrations[T Entity]() *Migrations[T] {
	return &Migrations[T]{}
}

// Add registers the transform that upgrades a save to version. Versions must
// be unique and greater than 1.
func (m *Migrations[T]) Add(version int, description string, apply func(e T) error) *Migrations[T] {
	if version <= 1 {
		panic(fmt.Sprintf("preserve: migration version %d must be greater than 1", version))
	}
	for _, s := range m.steps {
		if s.Version == version {
			panic(fmt.Sprintf("preserve: duplicate migration version %d", version))
		}
	}
	m.steps = append(m.steps, Migration[T]{Version: version, Description: description, Apply: apply})
	sort.Slice(m.steps, func(i, j int) bool { return m.steps[i].Version < m.steps[j].Version })
	return m
}

// Latest is the version new saves are created at
func (m *Migrations[T]) Latest() int {
	if m == nil || len(m.steps) == 0 {
		return 1
	}
	return m.steps[len(m.steps)-1].Version
}

// Pending returns the migrations newer than version in ascending order
func (m *Migrations[T]) Pending(version int) []Migration[T] {
	if m == nil {
		return nil
	}
	var out []Migration[T]
	for _, s := range m.steps {
		if s.Version > version {
			out = append(out, s)
		}
	}
	return out
}

// trackedFields lists the serialized top-level field names of e, excluding
// the embedded Meta. The result is sorted.
func trackedFields(e any) []string {
	t := reflect.TypeOf(e)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var fields []string
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || isMeta(t.Field(f.Index[0]).Type) {
			continue
		}
		tag, hasTag := f.Tag.Lookup("json")
		if f.Anonymous && !hasTag {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

func isMeta(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t == reflect.TypeOf(Meta{})
}

// newFields returns the names in current that are missing from stored
func newFields(stored, current []string) []string {
	seen := make(map[string]bool, len(stored))
	for _, f := range stored {
		seen[f] = true
	}
	var out []string
	for _, f := range current {
		if !seen[f] {
			out = append(out, f)
		}
	}
	return out
}
