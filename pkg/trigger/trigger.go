package trigger

import (
	"fmt"
	"strings"
)

// Comparator decides whether a resolved value satisfies a trigger's target.
// Returning an error marks the trigger as misconfigured.
type Comparator func(actual, target any) (bool, error)

// Trigger is a single gated condition: the value found at Path must match Target
type Trigger struct {
	Path    []string
	Target  any
	Compare Comparator // nil means value equality
}

// Option configures a Trigger at construction time
type Option func(*Trigger)

// WithComparator replaces the default equality check
func WithComparator(c Comparator) Option {
	return func(t *Trigger) {
		t.Compare = c
	}
}

// New builds a trigger from a dotted path such as "game.player.health".
// It panics on an empty path since triggers are declared by the game author
// at definition time, not built from user input.
func New(path string, target any, opts ...Option) Trigger {
	segments := splitPath(path)
	if len(segments) == 0 {
		panic(fmt.Sprintf("trigger: empty path %q", path))
	}

	t := Trigger{
		Path:   segments,
		Target: target,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// String returns the dotted path and target
func (t Trigger) String() string {
	return fmt.Sprintf("%s == %v", strings.Join(t.Path, "."), t.Target)
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, ".") {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// Common comparators. Each expects numeric operands and reports a
// configuration error otherwise.

// AtLeast passes when actual >= target
func AtLeast(actual, target any) (bool, error) {
	a, b, err := numericPair(actual, target)
	if err != nil {
		return false, err
	}
	return a.compare(b) >= 0, nil
}

// AtMost passes when actual <= target
func AtMost(actual, target any) (bool, error) {
	a, b, err := numericPair(actual, target)
	if err != nil {
		return false, err
	}
	return a.compare(b) <= 0, nil
}

// NotEqual inverts the default equality check
func NotEqual(actual, target any) (bool, error) {
	return !Equal(actual, target), nil
}

func numericPair(actual, target any) (number, number, error) {
	a, ok := toNumber(actual)
	if !ok {
		return number{}, number{}, fmt.Errorf("value %v (%T) is not numeric", actual, actual)
	}
	b, ok := toNumber(target)
	if !ok {
		return number{}, number{}, fmt.Errorf("target %v (%T) is not numeric", target, target)
	}
	return a, b, nil
}
