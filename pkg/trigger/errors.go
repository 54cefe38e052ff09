package trigger

import (
	"fmt"
	"strings"
)

// ResolutionError reports a trigger path that does not exist on the
// evaluated context. It signals a misconfigured gate, not an unmet condition.
type ResolutionError struct {
	Path    []string
	Segment string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("trigger path %q: attribute %q not found", strings.Join(e.Path, "."), e.Segment)
}

// ConfigurationError reports a comparator that failed for a given path
type ConfigurationError struct {
	Path  []string
	Cause error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid comparator for path %q: %v", strings.Join(e.Path, "."), e.Cause)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
