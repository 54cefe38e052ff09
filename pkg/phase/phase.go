package phase

import "fmt"

// Phase is one layer of an App. Every result the phase produces is kept.
type Phase struct {
	Name    string
	Run     func(app *App) (any, error)
	Results []any
}

// New creates a phase
func New(name string, run func(app *App) (any, error)) *Phase {
	return &Phase{Name: name, Run: run}
}

// LastResult is the most recent value returned by the phase
func (p *Phase) LastResult() any {
	if len(p.Results) == 0 {
		return nil
	}
	return p.Results[len(p.Results)-1]
}

// Result returns the i-th recorded result, or nil when there is none
func (p *Phase) Result(i int) any {
	if i < 0 || i >= len(p.Results) {
		return nil
	}
	return p.Results[i]
}

// PhaseError reports a phase that is missing or failed while running
type PhaseError struct {
	Index int
	Name  string
	Cause error
}

func (e *PhaseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("phase at index %d does not exist", e.Index)
	}
	return fmt.Sprintf("phase %q (index %d): %v", e.Name, e.Index, e.Cause)
}

func (e *PhaseError) Unwrap() error { return e.Cause }

// TransitionError reports a move between phases that would leave the app
type TransitionError struct {
	Op     string
	Amount int
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s by %d phases", e.Op, e.Amount)
}
