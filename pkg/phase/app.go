package phase

import (
	"log/slog"
)

// App runs an ordered list of phases. After a phase runs the app moves on to
// the next one until it is paused, exited or the last phase has run.
type App struct {
	LastResult any

	phases  []*Phase
	index   int
	paused  bool
	active  bool
	running bool
	jumped  bool
	log     *slog.Logger
}

// NewApp creates an active app positioned at the first phase
func NewApp(phases ...*Phase) *App {
	return &App{
		phases: phases,
		active: true,
		log:    slog.Default(),
	}
}

// WithLogger replaces the app's logger
func (a *App) WithLogger(l *slog.Logger) *App {
	a.log = l
	return a
}

// Len is the number of phases
func (a *App) Len() int { return len(a.phases) }

// Index is the position of the current phase
func (a *App) Index() int { return a.index }

// Paused reports whether automatic advancing is suspended
func (a *App) Paused() bool { return a.paused }

// Active reports whether the app has not been exited
func (a *App) Active() bool { return a.active }

// Phase returns the phase at index i
func (a *App) Phase(i int) (*Phase, error) {
	if !a.valid(i) {
		return nil, &PhaseError{Index: i}
	}
	return a.phases[i], nil
}

// Run runs the current phase and every phase after it while the app is
// active and not paused.
func (a *App) Run() error {
	if !a.valid(a.index) {
		return &PhaseError{Index: a.index}
	}
	return a.drive()
}

// Start reactivates the app and runs it from the first phase
func (a *App) Start() error {
	a.active = true
	a.Reset()
	return a.Run()
}

// Pause stops the app from advancing once the running phase returns
func (a *App) Pause() { a.paused = true }

// Resume allows advancing again. It does not run anything by itself.
func (a *App) Resume() { a.paused = false }

// Reset moves back to the first phase and clears the pause
func (a *App) Reset() {
	a.index = 0
	a.paused = false
}

// Exit deactivates the app
func (a *App) Exit() { a.active = false }

// Skip moves forward n phases and runs from there. A negative n rewinds.
func (a *App) Skip(n int) error {
	if n < 0 {
		return a.Rewind(-n)
	}
	if !a.valid(a.index + n) {
		return &TransitionError{Op: "skip", Amount: n}
	}
	return a.jump(a.index + n)
}

// Rewind moves back n phases and runs from there. A negative n skips.
func (a *App) Rewind(n int) error {
	if n < 0 {
		return a.Skip(-n)
	}
	if !a.valid(a.index - n) {
		return &TransitionError{Op: "rewind", Amount: n}
	}
	return a.jump(a.index - n)
}

// GoTo moves directly to phase i and runs from there
func (a *App) GoTo(i int) error {
	if !a.valid(i) {
		return &TransitionError{Op: "go to", Amount: i}
	}
	return a.jump(i)
}

func (a *App) jump(i int) error {
	a.index = i
	// Called from inside a phase: the outer drive loop picks up the new index.
	if a.running {
		a.jumped = true
		return nil
	}
	return a.drive()
}

func (a *App) drive() error {
	a.running = true
	defer func() { a.running = false }()

	for a.active && !a.paused {
		p := a.phases[a.index]
		a.jumped = false

		a.log.Debug("Running phase", "phase", p.Name, "index", a.index)
		var result any
		var err error
		if p.Run != nil {
			result, err = p.Run(a)
		}
		if err != nil {
			return &PhaseError{Index: a.index, Name: p.Name, Cause: err}
		}
		p.Results = append(p.Results, result)
		a.LastResult = result

		if a.jumped {
			continue
		}
		if !a.valid(a.index + 1) {
			return nil
		}
		a.index++
	}
	return nil
}

func (a *App) valid(i int) bool {
	return i >= 0 && i < len(a.phases)
}
