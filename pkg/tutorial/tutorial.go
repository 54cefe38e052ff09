package tutorial

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jwebster45206/story-kit/pkg/trigger"
)

// DefaultRoot is the context name tutorial triggers are written against
const DefaultRoot = "game"

// ErrFinished is returned by RunStage once every stage has run
var ErrFinished = errors.New("tutorial finished")

// Stage is one step of a tutorial. Triggers gate when the step runs; a stage
// without triggers runs as soon as the tutorial reaches it.
type Stage struct {
	Run      func(t *Tutorial, game any) error
	Triggers []trigger.Trigger
}

// State is the persisted part of a tutorial
type State struct {
	Stage  int  `json:"stage"`
	Active bool `json:"active"`
}

// Tutorial walks a game through ordered stages. It is a trigger system
// whose trigger set always belongs to the current stage.
type Tutorial struct {
	*trigger.System
	Stage  int
	stages []Stage
}

// New creates a tutorial at stage 1 evaluated against a context named DefaultRoot
func New(stages ...Stage) *Tutorial {
	return NewWithRoot(DefaultRoot, stages...)
}

// NewWithRoot is New with a custom root alias
func NewWithRoot(root string, stages ...Stage) *Tutorial {
	t := &Tutorial{
		System: trigger.NewSystem(root),
		stages: stages,
	}
	t.Restart(true)
	return t
}

// Len is the number of stages
func (t *Tutorial) Len() int { return len(t.stages) }

// Finished reports whether every stage has been passed
func (t *Tutorial) Finished() bool { return t.Stage > len(t.stages) }

// Advance moves to the next stage and ends the tutorial after the last one
func (t *Tutorial) Advance() {
	t.Stage++
	if t.Finished() {
		t.End()
		return
	}
	t.Replace(t.stageTriggers(t.Stage)...)
}

// RunStage runs the current stage's callback
func (t *Tutorial) RunStage(game any) error {
	if t.Finished() || t.Stage < 1 {
		return ErrFinished
	}
	run := t.stages[t.Stage-1].Run
	if run == nil {
		return nil
	}
	if err := run(t, game); err != nil {
		return fmt.Errorf("tutorial stage %d: %w", t.Stage, err)
	}
	return nil
}

// Step runs the current stage if its triggers pass. It is meant to be
// called once per game-loop tick.
func (t *Tutorial) Step(game any) (bool, error) {
	ok, err := t.IsTriggered(game)
	if err != nil || !ok {
		return false, err
	}
	return true, t.RunStage(game)
}

// End deactivates the tutorial
func (t *Tutorial) End() {
	t.Deactivate()
}

// Restart returns to stage 1 with stage 1's triggers installed
func (t *Tutorial) Restart(activate bool) {
	t.Stage = 1
	t.Replace(t.stageTriggers(1)...)
	if activate && !t.Finished() {
		t.Activate()
	} else {
		t.Deactivate()
	}
}

// State snapshots the persisted part of the tutorial
func (t *Tutorial) State() State {
	return State{Stage: t.Stage, Active: t.Active()}
}

// Restore applies a snapshot taken with State
func (t *Tutorial) Restore(s State) {
	t.Stage = s.Stage
	if t.Stage < 1 {
		t.Stage = 1
	}
	if !t.Finished() {
		t.Replace(t.stageTriggers(t.Stage)...)
	}
	if s.Active && !t.Finished() {
		t.Activate()
	} else {
		t.Deactivate()
	}
}

func (t *Tutorial) stageTriggers(n int) []trigger.Trigger {
	if n >= 1 && n <= len(t.stages) && len(t.stages[n-1].Triggers) > 0 {
		return t.stages[n-1].Triggers
	}
	return []trigger.Trigger{
		trigger.New(t.Root+".tutorial.stage", n),
	}
}

// String describes progress, e.g. "stage 2/5"
func (t *Tutorial) String() string {
	if t.Finished() {
		return "finished"
	}
	return "stage " + strconv.Itoa(t.Stage) + "/" + strconv.Itoa(len(t.stages))
}
