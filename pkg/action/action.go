package action

import (
	"fmt"
	"sort"

	"github.com/jwebster45206/story-kit/pkg/trigger"
)

// DefaultRoot is the context name action triggers are written against
const DefaultRoot = "self"

// Action is a named, indexed entry whose availability is gated by triggers.
// Gating never changes state; it only decides whether the entry is offered.
type Action[C any] struct {
	*trigger.System
	Name  string
	Index int
	Run   func(C) error
}

// Available reports whether the action can currently be taken
func (a *Action[C]) Available(ctx C) (bool, error) {
	return a.IsTriggered(ctx)
}

// Group is an ordered registry of actions available to one kind of context
type Group[C any] struct {
	root    string
	actions []*Action[C]
	byName  map[string]*Action[C]
}

// NewGroup creates an empty group whose triggers use DefaultRoot
func NewGroup[C any]() *Group[C] {
	return NewGroupWithRoot[C](DefaultRoot)
}

// NewGroupWithRoot creates an empty group with a custom root alias
func NewGroupWithRoot[C any](root string) *Group[C] {
	return &Group[C]{
		root:   root,
		byName: make(map[string]*Action[C]),
	}
}

// Add registers an action. Names must be unique within the group.
func (g *Group[C]) Add(index int, name string, run func(C) error, triggers ...trigger.Trigger) *Group[C] {
	if _, exists := g.byName[name]; exists {
		panic(fmt.Sprintf("action: duplicate action name %q", name))
	}
	a := &Action[C]{
		System: trigger.NewSystem(g.root, triggers...),
		Name:   name,
		Index:  index,
		Run:    run,
	}
	g.actions = append(g.actions, a)
	g.byName[name] = a
	sort.SliceStable(g.actions, func(i, j int) bool {
		return g.actions[i].Index < g.actions[j].Index
	})
	return g
}

// Actions returns every registered action ordered by index
func (g *Group[C]) Actions() []*Action[C] {
	return append([]*Action[C](nil), g.actions...)
}

// Lookup finds an action by name
func (g *Group[C]) Lookup(name string) (*Action[C], bool) {
	a, ok := g.byName[name]
	return a, ok
}

// Available returns the actions whose triggers pass for ctx, ordered by index
func (g *Group[C]) Available(ctx C) ([]*Action[C], error) {
	var out []*Action[C]
	for _, a := range g.actions {
		ok, err := a.Available(ctx)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", a.Name, err)
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Names returns the names of actions in index order
func Names[C any](actions []*Action[C]) []string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Name
	}
	return names
}
