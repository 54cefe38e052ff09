package achievement

import (
	"fmt"

	"github.com/jwebster45206/story-kit/pkg/console"
	"github.com/jwebster45206/story-kit/pkg/trigger"
)

// DefaultRoot is the context name achievement triggers are written against
const DefaultRoot = "game"

// Notifier announces earned achievements to the player
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a plain function to Notifier
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Achievement is a one-shot trigger system. Once its triggers pass it is
// marked completed and never fires again.
type Achievement struct {
	*trigger.System
	Name        string
	Description string
	Completed   bool
}

// New creates an achievement evaluated against a context named DefaultRoot
func New(name, description string, triggers ...trigger.Trigger) *Achievement {
	return &Achievement{
		System:      trigger.NewSystem(DefaultRoot, triggers...),
		Name:        name,
		Description: description,
	}
}

// Achieve marks the achievement completed and deactivates it
func (a *Achievement) Achieve() {
	a.Completed = true
	a.Deactivate()
}

// Check evaluates the achievement against ctx. When it fires for the first
// time it is achieved, n is notified, and true is returned.
func (a *Achievement) Check(ctx any, n Notifier) (bool, error) {
	if a.Completed {
		return false, nil
	}
	ok, err := a.IsTriggered(ctx)
	if err != nil {
		return false, fmt.Errorf("achievement %q: %w", a.Name, err)
	}
	if !ok {
		return false, nil
	}

	a.Achieve()
	if n != nil {
		n.Notify(a.Announcement())
	}
	return true, nil
}

// Announcement is the message shown when the achievement is earned
func (a *Achievement) Announcement() string {
	return fmt.Sprintf("%s You got an achievement: '%s'!", console.Green("[ACHIEVEMENT]"), console.Yellow(a.Name))
}

func (a *Achievement) String() string {
	status := "Incomplete"
	if a.Completed {
		status = "Completed"
	}
	s := fmt.Sprintf("Name: %s\nDescription: %s\nStatus: %s", a.Name, a.Description, status)
	if a.Completed {
		return console.Green(s)
	}
	return console.Red(s)
}
