package character

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/story-kit/pkg/action"
	"github.com/jwebster45206/story-kit/pkg/item"
)

// ErrActionUnavailable is returned when a player picks an action they cannot take
var ErrActionUnavailable = errors.New("action is not available")

// Player is the character controlled by the user. Locations are stored by name.
type Player struct {
	Name      string         `json:"name"`
	Stats     Stats          `json:"stats"`
	Health    int            `json:"health"`
	MaxHealth int            `json:"max_health"`
	Currency  int            `json:"currency"`
	Inventory item.Inventory `json:"inventory"`
	Land      string         `json:"land,omitempty"`
	Area      string         `json:"area,omitempty"`
	Site      string         `json:"site,omitempty"`
	NPC       string         `json:"npc,omitempty"`
	Unarmed   item.Weapon    `json:"unarmed"`

	actions   *action.Group[*Player]
	available []*action.Action[*Player]
}

// NewPlayer creates a player with default statistics
func NewPlayer(name string, actions *action.Group[*Player]) *Player {
	return &Player{
		Name:      name,
		Stats:     Stats{Offense: 50, Defence: 50, Agility: 50},
		Health:    120,
		MaxHealth: 120,
		Unarmed:   item.Unarmed(),
		actions:   actions,
	}
}

// SetActions replaces the action group, e.g. after the player was loaded from a save
func (p *Player) SetActions(actions *action.Group[*Player]) {
	p.actions = actions
	p.available = nil
}

// AdjustActions recomputes which actions the player can take. Nothing is
// available until the player stands at a site.
func (p *Player) AdjustActions() error {
	p.available = nil
	if p.Site == "" || p.actions == nil {
		return nil
	}
	available, err := p.actions.Available(p)
	if err != nil {
		return err
	}
	p.available = available
	return nil
}

// Available returns the actions computed by the last AdjustActions
func (p *Player) Available() []*action.Action[*Player] {
	return p.available
}

// Do runs an available action by name
func (p *Player) Do(name string) error {
	for _, a := range p.available {
		if a.Name == name {
			if a.Run == nil {
				return nil
			}
			return a.Run(p)
		}
	}
	return fmt.Errorf("%w: %q", ErrActionUnavailable, name)
}

// MoveTo changes the player's position
func (p *Player) MoveTo(land, area, site string) {
	p.Land, p.Area, p.Site = land, area, site
	p.NPC = ""
}

// Alive reports whether the player has health left
func (p *Player) Alive() bool { return p.Health > 0 }

// Respawn restores full health
func (p *Player) Respawn() {
	p.Health = p.MaxHealth
}
