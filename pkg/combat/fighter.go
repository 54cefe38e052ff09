package combat

import (
	"fmt"

	"github.com/jwebster45206/d20"
	"github.com/jwebster45206/story-kit/pkg/character"
	"github.com/jwebster45206/story-kit/pkg/item"
)

// Attribute names stored on the d20 actor
const (
	AttrOffense = "offense"
	AttrDefence = "defence"
	AttrAgility = "agility"
)

// Fighter is one side of a fight: a d20 actor carrying weapons
type Fighter struct {
	Name    string
	Actor   *d20.Actor
	Weapons []item.Weapon
	Unarmed item.Weapon
}

// NewFighter builds a fighter with maxHP, currently at hp
func NewFighter(name string, hp, maxHP int, stats character.Stats, weapons []item.Weapon, unarmed item.Weapon) (*Fighter, error) {
	actor, err := d20.NewActor(name).
		WithHP(maxHP).
		WithAC(10 + stats.Defence/10).
		WithAttributes(map[string]int{
			AttrOffense: stats.Offense,
			AttrDefence: stats.Defence,
			AttrAgility: stats.Agility,
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build fighter %q: %w", name, err)
	}

	f := &Fighter{Name: name, Actor: actor, Weapons: weapons, Unarmed: unarmed}
	if hp != maxHP {
		if err := f.setHP(hp); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// FromPlayer builds a fighter from the player's current state
func FromPlayer(p *character.Player) (*Fighter, error) {
	return NewFighter(p.Name, p.Health, p.MaxHealth, p.Stats, p.Inventory.Weapons, p.Unarmed)
}

// FromNPC builds a fighter from the NPC's current state
func FromNPC(n *character.NPC) (*Fighter, error) {
	return NewFighter(n.Name, n.Health, n.MaxHealth, n.Stats, n.Inventory.Weapons, n.Unarmed)
}

// HP is the fighter's current health
func (f *Fighter) HP() int { return f.Actor.HP() }

// Alive reports whether the fighter has health left
func (f *Fighter) Alive() bool { return f.Actor.HP() > 0 }

// Stat reads one of the Attr* attributes
func (f *Fighter) Stat(name string) int {
	v, _ := f.Actor.Attribute(name)
	return v
}

// Armoury is the weapons the fighter can choose from
func (f *Fighter) Armoury() []item.Weapon {
	return item.Inventory{Weapons: f.Weapons}.Armoury(f.Unarmed)
}

// Damage lowers health by n and reports whether the fighter died
func (f *Fighter) Damage(n int) (bool, error) {
	if err := f.setHP(f.Actor.HP() - n); err != nil {
		return false, err
	}
	return !f.Alive(), nil
}

func (f *Fighter) setHP(hp int) error {
	hp = character.Cap(hp, 0, f.Actor.MaxHP())
	if err := f.Actor.SetHP(hp); err != nil {
		return fmt.Errorf("failed to set HP of %q: %w", f.Name, err)
	}
	return nil
}
