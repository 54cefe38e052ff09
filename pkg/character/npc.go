package character

import (
	"fmt"

	"github.com/jwebster45206/story-kit/pkg/item"
	"github.com/jwebster45206/story-kit/pkg/trigger"
)

// DefaultRespawnAfterDays is how long a killed NPC stays dead
const DefaultRespawnAfterDays = 3

// NPC is a non-player character. Its presence can be gated by triggers
// evaluated against the game.
type NPC struct {
	Name             string         `json:"name"`
	Gender           string         `json:"gender,omitempty"`
	Race             Race           `json:"race"`
	Stats            Stats          `json:"stats"`
	Site             string         `json:"site"`
	Tolerance        int            `json:"tolerance"`
	Currency         int            `json:"currency"`
	Health           int            `json:"health"`
	MaxHealth        int            `json:"max_health"`
	CanMove          bool           `json:"can_move"`
	RespawnAfterDays int            `json:"respawn_after_days"`
	BaseInventory    item.Inventory `json:"base_inventory"`
	Inventory        item.Inventory `json:"inventory"`
	Unarmed          item.Weapon    `json:"unarmed"`

	presence *trigger.System
	loot     *item.Loot
}

// NPCOption configures NewNPC
type NPCOption func(*NPC)

// WithGender sets the NPC's gender
func WithGender(g string) NPCOption {
	return func(n *NPC) { n.Gender = g }
}

// WithModifiers adjusts the race's base statistics
func WithModifiers(offense, defence, agility int) NPCOption {
	return func(n *NPC) {
		n.Stats = Stats{
			Offense: n.Race.Offense + offense,
			Defence: n.Race.Defence + defence,
			Agility: n.Race.Agility + agility,
		}
	}
}

// WithHealth sets starting and maximum health. A zero max uses start.
func WithHealth(start, maxHealth int) NPCOption {
	return func(n *NPC) {
		n.Health = start
		n.MaxHealth = maxHealth
	}
}

// WithCurrency sets the starting currency
func WithCurrency(c int) NPCOption {
	return func(n *NPC) { n.Currency = c }
}

// WithTolerance sets how much provocation the NPC accepts
func WithTolerance(t int) NPCOption {
	return func(n *NPC) { n.Tolerance = t }
}

// WithBaseInventory sets belongings the NPC always carries. They cannot be sold.
func WithBaseInventory(inv item.Inventory) NPCOption {
	return func(n *NPC) { n.BaseInventory = inv.Bound() }
}

// WithLoot adds randomly drawn items on creation and every respawn
func WithLoot(l *item.Loot) NPCOption {
	return func(n *NPC) { n.loot = l }
}

// WithRespawnAfter sets how many days the NPC stays dead
func WithRespawnAfter(days int) NPCOption {
	return func(n *NPC) { n.RespawnAfterDays = days }
}

// WithUnarmed replaces the default unarmed weapon
func WithUnarmed(w item.Weapon) NPCOption {
	return func(n *NPC) { n.Unarmed = w }
}

// Stationary stops the NPC moving between sites on its own
func Stationary() NPCOption {
	return func(n *NPC) { n.CanMove = false }
}

// WithPresence gates where the NPC can be met. Paths are rooted at "game".
func WithPresence(triggers ...trigger.Trigger) NPCOption {
	return func(n *NPC) { n.presence = trigger.NewSystem("game", triggers...) }
}

// NewNPC creates an NPC at site with its inventory populated
func NewNPC(name string, race Race, site string, opts ...NPCOption) (*NPC, error) {
	n := &NPC{
		Name:             name,
		Race:             race,
		Stats:            Stats{Offense: race.Offense, Defence: race.Defence, Agility: race.Agility},
		Site:             site,
		Tolerance:        50,
		Currency:         1000,
		Health:           100,
		CanMove:          true,
		RespawnAfterDays: DefaultRespawnAfterDays,
		Unarmed:          item.Unarmed(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.Stats = n.Stats.Capped()
	if n.MaxHealth == 0 {
		n.MaxHealth = n.Health
	}
	if err := n.restock(); err != nil {
		return nil, fmt.Errorf("npc %q: %w", name, err)
	}
	return n, nil
}

// Alive reports whether the NPC has health left
func (n *NPC) Alive() bool { return n.Health > 0 }

// Present reports whether the NPC can currently be met in game
func (n *NPC) Present(game any) (bool, error) {
	if !n.Alive() {
		return false, nil
	}
	if n.presence == nil {
		return true, nil
	}
	return n.presence.IsTriggered(game)
}

// Kill sets the NPC's health to zero
func (n *NPC) Kill() {
	n.Health = 0
}

// Respawn restores full health and a fresh inventory
func (n *NPC) Respawn() error {
	n.Health = n.MaxHealth
	return n.restock()
}

func (n *NPC) restock() error {
	n.Inventory = n.BaseInventory.Clone()
	extra, err := n.loot.Draw()
	if err != nil {
		return err
	}
	n.Inventory.Merge(extra)
	return nil
}

func (n *NPC) String() string { return n.Name }
