package item

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
)

// ErrWeights is returned when draw weights do not fit the pool
var ErrWeights = errors.New("invalid generator weights")

// Generator draws random entries, with replacement, from a fixed pool
type Generator[T any] struct {
	pool []T
	rng  *rand.Rand
}

// NewGenerator creates a generator. A nil rng uses the global source.
func NewGenerator[T any](pool []T, rng *rand.Rand) *Generator[T] {
	return &Generator[T]{pool: append([]T(nil), pool...), rng: rng}
}

// All returns the pool
func (g *Generator[T]) All() []T {
	return append([]T(nil), g.pool...)
}

// Generate draws n entries. weights must be nil (uniform) or hold one
// non-negative weight per pool entry.
func (g *Generator[T]) Generate(n int, weights []float64) ([]T, error) {
	if n <= 0 || len(g.pool) == 0 {
		return nil, nil
	}
	if weights != nil && len(weights) != len(g.pool) {
		return nil, fmt.Errorf("%w: %d weights for %d entries", ErrWeights, len(weights), len(g.pool))
	}

	cumulative := make([]float64, len(g.pool))
	total := 0.0
	for i := range g.pool {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight %v", ErrWeights, w)
		}
		total += w
		cumulative[i] = total
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrWeights)
	}

	out := make([]T, n)
	for i := range out {
		r := g.float() * total
		idx := sort.Search(len(cumulative), func(j int) bool { return cumulative[j] > r })
		if idx == len(cumulative) {
			idx--
		}
		out[i] = g.pool[idx]
	}
	return out, nil
}

func (g *Generator[T]) float() float64 {
	if g.rng == nil {
		return rand.Float64()
	}
	return g.rng.Float64()
}

// RarityWeights weights each entry by how common it is (1 - rarity)
func RarityWeights[T any](pool []T, rarity func(T) float64) []float64 {
	weights := make([]float64, len(pool))
	for i, v := range pool {
		w := 1 - rarity(v)
		if w < 0 {
			w = 0
		}
		weights[i] = w
	}
	return weights
}

// Loot fills inventories from generators, drawing by rarity
type Loot struct {
	Items        *Generator[Item]
	Weapons      *Generator[Weapon]
	Artefacts    *Generator[Artefact]
	MaxItems     int
	MaxWeapons   int
	MaxArtefacts int
}

// Draw generates one batch of loot
func (l *Loot) Draw() (Inventory, error) {
	var inv Inventory
	if l == nil {
		return inv, nil
	}
	var err error
	if l.Items != nil {
		pool := l.Items.All()
		if inv.Items, err = l.Items.Generate(l.MaxItems, RarityWeights(pool, func(i Item) float64 { return i.Rarity })); err != nil {
			return Inventory{}, fmt.Errorf("items: %w", err)
		}
	}
	if l.Weapons != nil {
		pool := l.Weapons.All()
		if inv.Weapons, err = l.Weapons.Generate(l.MaxWeapons, RarityWeights(pool, func(w Weapon) float64 { return w.Rarity })); err != nil {
			return Inventory{}, fmt.Errorf("weapons: %w", err)
		}
	}
	if l.Artefacts != nil {
		pool := l.Artefacts.All()
		if inv.Artefacts, err = l.Artefacts.Generate(l.MaxArtefacts, RarityWeights(pool, func(a Artefact) float64 { return a.Rarity })); err != nil {
			return Inventory{}, fmt.Errorf("artefacts: %w", err)
		}
	}
	return inv, nil
}
