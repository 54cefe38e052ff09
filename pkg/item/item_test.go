package item

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory(t *testing.T) {
	inv := Inventory{
		Items:     []Item{New("bread", 2, 0.1), Currency("gold", 10)},
		Weapons:   []Weapon{NewWeapon("spear", 15, 0.3, 30, 10, 40)},
		Artefacts: []Artefact{NewArtefact("crown", 500, 0.95)},
	}
	assert.Equal(t, 4, inv.Len())
	assert.Equal(t, 527, inv.SellValue())

	bound := inv.Bound()
	assert.Equal(t, 0, bound.SellValue())
	assert.True(t, inv.Items[0].Sellable, "Bound does not touch the original")

	merged := inv.Clone()
	merged.Merge(Inventory{Items: []Item{New("apple", 1, 0)}})
	assert.Equal(t, 5, merged.Len())
	assert.Equal(t, 4, inv.Len())

	n, ok := inv.TriggerAttribute("len")
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	v, ok := inv.TriggerAttribute("sell_value")
	assert.True(t, ok)
	assert.Equal(t, 527, v)
	_, ok = inv.TriggerAttribute("clone")
	assert.False(t, ok)
}

func TestInventory_Armoury(t *testing.T) {
	var empty Inventory
	assert.Equal(t, []Weapon{Unarmed()}, empty.Armoury(Unarmed()))

	spear := NewWeapon("spear", 15, 0.3, 30, 10, 40)
	inv := Inventory{Weapons: []Weapon{spear}}
	assert.Equal(t, []Weapon{spear}, inv.Armoury(Unarmed()))
}

func TestGenerator_Generate(t *testing.T) {
	pool := []string{"a", "b", "c"}
	g := NewGenerator(pool, rand.New(rand.NewPCG(1, 2)))

	got, err := g.Generate(50, nil)
	require.NoError(t, err)
	assert.Len(t, got, 50)
	for _, v := range got {
		assert.Contains(t, pool, v)
	}

	only, err := g.Generate(20, []float64{0, 1, 0})
	require.NoError(t, err)
	for _, v := range only {
		assert.Equal(t, "b", v)
	}

	none, err := g.Generate(0, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGenerator_InvalidWeights(t *testing.T) {
	g := NewGenerator([]int{1, 2}, nil)

	tests := []struct {
		name    string
		weights []float64
	}{
		{name: "wrong length", weights: []float64{1}},
		{name: "negative", weights: []float64{1, -1}},
		{name: "all zero", weights: []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(1, tt.weights)
			assert.ErrorIs(t, err, ErrWeights)
		})
	}
}

func TestRarityWeights(t *testing.T) {
	pool := []Item{New("common", 1, 0), New("rare", 1, 0.75), New("broken", 1, 2)}
	assert.Equal(t, []float64{1, 0.25, 0}, RarityWeights(pool, func(i Item) float64 { return i.Rarity }))
}

func TestLoot_Draw(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	loot := &Loot{
		Items:      NewGenerator([]Item{New("bread", 2, 0.1)}, rng),
		Weapons:    NewGenerator([]Weapon{NewWeapon("spear", 15, 0.3, 30, 10, 40)}, rng),
		MaxItems:   3,
		MaxWeapons: 1,
	}
	inv, err := loot.Draw()
	require.NoError(t, err)
	assert.Len(t, inv.Items, 3)
	assert.Len(t, inv.Weapons, 1)
	assert.Empty(t, inv.Artefacts)

	var none *Loot
	inv, err = none.Draw()
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Len())
}
