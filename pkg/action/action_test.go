package action

import (
	"testing"

	"github.com/jwebster45206/story-kit/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hero struct {
	Site  string
	Gold  int
	Moves []string
}

func move(name string) func(*hero) error {
	return func(h *hero) error {
		h.Moves = append(h.Moves, name)
		return nil
	}
}

func TestGroup_OrderAndGating(t *testing.T) {
	g := NewGroup[*hero]().
		Add(3, "buy ale", move("ale"), trigger.New("self.gold", 2, trigger.WithComparator(trigger.AtLeast))).
		Add(1, "look around", move("look")).
		Add(2, "talk to innkeeper", move("talk"), trigger.New("self.site", "tavern"))

	assert.Equal(t, []string{"look around", "talk to innkeeper", "buy ale"}, Names(g.Actions()))

	h := &hero{Site: "road", Gold: 0}
	available, err := g.Available(h)
	require.NoError(t, err)
	assert.Equal(t, []string{"look around"}, Names(available))

	h.Site, h.Gold = "tavern", 5
	available, err = g.Available(h)
	require.NoError(t, err)
	assert.Equal(t, []string{"look around", "talk to innkeeper", "buy ale"}, Names(available))

	for _, a := range available {
		require.NoError(t, a.Run(h))
	}
	assert.Equal(t, []string{"look", "talk", "ale"}, h.Moves)
}

func TestGroup_GatingHasNoSideEffects(t *testing.T) {
	g := NewGroup[*hero]().Add(1, "rest", move("rest"), trigger.New("self.site", "inn"))
	h := &hero{Site: "inn"}

	for i := 0; i < 3; i++ {
		ok, err := g.actions[0].Available(h)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.True(t, g.actions[0].Active())
	assert.Empty(t, h.Moves)
}

func TestGroup_MisconfiguredActionSurfaces(t *testing.T) {
	g := NewGroup[*hero]().Add(1, "fly", move("fly"), trigger.New("self.wings", true))
	_, err := g.Available(&hero{})

	var re *trigger.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, err.Error(), `"fly"`)
}

func TestGroup_LookupAndDuplicates(t *testing.T) {
	g := NewGroup[*hero]().Add(1, "rest", move("rest"))
	a, ok := g.Lookup("rest")
	require.True(t, ok)
	assert.Equal(t, 1, a.Index)

	_, ok = g.Lookup("sprint")
	assert.False(t, ok)

	assert.Panics(t, func() { g.Add(2, "rest", move("rest")) })
}
