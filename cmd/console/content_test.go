package main

import (
	"math/rand/v2"
	"testing"

	"github.com/jwebster45206/story-kit/pkg/action"
	"github.com/jwebster45206/story-kit/pkg/character"
	"github.com/jwebster45206/story-kit/pkg/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdventure(t *testing.T) (*adventure, *game.Game) {
	t.Helper()
	g := newGame("ash")
	adv, err := newAdventure(g, rand.New(rand.NewPCG(7, 11)))
	require.NoError(t, err)
	return adv, g
}

func do(t *testing.T, p *character.Player, name string) {
	t.Helper()
	require.NoError(t, p.AdjustActions())
	require.NoError(t, p.Do(name))
}

func TestAdventure_ActionsFollowLocation(t *testing.T) {
	_, g := newTestAdventure(t)
	p := g.Player

	require.NoError(t, p.AdjustActions())
	assert.Equal(t, []string{"go to the market", "go to the inn", "go to the clearing"}, action.Names(p.Available()))

	do(t, p, "go to the market")
	assert.Equal(t, "Mira", p.NPC)
	require.NoError(t, p.AdjustActions())
	assert.Equal(t,
		[]string{"go to the gate", "go to the inn", "go to the clearing", "talk to Mira", "buy a lantern"},
		action.Names(p.Available()))

	do(t, p, "buy a lantern")
	assert.Equal(t, 40-lanternCost, p.Currency)
	assert.Equal(t, 1, p.Inventory.Len())

	// not enough coins for a second one
	require.NoError(t, p.AdjustActions())
	assert.NotContains(t, action.Names(p.Available()), "buy a lantern")
	assert.ErrorIs(t, p.Do("buy a lantern"), character.ErrActionUnavailable)
}

func TestAdventure_FightAndRespawn(t *testing.T) {
	adv, g := newTestAdventure(t)
	p := g.Player
	wolf := adv.npcs["Grey Wolf"]

	do(t, p, "go to the clearing")
	require.Equal(t, "Grey Wolf", p.NPC)
	do(t, p, "fight the wolf")

	if wolf.Alive() {
		// lost or stalemate: the wolf is still around
		assert.Equal(t, 0, g.Var(wolvesVar))
		return
	}

	assert.Equal(t, 1, g.Var(wolvesVar))
	assert.Equal(t, 5, g.Score)
	assert.Empty(t, p.NPC)
	assert.False(t, adv.homes["Grey Wolf"].HasNPC("Grey Wolf"))
	require.Len(t, g.KilledNPCs, 1)

	do(t, p, "go to the inn")
	do(t, p, "sleep until morning")
	assert.False(t, wolf.Alive())
	do(t, p, "sleep until morning")
	assert.True(t, wolf.Alive())
	assert.Equal(t, 3, g.Day)
	assert.True(t, adv.homes["Grey Wolf"].HasNPC("Grey Wolf"))
	assert.Equal(t, p.MaxHealth, p.Health)
}

func TestAdventure_TutorialAndAchievements(t *testing.T) {
	adv, g := newTestAdventure(t)
	user := game.NewUser("ash")
	user.AttachAchievements(achievements())
	s := &game.Session{Game: g, User: user, Notifier: adv}

	res, err := s.Tick(t.Context(), nil)
	require.NoError(t, err)
	assert.True(t, res.TutorialRan)
	assert.Len(t, adv.drain(), 1)

	res, err = s.Tick(t.Context(), func(g *game.Game) error { return g.Player.Do("go to the market") })
	require.NoError(t, err)
	require.Len(t, res.Achievements, 1)
	assert.Equal(t, "Window Shopper", res.Achievements[0].Name)
	assert.True(t, user.Earned["Window Shopper"])

	// the market hint runs on the tick after arriving
	res, err = s.Tick(t.Context(), nil)
	require.NoError(t, err)
	assert.True(t, res.TutorialRan)
	assert.Equal(t, "stage 3/4", g.Tutorial.String())
}

func TestAdventure_KilledNPCsStayDeadAfterLoad(t *testing.T) {
	g := newGame("ash")
	g.KilledNPCs = []game.KilledNPC{{Name: "Grey Wolf", Day: 1, RespawnAfter: 2}}

	adv, err := newAdventure(g, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.False(t, adv.npcs["Grey Wolf"].Alive())
	assert.False(t, adv.homes["Grey Wolf"].HasNPC("Grey Wolf"))
}

func TestGameMigrations(t *testing.T) {
	g := newGame("ash")
	delete(g.Vars, wolvesVar)

	m := gameMigrations()
	assert.Equal(t, 2, m.Latest())
	for _, step := range m.Pending(1) {
		require.NoError(t, step.Apply(g))
	}
	_, ok := g.Vars[wolvesVar]
	assert.True(t, ok)
}
