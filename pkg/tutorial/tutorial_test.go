package tutorial

import (
	"errors"
	"testing"

	"github.com/jwebster45206/story-kit/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGame struct {
	Tutorial *Tutorial
	Location string
	Log      []string
}

func logStage(name string) func(*Tutorial, any) error {
	return func(t *Tutorial, game any) error {
		g := game.(*fakeGame)
		g.Log = append(g.Log, name)
		t.Advance()
		return nil
	}
}

func newFixture() (*Tutorial, *fakeGame) {
	tut := New(
		Stage{Run: logStage("welcome")},
		Stage{Run: logStage("market"), Triggers: []trigger.Trigger{trigger.New("game.location", "market")}},
		Stage{Run: logStage("farewell")},
	)
	return tut, &fakeGame{Tutorial: tut, Location: "gate"}
}

func TestTutorial_WalksStages(t *testing.T) {
	tut, g := newFixture()
	assert.Equal(t, 1, tut.Stage)
	assert.True(t, tut.Active())

	ran, err := tut.Step(g)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 2, tut.Stage)

	// Stage 2 waits for the player to reach the market
	ran, err = tut.Step(g)
	require.NoError(t, err)
	assert.False(t, ran)

	g.Location = "market"
	ran, err = tut.Step(g)
	require.NoError(t, err)
	assert.True(t, ran)

	ran, err = tut.Step(g)
	require.NoError(t, err)
	assert.True(t, ran)

	assert.True(t, tut.Finished())
	assert.False(t, tut.Active())
	assert.Equal(t, []string{"welcome", "market", "farewell"}, g.Log)

	ran, err = tut.Step(g)
	require.NoError(t, err)
	assert.False(t, ran, "finished tutorial stays inert")
	assert.ErrorIs(t, tut.RunStage(g), ErrFinished)
}

func TestTutorial_RestartMatchesFreshTutorial(t *testing.T) {
	tut, g := newFixture()
	g.Location = "market"
	for !tut.Finished() {
		_, err := tut.Step(g)
		require.NoError(t, err)
	}

	tut.Restart(true)
	fresh, _ := newFixture()

	assert.Equal(t, fresh.Stage, tut.Stage)
	assert.Equal(t, fresh.Active(), tut.Active())
	assert.Equal(t, fresh.Triggers(), tut.Triggers())
	assert.Equal(t, fresh.State(), tut.State())

	g.Log = nil
	ran, err := tut.Step(g)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []string{"welcome"}, g.Log)
}

func TestTutorial_RestartInactive(t *testing.T) {
	tut, g := newFixture()
	tut.Restart(false)
	assert.Equal(t, 1, tut.Stage)

	ran, err := tut.Step(g)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestTutorial_StateRoundTrip(t *testing.T) {
	tut, g := newFixture()
	_, err := tut.Step(g)
	require.NoError(t, err)
	saved := tut.State()
	assert.Equal(t, State{Stage: 2, Active: true}, saved)

	restored, g2 := newFixture()
	restored.Restore(saved)
	assert.Equal(t, tut.Triggers(), restored.Triggers())

	g2.Location = "market"
	ran, err := restored.Step(g2)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []string{"market"}, g2.Log)
}

func TestTutorial_StageErrorIsWrapped(t *testing.T) {
	sentinel := errors.New("no npc")
	tut := New(Stage{Run: func(*Tutorial, any) error { return sentinel }})
	g := &fakeGame{Tutorial: tut}

	ran, err := tut.Step(g)
	assert.True(t, ran)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "stage 1")
}

func TestTutorial_Empty(t *testing.T) {
	tut := New()
	assert.True(t, tut.Finished())
	assert.False(t, tut.Active())
	assert.Equal(t, "finished", tut.String())
}
