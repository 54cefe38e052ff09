package phase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	order []string
}

func (r *recorder) phase(name string) *Phase {
	return New(name, func(*App) (any, error) {
		r.order = append(r.order, name)
		return name + " done", nil
	})
}

func TestApp_RunsAllPhasesInOrder(t *testing.T) {
	r := &recorder{}
	app := NewApp(r.phase("intro"), r.phase("play"), r.phase("outro"))

	require.NoError(t, app.Start())
	assert.Equal(t, []string{"intro", "play", "outro"}, r.order)
	assert.Equal(t, 2, app.Index(), "stays on the last phase")
	assert.Equal(t, "outro done", app.LastResult)

	p, err := app.Phase(1)
	require.NoError(t, err)
	assert.Equal(t, []any{"play done"}, p.Results)
	assert.Equal(t, "play done", p.LastResult())
	assert.Nil(t, p.Result(5))
}

func TestApp_PauseAndResume(t *testing.T) {
	r := &recorder{}
	app := NewApp(
		r.phase("intro"),
		New("menu", func(a *App) (any, error) {
			r.order = append(r.order, "menu")
			a.Pause()
			return nil, nil
		}),
		r.phase("play"),
	)

	require.NoError(t, app.Start())
	assert.Equal(t, []string{"intro", "menu"}, r.order)
	assert.True(t, app.Paused())
	assert.Equal(t, 2, app.Index())

	// Paused apps do not advance
	require.NoError(t, app.Run())
	assert.Equal(t, []string{"intro", "menu"}, r.order)

	app.Resume()
	require.NoError(t, app.Run())
	assert.Equal(t, []string{"intro", "menu", "play"}, r.order)
}

func TestApp_ExitStopsAdvancing(t *testing.T) {
	r := &recorder{}
	app := NewApp(
		New("quit", func(a *App) (any, error) {
			r.order = append(r.order, "quit")
			a.Exit()
			return nil, nil
		}),
		r.phase("never"),
	)

	require.NoError(t, app.Start())
	assert.Equal(t, []string{"quit"}, r.order)
	assert.False(t, app.Active())

	require.NoError(t, app.Start())
	assert.Equal(t, []string{"quit", "quit"}, r.order, "start reactivates")
}

func TestApp_Transitions(t *testing.T) {
	r := &recorder{}
	app := NewApp(r.phase("a"), r.phase("b"), r.phase("c"))
	app.Pause()

	var te *TransitionError
	require.ErrorAs(t, app.Skip(3), &te)
	assert.Equal(t, "skip", te.Op)
	require.ErrorAs(t, app.Rewind(1), &te)
	require.ErrorAs(t, app.GoTo(-1), &te)
	require.ErrorAs(t, app.Skip(-1), &te)
	assert.Equal(t, "rewind", te.Op)

	require.NoError(t, app.Skip(2))
	assert.Equal(t, 2, app.Index())
	require.NoError(t, app.Rewind(1))
	assert.Equal(t, 1, app.Index())
	require.NoError(t, app.GoTo(0))
	assert.Equal(t, 0, app.Index())
	assert.Empty(t, r.order, "paused app only repositions")

	app.Resume()
	require.NoError(t, app.GoTo(1))
	assert.Equal(t, []string{"b", "c"}, r.order)
}

func TestApp_JumpFromInsidePhase(t *testing.T) {
	r := &recorder{}
	loops := 0
	app := NewApp(
		r.phase("start"),
		New("again", func(a *App) (any, error) {
			r.order = append(r.order, "again")
			loops++
			if loops < 3 {
				return nil, a.GoTo(0)
			}
			return nil, nil
		}),
	)

	require.NoError(t, app.Start())
	assert.Equal(t, []string{"start", "again", "start", "again", "start", "again"}, r.order)
}

func TestApp_Errors(t *testing.T) {
	var pe *PhaseError
	require.ErrorAs(t, NewApp().Run(), &pe)
	assert.Contains(t, pe.Error(), "does not exist")

	_, err := NewApp().Phase(0)
	require.ErrorAs(t, err, &pe)

	boom := errors.New("boom")
	app := NewApp(New("broken", func(*App) (any, error) { return nil, boom }))
	err = app.Start()
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "broken", pe.Name)
}
