package achievement

import (
	"testing"

	"github.com/jwebster45206/story-kit/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scoreboard struct {
	Score int
}

func TestAchievement_FiresExactlyOnce(t *testing.T) {
	a := New("Centurion", "Reach a score of 100", trigger.New("game.score", 100))
	var messages []string
	n := NotifierFunc(func(m string) { messages = append(messages, m) })

	g := &scoreboard{Score: 99}
	fired, err := a.Check(g, n)
	require.NoError(t, err)
	assert.False(t, fired)
	assert.False(t, a.Completed)

	g.Score = 100
	fired, err = a.Check(g, n)
	require.NoError(t, err)
	assert.True(t, fired)
	assert.True(t, a.Completed)
	assert.False(t, a.Active())
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "Centurion")

	g.Score = 50
	_, err = a.Check(g, n)
	require.NoError(t, err)
	g.Score = 100
	fired, err = a.Check(g, n)
	require.NoError(t, err)
	assert.False(t, fired, "completed achievement stays inert")

	ok, err := a.IsTriggered(g)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, messages, 1)
}

func TestAchievement_ConfigurationErrorSurfaces(t *testing.T) {
	a := New("Broken", "", trigger.New("game.gold", 1))
	_, err := a.Check(&scoreboard{}, nil)

	var re *trigger.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, err.Error(), "Broken")
}

func TestCheckAll_EarnedAndRestore(t *testing.T) {
	list := []*Achievement{
		New("First", "", trigger.New("game.score", 1, trigger.WithComparator(trigger.AtLeast))),
		New("Tenth", "", trigger.New("game.score", 10, trigger.WithComparator(trigger.AtLeast))),
	}

	earned, err := CheckAll(list, &scoreboard{Score: 5}, nil)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, "First", earned[0].Name)

	snapshot := Earned(list)
	assert.Equal(t, map[string]bool{"First": true, "Tenth": false}, snapshot)

	fresh := []*Achievement{
		New("First", "", trigger.New("game.score", 1, trigger.WithComparator(trigger.AtLeast))),
		New("Tenth", "", trigger.New("game.score", 10, trigger.WithComparator(trigger.AtLeast))),
	}
	Restore(fresh, snapshot)
	assert.True(t, fresh[0].Completed)
	assert.False(t, fresh[0].Active())
	assert.False(t, fresh[1].Completed)

	earned, err = CheckAll(fresh, &scoreboard{Score: 5}, nil)
	require.NoError(t, err)
	assert.Empty(t, earned, "restored achievements do not fire again")
}

func TestAchievement_String(t *testing.T) {
	a := New("Explorer", "Visit every land")
	assert.Contains(t, a.String(), "Incomplete")
	a.Achieve()
	assert.Contains(t, a.String(), "Completed")
}
