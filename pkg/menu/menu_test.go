package menu

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reader(input string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(input))
}

func value(v any) func(*Menu) (any, error) {
	return func(*Menu) (any, error) { return v, nil }
}

func TestMenu_RenderOrdersAndTitleCases(t *testing.T) {
	m := New("Main Menu", "> ").
		Add(2, "load game", value("load")).
		Add(1, "new game", value("new")).
		Add(3, "quit", value("quit"))

	var out bytes.Buffer
	require.NoError(t, m.Render(&out))
	assert.Equal(t, "\nMain Menu\n\n1) New Game\n2) Load Game\n3) Quit\n", out.String())
}

func TestMenu_Prompt(t *testing.T) {
	m := New("Main Menu", "> ").
		Add(1, "new game", value("new")).
		Add(2, "load game", value("load"))

	tests := []struct {
		name    string
		input   string
		want    any
		wantErr error
	}{
		{name: "first option", input: "1\n", want: "new"},
		{name: "padded input", input: "  2 \n", want: "load"},
		{name: "no trailing newline", input: "2", want: "load"},
		{name: "not a number", input: "two\n", wantErr: ErrNotInteger},
		{name: "zero", input: "0\n", wantErr: ErrInvalidOption},
		{name: "negative", input: "-1\n", wantErr: ErrInvalidOption},
		{name: "past the end", input: "3\n", wantErr: ErrInvalidOption},
		{name: "eof", input: "", wantErr: io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := m.Prompt(reader(tt.input), &out)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "> ", out.String())
		})
	}
}

func TestMenu_LoopOptionShowsMenuAgain(t *testing.T) {
	visits := 0
	m := New("Shop", "> ").
		AddLoop(1, "browse", func(*Menu) (any, error) {
			visits++
			return nil, nil
		}).
		Add(2, "leave", value("bye"))

	var out bytes.Buffer
	got, err := m.Run(reader("1\n1\n2\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "bye", got)
	assert.Equal(t, 2, visits)
	assert.Equal(t, 3, strings.Count(out.String(), "1) Browse"))
}

func TestMenu_LoopStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	m := New("Shop", "").AddLoop(1, "browse", func(*Menu) (any, error) { return nil, boom })

	_, err := m.Run(reader("1\n1\n"), io.Discard)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, DefaultQuery, m.Query)
}

func TestInstance(t *testing.T) {
	t.Cleanup(ResetInstances)

	builds := 0
	build := func() *Menu {
		builds++
		return New("Pause", "")
	}

	a := Instance("pause", build)
	b := Instance("pause", build)
	assert.Same(t, a, b)
	assert.Equal(t, 1, builds)

	other := Instance("main", func() *Menu { return New("Main", "") })
	assert.NotSame(t, a, other)

	ResetInstances()
	c := Instance("pause", build)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, builds)
}
