package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultQuery is written before reading the user's choice
const DefaultQuery = "\nInput:\t"

var (
	// ErrNotInteger is returned when the input is not a whole number
	ErrNotInteger = errors.New("that input is not an integer")
	// ErrInvalidOption is returned when the number does not match an option
	ErrInvalidOption = errors.New("that integer does not correspond to a menu option")
)

// Option is a single numbered menu entry
type Option struct {
	Index int
	Name  string
	Run   func(*Menu) (any, error)
	// Loop shows the menu again once Run returns without error
	Loop bool
}

// Menu is a titled list of options chosen by number
type Menu struct {
	Title   string
	Query   string
	options []Option
}

// New creates an empty menu. An empty query falls back to DefaultQuery.
func New(title, query string) *Menu {
	if query == "" {
		query = DefaultQuery
	}
	return &Menu{Title: title, Query: query}
}

// Add registers an option. Options are listed by index, not insertion order.
func (m *Menu) Add(index int, name string, fn func(*Menu) (any, error)) *Menu {
	return m.add(Option{Index: index, Name: name, Run: fn})
}

// AddLoop registers an option after which the menu is shown again
func (m *Menu) AddLoop(index int, name string, fn func(*Menu) (any, error)) *Menu {
	return m.add(Option{Index: index, Name: name, Run: fn, Loop: true})
}

func (m *Menu) add(o Option) *Menu {
	m.options = append(m.options, o)
	sort.SliceStable(m.options, func(i, j int) bool {
		return m.options[i].Index < m.options[j].Index
	})
	return m
}

// Options returns the options in display order
func (m *Menu) Options() []Option {
	return append([]Option(nil), m.options...)
}

// Render writes the title and the numbered option list
func (m *Menu) Render(w io.Writer) error {
	title := cases.Title(language.English)
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n\n", m.Title)
	for i, o := range m.options {
		fmt.Fprintf(&b, "%d) %s\n", i+1, title.String(o.Name))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Prompt reads a choice from r and runs the chosen option, returning its result
func (m *Menu) Prompt(r *bufio.Reader, w io.Writer) (any, error) {
	return m.loop(r, w, false)
}

// Run renders the menu and then prompts
func (m *Menu) Run(r *bufio.Reader, w io.Writer) (any, error) {
	return m.loop(r, w, true)
}

func (m *Menu) loop(r *bufio.Reader, w io.Writer, render bool) (any, error) {
	for {
		if render {
			if err := m.Render(w); err != nil {
				return nil, err
			}
		}
		opt, err := m.choose(r, w)
		if err != nil {
			return nil, err
		}
		if opt.Run == nil {
			return nil, nil
		}
		result, err := opt.Run(m)
		if err != nil || !opt.Loop {
			return result, err
		}
		render = true
	}
}

func (m *Menu) choose(r *bufio.Reader, w io.Writer) (Option, error) {
	if _, err := io.WriteString(w, m.Query); err != nil {
		return Option{}, err
	}
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return Option{}, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(line))
	if convErr != nil {
		return Option{}, ErrNotInteger
	}
	if n < 1 || n > len(m.options) {
		return Option{}, fmt.Errorf("%w: %d", ErrInvalidOption, n)
	}
	return m.options[n-1], nil
}
