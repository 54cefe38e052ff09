package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPromptCancelled is returned when the user aborts a secret prompt
var ErrPromptCancelled = errors.New("prompt cancelled")

// LinePrompter reads one line of input per prompt. It is used for tests and
// piped input where no terminal is attached.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter wraps r and w
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(r), out: w}
}

// Prompt writes message and returns the next line without its newline
func (p *LinePrompter) Prompt(message string) (string, error) {
	if _, err := fmt.Fprint(p.out, message); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Reader exposes the buffered input so menus can share it
func (p *LinePrompter) Reader() *bufio.Reader { return p.in }

// SecretPrompter asks for a password in the terminal with masked echo
type SecretPrompter struct {
	opts []tea.ProgramOption
}

// NewSecretPrompter returns a prompter that runs a small bubbletea program
// per prompt. Program options (input/output overrides) are passed through.
func NewSecretPrompter(opts ...tea.ProgramOption) *SecretPrompter {
	return &SecretPrompter{opts: opts}
}

// Prompt shows message and reads a masked line
func (p *SecretPrompter) Prompt(message string) (string, error) {
	m := newSecretModel(message)
	final, err := tea.NewProgram(m, p.opts...).Run()
	if err != nil {
		return "", fmt.Errorf("secret prompt failed: %w", err)
	}
	sm := final.(secretModel)
	if sm.cancelled {
		return "", ErrPromptCancelled
	}
	return sm.input.Value(), nil
}

type secretModel struct {
	message   string
	input     textinput.Model
	cancelled bool
	done      bool
}

func newSecretModel(message string) secretModel {
	ti := textinput.New()
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '*'
	ti.Prompt = ""
	ti.Focus()
	return secretModel{message: message, input: ti}
}

func (m secretModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m secretModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m secretModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return m.message + m.input.View() + "\n"
}
