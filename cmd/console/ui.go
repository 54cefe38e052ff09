package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/story-kit/internal/logger"
	"github.com/jwebster45206/story-kit/pkg/action"
	"github.com/jwebster45206/story-kit/pkg/character"
	"github.com/jwebster45206/story-kit/pkg/game"
	"github.com/muesli/reflow/wordwrap"
)

const PlaceHolderText = "Type an action number or /help..."

// ConsoleUI is the BubbleTea model that plays one game session.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctx     context.Context
	session *game.Session
	adv     *adventure
	where   string
	log     *slog.Logger

	storyViewport viewport.Model
	metaViewport  viewport.Model
	input         textinput.Model
	lines         []string
	ready         bool
	width         int
	height        int
	err           error

	showQuitModal bool
}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// NewConsoleUI creates the model. where is shown and copied by /copy.
func NewConsoleUI(ctx context.Context, s *game.Session, adv *adventure, where string) ConsoleUI {
	ti := textinput.New()
	ti.Placeholder = PlaceHolderText
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 200
	ti.Focus()

	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	return ConsoleUI{
		ctx:           ctx,
		session:       s,
		adv:           adv,
		where:         where,
		log:           logger.WithSave(s.Logger, s.Game.Location()),
		storyViewport: storyVp,
		metaViewport:  viewport.New(20, 20),
		input:         ti,
	}
}

// tickMsg asks the model to play a turn without a player action
type tickMsg struct{}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return tickMsg{} })
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		storyWidth := int(float64(m.width)*0.7) - 4
		metaWidth := m.width - storyWidth - 6
		m.storyViewport.Width = storyWidth - 2
		m.storyViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.input.Width = storyWidth - 8
		m.ready = true
		m.refresh()

	case tickMsg:
		m.play("")

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if input == "" {
				return m, nil
			}
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			m.play(input)
			return m, nil
		}
	}

	m.input, tiCmd = m.input.Update(msg)
	m.storyViewport, vpCmd = m.storyViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// play resolves input to an available action and runs one session tick.
// An empty input ticks without acting.
func (m *ConsoleUI) play(input string) {
	var turn func(*game.Game) error
	if input != "" {
		a, err := m.choose(input)
		if err != nil {
			m.addLine(errorStyle.Render(err.Error()))
			m.refresh()
			return
		}
		m.addLine(actionStyle.Render("> " + a.Name))
		turn = func(g *game.Game) error { return g.Player.Do(a.Name) }
	}

	_, err := m.session.Tick(m.ctx, turn)
	for _, line := range m.adv.drain() {
		m.addLine(line)
	}
	if err != nil {
		m.err = err
		logger.WithError(m.log, err).Error("Turn failed")
		m.addLine(errorStyle.Render("Error: " + err.Error()))
	}
	if err := m.session.Game.Player.AdjustActions(); err != nil {
		m.addLine(errorStyle.Render("Error: " + err.Error()))
	}
	m.refresh()
}

// choose accepts the number shown next to an action or its name
func (m *ConsoleUI) choose(input string) (*action.Action[*character.Player], error) {
	available := m.session.Game.Player.Available()
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(available) {
			return nil, fmt.Errorf("%d is not one of the listed actions", n)
		}
		return available[n-1], nil
	}
	for _, a := range available {
		if strings.EqualFold(a.Name, input) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("you cannot %q right now", input)
}

func (m *ConsoleUI) addLine(s string) {
	m.lines = append(m.lines, s)
}

// refresh rebuilds both panels for the current width
func (m *ConsoleUI) refresh() {
	width := m.storyViewport.Width - 6
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(m.session.Game.Title)) + "\n\n")
	for _, line := range m.lines {
		content.WriteString(wordwrap.String(line, width) + "\n\n")
	}

	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n")
	available := m.session.Game.Player.Available()
	if len(available) == 0 {
		content.WriteString(promptStyle.Render("Nothing to do here.") + "\n")
	}
	for i, name := range action.Names(available) {
		content.WriteString(actionStyle.Render(fmt.Sprintf("%d) %s", i+1, name)) + "\n")
	}

	m.storyViewport.SetContent(content.String())
	m.storyViewport.GotoBottom()
	m.metaViewport.SetContent(writeMetadata(m.session))
}

func writeMetadata(s *game.Session) string {
	g, p := s.Game, s.Game.Player
	var content strings.Builder
	content.WriteString(titleStyle.Render("GAME STATE") + "\n\n")

	content.WriteString("Save:\n" + g.Meta.Name + "\n\n")
	content.WriteString(fmt.Sprintf("Day:\n%d\n\n", g.Day))
	content.WriteString(fmt.Sprintf("Location:\n%s, %s\n\n", p.Site, p.Area))
	content.WriteString(fmt.Sprintf("Health:\n%d/%d\n\n", p.Health, p.MaxHealth))
	content.WriteString(fmt.Sprintf("Coins:\n%d\n\n", p.Currency))
	content.WriteString(fmt.Sprintf("Score:\n%d\n\n", g.Score))
	if g.Tutorial != nil {
		content.WriteString("Tutorial:\n" + g.Tutorial.String() + "\n\n")
	}
	if s.User != nil {
		earned := 0
		for _, a := range s.User.Achievements {
			if a.Completed {
				earned++
			}
		}
		content.WriteString(fmt.Sprintf("Achievements:\n%d/%d\n\n", earned, len(s.User.Achievements)))
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /copy: Copy save\n")
	return content.String()
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(input) {
	case "/help":
		m.addLine(titleStyle.Render("Help:") + `
• <number> or <action name> - take an action
• /inventory - Show what you carry
• /achievements - Show achievements
• /save - Save now
• /copy - Copy the save location to the clipboard
• /quit - Back to the main menu`)

	case "/inventory":
		inv := m.session.Game.Player.Inventory
		if inv.Len() == 0 {
			m.addLine("You carry nothing.")
		}
		for _, it := range inv.Items {
			m.addLine("• " + it.String())
		}
		for _, w := range inv.Weapons {
			m.addLine("• " + w.String())
		}

	case "/achievements":
		if m.session.User != nil {
			for _, a := range m.session.User.Achievements {
				m.addLine(a.String())
			}
		}

	case "/save":
		if err := m.session.Save(m.ctx); err != nil {
			m.addLine(errorStyle.Render("Save failed: " + err.Error()))
		} else {
			m.addLine("Saved.")
		}

	case "/copy":
		if err := clipboard.WriteAll(m.where); err != nil {
			m.log.Warn("Clipboard unavailable", "error", err)
			m.addLine(errorStyle.Render("Could not copy: " + err.Error()))
		} else {
			m.addLine("Copied " + m.where)
		}

	case "/quit":
		return m, tea.Quit

	default:
		m.addLine(errorStyle.Render("Unknown command " + input))
	}

	m.refresh()
	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N", "esc":
				m.showQuitModal = false
				m.input.Focus()
				return m, textinput.Blink
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave Game?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress is saved after every turn.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to leave, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	storyWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - storyWidth - 6

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.storyViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", storyWidth-4)),
			m.input.View(),
		),
	)
	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}
