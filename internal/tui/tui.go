// Package tui is an interactive terminal table where one human plays against bots.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/game"
)

// Options configures the interactive table
type Options struct {
	TurnTimeout   time.Duration // Zero disables the turn timer
	TimeoutAction string        // config.TimeoutCheckFold or config.TimeoutCall
	Clock         quartz.Clock  // nil uses the real clock
}

// Model is the Bubble Tea model of the table. It owns no game state: every
// frame is rendered from the engine's snapshot for the human seat.
type Model struct {
	engine  *game.Engine
	human   *bot.HumanProxy
	humanID string
	logger  *log.Logger
	timer   *TurnTimer
	onTime  string

	logViewport viewport.Model
	actionInput textinput.Model
	focusedPane int // 0 = log, 1 = input

	gameLog       []string
	view          game.Snapshot
	loggedHand    int
	loggedRecords int
	loggedStreet  game.Street
	resultLogged  bool

	status    string
	statusErr bool
	waiting   bool // the human is to act
	turn      int
	turnKey   [2]int // hand number and history length when the turn began
	gameOver  bool
	quitting  bool

	width       int
	height      int
	initialized bool
}

// FindHuman returns the seat played through a HumanProxy
func FindHuman(seats []game.Seat) (string, *bot.HumanProxy, bool) {
	for _, s := range seats {
		if p, ok := s.Policy.(*bot.HumanProxy); ok {
			return s.ID, p, true
		}
	}
	return "", nil, false
}

// NewModel creates a model for an engine whose first hand was already started.
// One seat must be played by a HumanProxy.
func NewModel(engine *game.Engine, logger *log.Logger, opts Options) (*Model, error) {
	id, proxy, ok := FindHuman(engine.Seats())
	if !ok {
		return nil, errors.New("no seat is played by a human")
	}
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	onTime := opts.TimeoutAction
	if onTime == "" {
		onTime = config.TimeoutCheckFold
	}

	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "fold, check, call, bet 40, raise 120, allin"
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(focusedBorder).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		engine:      engine,
		human:       proxy,
		humanID:     id,
		logger:      logger.WithPrefix("tui"),
		timer:       NewTurnTimer(clock, opts.TurnTimeout),
		onTime:      onTime,
		logViewport: vp,
		actionInput: ti,
		focusedPane: 1,
	}, nil
}

// Run starts the program on the alternate screen and blocks until the player quits
func Run(m *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

// Init plays the bots up to the human's first decision
func (m *Model) Init() tea.Cmd {
	m.advance()
	return tea.Batch(textinput.Blink, m.waitForTimeout())
}

func (m *Model) waitForTimeout() tea.Cmd {
	if !m.timer.Enabled() {
		return nil
	}
	return func() tea.Msg {
		return <-m.timer.C
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case timeoutMsg:
		if m.waiting && msg.Turn == m.turn {
			a := m.timeoutChoice()
			m.logger.Info("Turn timed out", "player", m.humanID, "action", a)
			m.addLog(WarningStyle.Render(fmt.Sprintf("Time is up after %s: %s", m.timer.Timeout(), a)))
			m.act(a)
		}
		cmds = append(cmds, m.waitForTimeout())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if cmd := m.submit(input); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.timer.Stop()
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

// submit handles a line of input. Between hands any input deals the next hand.
func (m *Model) submit(input string) tea.Cmd {
	lower := strings.ToLower(input)
	if lower == "quit" || lower == "q" || m.gameOver {
		return m.quit()
	}

	if m.view.IsComplete() {
		m.nextHand()
		return nil
	}
	if !m.waiting {
		return nil
	}

	a, err := game.ParseAction(input)
	if err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	m.act(a)
	return nil
}

func (m *Model) act(a game.Action) {
	m.timer.Stop()
	m.setStatus("", false)
	m.logger.Debug("Player action", "player", m.humanID, "action", a)
	m.human.Submit(a)
	m.advance()
	if err := m.human.Rejected(); err != nil {
		m.setStatus(fmt.Sprintf("%s is not allowed: %v", a, err), true)
	}
}

func (m *Model) nextHand() {
	err := m.engine.NextHand()
	if errors.Is(err, game.ErrNotEnoughPlayers) {
		m.endGame("Not enough players with chips. Game over, press enter to quit.")
		return
	}
	if err != nil {
		m.logger.Error("Failed to deal next hand", "error", err)
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("", false)
	m.advance()
}

func (m *Model) endGame(message string) {
	m.gameOver = true
	m.waiting = false
	m.timer.Stop()
	m.addLog(WarningStyle.Render(message))
	m.setStatus(message, false)
}

// advance lets the bots act until the human is to act or the hand is over
func (m *Model) advance() {
	if err := m.engine.Advance(); err != nil {
		m.logger.Error("Hand stopped", "error", err)
		m.setStatus(err.Error(), true)
	}

	view, err := m.engine.StateFor(m.humanID)
	if err != nil {
		m.endGame("You are out of chips. Game over, press enter to quit.")
		return
	}
	m.view = view
	m.syncLog()

	m.waiting = !view.IsComplete() && view.ActionOn == view.Viewer
	if !m.waiting {
		m.timer.Stop()
		if view.IsComplete() && m.status == "" {
			m.setStatus("Hand complete, press enter for the next hand", false)
		}
		return
	}
	if key := [2]int{view.HandNumber, len(view.History)}; key != m.turnKey {
		// Re-prompts after rejected input keep the original deadline
		m.turnKey = key
		m.turn++
		m.timer.Start(m.turn)
	}
}

func (m *Model) timeoutChoice() game.Action {
	la := m.view.Legal
	if m.onTime == config.TimeoutCall && la.Contains(game.Call) {
		return game.Action{Type: game.Call}
	}
	return game.CheckOrFold(la)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// syncLog appends everything that happened since the last snapshot to the game log
func (m *Model) syncLog() {
	v := m.view
	if v.HandNumber != m.loggedHand {
		m.loggedHand = v.HandNumber
		m.loggedRecords = 0
		m.loggedStreet = game.Preflop
		m.resultLogged = false
		if m.loggedHand > 1 {
			m.addLog("")
		}
		button := ""
		if p, ok := v.Player(v.Button); ok {
			button = p.Name
		}
		m.addLog(HeaderStyle.Render(fmt.Sprintf(" Hand #%d ", v.HandNumber)) +
			InfoStyle.Render(fmt.Sprintf(" %s, button %s, blinds %d/%d", v.HandID, button, v.SmallBlind, v.BigBlind)))
		if self, ok := v.Self(); ok {
			m.addLog("Your cards: " + FormatCards(self.HoleCards))
		}
	}

	for _, r := range v.History[m.loggedRecords:] {
		m.logStreets(r.Street)
		m.addLog("  " + r.String())
	}
	m.loggedRecords = len(v.History)

	if !v.IsComplete() || m.resultLogged {
		return
	}
	m.resultLogged = true
	if v.Aborted {
		m.addLog(ErrorStyle.Render("Hand aborted: " + v.AbortReason))
		return
	}
	m.logStreets(game.River)

	showdown := false
	for _, p := range v.Payouts {
		if p.Description != "" {
			showdown = true
		}
	}
	if showdown {
		m.addLog("*** SHOWDOWN ***")
		for _, p := range v.Players {
			if p.Status != game.StatusFolded && len(p.HoleCards) == 2 {
				m.addLog(fmt.Sprintf("  %s shows %s", p.Name, FormatCards(p.HoleCards)))
			}
		}
	}
	for _, r := range v.Refunds {
		if p, ok := v.Player(r.Seat); ok {
			m.addLog(fmt.Sprintf("  %s takes back %d uncalled", p.Name, r.Amount))
		}
	}
	for _, p := range v.Payouts {
		line := fmt.Sprintf("%s wins %d", p.Player, p.Amount)
		if len(v.Awarded) > 1 {
			line += fmt.Sprintf(" from pot %d", p.PotIndex+1)
		}
		if p.Description != "" {
			line += fmt.Sprintf(" with %s %s", p.Description, FormatCards(p.BestFive))
		}
		m.addLog(SuccessStyle.Render(line))
	}
}

// logStreets writes the street headers up to street that the board has reached
func (m *Model) logStreets(street game.Street) {
	board := m.view.Board
	for s := m.loggedStreet + 1; s <= street && s <= game.River; s++ {
		n := int(s) + 2 // flop 3, turn 4, river 5
		if len(board) < n {
			return
		}
		m.addLog(fmt.Sprintf("*** %s *** %s", strings.ToUpper(s.String()), FormatCards(board[:n])))
		m.loggedStreet = s
	}
}

// addLog adds an entry to the game log and scrolls to it
func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor(m.focusedPane == 1)).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-4, 1)
	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedBorder).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight
	if !m.initialized && m.logViewport.Width > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor(m.focusedPane == 0)).
		Width(m.logViewport.Width).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func borderColor(focused bool) lipgloss.Color {
	if focused {
		return focusedBorder
	}
	return mutedBorder
}

// renderSidebarPane shows the pot, the board and every player at the table
func (m *Model) renderSidebarPane() string {
	v := m.view
	var content strings.Builder

	content.WriteString(WarningStyle.Render(fmt.Sprintf("Pot: %d", v.TotalPot())))
	if v.CurrentBet > 0 && !v.IsComplete() {
		content.WriteString(" | ")
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: %d", v.CurrentBet)))
	}
	content.WriteString("\n")
	if len(v.Board) > 0 {
		content.WriteString("Board: " + FormatCards(v.Board))
	}
	content.WriteString("\n\n")

	content.WriteString(InfoStyle.Render("Players:"))
	content.WriteString("\n")
	for _, p := range v.Players {
		marker := "  "
		switch {
		case p.Seat == v.ActionOn && !v.IsComplete():
			marker = "> "
		case p.Seat == v.Button:
			marker = "D "
		}
		line := fmt.Sprintf("%s%-8s %6d", marker, p.Name, p.Stack)
		if p.Bet > 0 {
			line += fmt.Sprintf("  bet %d", p.Bet)
		}
		if p.Status != game.StatusActive {
			line += "  " + p.Status.String()
		}
		if p.Seat == v.Viewer {
			line = HandInfoStyle.Render(line)
		}
		content.WriteString(line)
		content.WriteString("\n")
	}
	return content.String()
}

// renderActionPane shows the human's cards, legal actions, input and status
func (m *Model) renderActionPane() string {
	var content strings.Builder

	switch {
	case m.gameOver:
		content.WriteString(HandInfoStyle.Render("Game over"))
	case m.waiting:
		self, _ := m.view.Self()
		info := fmt.Sprintf("Hand: %s  Pot: %d  To call: %d", FormatCards(self.HoleCards), m.view.TotalPot(), m.view.Legal.ToCall)
		if m.timer.Enabled() {
			info += fmt.Sprintf("  (%s per turn)", m.timer.Timeout())
		}
		content.WriteString(HandInfoStyle.Render(info))
		content.WriteString("\n")
		content.WriteString(m.renderAvailableActions())
	default:
		content.WriteString(HandInfoStyle.Render("Waiting..."))
	}
	content.WriteString("\n")

	if m.waiting {
		m.actionInput.Placeholder = "fold, check, call, bet 40, raise 120, allin"
	} else {
		m.actionInput.Placeholder = "Enter to continue, 'quit' to exit"
	}
	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.status != "" {
		if m.statusErr {
			content.WriteString(ErrorStyle.Render(m.status))
		} else {
			content.WriteString(InfoStyle.Render(m.status))
		}
		content.WriteString("\n")
	}

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}
	return content.String()
}

// renderAvailableActions lists the legal actions with their amounts
func (m *Model) renderAvailableActions() string {
	la := m.view.Legal
	self, _ := m.view.Self()
	var actions []string
	for _, t := range la.Actions {
		switch t {
		case game.Fold:
			actions = append(actions, ErrorStyle.Render("[fold]"))
		case game.Check:
			actions = append(actions, SuccessStyle.Render("[check]"))
		case game.Call:
			actions = append(actions, SuccessStyle.Render(fmt.Sprintf("[call %d]", la.ToCall)))
		case game.Bet:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[bet %d-%d]", la.MinAmount, la.MaxAmount)))
		case game.Raise:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[raise to %d-%d]", la.MinAmount, la.MaxAmount)))
		case game.AllIn:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[allin %d]", self.Stack)))
		}
	}
	if len(actions) == 0 {
		actions = append(actions, ErrorStyle.Render("[no actions available]"))
	}
	return ActionsStyle.Render("Actions: " + strings.Join(actions, " "))
}
