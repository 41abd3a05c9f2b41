package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/xjtu-sim/internal/achievement"
	"github.com/tatianab/xjtu-sim/internal/models"
	"github.com/tatianab/xjtu-sim/internal/progression"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type sessionState int

const (
	stateSetup sessionState = iota
	stateLoading
	statePlaying
)

// Inbox collects engine notifications while a command runs. The engine calls
// it with its lock held, so it only buffers.
type Inbox struct {
	mu     sync.Mutex
	toasts []string
	logger *slog.Logger
}

func NewInbox(logger *slog.Logger) *Inbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inbox{logger: logger}
}

func (in *Inbox) AchievementUnlocked(a achievement.Achievement) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.toasts = append(in.toasts, fmt.Sprintf("%s Achievement unlocked: %s. %s", a.Icon, a.Name, a.Description))
}

func (in *Inbox) EventResolved(line string) {
	in.logger.Debug("log line", "line", line)
}

// Drain returns and clears the buffered toasts.
func (in *Inbox) Drain() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := in.toasts
	in.toasts = nil
	return out
}

type model struct {
	state     sessionState
	engine    *progression.Engine
	inbox     *Inbox
	snapshot  *models.PlayerState
	textInput textinput.Model
	viewport  viewport.Model
	printer   *message.Printer
	err       error
	gameLog   string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8787"))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

const setupPlaceholder = "<background> <college>, or 'continue'"

func NewModel(eng *progression.Engine, inbox *Inbox) model {
	ti := textinput.New()
	ti.Placeholder = setupPlaceholder
	ti.Focus()
	ti.CharLimit = 80
	ti.Width = 50

	return model{
		state:     stateSetup,
		engine:    eng,
		inbox:     inbox,
		textInput: ti,
		printer:   message.NewPrinter(language.English),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// resultMsg carries the outcome of an engine call and the state after it.
type resultMsg struct {
	report *progression.Report
	state  *models.PlayerState
	toasts []string
	err    error
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.70)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			input := strings.TrimSpace(m.textInput.Value())
			m.textInput.Reset()
			switch {
			case input == "/quit":
				return m, tea.Quit
			case input == "/restart":
				m.state = stateSetup
				m.gameLog = ""
				m.snapshot = nil
				m.textInput.Placeholder = setupPlaceholder
				return m, nil
			case m.state == stateSetup:
				m.state = stateLoading
				return m, m.startGame(input)
			case m.state == statePlaying && input != "":
				if input == "help" {
					m.appendLog(helpStyle.Render(helpText))
					return m, nil
				}
				m.appendLog(userStyle.Width(m.logWidth()).Render("> " + input))
				return m, m.run(input)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = msg.Height - 6
		if m.state == statePlaying {
			m.viewport.SetContent(m.gameLog)
		}

	case resultMsg:
		if m.state == stateLoading {
			if msg.err != nil {
				m.state = stateSetup
				m.err = msg.err
				return m, nil
			}
			m.state = statePlaying
			m.err = nil
			if m.viewport.Width == 0 {
				m.viewport = viewport.New(m.logWidth(), m.height-6)
			}
			m.textInput.Placeholder = "What do you do? (help)"
		}
		if msg.state != nil {
			m.snapshot = msg.state
		}
		m.appendResult(msg)
		return m, nil
	}

	if m.state == stateSetup || m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *model) appendLog(text string) {
	m.gameLog += text + "\n\n"
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m *model) appendResult(msg resultMsg) {
	width := m.logWidth()
	if msg.err != nil {
		m.appendLog(rejectStyle.Width(width).Render(describeError(msg.err)))
		return
	}
	rep := msg.report
	var b strings.Builder
	for _, line := range rep.Lines {
		b.WriteString(line + "\n")
	}
	for _, ex := range rep.Exams {
		status := "passed"
		if !ex.Passed {
			status = "FAILED"
		}
		b.WriteString(m.printer.Sprintf("  %-28s %5.1f  %-2s  %s\n", ex.Name, ex.Score, ex.Grade, status))
	}
	if p := rep.Pending; p != nil {
		b.WriteString("\n" + titleStyle.Render(p.Title) + "\n" + p.Text + "\n")
		for i, opt := range p.Options {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, opt))
		}
	}
	if rep.Ending != models.EndingNone {
		b.WriteString("\n" + titleStyle.Render("ENDING: "+strings.ToUpper(string(rep.Ending))) + "\n")
	}
	m.appendLog(gameStyle.Width(width).Render(strings.TrimRight(b.String(), "\n")))
	for _, t := range msg.toasts {
		m.appendLog(toastStyle.Width(width).Render(t))
	}
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateSetup:
		s = m.renderSetup()

	case stateLoading:
		s = "\n  Enrolling... please wait.\n"

	case statePlaying:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)
		help := helpStyle.Render("Type help for commands. /restart, /quit.")
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			"\n"+help,
		)
	}

	return "\n" + s + "\n"
}

func (m model) renderSetup() string {
	cat := m.engine.Catalog()
	var b strings.Builder
	b.WriteString(titleStyle.Render("XJTU Undergraduate Simulator") + "\n\n")
	b.WriteString("Backgrounds:\n")
	for _, bg := range cat.Backgrounds {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", bg.ID, bg.Description))
	}
	b.WriteString("\nColleges:\n")
	for _, c := range cat.Colleges {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", c.ID, c.Description))
	}
	if m.err != nil {
		b.WriteString("\n" + rejectStyle.Render(describeError(m.err)) + "\n")
	}
	b.WriteString("\n" + m.textInput.View())
	return b.String()
}

func (m model) renderState() string {
	st := m.snapshot
	if st == nil {
		return ""
	}
	p := m.printer

	var b strings.Builder
	b.WriteString(titleStyle.Render("CALENDAR") + "\n")
	b.WriteString(fmt.Sprintf("Year %d, month %d (%s)\n", st.Year, st.Month, st.Semester()))
	b.WriteString(fmt.Sprintf("%s @ %s\n\n", st.College, st.Campus))

	b.WriteString(titleStyle.Render("STATS") + "\n")
	b.WriteString(fmt.Sprintf("GPA     %.2f\n", st.GPA))
	b.WriteString(fmt.Sprintf("SAN     %d\n", st.San))
	b.WriteString(fmt.Sprintf("Energy  %d/%d\n", st.Energy, st.MaxEnergy))
	b.WriteString(fmt.Sprintf("Social  %d\n", st.Social))
	b.WriteString(p.Sprintf("Money   %d\n", st.Money))
	b.WriteString(fmt.Sprintf("Charm   %d\n", st.Charm))
	b.WriteString(fmt.Sprintf("Rep     %d\n", st.Reputation))
	b.WriteString(p.Sprintf("Credits %.1f (+%d practice)\n\n", st.TotalCredits, st.PracticeCredits))

	b.WriteString(titleStyle.Render("COURSES") + "\n")
	if len(st.CurrentCourses) == 0 {
		b.WriteString("(none)\n")
	}
	for _, c := range st.CurrentCourses {
		b.WriteString(fmt.Sprintf("%-14s %5.1f\n", c.ID, c.Mastery))
	}
	for _, c := range st.RetakeCourses {
		b.WriteString(fmt.Sprintf("%-14s %5.1f retake\n", c.ID, c.Mastery))
	}
	if st.ThesisMode {
		b.WriteString(fmt.Sprintf("Thesis %d%%\n", st.ThesisProgress))
	}

	var flags []string
	if st.ExamRushMode {
		flags = append(flags, "exam rush")
	} else if st.ExamRushOffered {
		flags = append(flags, "rush offered")
	}
	if st.BiddingOpen {
		flags = append(flags, "bidding open")
	}
	if st.WinterBreakOpen {
		flags = append(flags, "winter break")
	}
	if st.InRelationship {
		flags = append(flags, "dating")
	}
	if len(flags) > 0 {
		b.WriteString("\n" + strings.Join(flags, ", ") + "\n")
	}
	if len(st.BBS) > 0 {
		b.WriteString("\n" + titleStyle.Render("BBS") + "\n")
		for _, post := range st.BBS[:min(3, len(st.BBS))] {
			b.WriteString(post + "\n")
		}
	}

	width := int(float64(m.width) * 0.28)
	return stateStyle.Width(width).Height(m.viewport.Height).Render(b.String())
}

func (m model) startGame(input string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		fields := strings.Fields(strings.ToLower(input))
		if len(fields) == 1 && fields[0] == "continue" {
			if !m.engine.Resume(ctx) {
				return resultMsg{err: progression.ErrNoGame}
			}
			st := m.engine.State()
			line := fmt.Sprintf("Welcome back. Year %d, month %d.", st.Year, st.Month)
			return resultMsg{report: &progression.Report{Lines: []string{line}, Pending: st.Pending}, state: st}
		}
		if len(fields) != 2 {
			return resultMsg{err: errUsage}
		}
		rep, err := m.engine.NewGame(ctx, fields[0], fields[1])
		return resultMsg{report: rep, state: m.engine.State(), toasts: m.inbox.Drain(), err: err}
	}
}

func (m model) run(input string) tea.Cmd {
	return func() tea.Msg {
		rep, err := dispatch(context.Background(), m.engine, input)
		return resultMsg{report: rep, state: m.engine.State(), toasts: m.inbox.Drain(), err: err}
	}
}

// Run starts the terminal UI. inbox must be the notifier the engine was
// built with.
func Run(eng *progression.Engine, inbox *Inbox) error {
	p := tea.NewProgram(NewModel(eng, inbox), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
