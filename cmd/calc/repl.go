package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zephyrtronium/calc"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// line is one evaluated expression or command and its outcome.
type line struct {
	input  string
	output string
	failed bool
}

type replModel struct {
	input  textinput.Model
	calc   *calc.Calculator
	verb   string
	lines  []line
	recall []string
	// at is the index into recall shown in the input, or len(recall) for a
	// fresh line.
	at       int
	height   int
	showHelp bool
	quitting bool
}

var (
	keyPrev  = key.NewBinding(key.WithKeys("up"))
	keyNext  = key.NewBinding(key.WithKeys("down"))
	keyEval  = key.NewBinding(key.WithKeys("enter"))
	keyQuit  = key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"))
	keyClear = key.NewBinding(key.WithKeys("ctrl+l"))
)

const helpText = ":prec N  use N-bit precision, 0 for float64\n" +
	":clear   forget results\n" +
	":help    toggle this text\n" +
	":quit    exit"

func newREPLModel(c *calc.Calculator, verb string) replModel {
	in := textinput.New()
	in.Prompt = "calc> "
	in.PromptStyle = promptStyle
	in.Placeholder = "expression"
	in.CharLimit = 500
	in.Focus()
	return replModel{input: in, calc: c, verb: verb}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 10)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyQuit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keyClear):
			m.lines = nil
			return m, nil
		case key.Matches(msg, keyPrev):
			m.recallAt(m.at - 1)
			return m, nil
		case key.Matches(msg, keyNext):
			m.recallAt(m.at + 1)
			return m, nil
		case key.Matches(msg, keyEval):
			return m.submit()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// recallAt shows the i'th previous input, or an empty line past the end.
func (m *replModel) recallAt(i int) {
	if i < 0 || i > len(m.recall) {
		return
	}
	m.at = i
	if i == len(m.recall) {
		m.input.SetValue("")
	} else {
		m.input.SetValue(m.recall[i])
	}
	m.input.CursorEnd()
}

func (m replModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if text == "" {
		return m, nil
	}
	if strings.HasPrefix(text, ":") {
		return m.command(text)
	}
	m.recall = append(m.recall, text)
	m.at = len(m.recall)
	r, err := evaluate(m.calc, text, m.verb)
	if err != nil {
		m.lines = append(m.lines, line{text, fmt.Sprintf("%v: %v", calc.StatusOf(err), err), true})
	} else {
		m.lines = append(m.lines, line{text, r, false})
	}
	return m, nil
}

func (m replModel) command(text string) (tea.Model, tea.Cmd) {
	f := strings.Fields(text)
	switch f[0] {
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.lines = nil
	case ":prec", ":p":
		if len(f) != 2 {
			m.lines = append(m.lines, line{text, fmt.Sprintf("precision is %d bits", m.calc.Prec()), false})
			break
		}
		p, err := strconv.ParseUint(f[1], 10, 0)
		if err != nil {
			m.lines = append(m.lines, line{text, "bad precision " + strconv.Quote(f[1]), true})
			break
		}
		m.calc = m.calc.Clone(calc.Prec(uint(p)))
		m.lines = append(m.lines, line{text, fmt.Sprintf("precision set to %d bits", p), false})
	default:
		m.lines = append(m.lines, line{text, "unknown command " + f[0], true})
	}
	return m, nil
}

func (m replModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	mode := "float64"
	if p := m.calc.Prec(); p > 0 {
		mode = strconv.FormatUint(uint64(p), 10) + "-bit"
	}
	b.WriteString(dimStyle.Render("calc, "+mode+", :help for commands") + "\n")
	// Each line takes two rows; keep room for the header, help, and input.
	shown := m.lines
	if m.height > 0 {
		rows := m.height - 3
		if m.showHelp {
			rows -= strings.Count(helpText, "\n") + 1
		}
		if n := max(rows/2, 1); len(shown) > n {
			shown = shown[len(shown)-n:]
		}
	}
	for _, l := range shown {
		b.WriteString(dimStyle.Render("  "+l.input) + "\n")
		if l.failed {
			b.WriteString(failStyle.Render("  "+l.output) + "\n")
		} else {
			b.WriteString(okStyle.Render("  = "+l.output) + "\n")
		}
	}
	if m.showHelp {
		b.WriteString(dimStyle.Render(helpText) + "\n")
	}
	b.WriteString(m.input.View())
	return b.String()
}

func runREPL(c *calc.Calculator, verb string) error {
	_, err := tea.NewProgram(newREPLModel(c, verb)).Run()
	return err
}
