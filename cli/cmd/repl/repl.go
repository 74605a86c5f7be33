// Package repl provides an interactive declaration analysis session. Lines
// entered at the prompt become analyzer events; diagnostics are reported
// immediately while the session's scope and binding state persist between
// lines.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zinclang/zinc/log"
	"github.com/zinclang/zinc/sema"
)

const prompt = "zn> "

func helpMessage() string {
	return `
Commands (prefix with ':'):

  help     Print this cruft
  list     List visible bindings
  types    List registered types
  clear    Clear screen
  quit     Exit REPL

Input forms:

  let name: Type [= expr]     declare immutable
  var name: Type [= expr]     declare mutable
  lock name: Type             declare lockable
  const NAME: Type = expr     declare compile-time constant
  lock name = expr            commit a lockable's value
  name = expr                 assign
  { / }                       enter / exit a block scope

Completions appear as you type; Tab / Shift-Tab cycle candidates.
Press Ctrl+C on an empty line or Ctrl+D to exit.
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hintStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchedStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	selectedMatchedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4")).Bold(true)
)

// formatCommand formats the input echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// Options configures a REPL session.
type Options struct {
	// Registry provides the session's types. It must be frozen.
	Registry *sema.Registry

	// CacheDir is where the history file lives.
	CacheDir string

	// IgnoreWarnings suppresses naming-convention warnings.
	IgnoreWarnings bool
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	analyzer     *sema.Analyzer
	history      *History
	historyIdx   int
	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	line         int
	quitting     bool
}

// Run starts the REPL over the given frozen registry.
func Run(ctx context.Context, opts Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if opts.Registry == nil || !opts.Registry.Frozen() {
		return ErrNoRegistry
	}

	analyzer, err := sema.New(opts.Registry,
		sema.WithSuppressNamingWarnings(opts.IgnoreWarnings))
	if err != nil {
		return err
	}

	history := NewHistory(filepath.Join(opts.CacheDir, baseHistory))
	if err := history.Load(); err != nil {
		log.WarnContext(ctx, "could not load history",
			slog.Any("error", err))
	}

	log.TraceContext(ctx, "repl start",
		slog.String("cache_dir", opts.CacheDir),
		slog.Int("history_entries", history.Len()),
		slog.Int("registered_types", len(opts.Registry.Names())),
	)

	m := newModel(ctx, analyzer, history)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	analyzer *sema.Analyzer,
	history *History,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		analyzer:   analyzer,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render(
			"Type a declaration or ':help' for commands"))
		b.WriteString("\n")

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		))
		b.WriteString("\n")

	default:
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current tab candidate without executing.
			m.tabActive = false
			m.refreshMatches()

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.handleTab(1)

	case tea.KeyShiftTab:
		return m.handleTab(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches()
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// handleTab cycles through completion candidates in the given direction.
func (m model) handleTab(dir int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	if len(m.matches) == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)
	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
func (m *model) refreshMatches() {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.tabActive = false

	_, _ = m.history.Write(input)
	m.historyIdx = m.history.Len()

	log.TraceContext(m.ctxFunc(), "repl input",
		slog.String("input", input))

	echoCmd := tea.Println(formatCommand(input))

	if rest, ok := strings.CutPrefix(input, ":"); ok {
		return m.executeCommand(echoCmd, rest)
	}

	m.line++

	ev, err := parseLine(input, sema.Pos{File: "repl", Line: m.line, Col: 1})
	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	before := len(m.analyzer.Diagnostics())

	if err := m.analyzer.Process(ev); err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	diags := m.analyzer.Diagnostics()[before:]
	if len(diags) == 0 {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(resultStyle.Render(m.describe(ev))),
		)
	}

	lines := make([]tea.Cmd, 0, len(diags)+1)
	lines = append(lines, echoCmd)

	for _, d := range diags {
		style := errorStyle
		if d.Severity == sema.SeverityWarning {
			style = warningStyle
		}

		lines = append(lines, tea.Println(style.Render(fmt.Sprintf(
			"%s[%s]: %s", d.Severity, d.Kind, d.Message))))
	}

	return m, tea.Sequence(lines...)
}

func (m model) executeCommand(
	echoCmd tea.Cmd,
	input string,
) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, echoCmd
	}

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listBindings()))

	case "t", "types":
		return m, tea.Sequence(echoCmd, tea.Println(m.listTypes()))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render(
				"Unknown command: "+parts[0]+" (try ':help')"),
		))
	}
}

// describe summarizes a successfully applied event.
func (m model) describe(ev sema.Event) string {
	switch ev.Kind {
	case sema.EventEnterBlock:
		return "entered block"

	case sema.EventExitBlock:
		return "exited block"

	default:
		sym, ok := m.analyzer.Lookup(ev.Name)
		if !ok {
			return "ok"
		}

		return describeSymbol(sym)
	}
}

// describeSymbol renders one binding as "class name: Type [= value]".
func describeSymbol(sym *sema.Symbol) string {
	var b strings.Builder

	if sym.Const {
		b.WriteString("const ")
	} else {
		b.WriteString(sym.Class.String())
		b.WriteString(" ")
	}

	b.WriteString(sym.Name)
	b.WriteString(": ")
	b.WriteString(sym.Type.String())

	if sym.Value != nil {
		b.WriteString(" = ")
		b.WriteString(sym.Value.String())
	}

	return b.String()
}

func (m model) listBindings() string {
	names := m.analyzer.VisibleNames()
	if len(names) == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	var b strings.Builder

	for _, name := range names {
		sym, ok := m.analyzer.Lookup(name)
		if !ok {
			continue
		}

		b.WriteString("  ")
		b.WriteString(describeSymbol(sym))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m model) listTypes() string {
	var b strings.Builder

	for _, name := range m.analyzer.Registry().Names() {
		b.WriteString("  ")
		b.WriteString(name)

		if variants := m.analyzer.Registry().Variants(name); len(variants) > 0 {
			parts := make([]string, len(variants))
			for i, v := range variants {
				parts[i] = fmt.Sprintf("%s=%d", v.Name, v.Value)
			}

			b.WriteString(hintStyle.Render(
				" {" + strings.Join(parts, ", ") + "}"))
		}

		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--

		if line, err := m.history.GetLine(m.historyIdx); err == nil {
			m.input.SetValue(line)
			m.input.SetCursor(len(line))
			m.refreshMatches()
		}
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		if line, err := m.history.GetLine(m.historyIdx); err == nil {
			m.input.SetValue(line)
			m.input.SetCursor(len(line))
			m.refreshMatches()
		}
	} else {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches()
	}

	return m, nil
}
