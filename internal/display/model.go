// Package display provides the terminal UI using Bubble Tea.
//
// The model owns the current session and hands every user action to the
// engine. Remote calls the engine asks for run as tea.Cmds and come back
// as messages, so the session is only ever touched inside Update.
package display

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/bigbite/internal/conversation"
	"github.com/hammamikhairi/bigbite/internal/domain"
	"github.com/hammamikhairi/bigbite/internal/engine"
	"github.com/hammamikhairi/bigbite/internal/logger"
	"github.com/hammamikhairi/bigbite/internal/speech"
)

// LoadFunc reads and validates the photo at path.
type LoadFunc func(path string) (domain.Image, error)

// Deps are the collaborators the UI drives.
type Deps struct {
	Engine   *engine.Engine
	Parser   domain.IntentParser
	Narrator domain.Narrator
	Load     LoadFunc
	Log      *logger.Logger
	// SpeechOn is false when Narrator is silent.
	SpeechOn bool
	// InitialPath, when set, is opened on start.
	InitialPath string
}

// Messages.
type (
	taskDoneMsg struct{ ev engine.Event }
	healthMsg   struct {
		health domain.Health
		err    error
	}
	openMsg struct{ path string }
)

type model struct {
	ctx  context.Context
	deps Deps

	session domain.Session
	checked map[int]bool // ingredient checklist of the selected recipe
	status  string       // one-line feedback below the screen

	input   textinput.Model
	spinner spinner.Model
	width   int
	height  int
}

func newModel(ctx context.Context, deps Deps) model {
	ti := textinput.New()
	// Plain-text prompt: styled prompts break textinput's width math.
	ti.Prompt = "bigbite> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = inputTextStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Placeholder = "type help for commands"
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return model{
		ctx:     ctx,
		deps:    deps,
		session: deps.Engine.NewSession(),
		checked: make(map[int]bool),
		input:   ti,
		spinner: sp,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if p := m.deps.InitialPath; p != "" {
		cmds = append(cmds, func() tea.Msg { return openMsg{path: p} })
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m.quit()
		case tea.KeyEsc:
			m.status = ""
			return m.dispatch(engine.Back{})
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) == "" {
				return m, nil
			}
			return m.handleInput(v)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := msg.Width - len(m.input.Prompt) - 1; w > 0 {
			m.input.Width = w
		}
		return m, nil

	case openMsg:
		return m.open(msg.path)

	case taskDoneMsg:
		if msg.ev == nil {
			return m, nil
		}
		return m.dispatch(msg.ev)

	case healthMsg:
		m.status = healthStatus(msg.health, msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.session.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleInput parses a submitted line and acts on it.
func (m model) handleInput(line string) (tea.Model, tea.Cmd) {
	m.status = ""
	intent, err := m.deps.Parser.Parse(m.ctx, line, m.session.View)
	if err != nil {
		m.deps.Log.Error("display: parse %q: %v", line, err)
		m.status = "Could not understand that."
		return m, nil
	}
	m.deps.Log.Debug("display: %s intent %s %q", m.session.View, intent.Type, intent.Payload)

	switch intent.Type {
	case domain.IntentQuit:
		return m.quit()
	case domain.IntentHelp:
		m.status = "Commands: " + strings.Join(conversation.Usage(m.session.View), " · ")
		return m, nil
	case domain.IntentHealth:
		return m, m.healthCmd()
	case domain.IntentDismissError:
		return m.dispatch(engine.DismissError{})
	case domain.IntentBack:
		return m.dispatch(engine.Back{})
	case domain.IntentRetake:
		return m.dispatch(engine.Retake{})
	case domain.IntentOpenImage:
		return m.open(intent.Payload)
	case domain.IntentRemoveItem:
		return m.remove(intent.Payload)
	case domain.IntentGenerate:
		return m.generate()
	case domain.IntentSelectRecipe:
		return m.selectRecipe(intent.Payload)
	case domain.IntentCheck:
		return m.check(intent.Payload), nil
	case domain.IntentRead:
		return m.read(intent.Payload), nil
	default:
		m.status = fmt.Sprintf("Unknown command %q. Type help.", line)
		return m, nil
	}
}

// open validates the photo synchronously; only a valid photo reaches the
// engine as a detection request.
func (m model) open(path string) (tea.Model, tea.Cmd) {
	if m.session.Loading {
		m.status = "Still working on the last request."
		return m, nil
	}
	img, err := m.deps.Load(path)
	if err != nil {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			m.deps.Log.Error("display: load %s: %v", path, err)
			err = &domain.ValidationError{Reason: "Could not read the file."}
		}
		return m.dispatch(engine.ValidationFailed{Err: err})
	}
	return m.dispatch(engine.ImageSelected{Image: img})
}

func (m model) remove(payload string) (tea.Model, tea.Cmd) {
	names := make([]string, len(m.session.Items))
	for i, it := range m.session.Items {
		names[i] = it.Name
	}
	idx, err := conversation.Resolve(payload, names)
	if err != nil {
		m.status = fmt.Sprintf("No item matches %q.", payload)
		return m, nil
	}
	m.status = fmt.Sprintf("Removed %s.", names[idx])
	return m.dispatch(engine.RemoveItem{Index: idx})
}

func (m model) generate() (tea.Model, tea.Cmd) {
	if len(m.session.Items) == 0 {
		m.status = "No items left. Retake the photo to start over."
		return m, nil
	}
	return m.dispatch(engine.GenerateRequested{})
}

func (m model) selectRecipe(payload string) (tea.Model, tea.Cmd) {
	names := make([]string, len(m.session.Recipes))
	for i, r := range m.session.Recipes {
		names[i] = r.Name
	}
	idx, err := conversation.Resolve(payload, names)
	if err != nil {
		m.status = fmt.Sprintf("No recipe matches %q.", payload)
		return m, nil
	}
	return m.dispatch(engine.SelectRecipe{Index: idx})
}

func (m model) check(payload string) model {
	r, ok := m.session.SelectedRecipe()
	if !ok {
		return m
	}
	n, err := strconv.Atoi(payload)
	if err != nil || n < 1 || n > len(r.Ingredients) {
		m.status = fmt.Sprintf("Pick an ingredient between 1 and %d.", len(r.Ingredients))
		return m
	}
	checked := make(map[int]bool, len(m.checked)+1)
	for k, v := range m.checked {
		checked[k] = v
	}
	checked[n-1] = !checked[n-1]
	m.checked = checked
	return m
}

func (m model) read(payload string) model {
	r, ok := m.session.SelectedRecipe()
	if !ok {
		m.status = speech.LineNothingToRead()
		return m
	}
	if !m.deps.SpeechOn {
		m.status = "Speech is off. Set AZURE_SPEECH_KEY and AZURE_SPEECH_REGION to enable it."
		return m
	}

	m.deps.Narrator.Interrupt()
	if payload == "" {
		m.deps.Narrator.Say(speech.LineRecipe(r))
		m.status = "Reading " + r.Name + "..."
		return m
	}
	n, _ := strconv.Atoi(payload)
	m.deps.Narrator.Say(speech.LineStep(r, n-1))
	m.status = fmt.Sprintf("Reading step %d...", n)
	return m
}

// dispatch applies ev and schedules the resulting task, if any.
func (m model) dispatch(ev engine.Event) (tea.Model, tea.Cmd) {
	prev := m.session
	next, task := m.deps.Engine.Apply(prev, ev)
	m.session = next

	if prev.View == domain.ViewRecipeDetail && next.View != domain.ViewRecipeDetail {
		m.deps.Narrator.Interrupt()
	}
	if next.Selected != prev.Selected || next.ID != prev.ID {
		m.checked = make(map[int]bool)
	}

	if task == nil {
		return m, nil
	}
	return m, tea.Batch(m.runTask(*task), m.spinner.Tick)
}

func (m model) runTask(t engine.Task) tea.Cmd {
	eng, ctx := m.deps.Engine, m.ctx
	return func() tea.Msg {
		return taskDoneMsg{ev: eng.Run(ctx, t)}
	}
}

func (m model) healthCmd() tea.Cmd {
	eng, ctx := m.deps.Engine, m.ctx
	return func() tea.Msg {
		h, err := eng.Health(ctx)
		return healthMsg{health: h, err: err}
	}
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.deps.Narrator.Interrupt()
	return m, tea.Quit
}

func healthStatus(h domain.Health, err error) string {
	if err != nil {
		return "Backend unreachable: " + err.Error()
	}
	var models []string
	for name, ok := range h.ModelsLoaded {
		state := "not loaded"
		if ok {
			state = "loaded"
		}
		models = append(models, name+" "+state)
	}
	sort.Strings(models)
	if len(models) == 0 {
		return "Backend " + h.Status
	}
	return fmt.Sprintf("Backend %s (%s)", h.Status, strings.Join(models, ", "))
}

// ── View ─────────────────────────────────────────────────────────

func (m model) View() string {
	var b strings.Builder
	s := m.session

	if s.View == domain.ViewUpload {
		b.WriteString(RenderBanner(m.width))
		b.WriteByte('\n')
	}
	b.WriteString(renderHeader(s))
	b.WriteString("\n\n")

	switch s.View {
	case domain.ViewUpload:
		b.WriteString(renderUpload(s))
	case domain.ViewDetection:
		b.WriteString(renderDetection(s, s.Loading))
	case domain.ViewRecipeList:
		b.WriteString(renderRecipeList(s, m.width))
	case domain.ViewRecipeDetail:
		b.WriteString(renderRecipeDetail(s, m.checked, m.width))
	}
	b.WriteString("\n")

	if s.Loading {
		b.WriteString("\n" + m.spinner.View() + " " + statusStyle.Render(loadingLabel(s.View)) + "\n")
	}
	if e := renderError(s.Err, m.width); e != "" {
		b.WriteString("\n" + e + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}

	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func loadingLabel(v domain.View) string {
	if v == domain.ViewUpload {
		return "Analyzing image..."
	}
	return "Generating Recipes..."
}
