package display

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/bigbite/internal/conversation"
	"github.com/hammamikhairi/bigbite/internal/domain"
	"github.com/hammamikhairi/bigbite/internal/engine"
	"github.com/hammamikhairi/bigbite/internal/logger"
	"github.com/hammamikhairi/bigbite/internal/recipe"
)

// recordingNarrator remembers what it was asked to say.
type recordingNarrator struct {
	said       []string
	interrupts int
}

func (n *recordingNarrator) Say(text string) { n.said = append(n.said, text) }
func (n *recordingNarrator) Interrupt()      { n.interrupts++ }

func stubLoad(path string) (domain.Image, error) {
	switch {
	case strings.HasSuffix(path, ".txt"):
		return domain.Image{}, &domain.ValidationError{Reason: "Invalid file type. Support: JPG, PNG, WEBP, HEIC"}
	case strings.Contains(path, "locked"):
		return domain.Image{}, errors.New("permission denied")
	}
	return domain.Image{Name: path, MediaType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}, nil
}

func setupModel(t *testing.T) (model, *recordingNarrator) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	narr := &recordingNarrator{}
	m := newModel(context.Background(), Deps{
		Engine:   engine.New(recipe.NewMemoryService(log), log),
		Parser:   conversation.NewKeywordParser(log),
		Narrator: narr,
		Load:     stubLoad,
		Log:      log,
		SpeechOn: true,
	})
	return m, narr
}

// submit types line and presses enter, running any resulting commands.
func submit(t *testing.T, m model, line string) model {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return settle(t, next.(model), cmd)
}

// settle executes cmd and feeds task and health results back into the
// model until nothing is left.
func settle(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = settle(t, m, c)
		}
	case taskDoneMsg, healthMsg, openMsg:
		next, more := m.Update(msg)
		m = settle(t, next.(model), more)
	}
	return m
}

func TestFullFlow(t *testing.T) {
	m, narr := setupModel(t)

	m = submit(t, m, "open eggs_spinach_cheese.jpg")
	if m.session.View != domain.ViewDetection {
		t.Fatalf("expected detection view, got %s (err %q)", m.session.View, m.session.Err)
	}
	view := m.View()
	for _, want := range []string{"Detected Items", "egg", "94% match", "Generate Recipes (3 items)"} {
		if !strings.Contains(view, want) {
			t.Errorf("detection view missing %q", want)
		}
	}

	m = submit(t, m, "remove cheese")
	if len(m.session.Items) != 2 {
		t.Fatalf("expected 2 items after removal, got %d", len(m.session.Items))
	}

	m = submit(t, m, "generate")
	if m.session.View != domain.ViewRecipeList {
		t.Fatalf("expected recipe list, got %s (err %q)", m.session.View, m.session.Err)
	}
	if !strings.Contains(m.View(), "Recipe Suggestions") {
		t.Error("recipe list view missing title")
	}

	m = submit(t, m, "pick omelette")
	if m.session.View != domain.ViewRecipeDetail {
		t.Fatalf("expected recipe detail, got %s (status %q)", m.session.View, m.status)
	}
	if !strings.Contains(m.View(), "Spinach and Cheese Omelette") {
		t.Error("detail view missing recipe name")
	}

	m = submit(t, m, "check 2")
	if !m.checked[1] || !strings.Contains(m.View(), "Ingredients (1/5)") {
		t.Fatalf("expected ingredient 2 checked, got %v", m.checked)
	}

	m = submit(t, m, "read")
	if len(narr.said) != 1 || !strings.HasPrefix(narr.said[0], "Spinach and Cheese Omelette.") {
		t.Fatalf("expected narration of the recipe, got %q", narr.said)
	}

	before := narr.interrupts
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)
	if m.session.View != domain.ViewRecipeList {
		t.Fatalf("esc should go back to the list, got %s", m.session.View)
	}
	if narr.interrupts == before {
		t.Fatal("leaving the detail screen should interrupt narration")
	}
	if len(m.checked) != 0 {
		t.Fatal("checklist should reset when the selection changes")
	}

	m = submit(t, m, "retake")
	if m.session.View != domain.ViewUpload || len(m.session.Items) != 0 {
		t.Fatalf("expected reset to upload, got %+v", m.session)
	}
}

func TestValidationErrorBanner(t *testing.T) {
	m, _ := setupModel(t)

	m = submit(t, m, "notes.txt")
	if m.session.View != domain.ViewUpload {
		t.Fatalf("expected upload view, got %s", m.session.View)
	}
	if !strings.Contains(m.View(), "Invalid file type") {
		t.Fatal("expected error banner")
	}

	m = submit(t, m, "dismiss")
	if m.session.HasError() || strings.Contains(m.View(), "Invalid file type") {
		t.Fatal("expected error to be dismissed")
	}

	m = submit(t, m, "/photos/locked.png")
	if m.session.Err != "Could not read the file." {
		t.Fatalf("expected read error, got %q", m.session.Err)
	}
}

func TestUnknownAndHelp(t *testing.T) {
	m, _ := setupModel(t)
	m = submit(t, m, "eggs.jpg")

	m = submit(t, m, "fly away")
	if !strings.Contains(m.status, "Unknown command") {
		t.Fatalf("unexpected status %q", m.status)
	}

	m = submit(t, m, "help")
	if !strings.Contains(m.status, "remove <n|name>") {
		t.Fatalf("expected detection help, got %q", m.status)
	}
}

func TestHealthCommand(t *testing.T) {
	m, _ := setupModel(t)
	m = submit(t, m, "health")
	if m.status != "Backend demo (catalogue loaded)" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestReadWithSpeechOff(t *testing.T) {
	m, narr := setupModel(t)
	m.deps.SpeechOn = false

	m = submit(t, m, "eggs.jpg")
	m = submit(t, m, "generate")
	m = submit(t, m, "1")
	m = submit(t, m, "read")
	if len(narr.said) != 0 || !strings.HasPrefix(m.status, "Speech is off") {
		t.Fatalf("expected speech-off status, got %q (said %q)", m.status, narr.said)
	}
}

func TestPreviewInfo(t *testing.T) {
	img := domain.Image{MediaType: "image/png", Data: make([]byte, 2048)}
	if got := previewInfo(img.DataURL()); got != "image/png, 2.0 KiB" {
		t.Fatalf("unexpected preview info %q", got)
	}
	if got := previewInfo(""); got != "" {
		t.Fatalf("expected empty info, got %q", got)
	}
}

func TestHealthStatus(t *testing.T) {
	got := healthStatus(domain.Health{Status: "running", ModelsLoaded: map[string]bool{"yolov8": true, "ollama": false}}, nil)
	if got != "Backend running (ollama not loaded, yolov8 loaded)" {
		t.Fatalf("unexpected status %q", got)
	}
	if got := healthStatus(domain.Health{}, errors.New("dial tcp: refused")); !strings.HasPrefix(got, "Backend unreachable") {
		t.Fatalf("unexpected status %q", got)
	}
}
