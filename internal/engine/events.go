package engine

import "github.com/hammamikhairi/bigbite/internal/domain"

// Event is an input to the view state machine.
type Event interface {
	event()
}

// ImageSelected carries a photo that passed client-side validation.
type ImageSelected struct {
	Image domain.Image
}

// ValidationFailed reports a photo rejected before any network call.
type ValidationFailed struct {
	Err error
}

// DetectionCompleted is the outcome of a detect Task.
type DetectionCompleted struct {
	Token uint64
	Items []domain.DetectedItem
	Err   error
}

// RemoveItem drops the detected item at Index.
type RemoveItem struct {
	Index int
}

// GenerateRequested asks for recipes from the current items.
type GenerateRequested struct{}

// GenerationCompleted is the outcome of a generate Task.
type GenerationCompleted struct {
	Token   uint64
	Recipes []domain.Recipe
	Err     error
}

// SelectRecipe opens the recipe at Index.
type SelectRecipe struct {
	Index int
}

// Back moves to the previous screen.
type Back struct{}

// Retake discards the working set and returns to the Upload screen.
type Retake struct{}

// DismissError hides the error banner.
type DismissError struct{}

func (ImageSelected) event()       {}
func (ValidationFailed) event()    {}
func (DetectionCompleted) event()  {}
func (RemoveItem) event()          {}
func (GenerateRequested) event()   {}
func (GenerationCompleted) event() {}
func (SelectRecipe) event()        {}
func (Back) event()                {}
func (Retake) event()              {}
func (DismissError) event()        {}

// TaskKind identifies the remote call a Task performs.
type TaskKind int

const (
	TaskDetect TaskKind = iota
	TaskGenerate
)

// String returns a human-readable task kind.
func (k TaskKind) String() string {
	switch k {
	case TaskDetect:
		return "detect"
	case TaskGenerate:
		return "generate"
	default:
		return "unknown"
	}
}

// Task is a remote call requested by a transition. The caller executes it
// off the event loop with Engine.Run and feeds the resulting event back.
type Task struct {
	Kind        TaskKind
	Token       uint64
	Image       domain.Image // TaskDetect
	Ingredients []string     // TaskGenerate
}
