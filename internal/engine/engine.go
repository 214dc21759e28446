// Package engine implements the BigBite view state machine. Transitions are
// computed by Apply as pure functions of (Session, Event); remote calls are
// returned as Tasks and executed separately by Run.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/hammamikhairi/bigbite/internal/domain"
	"github.com/hammamikhairi/bigbite/internal/logger"
)

// Option configures the engine.
type Option func(*Engine)

// WithIDGenerator overrides the session ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// Engine drives the upload → detection → recipes flow. It depends only on
// interfaces and is fully testable with fakes.
type Engine struct {
	svc   domain.RecipeService
	log   *logger.Logger
	newID func() string
}

// New creates an engine backed by the given recipe service.
func New(svc domain.RecipeService, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		svc:   svc,
		log:   log,
		newID: generateID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewSession returns a fresh session on the Upload screen.
func (e *Engine) NewSession() domain.Session {
	s := domain.NewSession(e.newID())
	e.log.Debug("engine: new session %s", s.ID)
	return s
}

// backTo is the static predecessor table. Views missing from it (Upload)
// go back to Upload through a reset.
var backTo = map[domain.View]domain.View{
	domain.ViewRecipeDetail: domain.ViewRecipeList,
	domain.ViewRecipeList:   domain.ViewDetection,
	domain.ViewDetection:    domain.ViewUpload,
}

// Previous returns the view Back leads to from v.
func Previous(v domain.View) domain.View {
	if p, ok := backTo[v]; ok {
		return p
	}
	return domain.ViewUpload
}

// Apply computes the session that follows s on ev, plus the remote call to
// perform, if any. s is never modified.
func (e *Engine) Apply(s domain.Session, ev Event) (domain.Session, *Task) {
	switch ev := ev.(type) {
	case ImageSelected:
		return e.imageSelected(s, ev)
	case ValidationFailed:
		s.Err = domain.UserMessage(ev.Err, "Invalid file")
		e.log.Info("engine: photo rejected: %s", s.Err)
		return s, nil
	case DetectionCompleted:
		return e.detectionCompleted(s, ev), nil
	case RemoveItem:
		return e.removeItem(s, ev), nil
	case GenerateRequested:
		return e.generateRequested(s)
	case GenerationCompleted:
		return e.generationCompleted(s, ev), nil
	case SelectRecipe:
		return e.selectRecipe(s, ev), nil
	case Back:
		return e.back(s), nil
	case Retake:
		return e.reset(s), nil
	case DismissError:
		s.Err = ""
		return s, nil
	default:
		e.log.Warn("engine: unhandled event %T", ev)
		return s, nil
	}
}

func (e *Engine) imageSelected(s domain.Session, ev ImageSelected) (domain.Session, *Task) {
	if s.View != domain.ViewUpload {
		e.log.Debug("engine: image ignored on %s", s.View)
		return s, nil
	}
	if s.Loading {
		e.log.Warn("engine: image %s refused: %v", ev.Image.Name, domain.ErrBusy)
		return s, nil
	}

	s = begin(s)
	s.ImageName = ev.Image.Name
	s.ImagePreview = ev.Image.DataURL()
	s.Items = nil
	s.Recipes = nil
	s.Selected = domain.NoSelection

	e.log.Info("engine: detecting %s (%s, %d bytes) token=%d", ev.Image.Name, ev.Image.MediaType, ev.Image.Size(), s.Pending)
	return s, &Task{Kind: TaskDetect, Token: s.Pending, Image: ev.Image}
}

func (e *Engine) detectionCompleted(s domain.Session, ev DetectionCompleted) domain.Session {
	if !e.current(s, ev.Token, TaskDetect) {
		return s
	}
	s = finish(s)

	switch {
	case ev.Err != nil:
		s.Err = domain.UserMessage(ev.Err, "Detection failed")
		e.log.Warn("engine: detection failed: %v", ev.Err)
	case len(ev.Items) == 0:
		s.Err = "No food items detected. Please try another image."
	default:
		s.Items = append([]domain.DetectedItem(nil), ev.Items...)
		s.View = domain.ViewDetection
	}
	return s
}

func (e *Engine) removeItem(s domain.Session, ev RemoveItem) domain.Session {
	if s.View != domain.ViewDetection || s.Loading {
		return s
	}
	if ev.Index < 0 || ev.Index >= len(s.Items) {
		e.log.Debug("engine: remove index %d out of range", ev.Index)
		return s
	}
	e.log.Debug("engine: removed %q", s.Items[ev.Index].Name)
	s.Items = domain.WithoutItem(s.Items, ev.Index)
	return s
}

func (e *Engine) generateRequested(s domain.Session) (domain.Session, *Task) {
	if s.View != domain.ViewDetection {
		return s, nil
	}
	if s.Loading {
		e.log.Warn("engine: generate refused: %v", domain.ErrBusy)
		return s, nil
	}
	if len(s.Items) == 0 {
		e.log.Info("engine: generate refused: no items")
		return s, nil
	}

	names := domain.IngredientNames(s.Items)
	s = begin(s)
	e.log.Info("engine: generating recipes for %v token=%d", names, s.Pending)
	return s, &Task{Kind: TaskGenerate, Token: s.Pending, Ingredients: names}
}

func (e *Engine) generationCompleted(s domain.Session, ev GenerationCompleted) domain.Session {
	if !e.current(s, ev.Token, TaskGenerate) {
		return s
	}
	s = finish(s)

	switch {
	case ev.Err != nil:
		s.Err = domain.UserMessage(ev.Err, "Recipe generation failed")
		e.log.Warn("engine: generation failed: %v", ev.Err)
	case len(ev.Recipes) == 0:
		s.Err = "No recipes generated. Please try again."
	default:
		s.Recipes = append([]domain.Recipe(nil), ev.Recipes...)
		s.Selected = domain.NoSelection
		s.View = domain.ViewRecipeList
	}
	return s
}

func (e *Engine) selectRecipe(s domain.Session, ev SelectRecipe) domain.Session {
	if s.View != domain.ViewRecipeList && s.View != domain.ViewRecipeDetail {
		return s
	}
	if ev.Index < 0 || ev.Index >= len(s.Recipes) {
		e.log.Debug("engine: recipe index %d out of range", ev.Index)
		return s
	}
	s.Selected = ev.Index
	s.View = domain.ViewRecipeDetail
	return s
}

func (e *Engine) back(s domain.Session) domain.Session {
	prev := Previous(s.View)
	if prev == domain.ViewUpload {
		return e.reset(s)
	}
	if s.View == domain.ViewRecipeDetail {
		s.Selected = domain.NoSelection
	}
	s.View = prev
	return s
}

// reset returns the initial working set under a new ID. The token counter
// survives so completions of abandoned requests are recognised as stale.
func (e *Engine) reset(s domain.Session) domain.Session {
	next := domain.NewSession(e.newID())
	next.Token = s.Token
	if s.Pending != 0 {
		e.log.Info("engine: abandoning request token=%d", s.Pending)
	}
	e.log.Debug("engine: reset %s -> %s", s.ID, next.ID)
	return next
}

// current reports whether a completion belongs to the outstanding request.
func (e *Engine) current(s domain.Session, token uint64, kind TaskKind) bool {
	if s.Pending == 0 || token != s.Pending {
		e.log.Debug("engine: discarding stale %s result token=%d pending=%d", kind, token, s.Pending)
		return false
	}
	return true
}

func begin(s domain.Session) domain.Session {
	s.Token++
	s.Pending = s.Token
	s.Loading = true
	s.Err = ""
	return s
}

func finish(s domain.Session) domain.Session {
	s.Pending = 0
	s.Loading = false
	return s
}

// Run performs the remote call described by t and returns the completion
// event. It blocks and is meant to run off the event loop.
func (e *Engine) Run(ctx context.Context, t Task) Event {
	switch t.Kind {
	case TaskDetect:
		items, err := e.svc.DetectFoodItems(ctx, t.Image)
		return DetectionCompleted{Token: t.Token, Items: items, Err: err}
	case TaskGenerate:
		recipes, err := e.svc.GenerateRecipes(ctx, t.Ingredients)
		return GenerationCompleted{Token: t.Token, Recipes: recipes, Err: err}
	default:
		e.log.Error("engine: unknown task kind %d", t.Kind)
		return nil
	}
}

// ErrHealthUnsupported is returned by Health when the service cannot
// report its status.
var ErrHealthUnsupported = errors.New("engine: health check not supported")

// Health reports backend status when the service supports it.
func (e *Engine) Health(ctx context.Context) (domain.Health, error) {
	hc, ok := e.svc.(domain.HealthChecker)
	if !ok {
		return domain.Health{}, ErrHealthUnsupported
	}
	h, err := hc.Health(ctx)
	if err != nil {
		return domain.Health{}, fmt.Errorf("engine: health: %w", err)
	}
	return h, nil
}
