// Package recipe provides an in-memory recipe service for offline use.
package recipe

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/bigbite/internal/domain"
	"github.com/hammamikhairi/bigbite/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.RecipeService = (*MemoryService)(nil)
	_ domain.HealthChecker = (*MemoryService)(nil)
)

// Option configures the MemoryService.
type Option func(*MemoryService)

// WithLatency delays every call by d to mimic a remote backend.
func WithLatency(d time.Duration) Option {
	return func(s *MemoryService) { s.latency = d }
}

// MemoryService detects ingredients from the photo's file name and serves
// recipes from a seeded catalogue. Safe for concurrent use.
type MemoryService struct {
	mu      sync.RWMutex
	recipes []domain.Recipe
	latency time.Duration
	log     *logger.Logger
}

// NewMemoryService creates a service preloaded with built-in recipes.
func NewMemoryService(log *logger.Logger, opts ...Option) *MemoryService {
	s := &MemoryService{log: log}
	for _, o := range opts {
		o(s)
	}
	s.seed()
	return s
}

// knownItems maps file-name keywords to the item they stand for.
var knownItems = []domain.DetectedItem{
	{Name: "egg", Confidence: 0.94},
	{Name: "tomato", Confidence: 0.91},
	{Name: "onion", Confidence: 0.83},
	{Name: "bell pepper", Confidence: 0.79},
	{Name: "spinach", Confidence: 0.76},
	{Name: "chicken", Confidence: 0.88},
	{Name: "rice", Confidence: 0.72},
	{Name: "cheese", Confidence: 0.81},
	{Name: "pasta", Confidence: 0.86},
	{Name: "garlic", Confidence: 0.68},
}

// defaultPantry is returned when the file name names no known item.
var defaultPantry = []domain.DetectedItem{
	{Name: "egg", Confidence: 0.92},
	{Name: "tomato", Confidence: 0.87},
	{Name: "onion", Confidence: 0.74},
}

// DetectFoodItems returns the known items whose name appears in the image
// file name ("eggs_and_tomatoes.jpg"), or a default pantry.
func (s *MemoryService) DetectFoodItems(ctx context.Context, img domain.Image) ([]domain.DetectedItem, error) {
	if err := s.wait(ctx); err != nil {
		return nil, &domain.DetectionError{Message: "Detection failed", Err: err}
	}

	base := strings.ToLower(strings.TrimSuffix(img.Name, filepath.Ext(img.Name)))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)

	var out []domain.DetectedItem
	for _, it := range knownItems {
		if strings.Contains(base, it.Name) {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		out = append(out, defaultPantry...)
	}

	s.log.Debug("demo: detected %d item(s) in %s", len(out), img.Name)
	return out, nil
}

// GenerateRecipes returns catalogue recipes using at least one of the
// ingredients, best overlap first. With no overlap the whole catalogue is
// returned.
func (s *MemoryService) GenerateRecipes(ctx context.Context, ingredients []string) ([]domain.Recipe, error) {
	if err := s.wait(ctx); err != nil {
		return nil, &domain.RecipeGenerationError{Message: "Recipe generation failed", Err: err}
	}
	if len(ingredients) == 0 {
		return nil, &domain.RecipeGenerationError{Message: "No ingredients provided", Status: 400}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		recipe domain.Recipe
		score  int
	}
	var hits []scored
	for _, r := range s.recipes {
		if n := overlap(r, ingredients); n > 0 {
			hits = append(hits, scored{r, n})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]domain.Recipe, 0, len(s.recipes))
	for _, h := range hits {
		out = append(out, h.recipe)
	}
	if len(out) == 0 {
		out = append(out, s.recipes...)
	}

	s.log.Debug("demo: %d recipe(s) for %v", len(out), ingredients)
	return out, nil
}

// Health always reports a running backend.
func (s *MemoryService) Health(ctx context.Context) (domain.Health, error) {
	return domain.Health{
		Status:       "demo",
		ModelsLoaded: map[string]bool{"catalogue": true},
	}, nil
}

func (s *MemoryService) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// overlap counts the ingredients mentioned in r's ingredient lines.
func overlap(r domain.Recipe, ingredients []string) int {
	n := 0
	for _, want := range ingredients {
		w := strings.ToLower(want)
		for _, line := range r.Ingredients {
			if strings.Contains(strings.ToLower(line), w) {
				n++
				break
			}
		}
	}
	return n
}

// ── Seed data ────────────────────────────────────────────────────

func (s *MemoryService) seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipes = []domain.Recipe{
		shakshuka(),
		spinachOmelette(),
		chickenFriedRice(),
		tomatoPasta(),
	}
	s.log.Debug("seeded %d demo recipes", len(s.recipes))
}

func shakshuka() domain.Recipe {
	return domain.Recipe{
		Name:        "Shakshuka",
		Description: "Eggs poached in a spiced tomato and pepper sauce.",
		Time:        "30 mins",
		Servings:    2,
		Difficulty:  "Easy",
		Ingredients: []string{
			"4 eggs",
			"400g crushed tomato",
			"1 onion, diced",
			"1 red bell pepper, sliced",
			"2 cloves garlic, minced",
			"1 tsp cumin",
			"1 tsp paprika",
			"Olive oil, salt, pepper",
		},
		Steps: []string{
			"Warm olive oil in a wide pan over medium heat.",
			"Soften the onion and bell pepper for 5 minutes.",
			"Add garlic, cumin and paprika and cook for 1 minute.",
			"Pour in the tomato and simmer for 10 minutes until thickened.",
			"Make four wells and crack an egg into each.",
			"Cover and cook for 6 to 8 minutes until the whites are set.",
			"Season and serve with bread.",
		},
	}
}

func spinachOmelette() domain.Recipe {
	return domain.Recipe{
		Name:        "Spinach and Cheese Omelette",
		Description: "A quick folded omelette with wilted spinach.",
		Time:        "10 mins",
		Servings:    1,
		Difficulty:  "Easy",
		Ingredients: []string{
			"3 eggs",
			"1 handful spinach",
			"30g grated cheese",
			"1 tbsp butter",
			"Salt and pepper",
		},
		Steps: []string{
			"Beat the eggs with salt and pepper.",
			"Melt butter in a non-stick pan and wilt the spinach.",
			"Pour in the eggs and stir gently until just set.",
			"Scatter the cheese over one half and fold.",
		},
	}
}

func chickenFriedRice() domain.Recipe {
	return domain.Recipe{
		Name:        "Chicken Fried Rice",
		Description: "Day-old rice stir-fried with chicken, egg and vegetables.",
		Time:        "25 mins",
		Servings:    3,
		Difficulty:  "Medium",
		Ingredients: []string{
			"300g cooked rice, cold",
			"2 chicken breasts, diced",
			"2 eggs",
			"1 onion, diced",
			"1 bell pepper, diced",
			"2 cloves garlic",
			"3 tbsp soy sauce",
			"2 tbsp vegetable oil",
		},
		Steps: []string{
			"Heat oil in a wok over high heat and brown the chicken. Set aside.",
			"Scramble the eggs in the wok and set aside.",
			"Stir-fry onion, pepper and garlic for 3 minutes.",
			"Add the rice and toss until heated through.",
			"Return chicken and egg, add soy sauce and toss to combine.",
		},
	}
}

func tomatoPasta() domain.Recipe {
	return domain.Recipe{
		Name:        "Garlic Tomato Pasta",
		Description: "Pantry pasta in a fresh tomato and garlic sauce.",
		Time:        "20 mins",
		Servings:    2,
		Difficulty:  "Easy",
		Ingredients: []string{
			"200g pasta",
			"4 ripe tomato, chopped",
			"3 cloves garlic, sliced",
			"Olive oil",
			"Grated cheese to serve",
		},
		Steps: []string{
			"Cook the pasta in salted water until al dente.",
			"Gently fry the garlic in olive oil.",
			"Add tomato and cook down for 8 minutes.",
			"Toss with the drained pasta and top with cheese.",
		},
	}
}
