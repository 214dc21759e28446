package domain

import "context"

// RecipeService is the remote side of the workflow: it turns a photo into
// detected items and a set of ingredient names into recipes. Implementations
// can be the HTTP gateway or the in-memory demo catalogue.
type RecipeService interface {
	DetectFoodItems(ctx context.Context, img Image) ([]DetectedItem, error)
	GenerateRecipes(ctx context.Context, ingredients []string) ([]Recipe, error)
}

// HealthChecker is optionally implemented by a RecipeService that can
// report backend status.
type HealthChecker interface {
	Health(ctx context.Context) (Health, error)
}

// Health is the backend status report.
type Health struct {
	Status       string
	ModelsLoaded map[string]bool
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string, view View) (*Intent, error)
}

// Narrator reads text aloud. The silent implementation is used when speech
// is disabled.
type Narrator interface {
	Say(text string)
	Interrupt()
}
