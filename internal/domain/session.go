package domain

// View is the screen currently shown in the navigation flow.
type View int

const (
	ViewUpload View = iota
	ViewDetection
	ViewRecipeList
	ViewRecipeDetail
)

// String returns a human-readable view name.
func (v View) String() string {
	switch v {
	case ViewUpload:
		return "upload"
	case ViewDetection:
		return "detection"
	case ViewRecipeList:
		return "recipe_list"
	case ViewRecipeDetail:
		return "recipe_detail"
	default:
		return "unknown"
	}
}

// Title returns the header shown above the screen.
func (v View) Title() string {
	switch v {
	case ViewUpload:
		return "Upload Image"
	case ViewDetection:
		return "Detected Items"
	case ViewRecipeList:
		return "Recipe Suggestions"
	case ViewRecipeDetail:
		return "Recipe"
	default:
		return "BigBite"
	}
}

// NoSelection marks a session without a selected recipe.
const NoSelection = -1

// Session is the client's working data for the current flow. It is treated
// as an immutable value: transitions return a new Session and never modify
// the slices of the one they were given.
type Session struct {
	ID           string
	View         View
	Items        []DetectedItem
	Recipes      []Recipe
	Selected     int // index into Recipes, or NoSelection
	ImageName    string
	ImagePreview string // data URL, empty when unset
	Loading      bool
	Err          string // empty when unset

	// Token is the last request token handed out. Pending is the token of
	// the request currently in flight, 0 when idle.
	Token   uint64
	Pending uint64
}

// NewSession returns the initial session: the Upload screen with an empty
// working set.
func NewSession(id string) Session {
	return Session{
		ID:       id,
		View:     ViewUpload,
		Selected: NoSelection,
	}
}

// SelectedRecipe returns the selected recipe, if any.
func (s Session) SelectedRecipe() (Recipe, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Recipes) {
		return Recipe{}, false
	}
	return s.Recipes[s.Selected], true
}

// HasError reports whether an error message is set.
func (s Session) HasError() bool { return s.Err != "" }

// Title returns the header for the current view. The detail screen is
// titled with the recipe name.
func (s Session) Title() string {
	if s.View == ViewRecipeDetail {
		if r, ok := s.SelectedRecipe(); ok && r.Name != "" {
			return r.Name
		}
	}
	return s.View.Title()
}

// WithoutItem returns a copy of items with index i removed. Relative order
// of the remaining items is preserved. Out-of-range indexes return a copy
// of the input.
func WithoutItem(items []DetectedItem, i int) []DetectedItem {
	out := make([]DetectedItem, 0, len(items))
	for j, it := range items {
		if j != i {
			out = append(out, it)
		}
	}
	return out
}
