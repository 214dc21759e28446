package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNoItemsDetected = errors.New("no food items detected")
	ErrNoRecipes       = errors.New("no recipes generated")
	ErrBusy            = errors.New("a request is already in progress")
	ErrNotFound        = errors.New("not found")
)

// ValidationError is a client-side rejection of the chosen photo. It never
// reaches the network.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// DetectionError reports a failed detect call: transport failure,
// non-success status, undecodable body, or an empty result.
type DetectionError struct {
	Message string // human-readable, shown to the user
	Status  int    // HTTP status, 0 when no response was received
	Err     error
}

func (e *DetectionError) Error() string { return e.Message }

func (e *DetectionError) Unwrap() error { return e.Err }

// RecipeGenerationError reports a failed generate call under the same
// conditions as DetectionError.
type RecipeGenerationError struct {
	Message string
	Status  int
	Err     error
}

func (e *RecipeGenerationError) Error() string { return e.Message }

func (e *RecipeGenerationError) Unwrap() error { return e.Err }

// UserMessage returns the text to show for err. Errors from the taxonomy
// carry their own message; anything else falls back to fallback.
func UserMessage(err error, fallback string) string {
	var (
		ve *ValidationError
		de *DetectionError
		ge *RecipeGenerationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Reason
	case errors.As(err, &de):
		return de.Message
	case errors.As(err, &ge):
		return ge.Message
	case fallback != "":
		return fallback
	default:
		return err.Error()
	}
}
