package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentOpenImage     // choose a photo; payload is the file path
	IntentRemoveItem    // drop a detected item; payload is a number or name
	IntentGenerate      // ask for recipes from the current items
	IntentSelectRecipe  // open a recipe; payload is a number or name
	IntentBack          // go to the previous screen
	IntentRetake        // start over with a new photo
	IntentCheck         // tick an ingredient on the detail screen
	IntentRead          // narrate the selected recipe
	IntentDismissError  // hide the error banner
	IntentHealth        // query the backend health endpoint
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentOpenImage:
		return "open_image"
	case IntentRemoveItem:
		return "remove_item"
	case IntentGenerate:
		return "generate"
	case IntentSelectRecipe:
		return "select_recipe"
	case IntentBack:
		return "back"
	case IntentRetake:
		return "retake"
	case IntentCheck:
		return "check"
	case IntentRead:
		return "read"
	case IntentDismissError:
		return "dismiss_error"
	case IntentHealth:
		return "health"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // optional argument, e.g. a path or an item number
}
