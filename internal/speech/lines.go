// Package speech reads recipes aloud: Azure text-to-speech, a two-tier
// audio cache and local playback through oto.
//
// lines.go holds every spoken string. Keep lines short and direct; the TTS
// engine handles inflection.
package speech

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/bigbite/internal/domain"
)

// LineRecipe is the full read-out of a recipe: overview, ingredients, then
// numbered steps.
func LineRecipe(r domain.Recipe) string {
	var b strings.Builder
	b.WriteString(sentence(r.Name))
	if r.Description != "" {
		b.WriteString(" " + sentence(r.Description))
	}
	if meta := lineMeta(r); meta != "" {
		b.WriteString(" " + meta)
	}
	if len(r.Ingredients) > 0 {
		b.WriteString(" You'll need: " + joinList(r.Ingredients) + ".")
	}
	for i, step := range r.Steps {
		fmt.Fprintf(&b, " Step %d. %s", i+1, sentence(step))
	}
	return b.String()
}

// LineStep reads one step on its own.
func LineStep(r domain.Recipe, i int) string {
	if i < 0 || i >= len(r.Steps) {
		return LineNoSuchStep(i + 1)
	}
	return fmt.Sprintf("Step %d of %d. %s", i+1, len(r.Steps), sentence(r.Steps[i]))
}

func LineNoSuchStep(n int) string {
	return fmt.Sprintf("There is no step %d.", n)
}

func LineNothingToRead() string {
	return "Pick a recipe first."
}

func lineMeta(r domain.Recipe) string {
	var parts []string
	if r.Servings > 0 {
		parts = append(parts, fmt.Sprintf("Serves %d", r.Servings))
	}
	if r.Time != "" {
		parts = append(parts, "takes "+r.Time)
	}
	if r.Difficulty != "" {
		parts = append(parts, "difficulty "+strings.ToLower(r.Difficulty))
	}
	if len(parts) == 0 {
		return ""
	}
	s := strings.Join(parts, ", ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// joinList renders "a", "a and b", "a, b, and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// sentence trims s and makes sure it ends with punctuation.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if !isSentenceEnd(rune(s[len(s)-1])) {
		s += "."
	}
	return s
}
