package display

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hammamikhairi/bigbite/internal/domain"
)

// Screen renderers are pure functions of the session. Each returns the
// body shown below the header.

func renderHeader(s domain.Session) string {
	title := titleStyle.Render(s.Title())
	if s.View == domain.ViewUpload {
		return title
	}
	return backHintStyle.Render("← esc  ") + title
}

func renderUpload(s domain.Session) string {
	var b strings.Builder
	b.WriteString(primaryStyle.Render("Snap your ingredients and get recipe ideas."))
	b.WriteString("\n\n")
	if s.ImageName != "" {
		fmt.Fprintf(&b, "%s %s\n", secondaryStyle.Render("Photo:"), nameStyle.Render(s.ImageName))
		if info := previewInfo(s.ImagePreview); info != "" {
			b.WriteString(secondaryStyle.Render("       "+info) + "\n")
		}
		b.WriteByte('\n')
	}
	b.WriteString(secondaryStyle.Render("Type the path of a JPG, PNG, WEBP or HEIC photo (max 25 MiB),"))
	b.WriteByte('\n')
	b.WriteString(secondaryStyle.Render("or drop the file onto this window, then press enter."))
	return b.String()
}

func renderDetection(s domain.Session, loading bool) string {
	var b strings.Builder
	if s.ImageName != "" {
		fmt.Fprintf(&b, "%s %s", secondaryStyle.Render("From"), nameStyle.Render(s.ImageName))
		if info := previewInfo(s.ImagePreview); info != "" {
			b.WriteString(secondaryStyle.Render("  (" + info + ")"))
		}
		b.WriteString("\n\n")
	}

	if len(s.Items) == 0 {
		b.WriteString(secondaryStyle.Render("All items removed. Retake the photo to start over."))
		b.WriteString("\n\n")
	}
	for i, it := range s.Items {
		fmt.Fprintf(&b, "%s %s  %s\n",
			secondaryStyle.Render(fmt.Sprintf("%2d.", i+1)),
			nameStyle.Render(it.Name),
			matchStyle.Render(fmt.Sprintf("%d%% match", it.Match())),
		)
	}
	if len(s.Items) > 0 {
		b.WriteByte('\n')
	}

	b.WriteString(generateButton(len(s.Items), loading))
	return b.String()
}

func generateButton(n int, loading bool) string {
	switch {
	case loading:
		return buttonDisabledStyle.Render("Generating Recipes...")
	case n == 0:
		return buttonDisabledStyle.Render("Generate Recipes (0 items)")
	default:
		return buttonStyle.Render(fmt.Sprintf("Generate Recipes (%d items)", n))
	}
}

func renderRecipeList(s domain.Session, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", secondaryStyle.Render(fmt.Sprintf("%d recipes from your ingredients", len(s.Recipes))))

	cw := cardWidth(width)
	for i, r := range s.Recipes {
		var card strings.Builder
		fmt.Fprintf(&card, "%s %s", secondaryStyle.Render(fmt.Sprintf("%d.", i+1)), nameStyle.Render(r.Name))
		if r.Description != "" {
			card.WriteString("\n" + primaryStyle.Render(r.Description))
		}
		if meta := recipeMeta(r); meta != "" {
			card.WriteString("\n" + secondaryStyle.Render(meta))
		}
		b.WriteString(cardStyle.Width(cw).Render(card.String()))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderRecipeDetail(s domain.Session, checked map[int]bool, width int) string {
	r, ok := s.SelectedRecipe()
	if !ok {
		return secondaryStyle.Render("No recipe selected.")
	}

	var b strings.Builder
	if len(s.Recipes) > 1 {
		b.WriteString(recipeTabs(s))
		b.WriteString("\n\n")
	}

	if meta := recipeMeta(r); meta != "" {
		b.WriteString(secondaryStyle.Render(meta) + "\n")
	}
	if r.Description != "" {
		b.WriteString(primaryStyle.Width(cardWidth(width)).Render(r.Description) + "\n")
	}

	b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("Ingredients (%d/%d)", countChecked(checked, len(r.Ingredients)), len(r.Ingredients))) + "\n")
	for i, ing := range r.Ingredients {
		box := "[ ]"
		style := primaryStyle
		if checked[i] {
			box = "[x]"
			style = secondaryStyle.Strikethrough(true)
		}
		fmt.Fprintf(&b, "%s %s %s\n", secondaryStyle.Render(fmt.Sprintf("%2d", i+1)), box, style.Render(ing))
	}

	b.WriteString("\n" + sectionStyle.Render("Steps") + "\n")
	for i, step := range r.Steps {
		fmt.Fprintf(&b, "%s %s\n", nameStyle.Render(fmt.Sprintf("%2d.", i+1)), primaryStyle.Render(step))
	}
	return b.String()
}

// recipeTabs is the switcher row across all recipes.
func recipeTabs(s domain.Session) string {
	tabs := make([]string, len(s.Recipes))
	for i, r := range s.Recipes {
		label := fmt.Sprintf("%d %s", i+1, r.Name)
		if i == s.Selected {
			tabs[i] = tabActiveStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	return strings.Join(tabs, " ")
}

func renderError(msg string, width int) string {
	if msg == "" {
		return ""
	}
	text := msg + secondaryStyle.Render("  (dismiss)")
	return errorStyle.Width(cardWidth(width)).Render(text)
}

// recipeMeta renders "30 mins · Serves 2 · Easy", skipping unknown parts.
func recipeMeta(r domain.Recipe) string {
	var parts []string
	if r.Time != "" {
		parts = append(parts, r.Time)
	}
	if r.Servings > 0 {
		parts = append(parts, fmt.Sprintf("Serves %d", r.Servings))
	}
	if r.Difficulty != "" {
		parts = append(parts, r.Difficulty)
	}
	return strings.Join(parts, " · ")
}

// previewInfo describes a data: URL preview as "image/png, 1.2 MiB".
func previewInfo(dataURL string) string {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return ""
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return ""
	}
	mediaType, _, _ := strings.Cut(meta, ";")
	size := base64.StdEncoding.DecodedLen(len(payload)) - strings.Count(payload, "=")
	return fmt.Sprintf("%s, %s", mediaType, humanize.IBytes(uint64(max(size, 0))))
}

func countChecked(checked map[int]bool, n int) int {
	c := 0
	for i := 0; i < n; i++ {
		if checked[i] {
			c++
		}
	}
	return c
}

func cardWidth(width int) int {
	if width <= 0 {
		return 76
	}
	return max(width-4, 20)
}
