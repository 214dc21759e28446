// Package domain defines the core types and interfaces for BigBite.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DetectedItem is an ingredient recognised in the uploaded photo.
type DetectedItem struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"` // in [0,1]
}

// Match returns the confidence as a whole percentage, e.g. 87 for 0.874.
func (d DetectedItem) Match() int {
	c := d.Confidence
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return int(c*100 + 0.5)
}

// Recipe is a generated cooking suggestion.
type Recipe struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Time        string   `json:"time"`
	Servings    int      `json:"servings"`
	Difficulty  string   `json:"difficulty"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// UnmarshalJSON accepts servings as a JSON number or a numeric string
// ("4", "4 people"). Anything else decodes as 0.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type alias Recipe
	aux := &struct {
		Servings json.RawMessage `json:"servings"`
		*alias
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	r.Servings = parseServings(aux.Servings)
	return nil
}

func parseServings(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return v
}

// Image is a validated photo ready to be sent for detection.
type Image struct {
	Name      string // base file name, used as the multipart file name
	MediaType string // e.g. "image/jpeg"
	Data      []byte
}

// Size returns the image size in bytes.
func (i Image) Size() int64 { return int64(len(i.Data)) }

// DataURL renders the image as a data: URL, the preview format kept in
// the session.
func (i Image) DataURL() string {
	if len(i.Data) == 0 {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", i.MediaType, base64.StdEncoding.EncodeToString(i.Data))
}

// IngredientNames returns the item names de-duplicated by exact string
// equality, in order of first occurrence. "egg" and "Egg" are distinct.
func IngredientNames(items []DetectedItem) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.Name]; ok {
			continue
		}
		seen[it.Name] = struct{}{}
		out = append(out, it.Name)
	}
	return out
}
