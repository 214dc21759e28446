package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hammamikhairi/bigbite/internal/domain"
)

// ── Wire types ───────────────────────────────────────────────────

// errorBody is the failure envelope: {"error": "..."}.
type errorBody struct {
	Error string `json:"error"`
}

type detectResponse struct {
	Success       bool                  `json:"success"`
	DetectedItems []domain.DetectedItem `json:"detected_items"`
}

type generateRequest struct {
	Ingredients []string `json:"ingredients"`
}

type generateResponse struct {
	Success bool       `json:"success"`
	Recipes recipeList `json:"recipes"`
}

// recipeList decodes the recipes field, which the backend sends either as
// a bare list or wrapped as {"recipes": [...]}.
type recipeList []domain.Recipe

func (l *recipeList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	switch data[0] {
	case '[':
		var list []domain.Recipe
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*l = list
	case '{':
		var wrapped struct {
			Recipes []domain.Recipe `json:"recipes"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		*l = wrapped.Recipes
	default:
		return fmt.Errorf("recipes: unexpected JSON %.20q", data)
	}
	return nil
}

type healthResponse struct {
	Status       string          `json:"status"`
	ModelsLoaded map[string]bool `json:"models_loaded"`
}
