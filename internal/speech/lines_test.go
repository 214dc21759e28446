package speech

import (
	"strings"
	"testing"

	"github.com/hammamikhairi/bigbite/internal/domain"
)

func TestJoinList(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"eggs"}, "eggs"},
		{[]string{"eggs", "salt"}, "eggs and salt"},
		{[]string{"eggs", "salt", "pepper"}, "eggs, salt, and pepper"},
	}
	for _, tt := range tests {
		if got := joinList(tt.in); got != tt.want {
			t.Errorf("joinList(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLineRecipe(t *testing.T) {
	r := domain.Recipe{
		Name:        "Shakshuka",
		Time:        "30 mins",
		Servings:    2,
		Difficulty:  "Easy",
		Ingredients: []string{"4 eggs", "tomato"},
		Steps:       []string{"Simmer the sauce", "Poach the eggs."},
	}

	got := LineRecipe(r)
	for _, want := range []string{
		"Shakshuka.",
		"Serves 2, takes 30 mins, difficulty easy.",
		"You'll need: 4 eggs and tomato.",
		"Step 1. Simmer the sauce.",
		"Step 2. Poach the eggs.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("LineRecipe missing %q in %q", want, got)
		}
	}
}

func TestLineStep(t *testing.T) {
	r := domain.Recipe{Steps: []string{"Chop", "Fry"}}
	if got := LineStep(r, 1); got != "Step 2 of 2. Fry." {
		t.Fatalf("unexpected line %q", got)
	}
	if got := LineStep(r, 5); got != "There is no step 6." {
		t.Fatalf("unexpected line %q", got)
	}
}
