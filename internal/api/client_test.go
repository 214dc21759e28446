package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/hammamikhairi/bigbite/internal/domain"
	"github.com/hammamikhairi/bigbite/internal/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", logger.New(logger.LevelOff, nil),
		WithHTTPClient(srv.Client()),
		WithRequestID(func() string { return "req-1" }),
	)
}

var testImage = domain.Image{
	Name:      "plate.jpg",
	MediaType: "image/jpeg",
	Data:      []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3},
}

func TestDetectFoodItemsRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/detect" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-Request-ID"); got != "req-1" {
			t.Errorf("expected request id header, got %q", got)
		}
		file, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if !reflect.DeepEqual(data, testImage.Data) {
			t.Errorf("unexpected file bytes %v", data)
		}
		if hdr.Filename != "plate.jpg" {
			t.Errorf("unexpected filename %q", hdr.Filename)
		}
		if ct := hdr.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("unexpected part content type %q", ct)
		}
		w.Write([]byte(`{"success":true,"detected_items":[{"name":"Tomato","confidence":0.92},{"name":"Egg","confidence":0.81}]}`))
	})

	items, err := c.DetectFoodItems(context.Background(), testImage)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	want := []domain.DetectedItem{{Name: "Tomato", Confidence: 0.92}, {Name: "Egg", Confidence: 0.81}}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("expected %v, got %v", want, items)
	}
}

func TestDetectFoodItemsErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		sentinel error
	}{
		{"server message", http.StatusInternalServerError, `{"error":"model not loaded"}`, "model not loaded", nil},
		{"no message", http.StatusBadRequest, `{}`, MsgDetectionFailed, nil},
		{"non-json failure", http.StatusBadGateway, `<html>bad gateway</html>`, MsgDetectionFailed, nil},
		{"undecodable success", http.StatusOK, `not json`, MsgDetectionFailed, nil},
		{"zero items", http.StatusOK, `{"success":true,"detected_items":[]}`, MsgNoItems, domain.ErrNoItemsDetected},
		{"missing items", http.StatusOK, `{"success":true}`, MsgNoItems, domain.ErrNoItemsDetected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.DetectFoodItems(context.Background(), testImage)
			var de *domain.DetectionError
			if !errors.As(err, &de) {
				t.Fatalf("expected DetectionError, got %v", err)
			}
			if de.Message != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, de.Message)
			}
			if de.Status != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, de.Status)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Fatalf("expected %v to wrap %v", err, tt.sentinel)
			}
		})
	}
}

func TestDetectFoodItemsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, logger.New(logger.LevelOff, nil))
	_, err := c.DetectFoodItems(context.Background(), testImage)
	var de *domain.DetectionError
	if !errors.As(err, &de) {
		t.Fatalf("expected DetectionError, got %v", err)
	}
	if de.Status != 0 || de.Message != MsgDetectionFailed {
		t.Fatalf("unexpected error %+v", de)
	}
}

func TestGenerateRecipesRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-recipes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		var req struct {
			Ingredients []string `json:"ingredients"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if !reflect.DeepEqual(req.Ingredients, []string{"egg", "Egg", "tomato"}) {
			t.Errorf("unexpected ingredients %v", req.Ingredients)
		}
		w.Write([]byte(`{"success":true,"recipes":[{"name":"Shakshuka","servings":2}]}`))
	})

	recipes, err := c.GenerateRecipes(context.Background(), []string{"egg", "Egg", "tomato"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(recipes) != 1 || recipes[0].Name != "Shakshuka" || recipes[0].Servings != 2 {
		t.Fatalf("unexpected recipes %+v", recipes)
	}
}

func TestGenerateRecipesResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare list", `{"recipes":[{"name":"A"},{"name":"B"}]}`},
		{"wrapped", `{"recipes":{"recipes":[{"name":"A"},{"name":"B"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			recipes, err := c.GenerateRecipes(context.Background(), []string{"a"})
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if len(recipes) != 2 || recipes[0].Name != "A" || recipes[1].Name != "B" {
				t.Fatalf("unexpected recipes %+v", recipes)
			}
		})
	}
}

func TestGenerateRecipesErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		sentinel error
	}{
		{"server message", http.StatusBadRequest, `{"error":"No ingredients provided"}`, "No ingredients provided", nil},
		{"no message", http.StatusInternalServerError, ``, MsgGenerationFailed, nil},
		{"empty list", http.StatusOK, `{"recipes":[]}`, MsgNoRecipes, domain.ErrNoRecipes},
		{"empty wrapped", http.StatusOK, `{"recipes":{"recipes":[]}}`, MsgNoRecipes, domain.ErrNoRecipes},
		{"null", http.StatusOK, `{"recipes":null}`, MsgNoRecipes, domain.ErrNoRecipes},
		{"wrong type", http.StatusOK, `{"recipes":"soup"}`, MsgGenerationFailed, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.GenerateRecipes(context.Background(), []string{"egg"})
			var ge *domain.RecipeGenerationError
			if !errors.As(err, &ge) {
				t.Fatalf("expected RecipeGenerationError, got %v", err)
			}
			if ge.Message != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, ge.Message)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Fatalf("expected %v to wrap %v", err, tt.sentinel)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/health" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"status":"running","models_loaded":{"yolov8":true,"ollama":false}}`))
	})

	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if h.Status != "running" || !h.ModelsLoaded["yolov8"] || h.ModelsLoaded["ollama"] {
		t.Fatalf("unexpected health %+v", h)
	}
}

func TestBaseURLTrimmed(t *testing.T) {
	c := NewClient("http://localhost:5000///", logger.New(logger.LevelOff, nil))
	if c.BaseURL() != "http://localhost:5000" {
		t.Fatalf("unexpected base URL %q", c.BaseURL())
	}
}
