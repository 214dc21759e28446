// Package api is the HTTP gateway to the BigBite backend: food detection,
// recipe generation and the health probe.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/google/uuid"

	"github.com/hammamikhairi/bigbite/internal/domain"
	"github.com/hammamikhairi/bigbite/internal/logger"
)

// User-facing messages.
const (
	MsgDetectionFailed  = "Detection failed"
	MsgGenerationFailed = "Recipe generation failed"
	MsgNoItems          = "No food items detected. Please try another image."
	MsgNoRecipes        = "No recipes generated. Please try again."
)

// Compile-time interface checks.
var (
	_ domain.RecipeService = (*Client)(nil)
	_ domain.HealthChecker = (*Client)(nil)
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithRequestID overrides the X-Request-ID generator.
func WithRequestID(fn func() string) ClientOption {
	return func(c *Client) { c.newID = fn }
}

// Client talks to the detection and recipe-generation backend.
type Client struct {
	baseURL string
	http    *http.Client
	newID   func() string
	log     *logger.Logger
}

// NewClient creates a backend client rooted at baseURL
// (e.g. "http://localhost:5000").
func NewClient(baseURL string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		newID:   uuid.NewString,
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// DetectFoodItems uploads the photo and returns the recognised items.
func (c *Client) DetectFoodItems(ctx context.Context, img domain.Image) ([]domain.DetectedItem, error) {
	fail := func(status int, msg string, err error) error {
		return &domain.DetectionError{Message: msg, Status: status, Err: err}
	}

	body, contentType, err := multipartImage(img)
	if err != nil {
		return nil, fail(0, MsgDetectionFailed, err)
	}

	var out detectResponse
	status, err := c.do(ctx, http.MethodPost, "/api/detect", contentType, body, &out)
	if err != nil {
		return nil, fail(status, serverMessage(err, MsgDetectionFailed), err)
	}
	if len(out.DetectedItems) == 0 {
		return nil, fail(status, MsgNoItems, domain.ErrNoItemsDetected)
	}

	c.log.Info("api: detected %d item(s) in %s", len(out.DetectedItems), img.Name)
	return out.DetectedItems, nil
}

// GenerateRecipes asks the backend for recipes using the given ingredient
// names, sent in the order given.
func (c *Client) GenerateRecipes(ctx context.Context, ingredients []string) ([]domain.Recipe, error) {
	fail := func(status int, msg string, err error) error {
		return &domain.RecipeGenerationError{Message: msg, Status: status, Err: err}
	}

	if ingredients == nil {
		ingredients = []string{}
	}
	payload, err := json.Marshal(generateRequest{Ingredients: ingredients})
	if err != nil {
		return nil, fail(0, MsgGenerationFailed, fmt.Errorf("api: marshal payload: %w", err))
	}

	var out generateResponse
	status, err := c.do(ctx, http.MethodPost, "/api/generate-recipes", "application/json", payload, &out)
	if err != nil {
		return nil, fail(status, serverMessage(err, MsgGenerationFailed), err)
	}
	if len(out.Recipes) == 0 {
		return nil, fail(status, MsgNoRecipes, domain.ErrNoRecipes)
	}

	c.log.Info("api: generated %d recipe(s) from %d ingredient(s)", len(out.Recipes), len(ingredients))
	return []domain.Recipe(out.Recipes), nil
}

// Health queries the backend status endpoint.
func (c *Client) Health(ctx context.Context) (domain.Health, error) {
	var out healthResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/health", "", nil, &out); err != nil {
		return domain.Health{}, err
	}
	return domain.Health{Status: out.Status, ModelsLoaded: out.ModelsLoaded}, nil
}

// ── Transport ────────────────────────────────────────────────────

// statusError is a non-2xx response. Message is the server's {"error"}
// text, empty when the body had none.
type statusError struct {
	Status  int
	Message string
}

func (e *statusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// serverMessage returns the server-provided message carried by err, or
// fallback.
func serverMessage(err error, fallback string) string {
	var se *statusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}

// do performs one request and decodes a 2xx JSON body into out. It returns
// the HTTP status, 0 when no response was received.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, out any) (int, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return 0, fmt.Errorf("api: create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	id := c.newID()
	req.Header.Set("X-Request-ID", id)

	c.log.Debug("api: %s %s (%d bytes) id=%s", method, url, len(body), id)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("api: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("api: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		c.log.Warn("api: %s %s returned %s id=%s", method, path, resp.Status, id)
		return resp.StatusCode, &statusError{Status: resp.StatusCode, Message: strings.TrimSpace(eb.Error)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return resp.StatusCode, fmt.Errorf("api: unmarshal response: %w", err)
	}
	return resp.StatusCode, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartImage encodes img as a form with a single "file" field that
// carries the image's own media type.
func multipartImage(img domain.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := img.Name
	if name == "" {
		name = "photo"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	mediaType := img.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	h.Set("Content-Type", mediaType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("api: create form part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", fmt.Errorf("api: write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("api: close form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
