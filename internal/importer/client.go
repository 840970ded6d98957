package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meltforce/ironlog/internal/models"
)

// Client sends data to the IronLog server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the IronLog server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FetchExercises retrieves the full exercise catalog, hidden entries included,
// so imports can match against retired exercises.
func (c *Client) FetchExercises() ([]models.ExerciseDefinition, error) {
	resp, err := c.httpClient.Get(c.serverURL + "/api/v1/exercises?include_hidden=true")
	if err != nil {
		return nil, fmt.Errorf("fetching exercises: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("exercises request failed (status %d): %s", resp.StatusCode, body)
	}

	var exercises []models.ExerciseDefinition
	if err := json.NewDecoder(resp.Body).Decode(&exercises); err != nil {
		return nil, fmt.Errorf("decoding exercises: %w", err)
	}
	return exercises, nil
}

// CreateExercise registers a new catalog entry on the server.
func (c *Client) CreateExercise(ex models.ExerciseDefinition) error {
	return c.post("/api/v1/exercises", ex, http.StatusCreated)
}

// ImportSession sends a completed session to the import endpoint.
func (c *Client) ImportSession(s *models.Session) error {
	return c.post("/api/v1/import", s, http.StatusCreated)
}

func (c *Client) post(path string, v any, wantStatus int) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.serverURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s failed (status %d): %s", path, resp.StatusCode, body)
	}
	return nil
}
