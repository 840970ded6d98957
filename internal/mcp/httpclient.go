package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/stats"
)

// HTTPClient implements DataSource by calling the IronLog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale). The user ID
// arguments are ignored; the server resolves identity itself.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) ExerciseHistory(ctx context.Context, exerciseID uuid.UUID, _ int) ([]stats.HistoryEntry, error) {
	body, err := c.get(ctx, "/api/v1/exercises/"+exerciseID.String()+"/history", nil)
	if err != nil {
		return nil, err
	}

	var history []stats.HistoryEntry
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("httpclient: decode history: %w", err)
	}
	return history, nil
}

func (c *HTTPClient) SessionDates(ctx context.Context, _ int) ([]time.Time, error) {
	body, err := c.get(ctx, "/api/v1/sessions/dates", nil)
	if err != nil {
		return nil, err
	}

	var dates []time.Time
	if err := json.Unmarshal(body, &dates); err != nil {
		return nil, fmt.Errorf("httpclient: decode dates: %w", err)
	}
	return dates, nil
}

func (c *HTTPClient) GetSettings(ctx context.Context, _ int) (models.Settings, error) {
	body, err := c.get(ctx, "/api/v1/settings", nil)
	if err != nil {
		return models.Settings{}, err
	}

	var settings models.Settings
	if err := json.Unmarshal(body, &settings); err != nil {
		return models.Settings{}, fmt.Errorf("httpclient: decode settings: %w", err)
	}
	return settings, nil
}

// VolumeEvents ignores the filters argument; the server applies the stored
// settings filters itself.
func (c *HTTPClient) VolumeEvents(ctx context.Context, _ int, _ models.Filters) ([]stats.Point, error) {
	body, err := c.get(ctx, "/api/v1/stats/volume/events", nil)
	if err != nil {
		return nil, err
	}

	var events []stats.Point
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("httpclient: decode volume events: %w", err)
	}
	return events, nil
}

func (c *HTTPClient) QuerySessions(ctx context.Context, start, end time.Time, _ int) ([]*models.Session, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))

	body, err := c.get(ctx, "/api/v1/sessions", params)
	if err != nil {
		return nil, err
	}

	var sessions []*models.Session
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) ListExercises(ctx context.Context, includeHidden bool) ([]models.ExerciseDefinition, error) {
	params := url.Values{}
	if includeHidden {
		params.Set("include_hidden", "true")
	}

	body, err := c.get(ctx, "/api/v1/exercises", params)
	if err != nil {
		return nil, err
	}

	var exercises []models.ExerciseDefinition
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return exercises, nil
}
