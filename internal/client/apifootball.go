package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"partidos/ingestion/internal/competition"
	"partidos/ingestion/internal/metrics"
	"partidos/ingestion/internal/models"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 6 << 20

// Cache is the subset of the Redis cache the client uses
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Client is the API-Football client
type Client struct {
	baseURL    string
	host       string
	apiKey     string
	httpClient *http.Client

	cache      Cache
	lineupsTTL time.Duration
}

// NewClient creates a new API-Football client
func NewClient(baseURL, host, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		host:    host,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// WithCache attaches a cache for lineup lookups
func (c *Client) WithCache(cache Cache, lineupsTTL time.Duration) *Client {
	c.cache = cache
	c.lineupsTTL = lineupsTTL
	return c
}

// envelope is the wrapper API-Football puts around every response.
// Response is nil when the field is absent (quota or auth failures).
type envelope struct {
	Response *[]json.RawMessage `json:"response"`
	Results  int                `json:"results"`
	Errors   json.RawMessage    `json:"errors"`
	Message  string             `json:"message"`
}

// providerMessage picks the most useful error text out of an envelope
func (e *envelope) providerMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Errors) > 0 && string(e.Errors) != "[]" && string(e.Errors) != "{}" && string(e.Errors) != "null" {
		return string(e.Errors)
	}
	return ""
}

// get performs a single GET request against the provider. No retries: each
// fetch is scoped to one competition and its failure is absorbed by the caller.
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-rapidapi-host", c.host)
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	if len(params) > 0 {
		q := req.URL.Query()
		for key, value := range params {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	log.Debug().
		Str("url", url).
		Str("query", req.URL.RawQuery).
		Msg("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	metrics.RecordAPICall(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusOK:
		log.Debug().
			Str("url", url).
			Int("status", resp.StatusCode).
			Int("size", len(body)).
			Msg("API request successful")
		return body, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("API authentication failed (status %d): %s", resp.StatusCode, string(body))

	default:
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
}

// list performs a request and unwraps the response list. A body without a
// response list is logged and reported as empty.
func (c *Client) list(ctx context.Context, endpoint string, params map[string]string) ([]json.RawMessage, error) {
	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s response: %w", endpoint, err)
	}

	if env.Response == nil {
		msg := env.providerMessage()
		if msg == "" {
			msg = "no response"
		}
		log.Warn().
			Str("endpoint", endpoint).
			Interface("params", params).
			Str("message", msg).
			Msg("Provider returned no response list")
		return []json.RawMessage{}, nil
	}

	if msg := env.providerMessage(); msg != "" {
		log.Warn().
			Str("endpoint", endpoint).
			Str("message", msg).
			Int("results", len(*env.Response)).
			Msg("Provider reported errors")
	}

	return *env.Response, nil
}

// FetchFixtures fetches fixtures of a league/season inside a date window.
// Provider ordering is preserved.
func (c *Client) FetchFixtures(ctx context.Context, league, season int, window competition.DateWindow) ([]json.RawMessage, error) {
	log.Info().
		Int("league", league).
		Int("season", season).
		Str("from", window.FromParam()).
		Str("to", window.ToParam()).
		Msg("Fetching fixtures")

	fixtures, err := c.list(ctx, "fixtures", map[string]string{
		"league": strconv.Itoa(league),
		"season": strconv.Itoa(season),
		"from":   window.FromParam(),
		"to":     window.ToParam(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fixtures: %w", err)
	}
	return fixtures, nil
}

// FetchFixturesByDate fetches fixtures of a league/season played on one day
func (c *Client) FetchFixturesByDate(ctx context.Context, league, season int, date time.Time) ([]json.RawMessage, error) {
	fixtures, err := c.list(ctx, "fixtures", map[string]string{
		"league": strconv.Itoa(league),
		"season": strconv.Itoa(season),
		"date":   date.Format(competition.DateLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fixtures by date: %w", err)
	}
	return fixtures, nil
}

// FetchLineups fetches both lineups of a fixture
func (c *Client) FetchLineups(ctx context.Context, fixtureID int64) ([]models.LineupInput, error) {
	key := fmt.Sprintf("lineups:%d", fixtureID)
	if c.cache != nil {
		var cached []models.LineupInput
		hit, err := c.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	raw, err := c.list(ctx, "fixtures/lineups", map[string]string{
		"fixture": strconv.FormatInt(fixtureID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lineups: %w", err)
	}

	lineups := make([]models.LineupInput, 0, len(raw))
	for _, item := range raw {
		var lineup models.LineupInput
		if err := sonic.Unmarshal(item, &lineup); err != nil {
			return nil, fmt.Errorf("failed to unmarshal lineup: %w", err)
		}
		lineups = append(lineups, lineup)
	}

	if c.cache != nil && len(lineups) > 0 {
		if err := c.cache.SetJSON(ctx, key, lineups, c.lineupsTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}

	return lineups, nil
}
