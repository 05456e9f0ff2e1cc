package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"oghmai/internal/auth"
	"oghmai/internal/domain"
	"oghmai/internal/metrics"

	"go.uber.org/zap"
)

// API is the surface of the OghmAI backend consumed by the bot.
type API interface {
	DescribeWord(ctx context.Context, description string, exclusions []string) (*domain.WordResult, error)
	SaveWord(ctx context.Context, word domain.WordResult) error
	GetWord(ctx context.Context, word string) (*domain.WordResult, error)
	GetWords(ctx context.Context, filter WordFilter) (*domain.WordList, error)
	DeleteWord(ctx context.Context, word string) error
	UndeleteWord(ctx context.Context, word string) error
	ResetWord(ctx context.Context, word string) error
	GetAvailableTests(ctx context.Context) (*domain.TestStatistics, error)
	GetNextTest(ctx context.Context) (*domain.TestChallenge, error)
	SubmitChallengeGuess(ctx context.Context, id, guess string) (*domain.TestResult, error)
	GetNextMatchTest(ctx context.Context) (*domain.MatchChallenge, error)
	GetWordTenses(ctx context.Context, word string) (*domain.ExplanationResponse, error)
}

// WordFilter carries the three combinable listing filters. Unset filters
// are omitted from the query entirely, not sent as defaults.
type WordFilter struct {
	Statuses       map[domain.WordStatus]bool
	FailedLastTest bool
	Contains       string
}

// query renders the filter as request parameters.
func (f WordFilter) query() url.Values {
	q := url.Values{}
	if len(f.Statuses) > 0 {
		q.Set("status", domain.JoinStatuses(f.Statuses))
	}
	if f.FailedLastTest {
		q.Set("failed_last_test", "true")
	}
	if f.Contains != "" {
		q.Set("contains", f.Contains)
	}
	return q
}

// Client talks to the OghmAI backend over its REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     auth.TokenProvider
	logger     *zap.Logger
}

// New creates a backend client.
func New(baseURL string, tokens auth.TokenProvider, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
		logger: logger,
	}
}

// DescribeWord asks the backend to guess a word from free text. A nil
// result means the backend has no further matches.
func (c *Client) DescribeWord(ctx context.Context, description string, exclusions []string) (*domain.WordResult, error) {
	body := domain.DescriptionRequest{Description: description, Exclusions: exclusions}
	var result domain.WordResult
	found, err := c.do(ctx, "describe", http.MethodPost, "/describe-word", nil, body, &result)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &result, nil
}

// SaveWord persists a guessed word remotely.
func (c *Client) SaveWord(ctx context.Context, word domain.WordResult) error {
	_, err := c.do(ctx, "save", http.MethodPost, "/save-word", nil, word, nil)
	return err
}

// GetWord fetches the full detail of a saved word.
func (c *Client) GetWord(ctx context.Context, word string) (*domain.WordResult, error) {
	var result domain.WordResult
	if _, err := c.do(ctx, "get_word", http.MethodGet, "/word/"+url.PathEscape(word), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetWords fetches the filtered word listing.
func (c *Client) GetWords(ctx context.Context, filter WordFilter) (*domain.WordList, error) {
	var list domain.WordList
	if _, err := c.do(ctx, "list", http.MethodGet, "/words", filter.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteWord soft-deletes a word remotely.
func (c *Client) DeleteWord(ctx context.Context, word string) error {
	_, err := c.do(ctx, "delete", http.MethodDelete, "/word/"+url.PathEscape(word), nil, nil, nil)
	return err
}

// UndeleteWord reverses a soft delete.
func (c *Client) UndeleteWord(ctx context.Context, word string) error {
	q := url.Values{"action": {"undelete"}}
	_, err := c.do(ctx, "undelete", http.MethodPatch, "/word/"+url.PathEscape(word), q, nil, nil)
	return err
}

// ResetWord restarts the word's learning progression.
func (c *Client) ResetWord(ctx context.Context, word string) error {
	q := url.Values{"action": {"reset"}}
	_, err := c.do(ctx, "reset", http.MethodPatch, "/word/"+url.PathEscape(word), q, nil, nil)
	return err
}

// GetAvailableTests reports how much testing is available right now.
func (c *Client) GetAvailableTests(ctx context.Context) (*domain.TestStatistics, error) {
	var stats domain.TestStatistics
	if _, err := c.do(ctx, "test_stats", http.MethodGet, "/test", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetNextTest fetches the next challenge. A nil challenge means no more
// challenges are available in the current period.
func (c *Client) GetNextTest(ctx context.Context) (*domain.TestChallenge, error) {
	var challenge domain.TestChallenge
	found, err := c.do(ctx, "next_test", http.MethodGet, "/test/next", nil, nil, &challenge)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &challenge, nil
}

// SubmitChallengeGuess submits a guess against a challenge id.
func (c *Client) SubmitChallengeGuess(ctx context.Context, id, guess string) (*domain.TestResult, error) {
	q := url.Values{"guess": {guess}}
	var result domain.TestResult
	if _, err := c.do(ctx, "submit", http.MethodPut, "/test/"+url.PathEscape(id), q, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetNextMatchTest fetches a batch of pairs for the match game.
func (c *Client) GetNextMatchTest(ctx context.Context) (*domain.MatchChallenge, error) {
	var challenge domain.MatchChallenge
	found, err := c.do(ctx, "next_match", http.MethodGet, "/test/match", nil, nil, &challenge)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &challenge, nil
}

// GetWordTenses fetches the tense explanation for a word. Pass-through;
// the content is owned by the backend.
func (c *Client) GetWordTenses(ctx context.Context, word string) (*domain.ExplanationResponse, error) {
	var resp domain.ExplanationResponse
	if _, err := c.do(ctx, "tenses", http.MethodGet, "/word/"+url.PathEscape(word)+"/tenses", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do issues one request and decodes the response. The bool result is
// false when the backend answered 204 or with an empty body, which a few
// endpoints use for "nothing available".
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, out any) (bool, error) {
	start := time.Now()
	metrics.BackendRequestsTotal.WithLabelValues(operation).Inc()

	found, err := c.roundTrip(ctx, operation, method, path, query, body, out)

	metrics.BackendRequestDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		category := CategoryUnexpected
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			category = apiErr.Category
		}
		metrics.BackendErrorsTotal.WithLabelValues(operation, string(category)).Inc()
		c.logger.Warn("Backend call failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
	return found, err
}

func (c *Client) roundTrip(ctx context.Context, operation, method, path string, query url.Values, body, out any) (bool, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return false, &APIError{Operation: operation, Category: CategoryUnexpected, Err: err}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return false, &APIError{Operation: operation, Category: CategoryUnexpected, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token()
	if err != nil {
		return false, &APIError{Operation: operation, Category: CategoryUnauthorized, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, newAPIError(operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, newStatusError(operation, resp.StatusCode)
	}

	if out == nil {
		return true, nil
	}
	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, newAPIError(operation, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, &APIError{Operation: operation, Category: CategoryUnexpected, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return true, nil
}

