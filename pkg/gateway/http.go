package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/scoutdeck/scoutdeck/pkg/core"
	"github.com/scoutdeck/scoutdeck/pkg/log"
)

const defaultHTTPTimeout = 5 * time.Second

// HTTPSearcher queries a hosted player search service over HTTP. The
// service exposes GET {base}/players/search?q=<query>&limit=<n> and returns
// a JSON array of players ordered by relevance.
type HTTPSearcher struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

// NewHTTPSearcher creates an HTTP gateway client for the given base URL.
// A zero timeout falls back to the default.
func NewHTTPSearcher(baseURL string, timeout time.Duration) *HTTPSearcher {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTPSearcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  log.ForComponent("gateway"),
	}
}

// Search implements Searcher against the hosted service.
func (s *HTTPSearcher) Search(ctx context.Context, query string, limit int) ([]core.Player, error) {
	endpoint := fmt.Sprintf("%s/players/search?q=%s&limit=%s",
		s.baseURL, url.QueryEscape(query), strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "scoutdeck")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Warnf("closing response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search service returned %d: %s", resp.StatusCode, string(body))
	}

	var players []core.Player
	if err := json.NewDecoder(resp.Body).Decode(&players); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	s.logger.Debugf("remote search %q returned %d players", query, len(players))
	return players, nil
}
