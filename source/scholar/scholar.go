// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package scholar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/simrank/core"
	"github.com/poiesic/simrank/source"
)

const (
	// DefaultBaseURL is the public Semantic Scholar API host.
	DefaultBaseURL = "https://api.semanticscholar.org"

	// DefaultLimit is the number of papers requested per search.
	DefaultLimit = 100

	searchPath = "/graph/v1/paper/search"
)

// Source searches Semantic Scholar for papers matching a query.
type Source struct {
	baseURL    string
	apiKey     string
	offset     int
	limit      int
	stopWords  []string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ source.CandidateSource = (*Source)(nil)

// Option configures a Source.
type Option func(*Source) error

// WithBaseURL overrides the API host.
func WithBaseURL(baseURL string) Option {
	return func(s *Source) error {
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base url %q", baseURL)
		}
		s.baseURL = strings.TrimSuffix(baseURL, "/")
		return nil
	}
}

// WithAPIKey sets the key sent in the x-api-key header.
func WithAPIKey(key string) Option {
	return func(s *Source) error {
		s.apiKey = key
		return nil
	}
}

// WithOffset sets the result offset of each search.
func WithOffset(offset int) Option {
	return func(s *Source) error {
		if offset < 0 {
			return fmt.Errorf("offset must be >= 0, got %d", offset)
		}
		s.offset = offset
		return nil
	}
}

// WithLimit sets the number of papers requested per search.
func WithLimit(limit int) Option {
	return func(s *Source) error {
		if limit < 1 {
			return fmt.Errorf("limit must be >= 1, got %d", limit)
		}
		s.limit = limit
		return nil
	}
}

// WithStopWords replaces the stop word list used to clean queries.
func WithStopWords(words []string) Option {
	return func(s *Source) error {
		s.stopWords = words
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) error {
		if client != nil {
			s.httpClient = client
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a Semantic Scholar source.
func New(opts ...Option) (*Source, error) {
	s := &Source{
		baseURL:    DefaultBaseURL,
		limit:      DefaultLimit,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "scholar")
	return s, nil
}

type searchResponse struct {
	Total int     `json:"total"`
	Data  []paper `json:"data"`
}

type paper struct {
	PaperID string `json:"paperId"`
	Title   string `json:"title"`
}

// Search returns the papers matching the cleaned query. Papers without a
// title are skipped.
func (s *Source) Search(ctx context.Context, query string) ([]core.Candidate, error) {
	params := url.Values{}
	params.Set("query", source.CleanQuery(query, s.stopWords))
	params.Set("offset", strconv.Itoa(s.offset))
	params.Set("limit", strconv.Itoa(s.limit))
	params.Set("fields", "title")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrSearchUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", source.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		s.logger.Warn("paper search failed", "status", resp.StatusCode, "body", strings.TrimSpace(string(body)))
		return nil, fmt.Errorf("%w: status %d", source.ErrSearchUnavailable, resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", source.ErrSearchUnavailable, err)
	}

	candidates := make([]core.Candidate, 0, len(result.Data))
	for _, p := range result.Data {
		if strings.TrimSpace(p.Title) == "" {
			continue
		}
		candidates = append(candidates, core.Candidate{ID: p.PaperID, Text: p.Title})
	}
	s.logger.Debug("paper search", "total", result.Total, "candidates", len(candidates))
	return candidates, nil
}
