// Package storage provides versioned JSON document stores with pluggable backends.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/bi-al1/stock-dashboard/internal/common"
	"github.com/bi-al1/stock-dashboard/internal/interfaces"
	"github.com/bi-al1/stock-dashboard/internal/models"
)

// GitHubStore implements DocumentStore on top of the GitHub Contents API.
// A data repository acts as the versioned document host: the blob SHA is the
// revision token, and GitHub rejects a PUT whose sha no longer matches the
// branch head, which gives the compare-and-swap semantics. Commit messages
// carry the human-readable change descriptions.
type GitHubStore struct {
	baseURL        string
	owner          string
	repo           string
	branch         string
	token          string
	committerName  string
	committerEmail string
	httpClient     *http.Client
	limiter        *rate.Limiter
	logger         *common.Logger
}

// NewGitHubStore creates a store backed by the configured data repository.
// A missing token is a NotConfigured error: every call would fail anyway,
// and failing at startup gives a clearer signal.
func NewGitHubStore(config *common.GitHubConfig, logger *common.Logger) (*GitHubStore, error) {
	if config.Token == "" {
		return nil, models.NotConfiguredf("GITHUB_TOKEN is not set")
	}
	if config.Owner == "" || config.Repo == "" {
		return nil, models.NotConfiguredf("github store requires owner and repo")
	}

	rateLimit := config.RateLimit
	if rateLimit <= 0 {
		rateLimit = 5
	}

	s := &GitHubStore{
		baseURL:        config.BaseURL,
		owner:          config.Owner,
		repo:           config.Repo,
		branch:         config.Branch,
		token:          config.Token,
		committerName:  config.CommitterName,
		committerEmail: config.CommitterEmail,
		httpClient:     &http.Client{Timeout: config.GetTimeout()},
		limiter:        rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		logger:         logger,
	}
	if s.baseURL == "" {
		s.baseURL = "https://api.github.com"
	}

	logger.Debug().
		Str("repo", fmt.Sprintf("%s/%s", s.owner, s.repo)).
		Str("branch", s.branch).
		Msg("GitHub document store opened")
	return s, nil
}

// contentsResponse is the subset of the Contents API response we use.
type contentsResponse struct {
	SHA     string `json:"sha"`
	Content string `json:"content"`
}

type committer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *GitHubStore) contentsURL(path string) string {
	escaped := strings.Split(path, "/")
	for i, segment := range escaped {
		escaped[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.baseURL, s.owner, s.repo, strings.Join(escaped, "/"))
}

// do performs a rate-limited request with auth headers.
func (s *GitHubStore) do(ctx context.Context, method, rawURL string, body []byte) (*http.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+s.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, models.Unavailablef(err, "github contents request failed")
	}
	return resp, nil
}

// Get fetches the document at path and returns its content and blob SHA.
func (s *GitHubStore) Get(ctx context.Context, path string) (json.RawMessage, interfaces.Revision, error) {
	rawURL := s.contentsURL(path)
	if s.branch != "" {
		rawURL += "?ref=" + url.QueryEscape(s.branch)
	}

	resp, err := s.do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, "", models.NotFoundf("document '%s' not found", path)
	default:
		return nil, "", s.statusError(resp, path)
	}

	var contents contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&contents); err != nil {
		return nil, "", fmt.Errorf("failed to decode contents response: %w", err)
	}

	// The API returns base64 with embedded newlines
	decoded, err := base64.StdEncoding.DecodeString(stripNewlines(contents.Content))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode document content: %w", err)
	}

	return decoded, interfaces.Revision(contents.SHA), nil
}

// Put commits doc at path. An empty rev creates the file; a non-empty rev
// must match the current blob SHA or GitHub rejects the write.
func (s *GitHubStore) Put(ctx context.Context, path string, doc json.RawMessage, rev interfaces.Revision, message string) (interfaces.Revision, error) {
	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(doc),
		"branch":  s.branch,
		"committer": committer{
			Name:  s.committerName,
			Email: s.committerEmail,
		},
	}
	if rev != "" {
		payload["sha"] = string(rev)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal put payload: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPut, s.contentsURL(path), body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict, http.StatusUnprocessableEntity:
		// 409: sha no longer matches; 422: create without sha on existing file
		return "", models.Conflictf("concurrent update of '%s': revision no longer current", path)
	case http.StatusNotFound:
		return "", models.NotFoundf("document '%s' not found for update", path)
	default:
		return "", s.statusError(resp, path)
	}

	var result struct {
		Content contentsResponse `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode put response: %w", err)
	}

	s.logger.Debug().Str("path", path).Str("message", message).Msg("Document committed")
	return interfaces.Revision(result.Content.SHA), nil
}

// Delete removes the document at path. rev must match the current blob SHA.
func (s *GitHubStore) Delete(ctx context.Context, path string, rev interfaces.Revision, message string) error {
	payload := map[string]any{
		"message": message,
		"sha":     string(rev),
		"branch":  s.branch,
		"committer": committer{
			Name:  s.committerName,
			Email: s.committerEmail,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal delete payload: %w", err)
	}

	resp, err := s.do(ctx, http.MethodDelete, s.contentsURL(path), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		s.logger.Debug().Str("path", path).Msg("Document deleted")
		return nil
	case http.StatusNotFound:
		return models.NotFoundf("document '%s' not found", path)
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return models.Conflictf("concurrent update of '%s': revision no longer current", path)
	default:
		return s.statusError(resp, path)
	}
}

func (s *GitHubStore) statusError(resp *http.Response, path string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return models.Unavailablef(
		fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		"github contents API error for '%s'", path)
}

func stripNewlines(s string) string {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			continue
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

// Ensure GitHubStore implements DocumentStore
var _ interfaces.DocumentStore = (*GitHubStore)(nil)
