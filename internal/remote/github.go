package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

const defaultGitHubBaseURL = "https://api.github.com"

// maxResponseSize bounds how much of a GitHub response is read.
const maxResponseSize = 4 << 20

// APIError is a non-2xx response from the GitHub contents API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error: %d %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a GitHub 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// GitHubConfig holds what GitHubClient needs. Token is never persisted.
type GitHubConfig struct {
	BaseURL string
	Owner   string
	Repo    string
	Branch  string
	Token   string

	// HTTPClient is wrapped with the token. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// GitHubClient writes files through the repository contents API.
type GitHubClient struct {
	baseURL string
	owner   string
	repo    string
	branch  string
	http    *http.Client
}

func NewGitHubClient(ctx context.Context, cfg GitHubConfig) (*GitHubClient, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github: token is required")
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("github: owner and repo are required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGitHubBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("github: invalid base url %q", cfg.BaseURL)
	}

	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}

	if cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)
	}
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))

	return &GitHubClient{
		baseURL: baseURL,
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		branch:  branch,
		http:    httpClient,
	}, nil
}

func (c *GitHubClient) contentsURL(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL, url.PathEscape(c.owner), url.PathEscape(c.repo), strings.Join(segments, "/"))
}

type contentMeta struct {
	SHA string `json:"sha"`
}

type putContentResponse struct {
	Content struct {
		Path string `json:"path"`
		SHA  string `json:"sha"`
	} `json:"content"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

type putContentRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// FileSHA returns the blob sha of path on the branch, or "" when the file
// does not exist yet. Any status other than 200 counts as absent.
func (c *GitHubClient) FileSHA(ctx context.Context, path string) (string, error) {
	endpoint := c.contentsURL(path) + "?ref=" + url.QueryEscape(c.branch)
	body, status, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", nil
	}

	var meta contentMeta
	if err := json.Unmarshal(body, &meta); err != nil {
		return "", fmt.Errorf("github: decoding contents metadata: %w", err)
	}
	return meta.SHA, nil
}

// PutFile creates or updates path on the branch with content and returns
// the new blob and commit shas.
func (c *GitHubClient) PutFile(ctx context.Context, path string, content []byte, message string) (FileMeta, error) {
	sha, err := c.FileSHA(ctx, path)
	if err != nil {
		return FileMeta{}, err
	}

	req := putContentRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  c.branch,
		SHA:     sha,
	}
	body, status, err := c.do(ctx, http.MethodPut, c.contentsURL(path), req)
	if err != nil {
		return FileMeta{}, err
	}
	if status < 200 || status >= 300 {
		return FileMeta{}, &APIError{StatusCode: status, Body: string(body)}
	}

	var resp putContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return FileMeta{}, fmt.Errorf("github: decoding contents response: %w", err)
	}
	meta := FileMeta{Path: resp.Content.Path, SHA: resp.Content.SHA, Revision: resp.Commit.SHA}
	if meta.Path == "" {
		meta.Path = path
	}
	return meta, nil
}

func (c *GitHubClient) do(ctx context.Context, method, endpoint string, requestBody any) ([]byte, int, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, 0, fmt.Errorf("github: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("github: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("github: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, fmt.Errorf("github: reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// Compile-time check that GitHubClient implements Syncer interface
var _ Syncer = (*GitHubClient)(nil)
