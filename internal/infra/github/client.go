package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Client is a minimal GitHub REST client covering what the webhook
// needs: listing PR files and posting one review comment.
type Client struct {
	httpc   *http.Client
	token   string
	baseURL string
}

func NewClient(token string) *Client {
	return &Client{
		httpc:   &http.Client{Timeout: 30 * time.Second},
		token:   token,
		baseURL: defaultBaseURL,
	}
}

// PullRequestFile is one changed file in a pull request.
type PullRequestFile struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Patch    string `json:"patch"`
}

// PullRequestFiles lists the changed files of a pull request.
func (c *Client) PullRequestFiles(ctx context.Context, repo string, number int) ([]PullRequestFile, error) {
	url := fmt.Sprintf("%s/repos/%s/pulls/%d/files", c.baseURL, repo, number)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list pr files: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("list pr files: status %d: %s", resp.StatusCode, body)
	}

	var files []PullRequestFile
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("decode pr files: %w", err)
	}
	return files, nil
}

// CreateIssueComment posts a comment on the pull request conversation.
func (c *Client) CreateIssueComment(ctx context.Context, repo string, number int, body string) error {
	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments", c.baseURL, repo, number)
	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("post comment: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post comment: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
}
