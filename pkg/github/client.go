// Package github is a small typed client for the GitHub REST endpoints
// git-tracker uses: public events, owned repositories, repository webhooks,
// and repository dispatch.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"

	"github.com/gittracker/git-tracker/pkg/logger"
)

var clientLog = logger.New("github:client")

// perPage is the largest page size the REST API accepts.
const perPage = 100

var linkNextRE = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// Options configures a Client.
type Options struct {
	Token string
	// Host is a GitHub hostname such as "github.com" or a GHES host.
	Host string
	// Transport overrides the HTTP transport; tests point it at httptest.
	Transport http.RoundTripper
	Timeout   time.Duration
}

// Client wraps a go-gh REST client.
type Client struct {
	rest *api.RESTClient
	host string
}

// NewClient builds a client authenticated with opts.Token.
func NewClient(opts Options) (*Client, error) {
	host := opts.Host
	if host == "" {
		host = "github.com"
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	rest, err := api.NewRESTClient(api.ClientOptions{
		AuthToken: opts.Token,
		Host:      host,
		Transport: opts.Transport,
		Timeout:   timeout,
		Headers: map[string]string{
			"Accept":               "application/vnd.github+json",
			"X-GitHub-Api-Version": "2022-11-28",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	clientLog.Printf("Created REST client for host %s", host)
	return &Client{rest: rest, host: host}, nil
}

// Host returns the GitHub hostname the client talks to.
func (c *Client) Host() string {
	return c.host
}

// StatusCode extracts the HTTP status from an API error, or 0.
func StatusCode(err error) int {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// get decodes a single JSON response.
func (c *Client) get(ctx context.Context, path string, out any) error {
	clientLog.Printf("GET %s", path)
	return c.rest.DoWithContext(ctx, http.MethodGet, path, nil, out)
}

// post sends body as JSON and decodes the response into out (if non-nil).
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	clientLog.Printf("POST %s (%d bytes)", path, len(payload))
	return c.rest.DoWithContext(ctx, http.MethodPost, path, bytes.NewReader(payload), out)
}

// getPage fetches one page and returns the URL of the next one, if any.
func (c *Client) getPage(ctx context.Context, path string, out any) (string, error) {
	clientLog.Printf("GET %s (paged)", path)
	resp, err := c.rest.RequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return "", fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nextPage(resp.Header.Get("Link")), nil
}

// getAll follows Link rel="next" headers until exhausted.
func getAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T
	next := path
	for next != "" {
		var page []T
		n, err := c.getPage(ctx, next, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		next = n
	}
	return all, nil
}

func nextPage(link string) string {
	if m := linkNextRE.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	return ""
}

func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
