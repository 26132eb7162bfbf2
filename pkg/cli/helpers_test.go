//go:build !integration

package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gittracker/git-tracker/pkg/config"
	"github.com/gittracker/git-tracker/pkg/github"
)

type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	r.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

// stubGitHub routes every client built by the commands to handler and
// disables prompts for the duration of the test.
func stubGitHub(t *testing.T, handler http.Handler) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	oldClient, oldInteractive := newClient, isInteractive
	newClient = func(cfg *config.Config) (*github.Client, error) {
		return github.NewClient(github.Options{Token: cfg.Token, Host: cfg.Host, Transport: rewriteTransport{target: target}})
	}
	isInteractive = func() bool { return false }
	t.Cleanup(func() { newClient, isInteractive = oldClient, oldInteractive })
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Token:       "test-token",
		TokenSource: "GH_PAT",
		Username:    "octocat",
		TrackerRepo: "git-tracker",
		WebhookURL:  "https://hooks.example.com/webhook",
		Host:        "github.com",
		Port:        8080,
		OutputDir:   dir,
		EventPages:  1,
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func eventsHandler(t *testing.T, types ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events := make([]map[string]any, len(types))
		for i, typ := range types {
			events[i] = map[string]any{"id": string(rune('a' + i)), "type": typ, "repo": map[string]any{"name": "octocat/hello"}}
		}
		writeJSON(t, w, http.StatusOK, events)
	}
}
