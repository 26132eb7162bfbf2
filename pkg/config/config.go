// Package config loads git-tracker settings from the environment.
//
// An optional .env file in the working directory is loaded first; values
// already present in the process environment win over the file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/joho/godotenv"

	"github.com/gittracker/git-tracker/pkg/envutil"
	"github.com/gittracker/git-tracker/pkg/logger"
	"github.com/gittracker/git-tracker/pkg/parser"
)

var configLog = logger.New("config:config")

// DefaultWebhookURL is where installed webhooks deliver when WEBHOOK_URL is unset.
const DefaultWebhookURL = "https://github-activity-hook.onrender.com/webhook"

var (
	ErrMissingToken       = errors.New("GitHub token not set (GH_PAT, GH_TOKEN or GITHUB_TOKEN)")
	ErrMissingUsername    = errors.New("USERNAME environment variable not set")
	ErrMissingTrackerRepo = errors.New("TRACKER_REPO environment variable not set")
)

// tokenForHost resolves a token from the gh CLI configuration. Tests replace it.
var tokenForHost = auth.TokenForHost

// Config holds every setting the commands read from the environment.
type Config struct {
	Token         string `env:"GH_PAT"`
	Username      string `env:"USERNAME"`
	TrackerRepo   string `env:"TRACKER_REPO"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	Host          string `env:"GH_HOST" envDefault:"github.com"`
	Port          int    `env:"PORT" envDefault:"8080"`
	OutputDir     string `env:"GIT_TRACKER_OUTPUT_DIR" envDefault:"."`

	// EventPages is bounded separately so a bad value degrades to the default.
	EventPages int `env:"-"`

	// TokenSource names where Token came from, for diagnostics only.
	TokenSource string `env:"-"`
}

// Load reads .env (if present) and the environment into a Config. It does
// not require any value; commands call the Require* methods for what they
// need.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		configLog.Print("Loaded .env file")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.WebhookURL == "" {
		cfg.WebhookURL = DefaultWebhookURL
	}
	cfg.EventPages = envutil.GetIntFromEnv("GIT_TRACKER_EVENT_PAGES", 1, 1, 3, configLog)
	cfg.Host = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(cfg.Host, "https://"), "http://"), "/")
	cfg.resolveToken()

	configLog.Printf("Loaded config: host=%s username=%s tracker_repo=%s token_source=%s pages=%d",
		cfg.Host, cfg.Username, cfg.TrackerRepo, cfg.TokenSource, cfg.EventPages)
	return &cfg, nil
}

func (c *Config) resolveToken() {
	if c.Token != "" {
		c.TokenSource = "GH_PAT"
		return
	}
	if name, value := envutil.FirstSet("GH_TOKEN", "GITHUB_TOKEN"); value != "" {
		c.Token, c.TokenSource = value, name
		return
	}
	if token, source := tokenForHost(c.Host); token != "" {
		c.Token, c.TokenSource = token, source
	}
}

// RequireToken returns ErrMissingToken when no token could be resolved.
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// RequireUsername returns ErrMissingUsername when USERNAME is unset or not a
// valid GitHub login.
func (c *Config) RequireUsername() error {
	if c.Username == "" {
		return ErrMissingUsername
	}
	if !parser.IsValidGitHubIdentifier(c.Username) {
		return fmt.Errorf("USERNAME %q is not a valid GitHub login", c.Username)
	}
	return nil
}

// TrackerRef resolves TRACKER_REPO against Username.
func (c *Config) TrackerRef() (parser.RepoRef, error) {
	if c.TrackerRepo == "" {
		return parser.RepoRef{}, ErrMissingTrackerRepo
	}
	return parser.ParseRepoRef(c.TrackerRepo, c.Username)
}
