package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gittracker/git-tracker/pkg/config"
	"github.com/gittracker/git-tracker/pkg/console"
	"github.com/gittracker/git-tracker/pkg/logger"
	"github.com/gittracker/git-tracker/pkg/webhook"
)

var serveLog = logger.New("cli:serve_command")

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook listener that triggers tracker updates",
		Long: `Listen for GitHub webhook deliveries and forward push, pull_request, issues and
issue_comment activity to the tracker repository as update-tracker dispatch events.

Deliveries are verified against WEBHOOK_SECRET when it is set. Events from the
tracker repository itself and repeated delivery IDs are acknowledged without a
dispatch.

Endpoints:
  POST /webhook   GitHub webhook deliveries
  GET  /healthz   Liveness probe

Examples:
  git-tracker serve              # Listen on PORT (default 8080)
  git-tracker serve --port 9000  # Listen on port 9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return RunServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default PORT or 8080)")
	return cmd
}

// newWebhookServer validates cfg and builds the server without listening.
func newWebhookServer(cfg *config.Config) (*webhook.Server, error) {
	ref, err := cfg.TrackerRef()
	if err != nil {
		return nil, err
	}
	client, err := authedClient(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.WebhookSecret == "" {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage("WEBHOOK_SECRET is not set; unsigned deliveries will be accepted"))
	}
	return webhook.New(webhook.Config{Secret: cfg.WebhookSecret, Tracker: ref}, client)
}

// RunServe serves webhooks until ctx is cancelled.
func RunServe(ctx context.Context, cfg *config.Config) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", cfg.Port)
	}
	srv, err := newWebhookServer(cfg)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort("", strconv.Itoa(cfg.Port))
	serveLog.Printf("Starting webhook server on %s", addr)
	fmt.Fprintln(os.Stderr, console.FormatInfoMessage(fmt.Sprintf("Listening on %s, dispatching to %s", addr, cfg.TrackerRepo)))
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("webhook server failed: %w", err)
	}
	fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Webhook server stopped"))
	return nil
}
