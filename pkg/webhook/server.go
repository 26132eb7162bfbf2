// Package webhook receives GitHub webhook deliveries from the tracked
// repositories and turns them into update-tracker dispatch events on the
// tracker repository.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gittracker/git-tracker/pkg/github"
	"github.com/gittracker/git-tracker/pkg/logger"
	"github.com/gittracker/git-tracker/pkg/parser"
)

var serverLog = logger.New("webhook:server")

// DispatchEventType is the repository_dispatch type the CI workflow listens for.
const DispatchEventType = "update-tracker"

// maxPayloadBytes matches GitHub's cap on webhook payloads.
const maxPayloadBytes = 25 << 20

// deliveryCacheSize bounds how many delivery IDs are remembered for dedupe.
const deliveryCacheSize = 1024

// TrackedEvents are the webhook events that trigger a tracker refresh. The
// installer subscribes hooks to the same list.
var TrackedEvents = []string{"push", "pull_request", "issues", "issue_comment"}

// Dispatcher sends repository_dispatch events.
type Dispatcher interface {
	Dispatch(ctx context.Context, owner, repo string, req github.DispatchRequest) error
}

// Config configures a Server.
type Config struct {
	// Secret validates X-Hub-Signature-256; empty accepts unsigned deliveries.
	Secret string
	// Tracker is the repository that receives dispatch events.
	Tracker parser.RepoRef
}

// Server is the webhook HTTP handler.
type Server struct {
	cfg        Config
	dispatcher Dispatcher
	seen       *lru.Cache[string, struct{}]
	router     chi.Router
}

// New builds a Server.
func New(cfg Config, dispatcher Dispatcher) (*Server, error) {
	seen, err := lru.New[string, struct{}](deliveryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery cache: %w", err)
	}
	s := &Server{cfg: cfg, dispatcher: dispatcher, seen: seen}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})
	r.Post("/webhook", s.handleWebhook)
	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		serverLog.Printf("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		serverLog.Print("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down webhook server: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type deliveryPayload struct {
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		writeText(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	if s.cfg.Secret != "" {
		if err := VerifySignature(s.cfg.Secret, body, r.Header.Get("X-Hub-Signature-256")); err != nil {
			serverLog.Printf("Rejected delivery: %v", err)
			writeText(w, http.StatusUnauthorized, err.Error())
			return
		}
	}

	event := r.Header.Get("X-GitHub-Event")
	delivery := r.Header.Get("X-GitHub-Delivery")
	serverLog.Printf("Delivery %s: event=%s", delivery, event)

	if event == "ping" {
		writeText(w, http.StatusOK, "pong")
		return
	}
	if !slices.Contains(TrackedEvents, event) {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "ignored", "reason": "untracked event " + event})
		return
	}

	var payload deliveryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeText(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	source := payload.Repository.FullName
	if strings.EqualFold(source, s.cfg.Tracker.String()) {
		// The tracker's own commits would otherwise retrigger the workflow forever
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "ignored", "reason": "tracker repository"})
		return
	}

	if delivery != "" {
		if found, _ := s.seen.ContainsOrAdd(delivery, struct{}{}); found {
			writeJSON(w, http.StatusOK, map[string]string{"status": "duplicate", "delivery": delivery})
			return
		}
	}

	requestID := uuid.NewString()
	err = s.dispatcher.Dispatch(r.Context(), s.cfg.Tracker.Owner, s.cfg.Tracker.Name, github.DispatchRequest{
		EventType: DispatchEventType,
		ClientPayload: map[string]any{
			"source_repo":  source,
			"source_event": event,
			"delivery":     delivery,
			"request_id":   requestID,
		},
	})
	if err != nil {
		if delivery != "" {
			// Let a manual redelivery through
			s.seen.Remove(delivery)
		}
		serverLog.Printf("Dispatch failed for delivery %s: %v", delivery, err)
		writeText(w, http.StatusBadGateway, "dispatch failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "dispatched", "request_id": requestID})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		serverLog.Printf("%s %s -> %d (%s) request_id=%s", r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
