package github

import "time"

// User is the authenticated account.
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// Event is one entry of a user's public event stream.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Repo struct {
		Name string `json:"name"`
	} `json:"repo"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is the subset of repository fields the tool reads.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Owner    struct {
		Login string `json:"login"`
	} `json:"owner"`
	Fork     bool `json:"fork"`
	Archived bool `json:"archived"`
}

// HookConfig is the delivery configuration of a repository webhook.
type HookConfig struct {
	URL         string `json:"url,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Secret      string `json:"secret,omitempty"`
	InsecureSSL string `json:"insecure_ssl,omitempty"`
}

// Hook is a repository webhook.
type Hook struct {
	ID     int64      `json:"id,omitempty"`
	Name   string     `json:"name"`
	Active bool       `json:"active"`
	Events []string   `json:"events"`
	Config HookConfig `json:"config"`
}

// DispatchRequest is the body of POST /repos/{owner}/{repo}/dispatches.
type DispatchRequest struct {
	EventType     string         `json:"event_type"`
	ClientPayload map[string]any `json:"client_payload,omitempty"`
}
