// Package parser parses GitHub repository references and YAML error
// positions.
package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gittracker/git-tracker/pkg/logger"
)

var slugLog = logger.New("parser:repo_slug")

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the "owner/name" slug.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoRef parses a repository reference. Accepted forms:
//   - name (owner taken from defaultOwner)
//   - owner/name
//   - https://github.com/owner/name(.git)
//   - git@github.com:owner/name(.git)
func ParseRepoRef(input, defaultOwner string) (RepoRef, error) {
	slugLog.Printf("Parsing repository reference: %q (default owner %q)", input, defaultOwner)
	s := strings.TrimSpace(input)
	if s == "" {
		return RepoRef{}, fmt.Errorf("repository reference is empty")
	}

	switch {
	case strings.HasPrefix(s, "git@"):
		_, path, ok := strings.Cut(s, ":")
		if !ok {
			return RepoRef{}, fmt.Errorf("invalid SSH repository URL %q", input)
		}
		s = path
	case strings.Contains(s, "://"):
		u, err := url.Parse(s)
		if err != nil {
			return RepoRef{}, fmt.Errorf("invalid repository URL: %w", err)
		}
		s = u.Path
	}

	s = strings.TrimSuffix(strings.Trim(s, "/"), ".git")
	parts := strings.Split(s, "/")

	var ref RepoRef
	switch len(parts) {
	case 1:
		if defaultOwner == "" {
			return RepoRef{}, fmt.Errorf("repository %q has no owner and no default owner is configured", input)
		}
		ref = RepoRef{Owner: defaultOwner, Name: parts[0]}
	case 2:
		ref = RepoRef{Owner: parts[0], Name: parts[1]}
	default:
		return RepoRef{}, fmt.Errorf("repository reference %q must be 'owner/name'", input)
	}

	if !IsValidGitHubIdentifier(ref.Owner) {
		return RepoRef{}, fmt.Errorf("invalid repository owner %q", ref.Owner)
	}
	if !IsValidRepoName(ref.Name) {
		return RepoRef{}, fmt.Errorf("invalid repository name %q", ref.Name)
	}
	return ref, nil
}

// IsValidGitHubIdentifier checks if a string is a valid GitHub user or
// organization login.
func IsValidGitHubIdentifier(s string) bool {
	// Alphanumerics, hyphens and underscores; no leading or trailing hyphen; 1-39 characters
	if len(s) == 0 || len(s) > 39 {
		return false
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	for _, ch := range s {
		if !isAlnum(ch) && ch != '-' && ch != '_' {
			return false
		}
	}
	return true
}

// IsValidRepoName checks if a string is a valid repository name.
func IsValidRepoName(s string) bool {
	if len(s) == 0 || len(s) > 100 || s == "." || s == ".." {
		return false
	}
	for _, ch := range s {
		if !isAlnum(ch) && ch != '-' && ch != '_' && ch != '.' {
			return false
		}
	}
	return true
}

func isAlnum(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}
