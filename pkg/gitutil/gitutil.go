// Package gitutil classifies git and GitHub error output.
package gitutil

import (
	"strings"

	"github.com/gittracker/git-tracker/pkg/logger"
)

var log = logger.New("gitutil:gitutil")

// IsAuthError reports whether an error message points at missing or
// rejected credentials, from either git or the GitHub API.
func IsAuthError(errMsg string) bool {
	lowerMsg := strings.ToLower(errMsg)
	isAuth := strings.Contains(lowerMsg, "gh_pat") ||
		strings.Contains(lowerMsg, "gh_token") ||
		strings.Contains(lowerMsg, "github_token") ||
		strings.Contains(lowerMsg, "authentication") ||
		strings.Contains(lowerMsg, "bad credentials") ||
		strings.Contains(lowerMsg, "unauthorized") ||
		strings.Contains(lowerMsg, "forbidden") ||
		strings.Contains(lowerMsg, "permission denied") ||
		strings.Contains(lowerMsg, "http 401") ||
		strings.Contains(lowerMsg, "http 403")
	if isAuth {
		log.Printf("Detected authentication error: %s", errMsg)
	}
	return isAuth
}

// IsNonFastForward reports whether git push output describes a rejection
// because the remote branch moved ahead of the local one.
func IsNonFastForward(errMsg string) bool {
	lowerMsg := strings.ToLower(errMsg)
	return strings.Contains(lowerMsg, "non-fast-forward") ||
		strings.Contains(lowerMsg, "fetch first") ||
		(strings.Contains(lowerMsg, "rejected") && strings.Contains(lowerMsg, "behind"))
}

// IsHexString reports whether s is a non-empty string of hexadecimal digits,
// as git object names are.
func IsHexString(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
