package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// CurrentUser returns the account the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var u User
	if err := c.get(ctx, "user", &u); err != nil {
		return User{}, fmt.Errorf("failed to authenticate with GitHub: %w", err)
	}
	return u, nil
}

// ListPublicEvents fetches up to pages pages of username's public events.
// It stops early on a short page.
func (c *Client) ListPublicEvents(ctx context.Context, username string, pages int) ([]Event, error) {
	if pages < 1 {
		pages = 1
	}
	var events []Event
	for page := 1; page <= pages; page++ {
		path := withQuery(fmt.Sprintf("users/%s/events/public", url.PathEscape(username)), url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		})
		var batch []Event
		if err := c.get(ctx, path, &batch); err != nil {
			return nil, fmt.Errorf("failed to fetch GitHub events: %w", err)
		}
		events = append(events, batch...)
		if len(batch) < perPage {
			break
		}
	}
	clientLog.Printf("Fetched %d public events for %s", len(events), username)
	return events, nil
}

// ListOwnedRepos lists every repository owned by the authenticated user.
func (c *Client) ListOwnedRepos(ctx context.Context) ([]Repository, error) {
	repos, err := getAll[Repository](ctx, c, withQuery("user/repos", url.Values{
		"type":     {"owner"},
		"per_page": {strconv.Itoa(perPage)},
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user-owned repositories: %w", err)
	}
	clientLog.Printf("Fetched %d owned repositories", len(repos))
	return repos, nil
}

// ListHooks lists the webhooks of owner/repo.
func (c *Client) ListHooks(ctx context.Context, owner, repo string) ([]Hook, error) {
	hooks, err := getAll[Hook](ctx, c, withQuery(repoPath(owner, repo, "hooks"), url.Values{
		"per_page": {strconv.Itoa(perPage)},
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to list hooks for %s/%s: %w", owner, repo, err)
	}
	return hooks, nil
}

// CreateHook adds a webhook to owner/repo.
func (c *Client) CreateHook(ctx context.Context, owner, repo string, hook Hook) (Hook, error) {
	var created Hook
	if err := c.post(ctx, repoPath(owner, repo, "hooks"), hook, &created); err != nil {
		return Hook{}, fmt.Errorf("failed to create hook for %s/%s: %w", owner, repo, err)
	}
	return created, nil
}

// Dispatch sends a repository_dispatch event to owner/repo.
func (c *Client) Dispatch(ctx context.Context, owner, repo string, req DispatchRequest) error {
	if err := c.post(ctx, repoPath(owner, repo, "dispatches"), req, nil); err != nil {
		return fmt.Errorf("failed to dispatch %s to %s/%s: %w", req.EventType, owner, repo, err)
	}
	clientLog.Printf("Dispatched %s to %s/%s", req.EventType, owner, repo)
	return nil
}

func repoPath(owner, repo, resource string) string {
	return fmt.Sprintf("repos/%s/%s/%s", url.PathEscape(owner), url.PathEscape(repo), resource)
}
