// Package googletasks mirrors lists and items into Google Tasks.
package googletasks

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"watchlater/internal/config"
	"watchlater/internal/errors"
	"watchlater/internal/service"
)

const (
	// PageSize is the number of entries requested per page.
	PageSize = 100

	// APITimeout is the timeout for a single API call.
	APITimeout = 5 * time.Second

	// TasksScope is the OAuth scope for Google Tasks.
	TasksScope = "https://www.googleapis.com/auth/tasks"

	// notesPrefix marks tasks created by push.
	notesPrefix = "watchlater:"
)

// Client pushes State into Google Tasks.
type Client struct {
	svc *tasks.Service
}

// PushResult counts what a Push created.
type PushResult struct {
	ListsCreated int
	TasksCreated int
	TasksSkipped int
}

// New creates a client from the stored OAuth client and token.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := LoadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Create token source that auto-refreshes
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client and options
// (for testing against a fake endpoint).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Push mirrors every list of st into a task list of the same name
// (matched case-insensitively, created when missing) and inserts every item
// whose title is not already a task there. Nothing is deleted remotely.
func (c *Client) Push(ctx context.Context, st service.State) (PushResult, error) {
	var res PushResult

	remote, err := c.taskLists(ctx)
	if err != nil {
		return res, err
	}

	for _, list := range st.Lists {
		key := matchKey(list.Name)
		remoteID, ok := remote[key]
		if !ok {
			remoteID, err = c.createTaskList(ctx, list.Name)
			if err != nil {
				return res, err
			}
			remote[key] = remoteID
			res.ListsCreated++
		}

		existing, err := c.taskTitles(ctx, remoteID)
		if err != nil {
			return res, err
		}

		// Items are stored newest first; insert oldest first so the remote
		// list ends up in the same order.
		items := st.ItemsIn(list.ID)
		for i := len(items) - 1; i >= 0; i-- {
			it := items[i]
			if _, dup := existing[matchKey(it.Title)]; dup {
				res.TasksSkipped++
				continue
			}
			if err := c.createTask(ctx, remoteID, it); err != nil {
				return res, err
			}
			existing[matchKey(it.Title)] = struct{}{}
			res.TasksCreated++
		}
	}
	return res, nil
}

// taskLists returns remote task list IDs keyed by matchKey(title).
// The first list wins when titles collide.
func (c *Client) taskLists(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	out := make(map[string]string)
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, l := range resp.Items {
			key := matchKey(l.Title)
			if _, seen := out[key]; !seen {
				out[key] = l.Id
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return out, nil
}

func (c *Client) createTaskList(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: name}).Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	return created.Id, nil
}

// taskTitles returns the match keys of every task in a list, completed and
// hidden ones included.
func (c *Client) taskTitles(ctx context.Context, listID string) (map[string]struct{}, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	out := make(map[string]struct{})
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				out[matchKey(t.Title)] = struct{}{}
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return out, nil
}

func (c *Client) createTask(ctx context.Context, listID string, it service.Item) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Insert(listID, &tasks.Task{
		Title: it.Title,
		Notes: notesPrefix + it.ID,
	}).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

func matchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func authError(msg string, err error) error {
	return errors.Wrap(err, errors.CategoryAuth, errors.SeverityFatal, msg)
}

// wrapError classifies API errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return errors.WrapRetryable(err, errors.CategoryRemote, errors.SeverityError, "request timed out")
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return errors.Wrap(err, errors.CategoryAuth, errors.SeverityError, "token expired or revoked (run: watchlater login)")
	}

	return errors.Wrap(err, errors.CategoryRemote, errors.SeverityError, "google tasks request failed")
}
