// Package pinned implements the primary feed source: a pinned-items service that
// returns the repositories an account has pinned on its GitHub profile.
package pinned

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/domain/types"
)

// DefaultEndpoint is the public pinned-items service
const DefaultEndpoint = "https://gh-pinned-repos.egoist.dev/"

// Repo is one entry of the pinned-items response
type Repo struct {
	Repo        string  `json:"repo"`
	Owner       string  `json:"owner"`
	Link        string  `json:"link"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithEndpoint overrides the pinned-items service URL
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a primary feed source
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the pinned repositories of account and normalizes them
func (c *Client) Fetch(ctx context.Context, account types.AccountID) ([]model.FeedItem, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid pinned endpoint", goerr.V("endpoint", c.endpoint))
	}
	q := u.Query()
	q.Set("username", account.String())
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create pinned request")
	}
	req.Header.Set("Accept", "application/json")

	ctxlog.From(ctx).Debug("Fetching pinned repositories", "url", u.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to request pinned repositories", goerr.V("account", account))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, goerr.New(fmt.Sprintf("pinned endpoint returned status %d", resp.StatusCode),
			goerr.V("account", account),
			goerr.V("status_code", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	var entries []*Repo
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, goerr.Wrap(err, "failed to decode pinned repositories", goerr.V("account", account))
	}
	if entries == nil {
		return nil, goerr.New("pinned endpoint returned no repository list", goerr.V("account", account))
	}

	repos := make([]Repo, 0, len(entries))
	for idx, r := range entries {
		if r == nil {
			return nil, goerr.New("pinned endpoint returned a null repository",
				goerr.V("account", account),
				goerr.V("index", idx),
			)
		}
		repos = append(repos, *r)
	}

	return MapPinned(repos), nil
}

// MapPinned converts pinned-items entries into feed items. The id combines owner, repo
// and position because the service provides no stable identifier.
func MapPinned(repos []Repo) []model.FeedItem {
	items := make([]model.FeedItem, 0, len(repos))
	for idx, r := range repos {
		topics := []string{}
		if r.Language != nil && *r.Language != "" {
			topics = append(topics, *r.Language)
		}

		var description string
		if r.Description != nil {
			description = *r.Description
		}

		items = append(items, model.FeedItem{
			ID:          fmt.Sprintf("%s/%s-%d", r.Owner, r.Repo, idx),
			Name:        r.Repo,
			Description: description,
			URL:         r.Link,
			Topics:      topics,
		})
	}
	return items
}
