package github

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/domain/types"
)

// Client is the secondary feed source backed by the GitHub REST API
type Client struct {
	githubClient *github.Client
}

type config struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithBaseURL points the client at another REST endpoint, e.g. a test server
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithToken authenticates requests, raising the API rate limit
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

// NewClient creates a secondary feed source
func NewClient(opts ...Option) (*Client, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	githubClient := github.NewClient(cfg.httpClient)
	if cfg.token != "" {
		githubClient = githubClient.WithAuthToken(cfg.token)
	}

	if cfg.baseURL != "" {
		base := cfg.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("base_url", cfg.baseURL))
		}
		githubClient.BaseURL = u
	}

	return &Client{
		githubClient: githubClient,
	}, nil
}

// Fetch lists the most recently updated repositories of account
func (c *Client) Fetch(ctx context.Context, account types.AccountID) ([]model.FeedItem, error) {
	opts := &github.RepositoryListByUserOptions{
		Sort: "updated",
		ListOptions: github.ListOptions{
			PerPage: types.SecondaryPageSize,
		},
	}

	ctxlog.From(ctx).Debug("Listing repositories", "account", account)

	repos, resp, err := c.githubClient.Repositories.ListByUser(ctx, account.String(), opts)
	if err != nil {
		attrs := []goerr.Option{goerr.V("account", account)}
		if resp != nil {
			attrs = append(attrs, goerr.V("status_code", resp.StatusCode))
		}
		return nil, goerr.Wrap(err, "failed to list repositories", attrs...)
	}
	if repos == nil {
		return nil, goerr.New("GitHub returned no repository list", goerr.V("account", account))
	}
	for idx, r := range repos {
		if r == nil {
			return nil, goerr.New("GitHub returned a null repository",
				goerr.V("account", account),
				goerr.V("index", idx),
			)
		}
	}

	return MapRepositories(repos), nil
}

// MapRepositories converts GitHub repositories into feed items. At most
// SecondaryPageSize items are kept; topics are followed by the language and the
// combined list is truncated to MaxFeedTopics.
func MapRepositories(repos []*github.Repository) []model.FeedItem {
	if len(repos) > types.SecondaryPageSize {
		repos = repos[:types.SecondaryPageSize]
	}

	items := make([]model.FeedItem, 0, len(repos))
	for _, r := range repos {
		topics := append([]string{}, r.Topics...)
		if lang := r.GetLanguage(); lang != "" {
			topics = append(topics, lang)
		}
		if len(topics) > types.MaxFeedTopics {
			topics = topics[:types.MaxFeedTopics]
		}

		items = append(items, model.FeedItem{
			ID:          strconv.FormatInt(r.GetID(), 10),
			Name:        r.GetName(),
			Description: r.GetDescription(),
			URL:         r.GetHTMLURL(),
			Topics:      topics,
		})
	}
	return items
}
