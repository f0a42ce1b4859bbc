package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	githubinfra "github.com/ncn914491/folio/pkg/infra/github"
	"github.com/ncn914491/folio/pkg/infra/pinned"
	"github.com/urfave/cli/v3"
)

// Feed holds project feed source configuration
type Feed struct {
	Account        string
	PinnedEndpoint string
	GitHubEndpoint string
	GitHubToken    string `masq:"secret"`
	Timeout        time.Duration
}

// Flags returns CLI flags for feed configuration
func (c *Feed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-account",
			Usage:       "GitHub account whose repositories are showcased",
			Destination: &c.Account,
			Sources:     cli.EnvVars("FOLIO_GITHUB_ACCOUNT"),
		},
		&cli.StringFlag{
			Name:        "pinned-endpoint",
			Usage:       "Pinned repositories service URL (primary source)",
			Value:       pinned.DefaultEndpoint,
			Destination: &c.PinnedEndpoint,
			Sources:     cli.EnvVars("FOLIO_PINNED_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:        "github-api-endpoint",
			Usage:       "GitHub REST API base URL (secondary source); empty for api.github.com",
			Destination: &c.GitHubEndpoint,
			Sources:     cli.EnvVars("FOLIO_GITHUB_API_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token for the secondary source (optional, raises rate limit)",
			Destination: &c.GitHubToken,
			Sources:     cli.EnvVars("FOLIO_GITHUB_TOKEN"),
		},
		&cli.DurationFlag{
			Name:        "feed-timeout",
			Usage:       "Timeout of each feed source request (0 to disable)",
			Value:       10 * time.Second,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("FOLIO_FEED_TIMEOUT"),
		},
	}
}

// Validate checks required feed settings
func (c *Feed) Validate() error {
	if c.Account == "" {
		return goerr.New("github-account is required (flag, FOLIO_GITHUB_ACCOUNT or site config)")
	}
	return nil
}

// NewPrimary builds the primary feed source
func (c *Feed) NewPrimary() *pinned.Client {
	return pinned.NewClient(pinned.WithEndpoint(c.PinnedEndpoint))
}

// NewSecondary builds the secondary feed source
func (c *Feed) NewSecondary() (*githubinfra.Client, error) {
	var opts []githubinfra.Option
	if c.GitHubEndpoint != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.GitHubEndpoint))
	}
	if c.GitHubToken != "" {
		opts = append(opts, githubinfra.WithToken(c.GitHubToken))
	}

	client, err := githubinfra.NewClient(opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub client")
	}
	return client, nil
}
