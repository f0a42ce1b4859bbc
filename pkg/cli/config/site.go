package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Site holds owner settings of the portfolio
type Site struct {
	Owner      string
	ConfigFile string
}

// SiteFile is the optional TOML site configuration. Flags and environment
// variables that are explicitly set take precedence over its values.
type SiteFile struct {
	Owner         string `toml:"owner"`
	GitHubAccount string `toml:"github_account"`
	EmailJS       struct {
		ServiceID  string `toml:"service_id"`
		TemplateID string `toml:"template_id"`
		PublicKey  string `toml:"public_key"`
	} `toml:"emailjs"`
}

// Flags returns CLI flags for site configuration
func (c *Site) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "site-owner",
			Usage:       "Recipient display name passed to the relay",
			Destination: &c.Owner,
			Sources:     cli.EnvVars("FOLIO_SITE_OWNER"),
		},
		&cli.StringFlag{
			Name:        "site-config",
			Usage:       "Path to TOML site configuration file",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("FOLIO_SITE_CONFIG"),
		},
	}
}

// LoadSiteFile reads a TOML site configuration file
func LoadSiteFile(path string) (*SiteFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read site config", goerr.V("path", path))
	}

	var file SiteFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse site config", goerr.V("path", path))
	}
	return &file, nil
}

// Apply fills unset settings from the site configuration file, if any. isSet
// reports whether a flag was given explicitly. feed and relay may be nil when the
// command does not use them.
func (c *Site) Apply(isSet func(name string) bool, feed *Feed, relay *Relay) error {
	if c.ConfigFile == "" {
		return nil
	}

	file, err := LoadSiteFile(c.ConfigFile)
	if err != nil {
		return err
	}

	fill := func(flag string, dst *string, value string) {
		if value != "" && !isSet(flag) {
			*dst = value
		}
	}

	fill("site-owner", &c.Owner, file.Owner)
	if feed != nil {
		fill("github-account", &feed.Account, file.GitHubAccount)
	}
	if relay != nil {
		fill("emailjs-service-id", &relay.ServiceID, file.EmailJS.ServiceID)
		fill("emailjs-template-id", &relay.TemplateID, file.EmailJS.TemplateID)
		fill("emailjs-public-key", &relay.PublicKey, file.EmailJS.PublicKey)
	}
	return nil
}

// Validate checks required site settings
func (c *Site) Validate() error {
	if c.Owner == "" {
		return goerr.New("site-owner is required (flag, FOLIO_SITE_OWNER or site config)")
	}
	return nil
}
