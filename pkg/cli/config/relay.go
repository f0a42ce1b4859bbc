package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ncn914491/folio/pkg/infra/emailjs"
	"github.com/urfave/cli/v3"
)

// Relay holds EmailJS relay configuration
type Relay struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string `masq:"secret"`
	PrivateKey string `masq:"secret"`
	Timeout    time.Duration
}

// Flags returns CLI flags for relay configuration
func (c *Relay) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "emailjs-endpoint",
			Usage:       "EmailJS send API URL",
			Value:       emailjs.DefaultEndpoint,
			Destination: &c.Endpoint,
			Sources:     cli.EnvVars("FOLIO_EMAILJS_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:        "emailjs-service-id",
			Usage:       "EmailJS service ID",
			Destination: &c.ServiceID,
			Sources:     cli.EnvVars("FOLIO_EMAILJS_SERVICE_ID"),
		},
		&cli.StringFlag{
			Name:        "emailjs-template-id",
			Usage:       "EmailJS template ID",
			Destination: &c.TemplateID,
			Sources:     cli.EnvVars("FOLIO_EMAILJS_TEMPLATE_ID"),
		},
		&cli.StringFlag{
			Name:        "emailjs-public-key",
			Usage:       "EmailJS public key",
			Destination: &c.PublicKey,
			Sources:     cli.EnvVars("FOLIO_EMAILJS_PUBLIC_KEY"),
		},
		&cli.StringFlag{
			Name:        "emailjs-private-key",
			Usage:       "EmailJS private key (optional, for strict mode accounts)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("FOLIO_EMAILJS_PRIVATE_KEY"),
		},
		&cli.DurationFlag{
			Name:        "relay-timeout",
			Usage:       "Timeout of each relay request (0 to disable)",
			Value:       15 * time.Second,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("FOLIO_RELAY_TIMEOUT"),
		},
	}
}

// NewClient builds the relay client
func (c *Relay) NewClient() (*emailjs.Client, error) {
	client, err := emailjs.NewClient(emailjs.Credentials{
		ServiceID:  c.ServiceID,
		TemplateID: c.TemplateID,
		PublicKey:  c.PublicKey,
		PrivateKey: c.PrivateKey,
	}, emailjs.WithEndpoint(c.Endpoint))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create EmailJS client")
	}
	return client, nil
}
