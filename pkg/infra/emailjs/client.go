// Package emailjs sends contact form messages through the EmailJS REST API, which
// delivers them to the site owner without a private mail backend.
package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ncn914491/folio/pkg/domain/model"
)

// DefaultEndpoint is the EmailJS send API
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// Credentials identify the EmailJS service, template and account
type Credentials struct {
	ServiceID  string
	TemplateID string
	PublicKey  string `masq:"secret"`
	PrivateKey string `masq:"secret"`
}

type templateParams struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	Message   string `json:"message"`
	ToName    string `json:"to_name"`
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	AccessToken    string         `json:"accessToken,omitempty"`
	TemplateParams templateParams `json:"template_params"`
}

type Client struct {
	endpoint    string
	credentials Credentials
	httpClient  *http.Client
}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithEndpoint overrides the EmailJS send URL
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

// NewClient creates a relay client
func NewClient(credentials Credentials, opts ...Option) (*Client, error) {
	if credentials.ServiceID == "" || credentials.TemplateID == "" || credentials.PublicKey == "" {
		return nil, goerr.New("EmailJS service ID, template ID and public key are required")
	}

	c := &Client{
		endpoint:    DefaultEndpoint,
		credentials: credentials,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Send issues exactly one send request. Only HTTP 200 counts as delivered.
func (c *Client) Send(ctx context.Context, msg *model.RelayMessage) error {
	payload := sendRequest{
		ServiceID:   c.credentials.ServiceID,
		TemplateID:  c.credentials.TemplateID,
		UserID:      c.credentials.PublicKey,
		AccessToken: c.credentials.PrivateKey,
		TemplateParams: templateParams{
			FromName:  msg.FromName,
			FromEmail: msg.FromEmail,
			Message:   msg.Message,
			ToName:    msg.ToName,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal EmailJS request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to create EmailJS request")
	}
	req.Header.Set("Content-Type", "application/json")

	ctxlog.From(ctx).Debug("Sending message via EmailJS",
		"service_id", c.credentials.ServiceID,
		"template_id", c.credentials.TemplateID,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send EmailJS request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return goerr.New(fmt.Sprintf("EmailJS returned status %d", resp.StatusCode),
			goerr.V("status_code", resp.StatusCode),
			goerr.V("body", string(text)),
		)
	}

	return nil
}
