package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr        string
	SessionTTL  time.Duration
	MaxSessions int
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("FOLIO_ADDR"),
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Idle time after which a contact form session expires",
			Value:       30 * time.Minute,
			Destination: &c.SessionTTL,
			Sources:     cli.EnvVars("FOLIO_SESSION_TTL"),
		},
		&cli.IntFlag{
			Name:        "max-sessions",
			Usage:       "Maximum number of live contact form sessions",
			Value:       1000,
			Destination: &c.MaxSessions,
			Sources:     cli.EnvVars("FOLIO_MAX_SESSIONS"),
		},
	}
}
