package types

// Version is the application version, overridden at build time via -ldflags
var Version = "dev"

// AccountID is the external account whose repositories are showcased
type AccountID string

func (x AccountID) String() string { return string(x) }

// SessionID identifies one visitor's contact form session
type SessionID string

func (x SessionID) String() string { return string(x) }

const (
	// MaxFeedTopics is the maximum number of topics kept per feed item
	MaxFeedTopics = 5

	// SecondaryPageSize is the number of repositories requested from the fallback source
	SecondaryPageSize = 6
)
