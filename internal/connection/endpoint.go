package connection

import (
	"fmt"
	"net/url"
)

// EventPath is the well-known event stream path on the dashboard host.
const EventPath = "/api/events"

// EndpointURL derives the event endpoint from the dashboard's base URL.
// The socket scheme follows the page scheme: a secure page gets wss, a
// plain one gets ws. ws/wss bases pass through unchanged.
func EndpointURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse endpoint base: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", ErrBadEndpoint
	}

	u.Path = EventPath
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}
