package dip

import (
	"fmt"
	"strings"
	"time"
)

// Credentials holds the API keys known to the caller. The public demo key
// published by the Bundestag rotates and carries an expiry date.
type Credentials struct {
	APIKey         string
	DemoKey        string
	DemoKeyExpires time.Time
}

// Resolve returns the key to use at now: an explicit key first, then the
// demo key while it has not expired.
func (c Credentials) Resolve(now time.Time) (string, error) {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(c.DemoKey); key != "" {
		if c.DemoKeyExpires.IsZero() || now.Before(c.DemoKeyExpires) {
			return key, nil
		}
		return "", fmt.Errorf("%w: demo key expired on %s", ErrNoAPIKey, c.DemoKeyExpires.Format(DateLayout))
	}
	return "", ErrNoAPIKey
}
