// Package cache provides the short-lived result cache used by the contact
// insight endpoints. Analyses are expensive model calls; a five minute window
// is long enough to absorb UI refreshes and short enough that new activity
// shows up quickly.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the expiry applied when Set is called with a zero ttl.
const DefaultTTL = 5 * time.Minute

// Store is a minimal string cache. Both implementations are safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// Key builds the canonical cache key for a contact analysis.
func Key(contactId, analysisType string) string {
	return contactId + ":" + analysisType
}
