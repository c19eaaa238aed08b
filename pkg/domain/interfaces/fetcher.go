package interfaces

import (
	"context"
	"time"
)

// Fetcher retrieves the full payload behind a URL. It is the only blocking
// network operation of an install; cancellation and timeouts are its concern.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ConfigRootProvider resolves the per-user configuration directory that
// contains the mods root
type ConfigRootProvider interface {
	ConfigRoot() (string, error)
}

// Clock provides the current time, used for fallback mod names
type Clock interface {
	Now() time.Time
}
