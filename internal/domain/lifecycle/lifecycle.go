// Package lifecycle holds shared constants for startup and shutdown hooks.
package lifecycle

import "time"

// DefaultTimeout bounds lifecycle operations such as the startup DB ping and
// the HTTP server drain on shutdown.
const DefaultTimeout = 10 * time.Second
