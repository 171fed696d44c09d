// Package lifecycle holds shared constants for component start/stop handling.
package lifecycle

import "time"

// DefaultTimeout bounds graceful startup checks and shutdown drains.
const DefaultTimeout = 30 * time.Second
