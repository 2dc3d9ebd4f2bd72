// Package lifecycle holds shared timing values for fx start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds start-up pings and graceful shutdowns.
const DefaultTimeout = 15 * time.Second
