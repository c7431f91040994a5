package config

import (
	"os"
	"strconv"
	"time"
)

// RetrySettings describes how config-table lookups would be retried.
//
// Nothing reads these settings yet: the repositories run with the SDK's
// default retryer. Wiring them in is tracked as an open gap rather than
// guessed at here, because it changes observable latency on the 404 path.
type RetrySettings struct {
	// MaxRetries is the number of additional lookup attempts
	MaxRetries int

	// BackoffBase is the base delay between attempts
	BackoffBase time.Duration
}

const (
	defaultMaxRetries  = 3
	defaultBackoffBase = 100 * time.Millisecond
)

// LoadRetrySettings reads retry settings from the environment, falling back
// to the defaults for unset or unparseable values.
func LoadRetrySettings() RetrySettings {
	settings := RetrySettings{
		MaxRetries:  defaultMaxRetries,
		BackoffBase: defaultBackoffBase,
	}

	if v := os.Getenv("LOOKUP_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			settings.MaxRetries = n
		}
	}

	if v := os.Getenv("LOOKUP_BACKOFF_BASE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			settings.BackoffBase = time.Duration(ms) * time.Millisecond
		}
	}

	return settings
}
