package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a configured duration, falling back to def when the
// value is empty or malformed. Config validation rejects malformed values, so
// the fallback only covers callers holding an unvalidated config.
func ParseDuration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Err(err).Str("value", value).Dur("default", def).Msg("Failed to parse duration, using default")
		return def
	}
	return d
}
