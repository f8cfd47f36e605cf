package hmacauth

import "time"

// isoMillisLayout is the interoperable ISO-8601 rendering: UTC, extended
// format, millisecond precision.
const isoMillisLayout = "2006-01-02T15:04:05.000Z"

// GenerateTimestamp returns the config's override timestamp unchanged when
// present, otherwise the current wall-clock instant rendered per
// TimestampFormat: int64 epoch milliseconds, int64 epoch seconds, or an
// ISO-8601 UTC string with millisecond precision.
func GenerateTimestamp(cfg SigningConfig) any {
	if cfg.Timestamp != nil {
		return cfg.Timestamp
	}

	now := time.Now().UTC()
	switch cfg.TimestampFormat {
	case TimestampSeconds, TimestampUnix:
		return now.Unix()
	case TimestampISO8601:
		return now.Format(isoMillisLayout)
	default:
		return now.UnixMilli()
	}
}
