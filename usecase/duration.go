package usecase

import (
	"fmt"
	"regexp"
	"strconv"
)

// ShortFormMaxSeconds is the inclusive upper bound for short-form content.
const ShortFormMaxSeconds = 60

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts an ISO-8601 time duration (PT#H#M#S) to seconds.
// Unparseable input yields 0 rather than an error; remote catalogs carry the
// occasional malformed duration and a zero keeps the item syncable.
func ParseISODuration(raw string) int64 {
	m := isoDurationRe.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	var seconds int64
	for i, mult := range []int64{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0
		}
		seconds += n * mult
	}
	return seconds
}

// IsShortForm classifies a duration; the 60-second boundary itself is short.
func IsShortForm(seconds int64) bool {
	return seconds <= ShortFormMaxSeconds
}

// FormatDuration renders seconds as H:MM:SS, or M:SS under an hour.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
