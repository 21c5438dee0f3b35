package metrics

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/kirillov6/chanscope/internal/domain"
	"github.com/kirillov6/chanscope/pkg/errors"
)

// ISO-8601 durations as the platform reports them: PT#H#M#S with any
// component absent. Live items sometimes report P0D, which falls through to
// the malformed path and a zero duration.
var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration parses the platform's compact duration format. Malformed
// input yields a zero duration and a MalformedFieldError so the item itself
// is never dropped.
func ParseISODuration(raw string) (domain.Duration, error) {
	m := isoDurationPattern.FindStringSubmatch(raw)
	if m == nil {
		return zeroDuration(), errors.NewMalformedFieldError("duration", raw)
	}

	hours := atoiDefault(m[1])
	minutes := atoiDefault(m[2])
	seconds := atoiDefault(m[3])

	return domain.Duration{
		TotalSeconds: hours*3600 + minutes*60 + seconds,
		Hours:        hours,
		Minutes:      minutes,
		Seconds:      seconds,
		Formatted:    FormatDuration(hours, minutes, seconds),
	}, nil
}

// FormatDuration renders H:MM:SS, dropping the hour component when zero.
func FormatDuration(hours, minutes, seconds int) string {
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func zeroDuration() domain.Duration {
	return domain.Duration{Formatted: "0:00"}
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
