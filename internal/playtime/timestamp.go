package playtime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrMalformedEntry marks a log line that does not start with a [HH:MM:SS] timestamp.
var ErrMalformedEntry = errors.New("malformed log entry")

var entryTimestamp = regexp.MustCompile(`^\[(\d{2}):(\d{2}):(\d{2})\]`)

const day = 24 * time.Hour

// ParseTimestamp reads the leading [HH:MM:SS] of text as an offset from midnight.
func ParseTimestamp(text string) (time.Duration, error) {
	m := entryTimestamp.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("%w: %.32q", ErrMalformedEntry, text)
	}
	var parts [3]int
	for i := range parts {
		// Two ASCII digits always parse.
		parts[i], _ = strconv.Atoi(m[i+1])
	}
	return time.Duration(parts[0])*time.Hour +
		time.Duration(parts[1])*time.Minute +
		time.Duration(parts[2])*time.Second, nil
}

// Elapsed returns end-start, treating an end before start as the next day.
func Elapsed(start, end time.Duration) time.Duration {
	if end < start {
		end += day
	}
	return end - start
}

// FormatDuration renders d as H:MM:SS with unbounded hours.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
}
