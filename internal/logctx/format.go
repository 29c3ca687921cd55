package logctx

import (
	"strings"
	"time"
)

// Renders one event as a log line fragment. Absent fields are skipped
// entirely, never printed as empty brackets.
func (event Event) Format() (text string) {
	var parts []string
	if !event.Timestamp.IsZero() {
		parts = append(parts, "["+padTimestamp(event.Timestamp)+"]")
	}

	if len(event.Tags) > 0 {
		parts = append(parts, "["+strings.Join(event.Tags, "/")+"]")
	}

	if event.Severity != "" {
		parts = append(parts, "["+event.Severity+"]")
	}

	if event.Message != "" {
		parts = append(parts, event.Message)
	}

	text = strings.Join(parts, " ")
	// Trailing newline is left to the message creator
	return
}

// RFC3339Nano emits a variable width fraction, pad it to a fixed nine
// digits so timestamps line up across log lines
func padTimestamp(timestamp time.Time) (formatted string) {
	formatted = timestamp.Format(time.RFC3339Nano)

	majorFields := strings.Split(formatted, ".")
	if len(majorFields) != 2 {
		return
	}

	minorFields := strings.Split(majorFields[1], "-")
	if len(minorFields) != 2 {
		return
	}

	tsPrefix := majorFields[0]
	nanoseconds := minorFields[0]
	timezoneOffset := minorFields[1]

	for len(nanoseconds) < 9 {
		nanoseconds = "0" + nanoseconds
	}

	formatted = tsPrefix + "." + nanoseconds + "-" + timezoneOffset
	return
}
