package utils

import (
	"time"
)

const (
	generatedTimestampLayout = "2006-01-02 15:04:05"
	dumpNameTimestampLayout  = "20060102_150405"
)

// FormatGeneratedTimestamp returns the provided time in the local time zone with second precision.
func FormatGeneratedTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(generatedTimestampLayout)
}

// FormatDumpNameTimestamp returns a file-name safe local timestamp such as 20261018_140305.
func FormatDumpNameTimestamp(value time.Time) string {
	return value.In(time.Local).Format(dumpNameTimestampLayout)
}
