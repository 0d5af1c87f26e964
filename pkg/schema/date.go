package schema

import (
	"fmt"
	"strings"
	"time"
)

// canonicalDateLayout is the display form every date carries past the schema
// boundary. Templates receive dates as opaque text in this form.
const canonicalDateLayout = "2006-01-02"

// dateLayouts are the textual inputs accepted for date fields, tried in
// order. Full timestamps keep only their UTC date component.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	canonicalDateLayout,
}

func canonicalDate(t time.Time) string {
	return t.UTC().Format(canonicalDateLayout)
}

// canonicalizeDate converts a textual date into the canonical display
// string. The conversion is deterministic: the same input always yields the
// same output.
func canonicalizeDate(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return canonicalDate(t), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", value)
}
