package server

import (
	"time"

	"taskboard/internal/domain/errors"
)

// Layouts accepted for due_date input, tried in order. Everything is
// normalised to UTC before it reaches storage.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDueDate(value string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.ErrInvalidDueDate
}
