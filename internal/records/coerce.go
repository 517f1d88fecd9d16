package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

// Coerce converts textual input into the typed values the upserter expects:
// date strings become time.Time, textual flags under option labels and
// boolean columns become bool. Other values pass through.
func Coerce(record models.Record, catalog *models.SchemaCatalog) (models.Record, error) {
	labels := optionLabels(catalog)
	out := make(models.Record, len(record))

	for k, v := range record {
		s, isString := v.(string)
		if !isString {
			out[k] = v
			continue
		}

		col, isColumn := catalog.Field(k)
		switch {
		case isColumn && col.Type == models.FieldDate:
			t, err := parseDate(s)
			if err != nil {
				return nil, models.NewValidationError(k, err.Error())
			}
			out[k] = t
		case isColumn && col.Type == models.FieldBoolean:
			if b, ok := parseFlag(s); ok {
				out[k] = b
			} else {
				out[k] = s
			}
		case !isColumn && labels[k]:
			if b, ok := parseFlag(s); ok {
				out[k] = b
			} else {
				out[k] = s
			}
		default:
			out[k] = s
		}
	}
	return out, nil
}

func optionLabels(catalog *models.SchemaCatalog) map[string]bool {
	labels := make(map[string]bool)
	for _, col := range catalog.SelectFields() {
		for _, o := range col.Options() {
			labels[o] = true
		}
	}
	return labels
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func parseFlag(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "x":
		return true, true
	case "no", "n":
		return false, true
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false
	}
	return b, true
}
