package mapper

import (
	"fmt"
	"sort"
	"time"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/ncruces/go-strftime"
)

const (
	usDateTimePattern = "%m/%d/%Y %I:%M:%S %p"
	usDatePattern     = "%m/%d/%Y"
)

// PayloadBuilder translates logical records into the Baserow wire format
type PayloadBuilder struct{}

// NewPayloadBuilder initializes a new mapper instance
func NewPayloadBuilder() *PayloadBuilder {
	return &PayloadBuilder{}
}

// Build folds option flags into select columns, formats dates and checks that
// every remaining key is a writable column. The input record is not modified.
func (b *PayloadBuilder) Build(record models.Record, catalog *models.SchemaCatalog) (models.Payload, error) {
	work := record.Clone()

	if err := b.foldOptions(work, catalog); err != nil {
		return nil, err
	}
	if err := b.normalizeDates(work, catalog); err != nil {
		return nil, err
	}
	if err := b.checkMembership(work, catalog); err != nil {
		return nil, err
	}

	return models.Payload(work), nil
}

// foldOptions consumes per-option flags. An explicit value under the column
// name wins over folded candidates.
func (b *PayloadBuilder) foldOptions(work models.Record, catalog *models.SchemaCatalog) error {
	for _, col := range catalog.SelectFields() {
		var selected []string
		for _, option := range col.Options() {
			v, ok := work[option]
			if !ok {
				continue
			}
			if isSelected(v) {
				selected = append(selected, option)
			}
			delete(work, option)
		}

		if col.Type == models.FieldSingleSelect && len(selected) > 1 {
			return models.NewValidationError(col.Name, fmt.Sprintf("multiple options for single select: %v", selected))
		}

		if _, explicit := work[col.Name]; explicit || len(selected) == 0 {
			continue
		}

		switch col.Type {
		case models.FieldSingleSelect:
			work[col.Name] = selected[0]
		case models.FieldMultipleSelect:
			work[col.Name] = selected
		}
	}
	return nil
}

// isSelected accepts true or a numeric 1
func isSelected(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return val == 1
	case int8:
		return val == 1
	case int16:
		return val == 1
	case int32:
		return val == 1
	case int64:
		return val == 1
	case uint:
		return val == 1
	case uint8:
		return val == 1
	case uint16:
		return val == 1
	case uint32:
		return val == 1
	case uint64:
		return val == 1
	case float32:
		return val == 1
	case float64:
		return val == 1
	default:
		return false
	}
}

func (b *PayloadBuilder) normalizeDates(work models.Record, catalog *models.SchemaCatalog) error {
	for _, col := range catalog.Fields() {
		if col.Type != models.FieldDate {
			continue
		}
		v, ok := work[col.Name]
		if !ok {
			continue
		}
		t, ok := asTime(v)
		if !ok {
			return models.NewValidationError(col.Name, fmt.Sprintf("invalid date value of type %T", v))
		}
		work[col.Name] = FormatDate(t, *col.Date)
	}
	return nil
}

func asTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	default:
		return time.Time{}, false
	}
}

// FormatDate renders t according to a date column's settings. Unknown format
// tokens are applied as strftime patterns and left for the service to reject.
func FormatDate(t time.Time, meta models.DateMeta) string {
	if !meta.IncludeTime {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}

	switch meta.Format {
	case models.DateFormatISO:
		if meta.IncludeTime {
			return t.Format(time.RFC3339)
		}
		return t.Format(time.DateOnly)
	case models.DateFormatUS:
		if meta.IncludeTime {
			return strftime.Format(usDateTimePattern, t)
		}
		return strftime.Format(usDatePattern, t)
	default:
		return strftime.Format(string(meta.Format), t)
	}
}

func (b *PayloadBuilder) checkMembership(work models.Record, catalog *models.SchemaCatalog) error {
	// Sort keys for a deterministic error
	keys := make([]string, 0, len(work))
	for k := range work {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		col, ok := catalog.Field(k)
		if !ok {
			return models.NewSchemaError(fmt.Sprintf("unknown column: %s", k))
		}
		if col.IsReadOnly {
			return models.NewSchemaError(fmt.Sprintf("read-only column: %s", k))
		}
	}
	return nil
}
