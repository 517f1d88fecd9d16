package models

// FieldType is the discriminant of a FieldDefinition
type FieldType string

const (
	FieldText           FieldType = "text"
	FieldNumber         FieldType = "number"
	FieldBoolean        FieldType = "boolean"
	FieldDate           FieldType = "date"
	FieldSingleSelect   FieldType = "single_select"
	FieldMultipleSelect FieldType = "multiple_select"
	FieldOther          FieldType = "other"
)

// IsSelect reports whether the type carries an option list
func (t FieldType) IsSelect() bool {
	return t == FieldSingleSelect || t == FieldMultipleSelect
}

// DateFormat is the Baserow date_format token. Anything besides ISO and US is
// treated as a literal strftime pattern.
type DateFormat string

const (
	DateFormatISO DateFormat = "ISO"
	DateFormatUS  DateFormat = "US"
)

// SelectMeta holds the choice labels of a select column, in remote order
type SelectMeta struct {
	Options []string `yaml:"options"`
}

// HasOption reports whether label is one of the valid choices
func (m *SelectMeta) HasOption(label string) bool {
	for _, o := range m.Options {
		if o == label {
			return true
		}
	}
	return false
}

// DateMeta holds the formatting rules of a date column
type DateMeta struct {
	IncludeTime bool       `yaml:"include_time"`
	Format      DateFormat `yaml:"format"`
}

// FieldDefinition describes one remote column.
// Select is set only for select types and Date only for date columns.
type FieldDefinition struct {
	Name       string      `yaml:"name"`
	Type       FieldType   `yaml:"type"`
	IsPrimary  bool        `yaml:"primary,omitempty"`
	IsReadOnly bool        `yaml:"read_only,omitempty"`
	Select     *SelectMeta `yaml:"select,omitempty"`
	Date       *DateMeta   `yaml:"date,omitempty"`
}

// Options returns the select choices, or nil for non-select columns
func (f FieldDefinition) Options() []string {
	if f.Select == nil {
		return nil
	}
	return f.Select.Options
}
