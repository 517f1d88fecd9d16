package models

import "fmt"

// SchemaCatalog is an immutable snapshot of a table's columns.
// Field order follows the remote table and drives deterministic folding.
type SchemaCatalog struct {
	tableID int
	fields  []FieldDefinition
	byName  map[string]int
}

// NewSchemaCatalog validates the definitions and builds the catalog.
// Column names must be unique and at most one column may be primary.
func NewSchemaCatalog(tableID int, fields []FieldDefinition) (*SchemaCatalog, error) {
	c := &SchemaCatalog{
		tableID: tableID,
		fields:  make([]FieldDefinition, 0, len(fields)),
		byName:  make(map[string]int, len(fields)),
	}

	primaries := 0
	for _, f := range fields {
		if f.Name == "" {
			return nil, NewSchemaError("column without name")
		}
		if _, dup := c.byName[f.Name]; dup {
			return nil, NewSchemaError(fmt.Sprintf("duplicate column: %s", f.Name))
		}
		if err := checkVariant(f); err != nil {
			return nil, err
		}
		if f.IsPrimary {
			primaries++
		}
		c.byName[f.Name] = len(c.fields)
		c.fields = append(c.fields, cloneField(f))
	}

	if primaries > 1 {
		return nil, NewSchemaError("multiple primary columns")
	}

	return c, nil
}

func checkVariant(f FieldDefinition) error {
	switch f.Type {
	case FieldSingleSelect, FieldMultipleSelect:
		if f.Date != nil {
			return NewSchemaError(fmt.Sprintf("select column %s carries date metadata", f.Name))
		}
	case FieldDate:
		if f.Date == nil {
			return NewSchemaError(fmt.Sprintf("date column %s has no date metadata", f.Name))
		}
		if f.Select != nil {
			return NewSchemaError(fmt.Sprintf("date column %s carries select options", f.Name))
		}
	case FieldText, FieldNumber, FieldBoolean, FieldOther:
		if f.Select != nil || f.Date != nil {
			return NewSchemaError(fmt.Sprintf("column %s of type %s carries type metadata", f.Name, f.Type))
		}
	default:
		return NewSchemaError(fmt.Sprintf("column %s has unknown type %q", f.Name, f.Type))
	}
	return nil
}

func cloneField(f FieldDefinition) FieldDefinition {
	if f.Select != nil {
		f.Select = &SelectMeta{Options: append([]string(nil), f.Select.Options...)}
	}
	if f.Date != nil {
		d := *f.Date
		f.Date = &d
	}
	return f
}

// TableID returns the remote table the snapshot was taken from
func (c *SchemaCatalog) TableID() int {
	return c.tableID
}

// Len returns the number of columns
func (c *SchemaCatalog) Len() int {
	return len(c.fields)
}

// Field looks up a column by name
func (c *SchemaCatalog) Field(name string) (FieldDefinition, bool) {
	i, ok := c.byName[name]
	if !ok {
		return FieldDefinition{}, false
	}
	return cloneField(c.fields[i]), true
}

// Has reports whether the column exists
func (c *SchemaCatalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Fields returns a copy of the definitions in table order
func (c *SchemaCatalog) Fields() []FieldDefinition {
	out := make([]FieldDefinition, len(c.fields))
	for i, f := range c.fields {
		out[i] = cloneField(f)
	}
	return out
}

// Names returns the column names in table order
func (c *SchemaCatalog) Names() []string {
	out := make([]string, len(c.fields))
	for i, f := range c.fields {
		out[i] = f.Name
	}
	return out
}

// Primaries returns the primary columns
func (c *SchemaCatalog) Primaries() []FieldDefinition {
	var out []FieldDefinition
	for _, f := range c.fields {
		if f.IsPrimary {
			out = append(out, cloneField(f))
		}
	}
	return out
}

// SelectFields returns single and multiple select columns in table order
func (c *SchemaCatalog) SelectFields() []FieldDefinition {
	var out []FieldDefinition
	for _, f := range c.fields {
		if f.Type.IsSelect() {
			out = append(out, cloneField(f))
		}
	}
	return out
}
