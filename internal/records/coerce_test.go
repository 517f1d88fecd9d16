package records

import (
	"errors"
	"testing"
	"time"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coerceCatalog(t *testing.T) *models.SchemaCatalog {
	t.Helper()
	c, err := models.NewSchemaCatalog(1, []models.FieldDefinition{
		{Name: "question", Type: models.FieldText, IsPrimary: true},
		{Name: "done", Type: models.FieldBoolean},
		{Name: "category", Type: models.FieldMultipleSelect, Select: &models.SelectMeta{Options: []string{"foo", "bar"}}},
		{Name: "due", Type: models.FieldDate, Date: &models.DateMeta{Format: models.DateFormatISO}},
	})
	require.NoError(t, err)
	return c
}

func TestCoerce(t *testing.T) {
	out, err := Coerce(models.Record{
		"question": "q1",
		"done":     "yes",
		"foo":      "1",
		"bar":      "false",
		"due":      "2024-10-12T02:35:16",
		"extra":    "kept",
	}, coerceCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, "q1", out["question"])
	assert.Equal(t, true, out["done"])
	assert.Equal(t, true, out["foo"])
	assert.Equal(t, false, out["bar"])
	assert.Equal(t, time.Date(2024, 10, 12, 2, 35, 16, 0, time.UTC), out["due"])
	assert.Equal(t, "kept", out["extra"])
}

func TestCoerceDateLayouts(t *testing.T) {
	for _, s := range []string{"2024-01-01", "2024-01-01 00:00:00", "2024-01-01T00:00:00Z"} {
		out, err := Coerce(models.Record{"due": s}, coerceCatalog(t))
		require.NoError(t, err, s)
		got := out["due"].(time.Time)
		assert.True(t, got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), s)
	}
}

func TestCoerceBadDate(t *testing.T) {
	_, err := Coerce(models.Record{"due": "yesterday"}, coerceCatalog(t))
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "due", ve.Field)
}

func TestCoerceLeavesTypedValues(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out, err := Coerce(models.Record{"due": ts, "foo": float64(1), "done": "maybe"}, coerceCatalog(t))
	require.NoError(t, err)
	assert.Equal(t, ts, out["due"])
	assert.Equal(t, float64(1), out["foo"])
	assert.Equal(t, "maybe", out["done"])
}
