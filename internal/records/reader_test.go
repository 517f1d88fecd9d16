package records

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONArray(t *testing.T) {
	recs, err := ReadJSON(strings.NewReader(`[{"question": "q1", "foo": 1}, {"question": "q2", "bar": true}]`))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, models.Record{"question": "q1", "foo": float64(1)}, recs[0])
	assert.Equal(t, true, recs[1]["bar"])
}

func TestReadJSONStream(t *testing.T) {
	recs, err := ReadJSON(strings.NewReader("{\"question\": \"q1\"}\n{\"question\": \"q2\"}\n"))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "q2", recs[1]["question"])
}

func TestReadJSONRejectsScalars(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`[1, 2]`))
	assert.Error(t, err)

	_, err = ReadJSON(strings.NewReader(`"text"`))
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	in := "question,foo,bar,due\nq1,1,,2024-01-01\nq2,,true,\n"

	recs, err := ReadCSV(strings.NewReader(in), "")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, models.Record{"question": "q1", "foo": "1", "due": "2024-01-01"}, recs[0])
	assert.Equal(t, models.Record{"question": "q2", "bar": "true"}, recs[1])
}

func TestReadCSVWin1252(t *testing.T) {
	in := append([]byte("question\n"), []byte{'S', 0xe3, 'o', ' ', 'P', 'a', 'u', 'l', 'o', '\n'}...)

	recs, err := ReadCSV(bytes.NewReader(in), "win1252")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "São Paulo", recs[0]["question"])
}

func TestReadCSVEmpty(t *testing.T) {
	recs, err := ReadCSV(strings.NewReader(""), "")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReadDispatch(t *testing.T) {
	_, err := Read(strings.NewReader("a\n1\n"), "xml", "")
	assert.Error(t, err)

	recs, err := Read(strings.NewReader("a\n1\n"), "CSV", "")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
