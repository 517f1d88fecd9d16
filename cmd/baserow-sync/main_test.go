package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

const fieldsBody = `[
  {"id": 1, "name": "question", "type": "text", "primary": true},
  {"id": 2, "name": "single", "type": "single_select", "select_options": [{"id": 1, "value": "A"}, {"id": 2, "value": "B"}]}
]`

func startBaserow(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		_ = fasthttp.Serve(ln, func(ctx *fasthttp.RequestCtx) {
			ctx.SetContentType("application/json")
			path := string(ctx.Path())
			switch {
			case path == "/api/database/fields/table/841/":
				ctx.SetBodyString(fieldsBody)
			case path == "/api/database/rows/table/841/" && ctx.IsGet():
				if strings.Contains(string(ctx.QueryArgs().Peek("filters")), `"q2"`) {
					ctx.SetBodyString(`{"count": 1, "results": [{"id": 9, "question": "q2"}]}`)
					return
				}
				ctx.SetBodyString(`{"count": 0, "results": []}`)
			case path == "/api/database/rows/table/841/batch/" && ctx.IsPost():
				ctx.SetBodyString(`{"items": [{"id": 5}]}`)
			case path == "/api/database/rows/table/841/batch/" && string(ctx.Method()) == "PATCH":
				ctx.SetBodyString(`{"items": [{"id": 9}]}`)
			default:
				ctx.SetStatusCode(404)
			}
		})
	}()
	t.Cleanup(func() { _ = ln.Close() })

	return "http://" + ln.Addr().String() + "/"
}

func setEnv(t *testing.T, url string) {
	t.Helper()
	t.Setenv("BASEROW_URL", url)
	t.Setenv("BASEROW_API_KEY", "tok")
	t.Setenv("BASEROW_TABLE_ID", "841")
	t.Setenv("BASEROW_SCHEMA_FILE", "")
	t.Setenv("RETRY_MAX_COUNT", "0")
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("METRICS_PORT", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUpsertCommand(t *testing.T) {
	setEnv(t, startBaserow(t))

	input := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(input, []byte(`[{"question": "q1", "A": true}, {"question": "q2", "single": "B"}]`), 0o644))

	out, err := run(t, "upsert", "--file", input)
	require.NoError(t, err)
	assert.Equal(t, "0\tcreated\t5\n1\tupdated\t9\n", out)
}

func TestUpsertCommandUnknownColumn(t *testing.T) {
	setEnv(t, startBaserow(t))

	input := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"question": "q1", "extra": "Extra"}`), 0o644))

	_, err := run(t, "upsert", "--file", input)
	var se *models.SchemaError
	require.True(t, errors.As(err, &se))
}

func TestUpsertCommandConfigError(t *testing.T) {
	setEnv(t, "")
	t.Setenv("BASEROW_API_KEY", "")

	_, err := run(t, "upsert", "--file", filepath.Join(t.TempDir(), "none.json"))
	var ce *models.ConfigError
	require.True(t, errors.As(err, &ce))
}

func TestSchemaDumpAndShowFromSnapshot(t *testing.T) {
	setEnv(t, startBaserow(t))
	snapshot := filepath.Join(t.TempDir(), "schema.yaml")

	_, err := run(t, "schema", "dump", "--out", snapshot)
	require.NoError(t, err)

	// an unreachable URL proves the snapshot is used without probing the table
	t.Setenv("BASEROW_URL", "http://127.0.0.1:1")
	out, err := run(t, "schema", "show", "--schema", snapshot)
	require.NoError(t, err)
	assert.Contains(t, out, "question")
	assert.Contains(t, out, "options: A, B")
}
