package client

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-salon-sync/internal/app"
	"github.com/MKhiriev/go-salon-sync/internal/service"
	"github.com/MKhiriev/go-salon-sync/models"
)

// execute runs the CLI against a local-only file store in dir.
func execute(t *testing.T, dir string, stdin string, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true

	base := []string{
		"--transport", "none",
		"--driver", "file",
		"--db", filepath.Join(dir, "salon.json"),
		"--log-file", filepath.Join(dir, "client.log"),
	}

	cmd := NewRootCommand(models.NewAppBuildInfo("1.0.0", "2026-01-01", "abc123"))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, base...))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), "", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "Build version: 1.0.0")
	assert.Contains(t, out, "Build commit: abc123")
}

func TestPutThenList(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, dir, "", "put", models.CollectionClients, `{"id":"c1","name":"Anna"}`)
	require.NoError(t, err)
	assert.Contains(t, out, app.MsgRecordSaved)

	_, _, err = execute(t, dir, `{"id":"c2","name":"Raj"}`, "put", models.CollectionClients, "-")
	require.NoError(t, err)

	out, _, err = execute(t, dir, "", "list", models.CollectionClients)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Anna"`)
	assert.Contains(t, out, `"name": "Raj"`)
	assert.Contains(t, out, `"lastModified"`)
}

func TestPut_InvalidRecord(t *testing.T) {
	_, _, err := execute(t, t.TempDir(), "", "put", models.CollectionClients, `{"name":"no id"}`)

	require.Error(t, err)
	assert.Contains(t, err.Error(), app.MsgInvalidRecord)
}

func TestList_UnknownCollection(t *testing.T) {
	_, _, err := execute(t, t.TempDir(), "", "list", "invoices")

	assert.ErrorIs(t, err, service.ErrUnknownCollection)
}

func TestStatusCommand_LocalOnly(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), "", "status", "--collections", "staff,clients")

	require.NoError(t, err)
	assert.Contains(t, out, "staff")
	assert.Contains(t, out, "offline")
	assert.NotContains(t, out, "feedbacks")
}

func TestPullCommand_LocalOnlyIsNotAnError(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), "", "pull")

	require.NoError(t, err)
	assert.Contains(t, out, app.MsgRefreshDone)
}

func TestSeedCommand_RestoresMissingCategory(t *testing.T) {
	dir := t.TempDir()
	state := `{"collections":{"categories":"[{\"id\":\"Hair\",\"name\":\"Hair & Beard\"}]"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "salon.json"), []byte(state), 0o600))

	out, _, err := execute(t, dir, "", "seed")
	require.NoError(t, err)
	assert.Regexp(t, `categories\s+2 added`, out)
	assert.Regexp(t, `staff\s+0 added`, out)

	out, _, err = execute(t, dir, "", "list", models.CollectionCategories)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Hair & Beard"`)
	assert.Contains(t, out, `"id": "Nails"`)
	assert.Contains(t, out, `"id": "Skin"`)
}

func TestPrintStatuses(t *testing.T) {
	color.NoColor = true
	var b bytes.Buffer

	printStatuses(&b, []service.Status{
		{Key: "clients", State: service.StateSubscribed, InitialSynced: true, Records: 3, LastPushError: "boom"},
	})

	assert.Contains(t, b.String(), app.MsgSynced)
	assert.Contains(t, b.String(), "push error: boom")
}
