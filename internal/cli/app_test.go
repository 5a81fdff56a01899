package cli_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/panectl/internal/cli"
	"github.com/bnema/panectl/internal/domain/entity"
)

const testStructure = `
[root]
id = "content"

  [[root.items]]
  id = "authors"
  type = "documentList"
  schema_type = "author"
  intents = ["edit", "create"]

  [[root.items]]
  id = "settings"

    [[root.items.items]]
    id = "general"
    type = "document"
    schema_type = "settings"

[[templates]]
id = "author-with-bio"
schema_type = "author"
`

func newTestApp(t *testing.T) *cli.App {
	t.Helper()
	dir := t.TempDir()

	structurePath := filepath.Join(dir, "structure.toml")
	require.NoError(t, os.WriteFile(structurePath, []byte(testStructure), 0o644))

	configPath := filepath.Join(dir, "config.toml")
	configData := "[resolver]\nstabilize_delay_ms = 0\n\n[database]\npath = " +
		`"` + filepath.Join(dir, "panectl.sqlite") + `"` + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(configData), 0o644))

	app, err := cli.NewApp(cli.Options{
		ConfigFile:    configPath,
		StructureFile: structurePath,
		LogLevel:      "debug",
		LogOutput:     io.Discard,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestApp_ResolveSegment(t *testing.T) {
	app := newTestApp(t)

	res, err := app.ResolveSegment(app.Ctx(), "settings;general", 5*time.Second)
	require.NoError(t, err)

	assert.Equal(t, []string{"content", "settings", "general"}, res.State.Panes.IDs())
	assert.Equal(t, "settings;general", res.Segment)
	assert.Equal(t, res.State.Panes.IDs(), app.Registry.Snapshot().IDs())
}

func TestApp_ResolveSegment_TruncatesMissingPanes(t *testing.T) {
	app := newTestApp(t)

	res, err := app.ResolveSegment(app.Ctx(), "settings;nope;deeper", 5*time.Second)
	require.NoError(t, err)

	assert.Equal(t, []string{"content", "settings"}, res.State.Panes.IDs())
	assert.Equal(t, "settings", res.Segment)
	assert.Equal(t, 3, res.Requested.FlatLen())
	assert.Empty(t, res.Suggestions)
}

func TestApp_ResolveSegment_SuggestsCloseIDs(t *testing.T) {
	app := newTestApp(t)

	res, err := app.ResolveSegment(app.Ctx(), "setings;general", 5*time.Second)
	require.NoError(t, err)

	assert.Equal(t, []string{"content"}, res.State.Panes.IDs())
	assert.Equal(t, []string{"settings"}, res.Suggestions)
}

func TestApp_ResolveSegment_UnknownDocumentOpensAsNew(t *testing.T) {
	app := newTestApp(t)

	res, err := app.ResolveSegment(app.Ctx(), "authors;ada", 5*time.Second)
	require.NoError(t, err)

	require.Len(t, res.State.Panes, 3)
	ada := res.State.Panes[2]
	assert.Equal(t, entity.NodeTypeDocument, ada.Type)
	assert.Equal(t, "author", ada.SchemaType)
}

func TestApp_OpenIntent_InPlace(t *testing.T) {
	app := newTestApp(t)

	res, err := app.OpenIntent(app.Ctx(), cli.IntentRequest{
		Segment: "authors",
		Intent:  "edit",
		Params:  map[string]string{"id": "ada", "type": "author"},
	}, 5*time.Second)
	require.NoError(t, err)

	assert.False(t, res.Fallback)
	assert.Equal(t, "authors;ada", res.Segment())
}

func TestApp_OpenIntent_FallbackUsesStoredType(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.Documents.Save(app.Ctx(), &entity.Document{ID: "sicp", Type: "book"}))

	res, err := app.OpenIntent(app.Ctx(), cli.IntentRequest{
		Segment: "settings",
		Intent:  "edit",
		Params:  map[string]string{"id": "sicp"},
	}, 5*time.Second)
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Equal(t, "__edit__sicp,type=book", res.Segment())
}

func TestApp_IndexStatus(t *testing.T) {
	app := newTestApp(t)

	status, err := app.IndexStatus(app.Ctx())
	require.NoError(t, err)
	assert.True(t, status.UpToDate())
	assert.Equal(t, int64(1), status.Version)
	assert.Equal(t, "panectl.sqlite", filepath.Base(app.IndexPath()))
}
