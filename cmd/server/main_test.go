package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/hizbtrack/internal/config"
	"github.com/mmynk/hizbtrack/internal/models"
	"github.com/mmynk/hizbtrack/internal/storage/memory"
	"github.com/mmynk/hizbtrack/internal/storage/sqlite"
	"github.com/mmynk/hizbtrack/internal/tracker"
)

func testGroup() *models.GroupData {
	return &models.GroupData{
		Name:       "Test group",
		TotalUnits: 60,
		Members: []models.Member{
			{ID: "1", Name: "Alice", TotalUnits: 60, CompletedUnits: 30, History: models.History{"2024-05": 4}},
			{ID: "2", Name: "Bob", TotalUnits: 60, CompletedUnits: 45, History: models.History{"2024-05": 2}},
			{ID: "3", Name: "Carol", TotalUnits: 30},
		},
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printStats(&buf, testGroup(), time.Time{}, 2, ""))

	out := buf.String()
	assert.Contains(t, out, "Test group")
	assert.Contains(t, out, "Members:         3")
	// Measured against the group default for every member, not the own capacities.
	assert.Contains(t, out, "Group progress:  41.7% (75/180)")
	assert.Contains(t, out, "Own capacities:  150 units")
	assert.NotContains(t, out, "Last saved:")
	assert.Contains(t, out, "1.  Bob")
	assert.Contains(t, out, "2.  Alice")
	assert.NotContains(t, out, "Carol")
}

func TestPrintStats_Month(t *testing.T) {
	var buf bytes.Buffer
	saved := time.Date(2024, time.May, 20, 18, 0, 0, 0, time.UTC)
	require.NoError(t, printStats(&buf, testGroup(), saved, 3, "2024-05"))

	out := buf.String()
	assert.Contains(t, out, "Last saved:      2024-05-20T18:00:00Z")
	assert.Contains(t, out, "Top performers for 2024-05:")
	assert.Contains(t, out, "1.  Alice  4")
	assert.Contains(t, out, "2.  Bob    2")
}

func TestPrintStats_NoLeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printStats(&buf, testGroup(), time.Time{}, 3, "2023-01"))
	assert.Contains(t, buf.String(), "(none)")
}

func TestStaticHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>dashboard</h1>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0644))

	handler, err := newStaticHandler(dir)
	require.NoError(t, err)

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/", http.StatusOK, "dashboard"},
		{"/app.js", http.StatusOK, "console.log"},
		{"/members/42", http.StatusOK, "dashboard"},
		{"/hizbtrack.v1.ProgressService/Unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	called := false
	handler := corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called, "preflight must not reach the handler")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.True(t, called)
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := rootCmd()

	for _, name := range []string{"serve", "stats", "version", "config"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestPrintStats_SameCapacities(t *testing.T) {
	doc := testGroup()
	doc.Members[2].TotalUnits = 60

	var buf bytes.Buffer
	require.NoError(t, printStats(&buf, doc, time.Time{}, 3, ""))
	assert.NotContains(t, buf.String(), "Own capacities")
}

func TestLastSaved(t *testing.T) {
	ctx := context.Background()

	saved, err := lastSaved(ctx, memory.New(), tracker.DefaultKey)
	require.NoError(t, err)
	assert.True(t, saved.IsZero(), "memory backend does not track writes")

	backend, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer backend.Close()

	saved, err = lastSaved(ctx, backend, tracker.DefaultKey)
	require.NoError(t, err)
	assert.True(t, saved.IsZero(), "nothing saved yet")

	before := time.Now().Add(-time.Second)
	require.NoError(t, backend.Put(ctx, tracker.DefaultKey, []byte(`{}`)))

	saved, err = lastSaved(ctx, backend, tracker.DefaultKey)
	require.NoError(t, err)
	assert.WithinRange(t, saved, before.Truncate(time.Second), time.Now().Add(time.Second))
}

func TestStatsCommand_SQLite(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "hizbtrack.db")

	backend, err := sqlite.New(dbPath)
	require.NoError(t, err)
	_, err = tracker.New(backend).UpdateProgress(ctx, "2", 30, "")
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("DB_PATH", dbPath)
	t.Setenv("STORAGE_KEY", tracker.DefaultKey)
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"stats", "--storage", "sqlite", "--top", "1"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Group progress:  10.0% (30/300)")
	assert.Contains(t, out.String(), "Last saved:")
	assert.Contains(t, out.String(), "1.  Abada Afaf")
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "hizbtrack.yaml")

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		cmd := rootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(append([]string{"config", "init"}, args...))
		err := cmd.Execute()
		return out.String(), err
	}

	out, err := run(path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration")

	loaded, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), loaded)

	_, err = run(path)
	assert.Error(t, err, "existing file is not overwritten")

	_, err = run("--force", path)
	assert.NoError(t, err)
}
