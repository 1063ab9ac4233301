package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/todo-api/internal/adapters/cli"
)

func writeConfigDir(t *testing.T, baseURL string) string {
	t.Helper()

	dir := t.TempDir()
	base := "client:\n  base_url: " + baseURL + "\n  retry:\n    max_attempts: 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(base), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.yaml"), []byte("log:\n  level: error\n"), 0o600))
	return dir
}

func TestRun_UsesConfiguredBaseURL(t *testing.T) {
	paths := make(chan string, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	t.Setenv("APP_PROFILE", "")
	t.Setenv("TODOCTL_CONFIG_DIR", writeConfigDir(t, ts.URL+"/todo"))

	code := run(context.Background(), []string{"rm", "3"})
	assert.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "/todo/3", <-paths)
}

func TestRun_MissingConfig(t *testing.T) {
	t.Setenv("APP_PROFILE", "local")
	t.Setenv("TODOCTL_CONFIG_DIR", t.TempDir())

	assert.Equal(t, cli.ExitUserError, run(context.Background(), []string{"ping"}))
}
