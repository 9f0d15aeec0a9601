package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_RESTDefaults(t *testing.T) {
	t.Setenv("RISKBOARD_BACKEND", "")
	t.Setenv("RISKBOARD_STORE_URL", "https://example.supabase.co")
	t.Setenv("RISKBOARD_STORE_KEY", "anon")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)
	assert.Equal(t, BackendREST, cfg.Backend)
	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "tasks", cfg.Store.Table)
	assert.Equal(t, 15*time.Second, cfg.Store.Timeout)
}

func TestRead_RESTRequiresURLAndKey(t *testing.T) {
	t.Setenv("RISKBOARD_BACKEND", "rest")
	t.Setenv("RISKBOARD_STORE_URL", "https://example.supabase.co")
	t.Setenv("RISKBOARD_STORE_KEY", "")

	_, err := NewEnvReader().Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RISKBOARD_STORE_KEY")
}

func TestRead_PostgresRequiresURL(t *testing.T) {
	t.Setenv("RISKBOARD_BACKEND", "Postgres")
	t.Setenv("RISKBOARD_DATABASE_URL", "")

	_, err := NewEnvReader().Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RISKBOARD_DATABASE_URL")

	t.Setenv("RISKBOARD_DATABASE_URL", "postgres://localhost/tasks")
	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Backend)
}

func TestRead_SQLiteExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("RISKBOARD_BACKEND", "sqlite")
	t.Setenv("RISKBOARD_DB", "~/boards/risk.db")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "boards", "risk.db"), cfg.SQLite.Path)
}

func TestRead_CustomTimeoutAndTable(t *testing.T) {
	t.Setenv("RISKBOARD_BACKEND", "sqlite")
	t.Setenv("RISKBOARD_DB", filepath.Join(t.TempDir(), "x.db"))
	t.Setenv("RISKBOARD_STORE_TIMEOUT", "3s")
	t.Setenv("RISKBOARD_STORE_TABLE", "project_tasks")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "project_tasks", cfg.Store.Table)
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := &Config{Env: "staging", LogLevel: "loud", Backend: "mongo", Store: StoreConfig{Table: "tasks"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RISKBOARD_ENV")
	assert.Contains(t, err.Error(), "RISKBOARD_LOG_LEVEL")
	assert.Contains(t, err.Error(), "RISKBOARD_BACKEND")
}

func TestExpandHome_LeavesOtherPaths(t *testing.T) {
	got, err := expandHome("/var/lib/risk.db")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/risk.db", got)

	got, err = expandHome(":memory:")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", got)
}

func TestDescribe_ListsVariables(t *testing.T) {
	desc, err := Describe()
	require.NoError(t, err)
	for _, name := range []string{"RISKBOARD_BACKEND", "RISKBOARD_STORE_URL", "RISKBOARD_DATABASE_URL", "RISKBOARD_DB"} {
		assert.Contains(t, desc, name)
	}
}

func TestMain(m *testing.M) {
	for _, name := range []string{
		"RISKBOARD_ENV", "RISKBOARD_LOG_LEVEL", "RISKBOARD_LOG_FILE", "RISKBOARD_BACKEND",
		"RISKBOARD_STORE_URL", "RISKBOARD_STORE_KEY", "RISKBOARD_STORE_TABLE", "RISKBOARD_STORE_TIMEOUT",
		"RISKBOARD_DATABASE_URL", "RISKBOARD_DB",
	} {
		os.Unsetenv(name)
	}
	os.Exit(m.Run())
}
