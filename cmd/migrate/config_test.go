package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "/custom/migrations")
		assert.Equal(t, "/custom/migrations", migrationsDir())
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "")
		assert.Equal(t, "migrations", migrationsDir())
	})
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_HOST=from_file\nDB_NAME=from_file\n"), 0o644))

	t.Setenv("DB_HOST", "from_env")
	t.Setenv("DB_NAME", "")
	require.NoError(t, os.Unsetenv("DB_NAME"))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	loadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_HOST"))
	assert.Equal(t, "from_file", os.Getenv("DB_NAME"))
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Setenv("DB_PORT", "5432")

	err := run("sideways", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "sideways"`)
}

func TestCreate_RequiresName(t *testing.T) {
	err := create("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}
