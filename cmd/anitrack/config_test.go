package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfigTest_Valid(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "anitrack.db")
	path := writeConfigFile(t, `
[server]
host = "127.0.0.1"
port = 8686

[database]
path = "`+dbPath+`"
`)

	err := runConfigTest(configTestCmd, []string{path})
	assert.NoError(t, err)
}

func TestConfigTest_InvalidPort(t *testing.T) {
	path := writeConfigFile(t, `
[server]
port = 70000
`)

	err := runConfigTest(configTestCmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestConfigTest_MissingFile(t *testing.T) {
	err := runConfigTest(configTestCmd, []string{filepath.Join(t.TempDir(), "nope.toml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
