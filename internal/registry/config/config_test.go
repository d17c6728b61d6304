package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "chartered-gitd.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestNewServerConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
listen = "0.0.0.0:2222"
web_base = "https://crates.example.com"
host_private_keys = ["/etc/chartered/host_key"]

[database]
name = "registry"
user = "registry"
host = "db.internal"
port = 3306
`)

	sc, err := NewServerConfig(path, false)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:2222", sc.Listen)
	assert.Equal(t, DefaultGreeting, sc.Greeting)
	assert.Equal(t, int64(DefaultWorkerPool), sc.WorkerPoolSize)
	assert.Equal(t, DefaultCommitMessage, sc.CommitMessage)
	assert.Equal(t, DefaultIdleTimeout, sc.IdleTimeout.Duration)
	assert.Equal(t, DefaultMaxTimeout, sc.MaxTimeout.Duration)
}

func TestNewServerConfigMirrorsSingleIdentity(t *testing.T) {
	path := writeConfig(t, `
listen = "0.0.0.0:2222"
web_base = "https://crates.example.com"

[commit_author]
name = "Registry Bot"
email = "bot@example.com"

[database]
name = "registry"
user = "registry"
host = "db.internal"
port = 3306
`)

	sc, err := NewServerConfig(path, false)
	require.NoError(t, err)
	require.NotNil(t, sc.CommitCommitter)
	assert.Equal(t, "Registry Bot", sc.CommitCommitter.Name)
	assert.Equal(t, "bot@example.com", sc.CommitCommitter.Email)
}

func TestNewServerConfigExpandsEnvVars(t *testing.T) {
	t.Setenv("REGISTRY_DB_HOST", "env.internal")
	path := writeConfig(t, `
listen = "0.0.0.0:2222"
web_base = "https://crates.example.com"

[database]
name = "registry"
user = "registry"
host = "${REGISTRY_DB_HOST}"
port = 3306
`)

	sc, err := NewServerConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, "env.internal", sc.DB.Host)
}

func TestDatabaseMakeConfig(t *testing.T) {
	db := &Database{Name: "registry", User: "registry", Host: "db.internal", Port: 3306, Passwd: "secret"}
	cfg := db.MakeConfig()
	assert.Equal(t, "db.internal:3306", cfg.Addr)
	assert.Equal(t, "registry", cfg.DBName)
	assert.True(t, cfg.ParseTime)
}

func TestWorkerPoolSizeFallsBackWhenNonPositive(t *testing.T) {
	path := writeConfig(t, `
listen = "0.0.0.0:2222"
web_base = "https://crates.example.com"
worker_pool_size = 0

[database]
name = "registry"
user = "registry"
host = "db.internal"
port = 3306
`)

	sc, err := NewServerConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultWorkerPool), sc.WorkerPoolSize)
}
