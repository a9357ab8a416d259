package modhost

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadHostConfigDefaults(t *testing.T) {
	cfg, err := LoadHostConfig("")
	require.NoError(t, err)

	assert.Equal(t, "modules", cfg.PackagesDir)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "1.0.0", cfg.HostVersion)
	assert.False(t, cfg.AdminEnabled)
	assert.Equal(t, ":8590", cfg.AdminAddr)
	assert.False(t, cfg.WatchPackages)
}

func TestLoadHostConfigYAML(t *testing.T) {
	path := writeConfigFile(t, "host.yaml", `
packagesDir: /srv/modules
dataDir: /srv/data
hostVersion: 2.1.0
adminEnabled: true
adminAddr: ":9000"
watchPackages: true
`)

	cfg, err := LoadHostConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/modules", cfg.PackagesDir)
	assert.Equal(t, "/srv/data", cfg.DataDir)
	assert.Equal(t, "2.1.0", cfg.HostVersion)
	assert.True(t, cfg.AdminEnabled)
	assert.Equal(t, ":9000", cfg.AdminAddr)
	assert.True(t, cfg.WatchPackages)
}

func TestLoadHostConfigYAMLPartialKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, "host.yml", "packagesDir: elsewhere\n")

	cfg, err := LoadHostConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "elsewhere", cfg.PackagesDir)
	assert.Equal(t, "data", cfg.DataDir, "unset keys keep their defaults")
	assert.Equal(t, ":8590", cfg.AdminAddr)
}

func TestLoadHostConfigTOML(t *testing.T) {
	path := writeConfigFile(t, "host.toml", `
packagesDir = "/opt/modules"
adminEnabled = true
`)

	cfg, err := LoadHostConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/modules", cfg.PackagesDir)
	assert.True(t, cfg.AdminEnabled)
	assert.Equal(t, "1.0.0", cfg.HostVersion)
}

func TestLoadHostConfigUnsupportedExtension(t *testing.T) {
	path := writeConfigFile(t, "host.ini", "packagesDir=nope\n")

	_, err := LoadHostConfig(path)
	assert.ErrorIs(t, err, ErrConfigUnsupportedFormat)
}

func TestLoadHostConfigMissingFile(t *testing.T) {
	_, err := LoadHostConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, ErrConfigUnreadable)
}

func TestLoadHostConfigMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "host.yaml", "packagesDir: [unterminated\n")

	_, err := LoadHostConfig(path)
	assert.Error(t, err)
}

func TestEnvOverridesBeatFileValues(t *testing.T) {
	path := writeConfigFile(t, "host.yaml", "packagesDir: from-file\nadminEnabled: false\n")

	t.Setenv("MODHOST_PACKAGES_DIR", "from-env")
	t.Setenv("MODHOST_ADMIN_ENABLED", "true")
	t.Setenv("MODHOST_WATCH_PACKAGES", "true")

	cfg, err := LoadHostConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.PackagesDir)
	assert.True(t, cfg.AdminEnabled)
	assert.True(t, cfg.WatchPackages)
}

func TestEnvOverrideRejectsBadBool(t *testing.T) {
	t.Setenv("MODHOST_ADMIN_ENABLED", "definitely")

	_, err := LoadHostConfig("")
	assert.Error(t, err)
}
