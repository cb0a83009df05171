package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `{
		"database_url": "postgres://localhost:5432/looks",
		"port": 8080,
		"retailers": ["zalando", "asos"],
		"slot_timeout_ms": 10000
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/looks", cfg.DatabaseURL)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"zalando", "asos"}, cfg.Retailers)
	assert.Equal(t, 10000, cfg.SlotTimeoutMS)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	path := writeConfig(t, `{"port": `)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestValidate_TimeoutOrdering(t *testing.T) {
	cfg := Config{RetailerTimeoutMS: 5000, SlotTimeoutMS: 1000}
	require.Error(t, cfg.Validate())

	cfg = Config{SlotTimeoutMS: 30000, GlobalTimeoutMS: 10000}
	require.Error(t, cfg.Validate())

	cfg = Config{RetailerTimeoutMS: 4000, SlotTimeoutMS: 10000, GlobalTimeoutMS: 45000}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_PartialAwinCredentials(t *testing.T) {
	cfg := Config{AwinAPIToken: "token"}
	require.Error(t, cfg.Validate())

	cfg = Config{AwinAPIToken: "token", AwinPublisherID: "12345"}
	assert.NoError(t, cfg.Validate())

	cfg = Config{}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_PortRange(t *testing.T) {
	cfg := Config{Port: -1}
	require.Error(t, cfg.Validate())

	cfg = Config{Port: 70000}
	require.Error(t, cfg.Validate())
}

func TestMergeWithDefaults_LayersWithoutClobbering(t *testing.T) {
	cfg := Config{Port: 9090, Retailers: []string{"etsy"}}
	defaults := Config{
		DatabaseURL:     "postgres://localhost/looks",
		Port:            8080,
		Retailers:       []string{"zalando", "asos"},
		GlobalTimeoutMS: 45000,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, 9090, merged.Port, "explicit value wins")
	assert.Equal(t, []string{"etsy"}, merged.Retailers)
	assert.Equal(t, "postgres://localhost/looks", merged.DatabaseURL, "empty value filled")
	assert.Equal(t, 45000, merged.GlobalTimeoutMS)
}

func TestTimeoutAccessors(t *testing.T) {
	cfg := Config{SlotTimeoutMS: 12000}

	assert.Equal(t, 12*time.Second, cfg.SlotTimeout(10*time.Second))
	assert.Equal(t, 4*time.Second, cfg.RetailerTimeout(4*time.Second), "unset falls back")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-host/looks")
	t.Setenv("AWIN_API_TOKEN", "env-token")
	t.Setenv("AWIN_PUBLISHER_ID", "98765")

	cfg := FromEnv()

	assert.Equal(t, "postgres://env-host/looks", cfg.DatabaseURL)
	assert.Equal(t, "env-token", cfg.AwinAPIToken)
	assert.Equal(t, "98765", cfg.AwinPublisherID)
}
