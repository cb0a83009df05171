package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/look-composer/internal/config"
	"github.com/jonathan/look-composer/internal/jobstore"
)

func TestBuildAdapters_DefaultRetailers(t *testing.T) {
	adapters := buildAdapters(config.Config{}, zerolog.Nop())

	require.Len(t, adapters, 2)
	assert.Equal(t, "structured_page:zalando", adapters[0].Name())
	assert.Equal(t, "structured_page:asos", adapters[1].Name())
}

func TestBuildAdapters_FullStack(t *testing.T) {
	cfg := config.Config{
		Retailers:       []string{"etsy"},
		WebSearch:       true,
		AwinAPIToken:    "token",
		AwinPublisherID: "12345",
	}

	adapters := buildAdapters(cfg, zerolog.Nop())

	require.Len(t, adapters, 3)
	assert.Equal(t, "structured_page:etsy", adapters[0].Name())
	assert.Equal(t, "webquery", adapters[1].Name())
	assert.Equal(t, "awin", adapters[2].Name())
}

func TestBuildWorker_ConfiguredBudgets(t *testing.T) {
	cfg := config.Config{
		RetailerTimeoutMS: 2000,
		SlotTimeoutMS:     8000,
	}

	w := buildWorker(cfg, jobstore.NewMemoryStore(), zerolog.Nop())

	assert.Equal(t, 2*time.Second, w.Budgets.PerRetailer)
	assert.Equal(t, 8*time.Second, w.Budgets.PerSlot)
	assert.Equal(t, 45*time.Second, w.Budgets.Global, "unset budget keeps the default")
	assert.NotNil(t, w.Seed)
}

func TestLoadEngineConfig_FileOverEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-host/looks")

	path := filepath.Join(t.TempDir(), "config.json")
	raw, err := json.Marshal(map[string]any{"port": 9999, "verbose": true})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	cfg, err := loadEngineConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.True(t, cfg.Verbose, "config file can switch on verbose output")
	assert.Equal(t, "postgres://env-host/looks", cfg.DatabaseURL, "env fills fields the file omits")
}

func TestLoadEngineConfig_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"retailer_timeout_ms": 9000, "slot_timeout_ms": 1000}`), 0o644))

	_, err := loadEngineConfig(path)
	require.Error(t, err)
}
