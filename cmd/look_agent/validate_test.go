package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlanFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPlan_Valid(t *testing.T) {
	path := writePlanFile(t, `{
		"look_id": "look_cli_001",
		"required_slots": ["top", "shoe"],
		"per_slot": [
			{"slot": "top", "category": "blouse", "max_price": 90},
			{"slot": "shoe", "category": "loafers", "max_price": 160}
		],
		"budget_total": 250,
		"currency": "EUR"
	}`)

	plan, err := loadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, "look_cli_001", plan.LookID)
	assert.Len(t, plan.RequiredSlots, 2)
}

func TestLoadPlan_SchemaViolation(t *testing.T) {
	path := writePlanFile(t, `{
		"look_id": "look_cli_002",
		"required_slots": ["hat"],
		"per_slot": [{"slot": "top"}],
		"budget_total": 100,
		"currency": "EUR"
	}`)

	_, err := loadPlan(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
}

func TestLoadPlan_MissingFile(t *testing.T) {
	_, err := loadPlan(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadPlan_EmptyPath(t *testing.T) {
	_, err := loadPlan("")
	require.Error(t, err)
}
