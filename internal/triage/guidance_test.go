package triage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeGuidance(t *testing.T) {
	for _, level := range []Level{LevelEmergency, LevelUrgent, LevelRoutine, LevelSelfCare} {
		g := ComposeGuidance(level)
		assert.Equal(t, level, g.Level)
		assert.NotEmpty(t, g.Advice)
		assert.NotEmpty(t, g.ResourceKey)
	}

	// Unknown levels fall back to routine guidance.
	assert.Equal(t, LevelRoutine, ComposeGuidance(Level("bogus")).Level)
}

func TestLoadResources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resources.json")
	content := `{"general": [{"name": "NHS", "url": "https://www.nhs.uk"}], "conditions": {"migraine": [{"name": "MedlinePlus", "url": "https://medlineplus.gov/migraine.html"}]}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := LoadResources(path)
	require.NoError(t, err)
	assert.Len(t, r.General, 1)
	assert.Len(t, r.ForCondition("Migraine"), 1)
	assert.Empty(t, r.ForCondition("gout"))

	// Missing file is fine: links are optional.
	r, err = LoadResources(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, r.General)
}
