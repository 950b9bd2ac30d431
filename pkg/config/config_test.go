package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, ConflictModeStartTime, cfg.Substitution.ConflictMode)
	assert.False(t, cfg.Substitution.RejectExcludesCurrent)
	assert.Equal(t, "substitutions.events", cfg.Substitution.EventsChannel)
	assert.Equal(t, 256, cfg.Substitution.EventBuffer)
	assert.Equal(t, 5*time.Second, cfg.Substitution.EventDrainTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Timetable.CacheTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SUBSTITUTION_CONFLICT_MODE", "Overlap")
	t.Setenv("SUBSTITUTION_REJECT_EXCLUDES_CURRENT", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("TIMETABLE_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ConflictModeOverlap, cfg.Substitution.ConflictMode)
	assert.True(t, cfg.Substitution.RejectExcludesCurrent)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Timetable.CacheTTL)
}

func TestNormalizeConflictMode(t *testing.T) {
	assert.Equal(t, ConflictModeStartTime, normalizeConflictMode(""))
	assert.Equal(t, ConflictModeStartTime, normalizeConflictMode("interval"))
	assert.Equal(t, ConflictModeOverlap, normalizeConflictMode(" OVERLAP "))
}
