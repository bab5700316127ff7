package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"progress-tracker-go/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_RETENTION_DAYS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "web/static/uploads", cfg.UploadDir)
	assert.Equal(t, "/static/uploads/", cfg.UploadURLPrefix)
	assert.Equal(t, int64(10485760), cfg.MaxUploadSize)
	assert.Equal(t, 6, cfg.StatsHistoryMonths)
	assert.Equal(t, 5, cfg.RecentEntriesLimit)
	assert.Equal(t, 3, cfg.DashboardEntriesLimit)
	assert.Equal(t, 7, cfg.LogRetentionDays)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Nil(t, cfg.CorsOrigins)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "Mars/Olympus")
}

func TestParseCSV(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, parseCSV(" http://a, ,http://b "))
	assert.Nil(t, parseCSV("  "))
}

func TestParseProfiles(t *testing.T) {
	raw := []byte(`
default:
  stats: [fitness]
  recent:
    - {category: fitness, limit: recent}
    - {category: reading, limit: dashboard}
users:
  simon:
    stats: [reading, drawing]
    recent:
      - {category: reading}
      - {category: drawing, limit: recent}
`)
	profiles, err := ParseProfiles(raw)
	require.NoError(t, err)

	simon := profiles.For("simon")
	assert.Equal(t, []models.Category{models.CategoryReading, models.CategoryDrawing}, simon.Stats)
	assert.Equal(t, LimitRecent, simon.Recent[0].Limit)

	other := profiles.For("anna")
	assert.Equal(t, []models.Category{models.CategoryFitness}, other.Stats)
	assert.Equal(t, []RecentSlot{
		{Category: models.CategoryFitness, Limit: LimitRecent},
		{Category: models.CategoryReading, Limit: LimitDashboard},
	}, other.Recent)
}

func TestParseProfilesRejects(t *testing.T) {
	tests := map[string]string{
		"journal stats":  "default:\n  stats: [journal]\n",
		"unknown recent": "default:\n  recent:\n    - {category: chess}\n",
		"unknown limit":  "default:\n  recent:\n    - {category: reading, limit: all}\n",
		"unknown field":  "default:\n  colour: blue\n",
		"malformed yaml": "default: [",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProfiles([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadProfiles(t *testing.T) {
	profiles, err := LoadProfiles("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile(), profiles.For("anyone"))

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users:\n  simon:\n    stats: [drawing]\n"), 0o644))
	profiles, err = LoadProfiles(path)
	require.NoError(t, err)
	assert.Equal(t, []models.Category{models.CategoryDrawing}, profiles.For("simon").Stats)
	assert.Equal(t, DefaultProfile(), profiles.For("anna"))

	_, err = LoadProfiles(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
