package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/inbox", cfg.InboxDir)
	assert.Equal(t, "data/outbox", cfg.OutboxDir)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.InDelta(t, 0.6, cfg.MinConfidence, 1e-9)
	assert.InDelta(t, 60.0, cfg.MinQualityScore, 1e-9)
	assert.InDelta(t, 10.0, cfg.Thresholds.MaxHorizontalUncertaintyKm, 1e-9)
	assert.Equal(t, 4, cfg.Thresholds.MinStationCount)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("INBOX_DIR", "/var/spool/quake/in")
	t.Setenv("OUTBOX_DIR", "/var/spool/quake/out")
	t.Setenv("POLL_INTERVAL", "500ms")
	t.Setenv("MIN_CONFIDENCE", "0.8")
	t.Setenv("MIN_QUALITY_SCORE", "75")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/var/spool/quake/in", cfg.InboxDir)
	assert.Equal(t, "/var/spool/quake/out", cfg.OutboxDir)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.InDelta(t, 0.8, cfg.MinConfidence, 1e-9)
	assert.InDelta(t, 75.0, cfg.MinQualityScore, 1e-9)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativePollInterval(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLL_INTERVAL")
}

func TestLoad_InvalidMinConfidence(t *testing.T) {
	t.Setenv("MIN_CONFIDENCE", "1.5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIN_CONFIDENCE")
}

func TestLoad_MinConfidenceNotANumber(t *testing.T) {
	t.Setenv("MIN_CONFIDENCE", "high")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIN_CONFIDENCE")
}

func TestLoad_InvalidMinQualityScore(t *testing.T) {
	t.Setenv("MIN_QUALITY_SCORE", "150")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIN_QUALITY_SCORE")
}

func TestLoad_ThresholdsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.toml")
	profile := `max_horizontal_uncertainty_km = 5.0
max_depth_uncertainty_km = 8.0
min_station_count = 10
max_azimuthal_gap_degrees = 120.0
`
	require.NoError(t, os.WriteFile(path, []byte(profile), 0o600))
	t.Setenv("THRESHOLDS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 5.0, cfg.Thresholds.MaxHorizontalUncertaintyKm, 1e-9)
	assert.InDelta(t, 8.0, cfg.Thresholds.MaxDepthUncertaintyKm, 1e-9)
	assert.Equal(t, 10, cfg.Thresholds.MinStationCount)
	assert.InDelta(t, 120.0, cfg.Thresholds.MaxAzimuthalGapDegrees, 1e-9)
}

func TestLoad_ThresholdsFileMissing(t *testing.T) {
	t.Setenv("THRESHOLDS_FILE", filepath.Join(t.TempDir(), "nope.toml"))
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "THRESHOLDS_FILE")
}

func TestLoad_ThresholdsFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o600))
	t.Setenv("THRESHOLDS_FILE", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "THRESHOLDS_FILE")
}
