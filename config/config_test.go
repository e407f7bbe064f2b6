package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, time.Hour, cfg.QuestionSetTTL)
	assert.Equal(t, 10*time.Minute, cfg.UserPerformanceTTL)
	assert.Equal(t, 5*time.Minute, cfg.AdminStatsTTL)
	assert.Contains(t, cfg.CORSOrigins, "http://localhost:5173")
	assert.Equal(t, ":8080", cfg.ListenAddr())
	assert.Error(t, cfg.Validate(), "missing jwt secret must fail validation")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("QUESTION_SET_TTL", "30m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 30*time.Minute, cfg.QuestionSetTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skillcheck.yaml")
	content := "port: \"9090\"\njwt_secret: from-file\nadmin_stats_ttl: 1m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, time.Minute, cfg.AdminStatsTTL)
	assert.Equal(t, ":9090", cfg.ListenAddr())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvListsAndBareDurations(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("QUESTION_SET_TTL", "3600")
	t.Setenv("ADMIN_STATS_TTL", " 90s ")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, time.Hour, cfg.QuestionSetTTL)
	assert.Equal(t, 90*time.Second, cfg.AdminStatsTTL)
}

func TestLoadConfigFileBareDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skillcheck.yaml")
	content := "user_performance_ttl: 120\ncors_origins:\n  - http://a.test\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.UserPerformanceTTL)
	assert.Equal(t, []string{"http://a.test"}, cfg.CORSOrigins)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("QUESTION_SET_TTL", "an hour")

	_, err := Load("")
	assert.ErrorContains(t, err, "question_set_ttl")
}
