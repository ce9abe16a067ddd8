package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/mines")
	t.Setenv("SCORE_BACKEND", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("SCORE_BACKUP_INTERVAL", "")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5200", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.ScoreBackend)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Duration(0), cfg.ScoreBackupInterval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.False(t, cfg.NeedsR2())
}

func TestLoadDurations(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/mines")
	t.Setenv("SCORE_BACKEND", "")
	t.Setenv("SCORE_BACKUP_INTERVAL", "")
	t.Setenv("SESSION_TTL", "90")
	t.Setenv("SESSION_REAP_INTERVAL", "15s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.SessionTTL)
	assert.Equal(t, 15*time.Second, cfg.SessionReapInterval)

	t.Setenv("SESSION_TTL", "soon")
	_, err = Load()
	assert.ErrorContains(t, err, "SESSION_TTL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "postgres without url", cfg: Config{ScoreBackend: BackendPostgres}, wantErr: "DATABASE_URL"},
		{name: "r2 without bucket", cfg: Config{ScoreBackend: BackendR2}, wantErr: "R2_BUCKET_NAME"},
		{name: "unknown backend", cfg: Config{ScoreBackend: "redis"}, wantErr: "unknown SCORE_BACKEND"},
		{name: "backup without bucket", cfg: Config{ScoreBackend: BackendPostgres, DatabaseURL: "x", ScoreBackupInterval: time.Hour}, wantErr: "SCORE_BACKUP_INTERVAL"},
		{name: "r2 ok", cfg: Config{ScoreBackend: BackendR2, R2Bucket: "scores"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
