package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/pkg/config"
)

func TestLoad_DefaultsDesdeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_UNREAD_TTL_SECONDS", "60")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "secreto", cfg.JWT.Secret)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, time.Minute, cfg.Redis.UnreadTTL)
	assert.False(t, cfg.Redis.Enabled(), "sin REDIS_URL la caché queda deshabilitada")
	assert.False(t, cfg.Notify.EmailEnabled)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_SinSecretoFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_CorreoSinRemitenteFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("NOTIFY_EMAIL_ENABLED", "true")
	t.Setenv("NOTIFY_EMAIL_FROM", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/wd", DBName: "ventas", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fwd@db:5432/ventas?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
