package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_ACCESS_TTL", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "development")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("JWT_ACCESS_TTL", "15m")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "inv", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=inv port=5432 sslmode=disable TimeZone=UTC", d.DSN())

	d.URL = "postgres://u:p@db/inv"
	assert.Equal(t, "postgres://u:p@db/inv", d.DSN())
}
