package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("JWT_EXPIRATION", "2h")
	v.Set("DASHBOARD_CACHE_TTL", "bogus")
	v.Set("ALLOWED_ORIGINS", "https://media.example.com, *, http://localhost:3000")

	cfg := fromViper(v)

	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.CacheTTL)
	assert.Equal(t, []string{"https://media.example.com", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}
