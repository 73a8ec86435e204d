package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DATABASE", "storefront")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example, https://admin.example ,")
	t.Setenv("CART_RESOLVE_CONCURRENCY", "4")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "storefront", cfg.Database.Database)
	assert.Equal(t, "public", cfg.Database.Schema)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 4, cfg.Cart.ResolveConcurrency)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestServerConfig_IsDevelopment(t *testing.T) {
	assert.True(t, ServerConfig{Env: "development"}.IsDevelopment())
	assert.False(t, ServerConfig{Env: "production"}.IsDevelopment())
}
