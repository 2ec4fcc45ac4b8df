package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ALLOWED_REDIRECT_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "http://localhost:5173/")
	t.Setenv("PUBLIC_URL", "")

	cfg := LoadConfig()
	assert.Equal(t, EnvDevelopment, cfg.AppEnv)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedRedirectOrigins)
	assert.Equal(t, "http://localhost:3000/oauth/facebook/callback", cfg.Facebook.RedirectURI)
	assert.Equal(t, StateModeSigned, cfg.StateMode)
	assert.Equal(t, 20*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
}

func TestLoadConfigParsesLists(t *testing.T) {
	t.Setenv("ALLOWED_REDIRECT_ORIGINS", " https://app.example.com/ , ,https://admin.example.com")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("SIMULATED_PROVIDERS", "true")

	cfg := LoadConfig()
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedRedirectOrigins)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.SimulatedProviders)
}

func validDevConfig() *Config {
	return &Config{
		AppEnv:         EnvDevelopment,
		DatabaseDriver: DriverPostgres,
		PostgresURI:    "postgres://localhost/bizhub",
		StateMode:      StateModeSigned,
		StateSecret:    "secret",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validDevConfig().Validate())

	cases := map[string]func(c *Config){
		"missing postgres uri":   func(c *Config) { c.PostgresURI = "" },
		"unknown driver":         func(c *Config) { c.DatabaseDriver = "mysql" },
		"supabase without key":   func(c *Config) { c.DatabaseDriver = DriverSupabase },
		"signed without secret":  func(c *Config) { c.StateSecret = "" },
		"server without redis":   func(c *Config) { c.StateMode = StateModeServer },
		"bad encryption key":     func(c *Config) { c.Facebook = Facebook{AppID: "id", AppSecret: "s"}; c.TokenEncryptionKey = "short" },
		"production simulated":   func(c *Config) { c.AppEnv = EnvProduction; c.SimulatedProviders = true },
		"production plain state": func(c *Config) { c.AppEnv = EnvProduction; c.StateMode = StateModePlain },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validDevConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateProduction(t *testing.T) {
	cfg := validDevConfig()
	cfg.AppEnv = EnvProduction
	cfg.Facebook = Facebook{AppID: "id", AppSecret: "secret"}
	cfg.TokenEncryptionKey = "0123456789abcdef0123456789abcdef"
	cfg.Supabase.JWTSecret = "jwt"

	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsProduction())
}
