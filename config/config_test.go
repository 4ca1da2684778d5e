package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":   "postgres://localhost/eulark",
		"JWT_SECRET_KEY": "secret",
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.PlayerTokenTTL)
	assert.Equal(t, 8*time.Hour, cfg.AdminTokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.VerificationTTL)
	assert.Equal(t, time.Hour, cfg.ResetTTL)
	assert.Equal(t, 10, cfg.CheckinReward)
	assert.Equal(t, "log", cfg.EmailProvider)
	assert.Equal(t, "https://api.mcsrvstat.us/3", cfg.StatusAPIBase)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.False(t, cfg.R2Enabled())
	assert.False(t, cfg.DiscordEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	env := baseEnv()
	env["SERVER_PORT"] = "9000"
	env["PUBLIC_URL"] = "https://eulark.example/"
	env["VERIFICATION_TTL"] = "10m"
	env["RESEND_API_KEY"] = "re_123"
	env["EMAIL_FROM"] = "Eulark <no-reply@eulark.example>"
	env["CORS_ALLOWED_ORIGINS"] = "https://eulark.example, https://www.eulark.example,"
	env["DISCORD_WEBHOOK_ID"] = "1"
	env["DISCORD_WEBHOOK_TOKEN"] = "t"
	env["TRUST_PROXY_HEADERS"] = "true"

	cfg, err := FromEnv(envOf(env))
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, "https://eulark.example", cfg.PublicURL)
	assert.Equal(t, 10*time.Minute, cfg.VerificationTTL)
	assert.Equal(t, "resend", cfg.EmailProvider)
	assert.Equal(t, []string{"https://eulark.example", "https://www.eulark.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.DiscordEnabled())
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]string
		want string
	}{
		{"missing database", map[string]string{"DATABASE_URL": ""}, "DATABASE_URL"},
		{"missing secret", map[string]string{"JWT_SECRET_KEY": ""}, "JWT_SECRET_KEY"},
		{"bad port", map[string]string{"SERVER_PORT": "http"}, "SERVER_PORT"},
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}, "between 1 and 65535"},
		{"bad duration", map[string]string{"RESET_TTL": "soon"}, "RESET_TTL"},
		{"bad proxy flag", map[string]string{"TRUST_PROXY_HEADERS": "maybe"}, "TRUST_PROXY_HEADERS"},
		{"bcrypt cost", map[string]string{"BCRYPT_COST": "2"}, "BCRYPT_COST"},
		{"smtp without host", map[string]string{"EMAIL_PROVIDER": "smtp", "EMAIL_FROM": "a@x.com"}, "SMTP_HOST"},
		{"unknown provider", map[string]string{"EMAIL_PROVIDER": "pigeon"}, "unknown EMAIL_PROVIDER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			for k, v := range tt.set {
				env[k] = v
			}
			_, err := FromEnv(envOf(env))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
