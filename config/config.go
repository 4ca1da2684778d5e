package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	JWTIssuer    string
	ServerPort   int
	PublicURL    string

	BcryptCost      int
	PlayerTokenTTL  time.Duration
	AdminTokenTTL   time.Duration
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	CheckinReward   int

	EmailProvider string // resend, smtp or log
	ResendAPIKey  string
	EmailFrom     string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string

	StatusAPIBase       string
	StatusServerAddress string

	CORSAllowedOrigins []string
	RedisURL           string
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// friends. Only safe behind a proxy that overwrites them.
	TrustProxyHeaders bool

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	DiscordWebhookID    string
	DiscordWebhookToken string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		DatabaseURL:  p.required("DATABASE_URL"),
		JWTSecretKey: p.required("JWT_SECRET_KEY"),
		JWTIssuer:    p.str("JWT_ISSUER", "eulark"),
		ServerPort:   p.integer("SERVER_PORT", 8080),
		PublicURL:    strings.TrimRight(p.str("PUBLIC_URL", "http://localhost:8080"), "/"),

		BcryptCost:      p.integer("BCRYPT_COST", 10),
		PlayerTokenTTL:  p.duration("PLAYER_TOKEN_TTL", 24*time.Hour),
		AdminTokenTTL:   p.duration("ADMIN_TOKEN_TTL", 8*time.Hour),
		VerificationTTL: p.duration("VERIFICATION_TTL", 15*time.Minute),
		ResetTTL:        p.duration("RESET_TTL", time.Hour),
		CheckinReward:   p.integer("CHECKIN_REWARD", 10),

		EmailProvider: strings.ToLower(p.str("EMAIL_PROVIDER", "")),
		ResendAPIKey:  p.str("RESEND_API_KEY", ""),
		EmailFrom:     p.str("EMAIL_FROM", ""),
		SMTPHost:      p.str("SMTP_HOST", ""),
		SMTPPort:      p.integer("SMTP_PORT", 587),
		SMTPUser:      p.str("SMTP_USER", ""),
		SMTPPass:      p.str("SMTP_PASS", ""),

		StatusAPIBase:       p.str("STATUS_API_BASE", "https://api.mcsrvstat.us/3"),
		StatusServerAddress: p.str("STATUS_SERVER_ADDRESS", ""),

		CORSAllowedOrigins: p.list("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RedisURL:           p.str("REDIS_URL", ""),
		TrustProxyHeaders:  p.boolean("TRUST_PROXY_HEADERS", false),

		R2AccountID:       p.str("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     p.str("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: p.str("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      p.str("R2_BUCKET_NAME", ""),
		R2PublicBaseURL:   p.str("R2_PUBLIC_BASE_URL", ""),

		DiscordWebhookID:    p.str("DISCORD_WEBHOOK_ID", ""),
		DiscordWebhookToken: p.str("DISCORD_WEBHOOK_TOKEN", ""),
	}
	if p.err != nil {
		return nil, p.err
	}

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", cfg.BcryptCost)
	}
	if cfg.CheckinReward <= 0 {
		return nil, fmt.Errorf("CHECKIN_REWARD must be positive, got %d", cfg.CheckinReward)
	}

	if cfg.EmailProvider == "" {
		switch {
		case cfg.ResendAPIKey != "":
			cfg.EmailProvider = "resend"
		case cfg.SMTPHost != "":
			cfg.EmailProvider = "smtp"
		default:
			cfg.EmailProvider = "log"
		}
	}
	switch cfg.EmailProvider {
	case "resend":
		if cfg.ResendAPIKey == "" || cfg.EmailFrom == "" {
			return nil, fmt.Errorf("EMAIL_PROVIDER=resend requires RESEND_API_KEY and EMAIL_FROM")
		}
	case "smtp":
		if cfg.SMTPHost == "" || cfg.EmailFrom == "" {
			return nil, fmt.Errorf("EMAIL_PROVIDER=smtp requires SMTP_HOST and EMAIL_FROM")
		}
	case "log":
	default:
		return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q (want resend, smtp or log)", cfg.EmailProvider)
	}

	return cfg, nil
}

// R2Enabled reports whether sponsor logo storage is configured.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

func (c *Config) DiscordEnabled() bool {
	return c.DiscordWebhookID != "" && c.DiscordWebhookToken != ""
}

// parser keeps the first error so Load can report it after reading every field.
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) required(key string) string {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		p.fail(fmt.Errorf("%s environment variable is not set", key))
	}
	return v
}

func (p *parser) integer(key string, def int) int {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(fmt.Errorf("invalid %s environment variable: %w", key, err))
		return def
	}
	return v
}

func (p *parser) boolean(key string, def bool) bool {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(fmt.Errorf("invalid %s environment variable: %w", key, err))
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		p.fail(fmt.Errorf("invalid %s environment variable %q: want a positive duration such as 15m", key, raw))
		return def
	}
	return v
}

func (p *parser) list(key string, def []string) []string {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
