package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// SMTP connection security modes
const (
	SMTPSecurityTLS      = "tls"      // implicit TLS, usually port 465
	SMTPSecurityStartTLS = "starttls" // plain connect then STARTTLS, usually port 587
	SMTPSecurityNone     = "none"
)

type Config struct {
	Port          string
	Environment   string
	VerboseErrors bool // expose internal error detail in 5xx responses
	AllowedOrigin string
	// Proxies whose X-Forwarded-For is trusted for client IP resolution
	TrustedProxies []string
	// Mail account (Gmail app password by default)
	MailUser               string
	MailCredential         string
	SMTPHost               string
	SMTPPort               string
	SMTPSecurity           string
	SMTPInsecureSkipVerify bool
	RecipientEmail         string
	MailTimeout            time.Duration
	// Rate Limiting Configuration
	RateLimitWindow     time.Duration
	RateLimitMax        int
	RateLimitFailClosed bool
	// Redis/Upstash Configuration (optional, memory store otherwise)
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Logging
	LogLevel  string
	LogFormat string
	// Owner profile used by the acknowledgment email
	Owner OwnerProfile
}

// OwnerProfile is the static biography block sent back to visitors.
type OwnerProfile struct {
	Name     string
	Title    string
	Email    string
	Bio      string
	LinkedIn string
	GitHub   string
	Medium   string
}

func LoadConfig() (*Config, error) {
	// Load .env if present; real environment wins in deployments
	_ = godotenv.Load()

	environment := strings.ToLower(getEnv("APP_ENV", getEnv("NODE_ENV", EnvDevelopment)))

	owner := OwnerProfile{
		Name:     getEnv("OWNER_NAME", "Rohit Verma"),
		Title:    getEnv("OWNER_TITLE", "DevOps Engineer"),
		Email:    getEnv("OWNER_EMAIL", "rohitverma27305@gmail.com"),
		Bio:      getEnv("OWNER_BIO", "I'm a DevOps Engineer specializing in cloud infrastructure, Kubernetes, and automation. I'm passionate about building scalable systems and helping organizations optimize their development workflows."),
		LinkedIn: getEnv("OWNER_LINKEDIN", "https://linkedin.com/in/rohitverma27305"),
		GitHub:   getEnv("OWNER_GITHUB", "https://github.com/rohitverma27305"),
		Medium:   getEnv("OWNER_MEDIUM", "https://medium.com/@rohitverma27305"),
	}

	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		Environment:    environment,
		VerboseErrors:  getEnvBool("VERBOSE_ERRORS", environment != EnvProduction),
		AllowedOrigin:  strings.TrimRight(getEnv("FRONTEND_URL", ""), "/"),
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
		// Mail
		MailUser:               getEnv("EMAIL_USER", ""),
		MailCredential:         getEnv("EMAIL_APP_PASSWORD", ""),
		SMTPHost:               getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:               getEnv("SMTP_PORT", "465"),
		SMTPSecurity:           strings.ToLower(getEnv("SMTP_SECURITY", SMTPSecurityTLS)),
		SMTPInsecureSkipVerify: getEnvBool("SMTP_INSECURE_SKIP_VERIFY", false),
		RecipientEmail:         getEnv("RECIPIENT_EMAIL", owner.Email),
		MailTimeout:            time.Duration(getEnvInt("MAIL_TIMEOUT_SECONDS", 30)) * time.Second,
		// Rate limiting: 5 submissions per 15 minutes
		RateLimitWindow:     time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 900)) * time.Second,
		RateLimitMax:        getEnvInt("RATE_LIMIT_MAX", 5),
		RateLimitFailClosed: getEnvBool("RATE_LIMIT_FAIL_CLOSED", false),
		// Redis
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		Owner:     owner,
	}

	for _, w := range cfg.Warnings() {
		log.Println("WARNING:", w)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Warnings lists configuration gaps that do not stop the server but degrade it.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.MailUser == "" || c.MailCredential == "" {
		warnings = append(warnings, "EMAIL_USER / EMAIL_APP_PASSWORD missing. Contact submissions will fail mail verification.")
	}
	switch c.SMTPSecurity {
	case SMTPSecurityTLS, SMTPSecurityStartTLS, SMTPSecurityNone:
	default:
		warnings = append(warnings, "SMTP_SECURITY must be one of tls, starttls, none; got "+strconv.Quote(c.SMTPSecurity))
	}
	if c.UpstashRedisURL == "" {
		warnings = append(warnings, "UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory store.")
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		warnings = append(warnings, "RATE_LIMIT_MAX and RATE_LIMIT_WINDOW_SECONDS must be positive.")
	}
	return warnings
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, nil when unset or empty
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
