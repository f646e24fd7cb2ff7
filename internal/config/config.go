package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config contains all runtime settings.
// Load order: defaults -> YAML (optional) -> env overrides.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`
	AdminKey   string `yaml:"admin_key"`

	// Logging configuration
	Logging struct {
		Level      string `yaml:"level"`        // trace, debug, info, warn, error, fatal, panic
		Format     string `yaml:"format"`       // json, console
		Output     string `yaml:"output"`       // stdout, file, syslog, multi
		FilePath   string `yaml:"file_path"`    // path to log file (if output=file or multi)
		MaxSizeMB  int    `yaml:"max_size_mb"`  // max size before rotation
		MaxBackups int    `yaml:"max_backups"`  // max number of old log files
		MaxAgeDays int    `yaml:"max_age_days"` // max age in days
		Compress   bool   `yaml:"compress"`     // compress rotated files
		SyslogAddr string `yaml:"syslog_addr"`  // syslog server address (if output=syslog or multi)
		SyslogNet  string `yaml:"syslog_net"`   // tcp, udp, or empty for local
	} `yaml:"logging"`

	// OIDC/Keycloak for the admin API. Off by default.
	OIDC struct {
		Enabled   bool   `yaml:"enabled"`
		IssuerURL string `yaml:"issuer_url"`
		ClientID  string `yaml:"client_id"`
		Audience  string `yaml:"audience"`
		AdminRole string `yaml:"admin_role"`
	} `yaml:"oidc"`

	Webhooks struct {
		Secret         string `yaml:"secret"`          // empty: no signature header
		TimeoutSec     int    `yaml:"timeout_sec"`     // per POST
		MaxConcurrency int    `yaml:"max_concurrency"` // 0: unbounded
		Async          bool   `yaml:"async"`           // respond before the round settles
	} `yaml:"webhooks"`

	RateLimit struct {
		RequestsPerSec float64 `yaml:"requests_per_sec"` // <= 0 disables
		Burst          int     `yaml:"burst"`
		// X-Forwarded-For is honored only from these IPs or CIDRs.
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"rate_limit"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// Load reads YAML if path is non-empty, then applies env overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	var c Config
	c.ListenAddr = ":8080"
	c.DBPath = "/data/db/brandae-leads.db"

	// Logging defaults
	c.Logging.Level = "info"
	c.Logging.Format = "json"
	c.Logging.Output = "stdout"
	c.Logging.FilePath = "/var/log/brandae-leads/app.log"
	c.Logging.MaxSizeMB = 100
	c.Logging.MaxBackups = 3
	c.Logging.MaxAgeDays = 28
	c.Logging.Compress = true
	c.Logging.SyslogAddr = ""
	c.Logging.SyslogNet = "udp"

	c.Webhooks.TimeoutSec = 10
	c.Webhooks.MaxConcurrency = 0
	c.Webhooks.Async = false

	c.RateLimit.RequestsPerSec = 1
	c.RateLimit.Burst = 5

	c.CORS.AllowedOrigins = []string{"*"}

	c.OIDC.Enabled = false
	c.OIDC.AdminRole = "brandae-admin"
	return c
}

func applyEnv(cfg *Config) {
	setStr(&cfg.ListenAddr, "BR_LISTEN_ADDR")
	setStr(&cfg.DBPath, "BR_DB_PATH")
	setStr(&cfg.AdminKey, "BR_ADMIN_KEY")

	setStr(&cfg.Webhooks.Secret, "BR_WEBHOOK_SECRET")
	if v := os.Getenv("BR_WEBHOOK_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Webhooks.TimeoutSec = n
		}
	}
	if v := os.Getenv("BR_WEBHOOK_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Webhooks.MaxConcurrency = n
		}
	}
	setBool(&cfg.Webhooks.Async, "BR_WEBHOOK_ASYNC")

	if v := os.Getenv("BR_RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit.RequestsPerSec = f
		}
	}
	if v := os.Getenv("BR_RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimit.Burst = n
		}
	}

	setList(&cfg.RateLimit.TrustedProxies, "BR_RATE_LIMIT_TRUSTED_PROXIES")
	setList(&cfg.CORS.AllowedOrigins, "BR_CORS_ALLOWED_ORIGINS")

	setBool(&cfg.OIDC.Enabled, "BR_OIDC_ENABLED")
	setStr(&cfg.OIDC.IssuerURL, "BR_OIDC_ISSUER_URL")
	setStr(&cfg.OIDC.ClientID, "BR_OIDC_CLIENT_ID")
	setStr(&cfg.OIDC.Audience, "BR_OIDC_AUDIENCE")
	setStr(&cfg.OIDC.AdminRole, "BR_OIDC_ADMIN_ROLE")

	// Logging configuration
	setStr(&cfg.Logging.Level, "BR_LOG_LEVEL")
	setStr(&cfg.Logging.Format, "BR_LOG_FORMAT")
	setStr(&cfg.Logging.Output, "BR_LOG_OUTPUT")
	setStr(&cfg.Logging.FilePath, "BR_LOG_FILE_PATH")
	setStr(&cfg.Logging.SyslogAddr, "BR_LOG_SYSLOG_ADDR")
	setStr(&cfg.Logging.SyslogNet, "BR_LOG_SYSLOG_NET")

	if v := os.Getenv("BR_LOG_MAX_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Logging.MaxSizeMB = n
		}
	}
	if v := os.Getenv("BR_LOG_MAX_BACKUPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Logging.MaxBackups = n
		}
	}
	if v := os.Getenv("BR_LOG_MAX_AGE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Logging.MaxAgeDays = n
		}
	}
	setBool(&cfg.Logging.Compress, "BR_LOG_COMPRESS")
}

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// setList reads a comma-separated env value.
func setList(dst *[]string, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

func setBool(dst *bool, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v == "1" || strings.ToLower(v) == "true"
	}
}
