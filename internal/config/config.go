package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// DefaultDigestSchedule fires the digest at 19:44:00 every day (sec min hour dom mon dow).
const DefaultDigestSchedule = "0 44 19 * * *"

var digestParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type AlertConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	SendWhenHealthy bool          `mapstructure:"send_when_healthy"`
}

type DigestConfig struct {
	Schedule string `mapstructure:"schedule"`
	Timezone string `mapstructure:"timezone"`
}

type HTTPConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
	FollowRedirects bool          `mapstructure:"follow_redirects"`
	VerifyTLS       bool          `mapstructure:"verify_tls"`
}

type WebhookConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type APIConfig struct {
	Addr           string   `mapstructure:"addr"`
	PublicKeys     []string `mapstructure:"public_keys"`
	AdminKeys      []string `mapstructure:"admin_keys"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	PublicRPM      int      `mapstructure:"public_rpm"`
	PublicBurst    int      `mapstructure:"public_burst"`
	AdminRPM       int      `mapstructure:"admin_rpm"`
	AdminBurst     int      `mapstructure:"admin_burst"`

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a reverse proxy that sets those headers.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

type LogConfig struct {
	Dir     string `mapstructure:"dir"`
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// Config is read once at startup and treated as immutable afterwards.
type Config struct {
	URLs        []string      `mapstructure:"urls"`
	WebhookURLs []string      `mapstructure:"webhook_url"`
	Alert       AlertConfig   `mapstructure:"alert"`
	Digest      DigestConfig  `mapstructure:"digest"`
	HTTP        HTTPConfig    `mapstructure:"http"`
	Webhook     WebhookConfig `mapstructure:"webhook"`
	API         APIConfig     `mapstructure:"api"`
	Log         LogConfig     `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("urls", []string{})
	v.SetDefault("webhook_url", []string{})

	v.SetDefault("alert.interval", "1m")
	v.SetDefault("alert.send_when_healthy", false)

	v.SetDefault("digest.schedule", DefaultDigestSchedule)
	v.SetDefault("digest.timezone", "Local")

	v.SetDefault("http.timeout", "10s")
	v.SetDefault("http.user_agent", "urlreporter/1.0")
	v.SetDefault("http.follow_redirects", true)
	v.SetDefault("http.verify_tls", true)

	v.SetDefault("webhook.timeout", "10s")

	v.SetDefault("api.addr", "127.0.0.1:8080")
	v.SetDefault("api.public_keys", []string{})
	v.SetDefault("api.admin_keys", []string{})
	v.SetDefault("api.allowed_origins", []string{})
	v.SetDefault("api.public_rpm", 120)
	v.SetDefault("api.public_burst", 60)
	v.SetDefault("api.admin_rpm", 30)
	v.SetDefault("api.admin_burst", 10)
	v.SetDefault("api.trust_proxy", false)

	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.level", LogLevelInfo)
	v.SetDefault("log.console", true)
}

// Load reads the optional YAML file at path, applies environment overrides
// (URLS, WEBHOOK_URL, ALERT_INTERVAL, LOG_DIR, ...) and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// normalize expands comma separated list values coming from the environment
// and trims whitespace. URLs are only trimmed: a URL may contain commas, and
// the URLS env string is already split during decoding. Blank URLs are kept
// and reported as down.
func (c *Config) normalize() {
	c.URLs = trimAll(c.URLs)
	c.WebhookURLs = splitList(c.WebhookURLs)
	c.API.PublicKeys = splitList(c.API.PublicKeys)
	c.API.AdminKeys = splitList(c.API.AdminKeys)
	c.API.AllowedOrigins = splitList(c.API.AllowedOrigins)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Digest.Schedule = strings.TrimSpace(c.Digest.Schedule)
	c.Digest.Timezone = strings.TrimSpace(c.Digest.Timezone)
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, item := range in {
		out[i] = strings.TrimSpace(item)
	}
	return out
}

// Location resolves the digest time zone. Empty and "Local" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Digest.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	return time.LoadLocation(c.Digest.Timezone)
}

// DigestSchedule parses the digest cron expression. It returns nil, nil when the
// digest cycle is disabled.
func (c *Config) DigestSchedule() (cron.Schedule, error) {
	if c.Digest.Schedule == "" {
		return nil, nil
	}
	s, err := digestParser.Parse(c.Digest.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse digest schedule %q: %w", c.Digest.Schedule, err)
	}
	return s, nil
}

// ErrNothingScheduled is returned when both cycles are disabled.
var ErrNothingScheduled = errors.New("both alert and digest cycles are disabled")
