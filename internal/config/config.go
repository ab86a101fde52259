package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DatabaseURL string
	Domain      string

	JWTSecret        string
	JWTExpire        time.Duration
	JWTRefreshSecret string
	JWTRefreshExpire time.Duration

	ClientURL      string
	AllowedOrigins []string

	NotificationRetention time.Duration
	DispatchWorkers       int
	DispatchQueueSize     int

	FCMProjectID       string
	FCMCredentialsFile string

	GmailCredentialsFile string
	GmailTokenFile       string
	MailFrom             string

	JobSweepInterval   time.Duration
	PurgeSweepInterval time.Duration
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("jwt_expire", "24h")
	v.SetDefault("jwt_refresh_expire", "168h")
	v.SetDefault("client_url", "http://localhost:5173")
	v.SetDefault("notification_retention_days", 90)
	v.SetDefault("dispatch_workers", 4)
	v.SetDefault("dispatch_queue_size", 256)
	v.SetDefault("job_sweep_interval", "1h")
	v.SetDefault("purge_sweep_interval", "24h")
}

// Load reads the optional .env file at envPath and then resolves every setting
// from the environment. A missing .env file is not an error.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                  v.GetString("port"),
		DatabaseURL:           v.GetString("database_url"),
		Domain:                v.GetString("domain"),
		JWTSecret:             v.GetString("jwt_secret"),
		JWTExpire:             v.GetDuration("jwt_expire"),
		JWTRefreshSecret:      v.GetString("jwt_refresh_secret"),
		JWTRefreshExpire:      v.GetDuration("jwt_refresh_expire"),
		ClientURL:             v.GetString("client_url"),
		NotificationRetention: time.Duration(v.GetInt("notification_retention_days")) * 24 * time.Hour,
		DispatchWorkers:       v.GetInt("dispatch_workers"),
		DispatchQueueSize:     v.GetInt("dispatch_queue_size"),
		FCMProjectID:          v.GetString("fcm_project_id"),
		FCMCredentialsFile:    v.GetString("fcm_credentials_file"),
		GmailCredentialsFile:  v.GetString("gmail_credentials_file"),
		GmailTokenFile:        v.GetString("gmail_token_file"),
		MailFrom:              v.GetString("mail_from"),
		JobSweepInterval:      v.GetDuration("job_sweep_interval"),
		PurgeSweepInterval:    v.GetDuration("purge_sweep_interval"),
	}

	cfg.AllowedOrigins = splitList(v.GetString("allowed_origins"))

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if cfg.JWTRefreshSecret == "" {
		cfg.JWTRefreshSecret = cfg.JWTSecret + ".refresh"
	}
	if cfg.DispatchWorkers < 1 {
		cfg.DispatchWorkers = 1
	}

	return cfg, nil
}

// Origins returns the CORS/WebSocket origin allow-list.
func (c *Config) Origins(defaults []string) []string {
	origins := make([]string, 0, len(defaults)+len(c.AllowedOrigins)+1)
	origins = append(origins, defaults...)
	if c.ClientURL != "" {
		origins = append(origins, c.ClientURL)
	}
	return append(origins, c.AllowedOrigins...)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
