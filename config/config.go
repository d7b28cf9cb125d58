package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig               `mapstructure:"server"`
	Database    DatabaseConfig             `mapstructure:"database"`
	Redis       RedisConfig                `mapstructure:"redis"`
	Log         LogConfig                  `mapstructure:"log"`
	Twitch      TwitchConfig               `mapstructure:"twitch"`
	PayPal      PayPalConfig               `mapstructure:"paypal"`
	Downstream  DownstreamConfig           `mapstructure:"downstream"`
	Mural       MuralConfig                `mapstructure:"mural"`
	Queue       QueueConfig                `mapstructure:"queue"`
	Metrics     MetricsConfig              `mapstructure:"metrics"`
	Sanctuaries map[string]SanctuaryConfig `mapstructure:"sanctuaries"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host" validate:"required"`
	Port        int    `mapstructure:"port" validate:"required|min:1|max:65535"`
	Mode        string `mapstructure:"mode" validate:"in:debug,release,test"`
	RoutePrefix string `mapstructure:"route_prefix" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectAttempts int           `mapstructure:"connect_attempts"`
}

// DSN returns the PostgreSQL connection URL with credentials escaped.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// TwitchConfig holds the application credentials used to register EventSub
// subscriptions. MasterSecret seeds the per-sanctuary webhook secrets;
// SecretKey (64 hex chars), when set, encrypts them in the config store.
type TwitchConfig struct {
	ClientID        string `mapstructure:"client_id"`
	ClientSecret    string `mapstructure:"client_secret"`
	MasterSecret    string `mapstructure:"master_secret"`
	SecretKey       string `mapstructure:"secret_key"`
	CallbackBaseURL string `mapstructure:"callback_base_url"`
}

type PayPalConfig struct {
	ProductionURL string        `mapstructure:"production_url" validate:"required|fullUrl"`
	SandboxURL    string        `mapstructure:"sandbox_url" validate:"required|fullUrl"`
	VerifyTimeout time.Duration `mapstructure:"verify_timeout"`
}

type DownstreamConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	TokenSecret string        `mapstructure:"token_secret"`
	TokenIssuer string        `mapstructure:"token_issuer"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// MuralConfig holds allocation constants and the admin shared secret.
// APIKeyHash, an Argon2id digest, takes precedence over APIKey.
type MuralConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	APIKeyHash      string        `mapstructure:"api_key_hash"`
	PixelPriceUSD   int64         `mapstructure:"pixel_price_usd" validate:"required|min:1"`
	ToleranceUSD    int64         `mapstructure:"tolerance_usd" validate:"min:0"`
	SnapshotCacheMB int           `mapstructure:"snapshot_cache_mb" validate:"min:0"`
	GridTimeout     time.Duration `mapstructure:"grid_timeout"`
	GridS3Region    string        `mapstructure:"grid_s3_region"`
	GridMaxBytes    int64         `mapstructure:"grid_max_bytes" validate:"min:1"`
}

type QueueConfig struct {
	Key         string        `mapstructure:"key" validate:"required"`
	BatchSize   int           `mapstructure:"batch_size" validate:"required|min:1"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
	Backoff     time.Duration `mapstructure:"backoff"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SanctuaryConfig is the per-tenant configuration. A nil provider section
// disables that provider for the sanctuary.
type SanctuaryConfig struct {
	GridURL string                 `mapstructure:"grid_url"`
	Twitch  *SanctuaryTwitchConfig `mapstructure:"twitch"`
	PayPal  *SanctuaryPayPalConfig `mapstructure:"paypal"`
}

type SanctuaryTwitchConfig struct {
	BroadcasterUserID string `mapstructure:"broadcaster_user_id"`
	CharityName       string `mapstructure:"charity_name"`
}

type SanctuaryPayPalConfig struct {
	BusinessEmail string `mapstructure:"business_email"`
	Sandbox       bool   `mapstructure:"sandbox"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: MURAL_.
// Nested keys use underscore: MURAL_DATABASE_HOST, MURAL_TWITCH_CLIENT_ID, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.route_prefix", "/sanctuaries")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "sanctuary_mural")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.connect_attempts", 5)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 0)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("twitch.client_id", "")
	v.SetDefault("twitch.client_secret", "")
	v.SetDefault("twitch.master_secret", "")
	v.SetDefault("twitch.secret_key", "")
	v.SetDefault("twitch.callback_base_url", "")
	v.SetDefault("paypal.production_url", "https://ipnpb.paypal.com/cgi-bin/webscr")
	v.SetDefault("paypal.sandbox_url", "https://ipnpb.sandbox.paypal.com/cgi-bin/webscr")
	v.SetDefault("paypal.verify_timeout", "10s")
	v.SetDefault("downstream.base_url", "http://localhost:3000")
	v.SetDefault("downstream.token_secret", "")
	v.SetDefault("downstream.token_issuer", "sanctuary-mural")
	v.SetDefault("downstream.token_ttl", "5m")
	v.SetDefault("downstream.timeout", "10s")
	v.SetDefault("mural.api_key", "")
	v.SetDefault("mural.api_key_hash", "")
	v.SetDefault("mural.pixel_price_usd", 100)
	v.SetDefault("mural.tolerance_usd", 5)
	v.SetDefault("mural.snapshot_cache_mb", 128)
	v.SetDefault("mural.grid_timeout", "15s")
	v.SetDefault("mural.grid_s3_region", "us-east-1")
	v.SetDefault("mural.grid_max_bytes", 32<<20)
	v.SetDefault("queue.key", "donations:queue")
	v.SetDefault("queue.batch_size", 25)
	v.SetDefault("queue.poll_timeout", "5s")
	v.SetDefault("queue.backoff", "5s")
	v.SetDefault("metrics.enabled", true)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: MURAL_DATABASE_HOST -> database.host
	v.SetEnvPrefix("MURAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required; env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the sections whose values the service cannot run without.
func (c *Config) Validate() error {
	sections := []struct {
		name  string
		value interface{}
	}{
		{"server", &c.Server},
		{"paypal", &c.PayPal},
		{"mural", &c.Mural},
		{"queue", &c.Queue},
	}
	for _, s := range sections {
		v := validate.Struct(s.value)
		if !v.Validate() {
			return fmt.Errorf("invalid %s config: %s", s.name, v.Errors.One())
		}
	}

	for name, sc := range c.Sanctuaries {
		if sc.Twitch != nil && (sc.Twitch.BroadcasterUserID == "" || sc.Twitch.CharityName == "") {
			return fmt.Errorf("invalid sanctuary %q: twitch needs broadcaster_user_id and charity_name", name)
		}
		if sc.PayPal != nil && sc.PayPal.BusinessEmail == "" {
			return fmt.Errorf("invalid sanctuary %q: paypal needs business_email", name)
		}
	}
	return nil
}
