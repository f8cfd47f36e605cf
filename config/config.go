package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gunjan1sharma/hmac-auth-builder/pkg/hmacauth"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
	Signing  SigningConfig  `mapstructure:"signing"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
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
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// SecretsConfig controls at-rest encryption of stored credential secrets.
// The AES-256 key is derived from passphrase+salt with Argon2id.
type SecretsConfig struct {
	Passphrase string `mapstructure:"passphrase"`
	Salt       string `mapstructure:"salt"`
}

// SigningConfig is the gateway-wide signing profile: the signature scheme
// every client credential signs against, plus the server-side replay and
// freshness windows.
type SigningConfig struct {
	Method          string        `mapstructure:"method"`           // canonical, json
	Separator       string        `mapstructure:"separator"`        // canonical-mode joiner
	Algorithm       string        `mapstructure:"algorithm"`        // sha256, sha512, sha384, sha1, md5
	Encoding        string        `mapstructure:"encoding"`         // hex, base64, base64url
	TimestampFormat string        `mapstructure:"timestamp_format"` // milliseconds, seconds, unix, iso8601
	NonceFormat     string        `mapstructure:"nonce_format"`     // uuid-v4, uuid-v1, random-hex, random-base64
	SortJSONKeys    bool          `mapstructure:"sort_json_keys"`
	Tolerance       time.Duration `mapstructure:"tolerance"` // max timestamp drift
	NonceTTL        time.Duration `mapstructure:"nonce_ttl"` // replay window for used nonces
}

// VerificationConfig maps the profile onto the engine's verification config.
func (s SigningConfig) VerificationConfig() hmacauth.VerificationConfig {
	cfg := hmacauth.DefaultVerificationConfig()
	cfg.SignatureMethod = hmacauth.SignatureMethod(s.Method)
	cfg.Separator = s.Separator
	cfg.HashAlgorithm = hmacauth.HashAlgorithm(s.Algorithm)
	cfg.Encoding = hmacauth.Encoding(s.Encoding)
	cfg.TimestampFormat = hmacauth.TimestampFormat(s.TimestampFormat)
	cfg.NonceFormat = hmacauth.NonceFormat(s.NonceFormat)
	cfg.SortJSONKeys = s.SortJSONKeys
	cfg.TimestampTolerance = s.Tolerance
	return cfg
}

// AdminConfig holds the credentials accepted for the management API.
// PasswordHash is an Argon2id encoded hash.
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: HAB (HMAC Auth Builder).
// Nested keys use underscore: HAB_DATABASE_HOST, HAB_SIGNING_ALGORITHM, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "hmac_auth")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "hmac-auth-builder")
	v.SetDefault("secrets.passphrase", "")
	v.SetDefault("secrets.salt", "")
	v.SetDefault("signing.method", "canonical")
	v.SetDefault("signing.separator", "|")
	v.SetDefault("signing.algorithm", "sha256")
	v.SetDefault("signing.encoding", "hex")
	v.SetDefault("signing.timestamp_format", "milliseconds")
	v.SetDefault("signing.nonce_format", "uuid-v4")
	v.SetDefault("signing.sort_json_keys", true)
	v.SetDefault("signing.tolerance", "60s")
	v.SetDefault("signing.nonce_ttl", "120s")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: HAB_SIGNING_ALGORITHM -> signing.algorithm
	v.SetEnvPrefix("HAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
