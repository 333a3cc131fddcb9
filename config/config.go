package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultPort = 5000
	DefaultHost = "0.0.0.0"
)

type Config struct {
	Log    LogConfig    `toml:"log"`
	Web    WebConfig    `toml:"web"`
	DB     DBConfig     `toml:"db"`
	Mongo  MongoConfig  `toml:"mongo"`
	OAuth  OAuthConfig  `toml:"oauth"`
	Sheets SheetsConfig `toml:"sheets"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
}

type WebConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	SessionKey string `toml:"session_key"`
	PublicURL  string `toml:"public_url"`
}

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type OAuthConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURL  string `toml:"redirect_url"`
}

type SheetsConfig struct {
	ValueSheetID          string `toml:"value_sheet_id"`
	ServiceAccountKeyPath string `toml:"service_account_key_path"`
}

// Load reads the TOML config file (when present) and applies environment
// overrides on top, so containerized deployments can run configless.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		file, err := os.Open(path)
		if err == nil {
			defer file.Close()
			if err = toml.NewDecoder(file).Decode(cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Log: LogConfig{Level: slog.LevelInfo},
		Web: WebConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		DB: DBConfig{
			Host:         "localhost",
			Port:         5432,
			Database:     "garden_exchange",
			PoolSize:     20,
			MaxIdleConns: 5,
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "garden_exchange",
		},
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.DB.Host, "PGHOST")
	setInt(&cfg.DB.Port, "PGPORT")
	setString(&cfg.DB.User, "PGUSER")
	setString(&cfg.DB.Password, "PGPASSWORD")
	setString(&cfg.DB.Database, "PGDATABASE")

	setString(&cfg.Mongo.URI, "MONGODB_URI")
	setString(&cfg.Mongo.Database, "MONGODB_DATABASE")

	setString(&cfg.OAuth.ClientID, "ROBLOX_CLIENT_ID")
	setString(&cfg.OAuth.ClientSecret, "ROBLOX_CLIENT_SECRET")
	setString(&cfg.OAuth.RedirectURL, "ROBLOX_REDIRECT_URL")

	setString(&cfg.Sheets.ValueSheetID, "VAL_SHEET_ID")
	setString(&cfg.Sheets.ServiceAccountKeyPath, "GSERVICE_ACCOUNT_KEY")

	setString(&cfg.Web.SessionKey, "SESSION_KEY")
	setString(&cfg.Web.PublicURL, "PUBLIC_URL")
	setInt(&cfg.Web.Port, "PORT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}
