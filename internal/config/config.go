package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable name. Unprefixed names are read
// as a fallback.
const EnvPrefix = "STOCKROOM"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	Port      string `envconfig:"PORT" default:"3000"`
	DataDir   string `envconfig:"DATA_DIR" default:"./data"`
	DBFile    string `envconfig:"DB_FILE" default:"inventory.db"`
	StaticDir string `envconfig:"STATIC_DIR"`
	AppEnv    string `envconfig:"APP_ENV" default:"development"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogFile   string `envconfig:"LOG_FILE"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	JWTSecret string `envconfig:"JWT_SECRET"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads envFile (when it exists) into the environment and parses the
// configuration. Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := net.LookupPort("tcp", c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("DATA_DIR must not be empty")
	}
	if strings.TrimSpace(c.DBFile) == "" {
		return errors.New("DB_FILE must not be empty")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (want json or console)", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}

	origins := c.CORSAllowedOrigins[:0]
	for _, o := range c.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSAllowedOrigins = origins
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// DBPath is the SQLite file location inside DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DBFile)
}

// AuthEnabled reports whether API requests must carry a token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func (c *Config) IsDev() bool {
	return strings.EqualFold(c.AppEnv, AppEnvDev)
}
