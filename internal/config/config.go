package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Operator OperatorConfig `mapstructure:"operator"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Log      LogConfig      `mapstructure:"log"`
}

type PostgresConfig struct {
	Address      string `mapstructure:"address"`
	Port         string `mapstructure:"port"`
	DB           string `mapstructure:"db"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type HTTPConfig struct {
	Port string `mapstructure:"port"`
}

type StorageConfig struct {
	// Driver is "postgres" or "memory".
	Driver string `mapstructure:"driver"`
}

type OperatorConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

type LedgerConfig struct {
	// StrictAccounts turns recomputing a missing account into an error.
	StrictAccounts bool `mapstructure:"strict_accounts"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// In all cases the default behavior should be for the docker compose setup
func setDefaults(v *viper.Viper) {
	v.SetDefault("postgres.address", "localhost")
	v.SetDefault("postgres.port", "5433")
	v.SetDefault("postgres.db", "postgres")
	v.SetDefault("postgres.username", "postgres")
	v.SetDefault("postgres.password", "testpassword")
	v.SetDefault("postgres.max_open_conns", 30)
	v.SetDefault("postgres.max_idle_conns", 20)
	v.SetDefault("http.port", "9446")
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("operator.workers", 1)
	v.SetDefault("operator.queue_size", 1000)
	v.SetDefault("ledger.strict_accounts", false)
	v.SetDefault("log.level", "info")
}

// ProcessEnvironmentVariables builds the config from defaults overridden by
// environment variables such as POSTGRES_ADDRESS or LEDGER_STRICT_ACCOUNTS.
func ProcessEnvironmentVariables() (*Config, error) {
	return Load("")
}

// Load is ProcessEnvironmentVariables with an optional config file layered
// between the defaults and the environment.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	var env Config
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("storage.driver must be postgres or memory, got %q", c.Storage.Driver)
	}

	if c.Operator.Workers < 1 {
		return fmt.Errorf("operator.workers must be at least 1, got %d", c.Operator.Workers)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// PostgresURL returns the lib/pq connection string.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.Username, c.Postgres.Password),
		Host:     c.Postgres.Address + ":" + c.Postgres.Port,
		Path:     "/" + c.Postgres.DB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
