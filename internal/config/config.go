package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	DB        DBConfig        `mapstructure:"db"`
	PG        PGConfig        `mapstructure:"pg"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Import    ImportConfig    `mapstructure:"import"`
}

type AppConfig struct {
	Env    string `mapstructure:"env" validate:"required,oneof=production development test"`
	Region string `mapstructure:"region" validate:"required,len=2"`
}

type HTTPConfig struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite mysql"`
	DSN    string `mapstructure:"dsn"`
}

type PGConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
}

type AuthConfig struct {
	SessionSecret string `mapstructure:"session_secret" validate:"required,min=16"`
}

type CacheConfig struct {
	LedgerTTL time.Duration `mapstructure:"ledger_ttl" validate:"gt=0"`
}

type JobsConfig struct {
	PruneSchedule string `mapstructure:"prune_schedule"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" validate:"gt=0"`
	Burst int     `mapstructure:"burst" validate:"gt=0"`
}

type ImportConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes" validate:"gt=0"`
}

var defaults = map[string]interface{}{
	"app.env":             "development",
	"app.region":          "US",
	"http.port":           "8080",
	"db.driver":           "postgres",
	"pg.host":             "localhost",
	"pg.port":             "5432",
	"pg.db":               "calllist",
	"redis.enabled":       false,
	"redis.port":          "6379",
	"cache.ledger_ttl":    30 * time.Second,
	"jobs.prune_schedule": "5 0 * * *",
	"ratelimit.rps":       20.0,
	"ratelimit.burst":     40,
	"import.max_bytes":    int64(10 << 20),
}

// Load reads .env (if present), an optional YAML file and the environment,
// in increasing order of precedence. APP_ENV maps to app.env and so on.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		filename := filepath.Base(path)
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// AutomaticEnv only resolves keys viper already knows about.
	for _, k := range []string{"db.dsn", "pg.user", "pg.password", "redis.host", "redis.password", "auth.session_secret"} {
		_ = v.BindEnv(k)
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := Validate(&conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func Validate(conf *Config) error {
	if err := validator.New().Struct(conf); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if conf.DB.Driver != "postgres" && conf.DB.DSN == "" {
		return fmt.Errorf("invalid config: db.dsn is required for driver %s", conf.DB.Driver)
	}
	return nil
}

// DSN returns db.dsn, or for postgres assembles one from the pg.* keys.
func (c *Config) DSN() string {
	if c.DB.DSN != "" || c.DB.Driver != "postgres" {
		return c.DB.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PG.User, c.PG.Password, c.PG.Host, c.PG.Port, c.PG.DB)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
