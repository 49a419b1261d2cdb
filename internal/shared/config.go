package shared

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
	// Workers bounds concurrent hotels in the night audit.
	Workers  int
	APIRPS   float64
	APIBurst int
}

// configFile mirrors the env keys; zero values leave the default alone.
type configFile struct {
	App struct {
		Env string `yaml:"env"`
	} `yaml:"app"`
	HTTP struct {
		Addr        string  `yaml:"addr"`
		MetricsAddr string  `yaml:"metrics_addr"`
		RPS         float64 `yaml:"rps"`
		Burst       int     `yaml:"burst"`
	} `yaml:"http"`
	MySQL struct {
		DSN string `yaml:"dsn"`
	} `yaml:"mysql"`
	Redis struct {
		Addr            string `yaml:"addr"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`
	NightAudit struct {
		Workers int `yaml:"workers"`
	} `yaml:"nightaudit"`
}

func defaults() Config {
	return Config{
		AppEnv:      "prod",
		HTTPAddr:    ":8080",
		MetricsAddr: ":9100",
		MySQLDSN:    "root:root@tcp(localhost:3306)/frontdesk?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		RedisAddr:   "localhost:6379",
		CacheTTL:    900 * time.Second,
		Workers:     8,
		APIRPS:      50,
		APIBurst:    100,
	}
}

// Load reads CONFIG_FILE (if set) and then the environment. A broken config
// file is fatal.
func Load() Config {
	c, err := LoadFrom(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	return c
}

// LoadFrom applies defaults, then the YAML file at path, then env vars.
// An empty path skips the file.
func LoadFrom(path string) (Config, error) {
	c := defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		c.applyFile(f)
	}

	c.AppEnv = env("APP_ENV", c.AppEnv)
	c.HTTPAddr = env("HTTP_ADDR", c.HTTPAddr)
	c.MetricsAddr = env("METRICS_ADDR", c.MetricsAddr)
	c.MySQLDSN = env("MYSQL_DSN", c.MySQLDSN)
	c.RedisAddr = env("REDIS_ADDR", c.RedisAddr)
	c.RedisPass = env("REDIS_PASSWORD", c.RedisPass)
	c.RedisDB = atoi("REDIS_DB", c.RedisDB)
	c.CacheTTL = time.Duration(atoi("CACHE_TTL_SECONDS", int(c.CacheTTL.Seconds()))) * time.Second
	c.Workers = atoi("NIGHTAUDIT_WORKERS", c.Workers)
	c.APIRPS = atof("API_RPS", c.APIRPS)
	c.APIBurst = atoi("API_BURST", c.APIBurst)

	if c.Workers < 1 {
		log.Warn().Int("workers", c.Workers).Msg("NIGHTAUDIT_WORKERS below 1; using 1")
		c.Workers = 1
	}
	return c, nil
}

func (c *Config) applyFile(f configFile) {
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setStr(&c.AppEnv, f.App.Env)
	setStr(&c.HTTPAddr, f.HTTP.Addr)
	setStr(&c.MetricsAddr, f.HTTP.MetricsAddr)
	setStr(&c.MySQLDSN, f.MySQL.DSN)
	setStr(&c.RedisAddr, f.Redis.Addr)
	setStr(&c.RedisPass, f.Redis.Password)
	if f.Redis.DB > 0 {
		c.RedisDB = f.Redis.DB
	}
	if f.Redis.CacheTTLSeconds > 0 {
		c.CacheTTL = time.Duration(f.Redis.CacheTTLSeconds) * time.Second
	}
	if f.NightAudit.Workers > 0 {
		c.Workers = f.NightAudit.Workers
	}
	if f.HTTP.RPS > 0 {
		c.APIRPS = f.HTTP.RPS
	}
	if f.HTTP.Burst > 0 {
		c.APIBurst = f.HTTP.Burst
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func atof(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
