package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	applog "storefront/internal/log"
)

type Config struct {
	Port           string        `yaml:"port"`
	DBDSN          string        `yaml:"db_dsn"`
	LogFile        string        `yaml:"log_file"`
	CatalogURL     string        `yaml:"catalog_url"`
	CatalogTimeout time.Duration `yaml:"catalog_timeout"`
	ItemsPerPage   int           `yaml:"items_per_page"`
	SessionIdle    time.Duration `yaml:"session_idle"`
	TemplatesDir   string        `yaml:"templates_dir"`
}

func Default() Config {
	return Config{
		Port:           "8080",
		DBDSN:          "storefront.db", // sqlite file in project root
		LogFile:        "./storefront.log",
		CatalogURL:     "https://fakestoreapi.com",
		CatalogTimeout: 15 * time.Second,
		ItemsPerPage:   12,
		SessionIdle:    30 * time.Minute,
		TemplatesDir:   "./web/templates",
	}
}

// Load starts from Default and applies environment overrides.
func Load() Config {
	cfg := Default()
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DBDSN = v
	}
	if v, ok := os.LookupEnv("LOG_FILE"); ok {
		cfg.LogFile = v // empty disables the file sink
	}
	if v := os.Getenv("CATALOG_URL"); v != "" {
		cfg.CatalogURL = v
	}
	if d, err := time.ParseDuration(os.Getenv("CATALOG_TIMEOUT")); err == nil && d > 0 {
		cfg.CatalogTimeout = d
	}
	if n, err := strconv.Atoi(os.Getenv("ITEMS_PER_PAGE")); err == nil && n > 0 {
		cfg.ItemsPerPage = n
	}
	if d, err := time.ParseDuration(os.Getenv("SESSION_IDLE")); err == nil && d > 0 {
		cfg.SessionIdle = d
	}
	if v := os.Getenv("TEMPLATES_DIR"); v != "" {
		cfg.TemplatesDir = v
	}
	applog.Info(nil, "config.loaded", map[string]any{
		"port": cfg.Port, "db_dsn": cfg.DBDSN, "log_file": cfg.LogFile,
		"catalog_url": cfg.CatalogURL, "items_per_page": cfg.ItemsPerPage,
	})
	return cfg
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current value.
func LoadFile(path string, cfg Config) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.ItemsPerPage <= 0 {
		cfg.ItemsPerPage = Default().ItemsPerPage
	}
	return cfg, nil
}
