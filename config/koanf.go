package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// envMappings keeps the environment names the services have always used.
var envMappings = map[string]string{
	"http_addr":             "http.addr",
	"http_cors_origins":     "http.cors_origins",
	"http_shutdown_timeout": "http.shutdown_timeout",
	"db_host":               "db.host",
	"db_port":               "db.port",
	"db_name":               "db.name",
	"db_user":               "db.user",
	"db_password":           "db.password",
	"db_sslmode":            "db.sslmode",
	"redis_addr":            "redis.addr",
	"redis_host":            "redis.host",
	"redis_port":            "redis.port",
	"redis_idempotency_ttl": "redis.idempotency_ttl",
	"kafka_broker":          "kafka.brokers",
	"kafka_brokers":         "kafka.brokers",
	"kafka_topic":           "kafka.topic",
	"tax_rate":              "pricing.tax_rate",
	"event_buffer_size":     "events.buffer_size",
	"jwt_secret":            "auth.jwt_secret",
	"qr_base_url":           "qrcode.base_url",
	"qr_size":               "qrcode.size",
	"log_level":             "log.level",
	"log_format":            "log.format",
}

// sliceConfigPaths arrive from the environment as comma separated strings.
var sliceConfigPaths = []string{"http.cors_origins", "kafka.brokers"}

// Load layers struct defaults, an optional YAML file and the environment, in
// that order of precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc drops variables that are not in envMappings.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := []string{}
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
