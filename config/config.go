package config

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTP    HTTPConfig    `koanf:"http"`
	DB      DBConfig      `koanf:"db"`
	Redis   RedisConfig   `koanf:"redis"`
	Kafka   KafkaConfig   `koanf:"kafka"`
	Pricing PricingConfig `koanf:"pricing"`
	Events  EventsConfig  `koanf:"events"`
	Auth    AuthConfig    `koanf:"auth"`
	QRCode  QRCodeConfig  `koanf:"qrcode"`
	Log     LogConfig     `koanf:"log"`
}

type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DBConfig struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Name         string `koanf:"name"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	SSLMode      string `koanf:"sslmode"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

// DSN builds a lib/pq connection URL; credentials are escaped.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// RedisConfig accepts either Addr or the Host/Port pair. An empty address
// disables the idempotency cache.
type RedisConfig struct {
	Addr           string        `koanf:"addr"`
	Host           string        `koanf:"host"`
	Port           string        `koanf:"port"`
	IdempotencyTTL time.Duration `koanf:"idempotency_ttl"`
}

func (c RedisConfig) Address() string {
	if c.Addr != "" {
		return c.Addr
	}
	if c.Host == "" {
		return ""
	}
	return net.JoinHostPort(c.Host, c.Port)
}

// KafkaConfig: an empty topic or broker list disables the event export.
type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

func (c KafkaConfig) Enabled() bool {
	return c.Topic != "" && len(c.Brokers) > 0
}

type PricingConfig struct {
	TaxRate string `koanf:"tax_rate"`
}

func (c PricingConfig) Rate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pricing.tax_rate %q: %w", c.TaxRate, err)
	}
	return rate, nil
}

type EventsConfig struct {
	BufferSize int `koanf:"buffer_size"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

type QRCodeConfig struct {
	BaseURL string `koanf:"base_url"`
	Size    int    `koanf:"size"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8083",
			ShutdownTimeout: 15 * time.Second,
		},
		DB: DBConfig{
			Host:         "localhost",
			Port:         5432,
			Name:         "restaurant",
			User:         "postgres",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Redis: RedisConfig{
			Host:           "localhost",
			Port:           "6379",
			IdempotencyTTL: 24 * time.Hour,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "order-events",
		},
		Pricing: PricingConfig{TaxRate: "0.08"},
		Events:  EventsConfig{BufferSize: 100},
		QRCode: QRCodeConfig{
			BaseURL: "http://localhost:3000",
			Size:    256,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}
	rate, err := c.Pricing.Rate()
	if err != nil {
		return err
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("pricing.tax_rate must be in [0, 1), got %s", rate)
	}
	if c.Events.BufferSize <= 0 {
		return fmt.Errorf("events.buffer_size must be positive, got %d", c.Events.BufferSize)
	}
	if c.QRCode.Size <= 0 {
		return fmt.Errorf("qrcode.size must be positive, got %d", c.QRCode.Size)
	}
	if c.DB.Port <= 0 {
		return fmt.Errorf("db.port must be positive, got %d", c.DB.Port)
	}
	if c.Redis.Address() != "" && c.Redis.IdempotencyTTL <= 0 {
		return fmt.Errorf("redis.idempotency_ttl must be positive, got %s", c.Redis.IdempotencyTTL)
	}
	return nil
}

func MustInitPostgres(cfg DBConfig) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Str("host", cfg.Host).Int("port", cfg.Port).Msg("failed to ping database")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Address(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Address()).Msg("failed to connect to redis")
	}

	return client
}

// NewKafkaWriter is async: WriteMessages returns once the message is queued and
// delivery errors are reported through the writer's Completion callback.
func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warn().Err(err).Int("messages", len(messages)).Str("topic", cfg.Topic).Msg("kafka delivery failed")
			}
		},
	}
}
