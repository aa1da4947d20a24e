package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQL    = "sql"
	BackendS3     = "s3"
)

// Config selects and configures a backend.
type Config struct {
	// Backend is one of "memory", "redis", "sql" or "s3" (default: "memory").
	Backend string `json:"backend,omitempty"`

	// Prefix namespaces every key written by the shell.
	Prefix string `json:"prefix,omitempty"`

	Redis RedisConfig `json:"redis,omitempty"`
	SQL   SQLConfig   `json:"sql,omitempty"`
	S3    S3Config    `json:"s3,omitempty"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `json:"addr,omitempty"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
	Prefix   string `json:"prefix,omitempty"`

	// TTL is a duration string (e.g. "720h"); empty keeps keys forever.
	TTL string `json:"ttl,omitempty"`
}

// SQLConfig configures the SQL backend.
type SQLConfig struct {
	// Driver is the database/sql driver name (e.g. "postgres").
	Driver string `json:"driver,omitempty"`
	DSN    string `json:"dsn,omitempty"`
	Table  string `json:"table,omitempty"`

	// AutoMigrate creates the table on open.
	AutoMigrate bool `json:"autoMigrate,omitempty"`
}

// S3Config configures the S3 backend.
type S3Config struct {
	Bucket          string `json:"bucket,omitempty"`
	Prefix          string `json:"prefix,omitempty"`
	Region          string `json:"region,omitempty"`
	Endpoint        string `json:"endpoint,omitempty"`
	AccessKeyID     string `json:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty"`
	UsePathStyle    bool   `json:"usePathStyle,omitempty"`
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case "", BackendMemory:
		return nil
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required")
		}
		if c.Redis.TTL != "" {
			if _, err := time.ParseDuration(c.Redis.TTL); err != nil {
				return fmt.Errorf("storage.redis.ttl: %w", err)
			}
		}
	case BackendSQL:
		if c.SQL.Driver == "" || c.SQL.DSN == "" {
			return fmt.Errorf("storage.sql.driver and storage.sql.dsn are required")
		}
		if _, err := ParseDialect(c.SQL.Driver); err != nil {
			return fmt.Errorf("storage.sql.driver: %w", err)
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Backend)
	}
	return nil
}

// Open builds the backend named by cfg. The returned closer releases the
// backend's connections.
func Open(ctx context.Context, cfg Config) (Backend, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.Backend {
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		opts := []RedisOption{}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, WithRedisPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL != "" {
			ttl, _ := time.ParseDuration(cfg.Redis.TTL)
			opts = append(opts, WithRedisTTL(ttl))
		}
		return NewRedisBackend(client, opts...), client, nil

	case BackendSQL:
		dialect, _ := ParseDialect(cfg.SQL.Driver)
		db, err := sqlx.ConnectContext(ctx, cfg.SQL.Driver, cfg.SQL.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql connect: %w", err)
		}
		opts := []SQLOption{WithSQLDialect(dialect)}
		if cfg.SQL.Table != "" {
			opts = append(opts, WithSQLTable(cfg.SQL.Table))
		}
		backend := NewSQLBackend(db, opts...)
		if cfg.SQL.AutoMigrate {
			if err := backend.CreateTable(ctx); err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("sql create table: %w", err)
			}
		}
		return backend, db, nil

	case BackendS3:
		return NewS3Backend(newS3Client(cfg.S3), cfg.S3.Bucket, cfg.S3.Prefix), nopCloser{}, nil

	default:
		return NewMemoryBackend(), nopCloser{}, nil
	}
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Source:          "navshell config",
		}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	return s3.New(opts)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
