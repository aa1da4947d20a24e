package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/vango-dev/navshell/internal/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NAVSHELL_"

// ApplyEnv overrides fields from NAVSHELL_* environment variables:
//
//	NAVSHELL_ADDR, NAVSHELL_SHUTDOWN_TIMEOUT, NAVSHELL_ALLOWED_ORIGINS,
//	NAVSHELL_STORAGE_BACKEND, NAVSHELL_STORAGE_PREFIX,
//	NAVSHELL_REDIS_ADDR, NAVSHELL_REDIS_PASSWORD, NAVSHELL_REDIS_DB, NAVSHELL_REDIS_TTL,
//	NAVSHELL_SQL_DRIVER, NAVSHELL_SQL_DSN, NAVSHELL_SQL_TABLE,
//	NAVSHELL_S3_BUCKET, NAVSHELL_S3_PREFIX, NAVSHELL_S3_REGION, NAVSHELL_S3_ENDPOINT,
//	NAVSHELL_S3_ACCESS_KEY_ID, NAVSHELL_S3_SECRET_ACCESS_KEY,
//	NAVSHELL_LOG_LEVEL, NAVSHELL_LOG_FORMAT,
//	NAVSHELL_METRICS_ENABLED, NAVSHELL_METRICS_NAMESPACE, NAVSHELL_TRACING_ENABLED
//
// Comma-separated lists are split and trimmed. Variables set to "" clear
// their field, which then falls back to its default.
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"ADDR":                 &c.Server.Address,
		"SHUTDOWN_TIMEOUT":     &c.Server.ShutdownTimeout,
		"STORAGE_BACKEND":      &c.Storage.Backend,
		"STORAGE_PREFIX":       &c.Storage.Prefix,
		"REDIS_ADDR":           &c.Storage.Redis.Addr,
		"REDIS_PASSWORD":       &c.Storage.Redis.Password,
		"REDIS_TTL":            &c.Storage.Redis.TTL,
		"SQL_DRIVER":           &c.Storage.SQL.Driver,
		"SQL_DSN":              &c.Storage.SQL.DSN,
		"SQL_TABLE":            &c.Storage.SQL.Table,
		"S3_BUCKET":            &c.Storage.S3.Bucket,
		"S3_PREFIX":            &c.Storage.S3.Prefix,
		"S3_REGION":            &c.Storage.S3.Region,
		"S3_ENDPOINT":          &c.Storage.S3.Endpoint,
		"S3_ACCESS_KEY_ID":     &c.Storage.S3.AccessKeyID,
		"S3_SECRET_ACCESS_KEY": &c.Storage.S3.SecretAccessKey,
		"LOG_LEVEL":            &c.Log.Level,
		"LOG_FORMAT":           &c.Log.Format,
		"METRICS_NAMESPACE":    &c.Metrics.Namespace,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}

	bools := map[string]*bool{
		"METRICS_ENABLED":   &c.Metrics.Enabled,
		"TRACING_ENABLED":   &c.Tracing.Enabled,
		"SQL_AUTO_MIGRATE":  &c.Storage.SQL.AutoMigrate,
		"S3_USE_PATH_STYLE": &c.Storage.S3.UsePathStyle,
	}
	for name, dst := range bools {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.CodeConfigInvalid).
				WithDetailf("%s%s=%q is not a boolean", EnvPrefix, name, v)
		}
		*dst = b
	}

	if v, ok := os.LookupEnv(EnvPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.CodeConfigInvalid).
				WithDetailf("%sREDIS_DB=%q is not an integer", EnvPrefix, v)
		}
		c.Storage.Redis.DB = n
	}
	c.applyDefaults()
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
