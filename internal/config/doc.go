// Package config provides configuration parsing for navshell.
//
// The configuration is stored in navshell.json in the working directory.
// Values are resolved in order: built-in defaults, the file, then NAVSHELL_*
// environment variables (optionally seeded from a .env file).
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "address": ":8080",
//	    "shutdownTimeout": "10s",
//	    "allowedOrigins": ["https://example.com"]
//	  },
//	  "storage": {
//	    "backend": "redis",
//	    "prefix": "shell:",
//	    "redis": {"addr": "localhost:6379", "ttl": "720h"}
//	  },
//	  "log": {"level": "info", "format": "text"},
//	  "metrics": {"enabled": true, "namespace": "navshell"},
//	  "tracing": {"enabled": false}
//	}
//
// # Usage
//
//	config.LoadDotEnv(".env")
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.ApplyEnv(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Server.Address)
package config
