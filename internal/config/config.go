// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// Config is the path to the Config file.
	Config string

	// S3Endpoint is the base endpoint of the S3-compatible object store.
	S3Endpoint string
	// S3Region is the region passed to the S3 client.
	S3Region string
	// S3AccessKey and S3SecretKey are the static object-store credentials.
	S3AccessKey string
	S3SecretKey string
	// S3PublicBaseURL is the externally reachable base under which uploaded
	// objects are served ("<base>/<bucket>/<key>"). Defaults to S3Endpoint.
	S3PublicBaseURL string

	// InitialAdminPassword is the compiled-in fallback secret used whenever
	// the canonical copy cannot be read.
	InitialAdminPassword string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	flag.StringVar(&options.S3Endpoint, "s3-endpoint", "http://localhost:9000", "object store endpoint")
	flag.StringVar(&options.S3Region, "s3-region", "us-east-1", "object store region")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		options.S3Endpoint = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		options.S3Region = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		options.S3AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		options.S3SecretKey = v
	}
	if v := os.Getenv("S3_PUBLIC_BASE_URL"); v != "" {
		options.S3PublicBaseURL = v
	}
	if v := os.Getenv("INITIAL_ADMIN_PASSWORD"); v != "" {
		options.InitialAdminPassword = v
	}

	if options.S3PublicBaseURL == "" {
		options.S3PublicBaseURL = options.S3Endpoint
	}

	return options
}
