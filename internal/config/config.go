package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values from environment.
type Config struct {
	// External converters
	FBX2GLTFPath string
	OBJ2GLTFPath string
	GLTFJSXPath  string
	ToolTimeout  time.Duration // 0 means no limit

	// Logging
	LogLevel  string
	LogFormat string

	// Publishing (optional)
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSSL       bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	minioSSL, err := envBool("MINIO_SSL", false)
	if err != nil {
		return nil, err
	}
	timeout, err := envDuration("CONV3D_TOOL_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		FBX2GLTFPath: envOr("CONV3D_FBX2GLTF", "FBX2glTF"),
		OBJ2GLTFPath: envOr("CONV3D_OBJ2GLTF", "obj2gltf"),
		GLTFJSXPath:  envOr("CONV3D_GLTFJSX", "gltfjsx"),
		ToolTimeout:  timeout,

		LogLevel:  envOr("CONV3D_LOG_LEVEL", "warn"),
		LogFormat: envOr("CONV3D_LOG_FORMAT", "console"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    os.Getenv("MINIO_BUCKET"),
		MinioSSL:       minioSSL,
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid CONV3D_LOG_FORMAT value: %q", cfg.LogFormat)
	}
	return cfg, nil
}

// ValidateMinio checks that everything needed for publishing is present.
func (c *Config) ValidateMinio() error {
	if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" || c.MinioBucket == "" {
		return fmt.Errorf("minio configuration is incomplete")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value: %v", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %v", key, err)
	}
	return d, nil
}
