package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/liliang-cn/vectordb"
)

// fileConfig is the YAML form of the store configuration.
//
//	max_connections: 4
//	wal_mode: true
//	cache_size: 2000
//	synchronous: normal
//	busy_timeout: 5s
//	scan_workers: 0
//	log_level: info
type fileConfig struct {
	MaxConnections *int   `yaml:"max_connections"`
	WALMode        *bool  `yaml:"wal_mode"`
	CacheSize      *int   `yaml:"cache_size"`
	Synchronous    string `yaml:"synchronous"`
	BusyTimeout    string `yaml:"busy_timeout"`
	ScanWorkers    int    `yaml:"scan_workers"`
	LogLevel       string `yaml:"log_level"`
}

// loadConfig overlays the YAML file at path on top of the defaults. An
// empty path returns the defaults.
func loadConfig(path string) (vectordb.Config, vectordb.LogLevel, error) {
	cfg := vectordb.DefaultConfig()
	level := vectordb.LevelWarn
	if path == "" {
		return cfg, level, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, level, fmt.Errorf("failed to read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.UnmarshalStrict(data, &fc); err != nil {
		return cfg, level, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if fc.MaxConnections != nil {
		cfg.MaxConnections = *fc.MaxConnections
	}
	if fc.WALMode != nil {
		cfg.WALMode = *fc.WALMode
	}
	if fc.CacheSize != nil {
		cfg.CacheSize = *fc.CacheSize
	}
	if fc.Synchronous != "" {
		mode, err := vectordb.ParseSyncMode(fc.Synchronous)
		if err != nil {
			return cfg, level, err
		}
		cfg.Synchronous = mode
	}
	if fc.BusyTimeout != "" {
		d, err := time.ParseDuration(fc.BusyTimeout)
		if err != nil {
			return cfg, level, fmt.Errorf("invalid busy_timeout: %w", err)
		}
		cfg.BusyTimeout = d
	}
	cfg.ScanWorkers = fc.ScanWorkers
	if fc.LogLevel != "" {
		if level, err = vectordb.ParseLogLevel(fc.LogLevel); err != nil {
			return cfg, level, fmt.Errorf("invalid log_level: %w", err)
		}
	}

	return cfg, level, cfg.Validate()
}
