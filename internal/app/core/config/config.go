package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGRPCAddr = ":50051"
	DefaultLogLevel = "info"
)

// Config 服務設定
type Config struct {
	GRPC    GRPCConfig    `yaml:"grpc"`
	Log     LogConfig     `yaml:"log"`
	Journal JournalConfig `yaml:"journal"`
	Ledger  LedgerConfig  `yaml:"ledger"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// JournalConfig 稽核日誌，Path 為空代表停用
type JournalConfig struct {
	Path        string `yaml:"path"`
	SyncOnWrite *bool  `yaml:"syncOnWrite"`
}

type LedgerConfig struct {
	// Timezone: IANA 時區名稱，用於把交易時間換算成日期；空值代表本機時區
	Timezone string `yaml:"timezone"`
}

// Load 讀取 YAML 設定檔並補上預設值，檔案不存在時全部使用預設值
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	if _, err := cfg.Ledger.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = DefaultGRPCAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Journal.SyncOnWrite == nil {
		enabled := true
		c.Journal.SyncOnWrite = &enabled
	}
}

// Location 解析 Timezone
func (l LedgerConfig) Location() (*time.Location, error) {
	if l.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger.timezone %q: %w", l.Timezone, err)
	}
	return loc, nil
}
