package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-account-ledger/pkg/mysql"
)

// 帳本引擎種類
const (
	EngineMutex = "mutex"
	EngineLMAX  = "lmax"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Ledger LedgerConfig `yaml:"ledger"`
	Audit  AuditConfig  `yaml:"audit"`
}

type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LedgerConfig struct {
	// Engine: mutex (單一互斥鎖) 或 lmax (單一寫入 goroutine)
	Engine    string `yaml:"engine"`
	QueueSize int    `yaml:"queue_size"`
}

// AuditConfig 稽核輸出，全部預設關閉
type AuditConfig struct {
	QueueSize int           `yaml:"queue_size"`
	Journal   JournalConfig `yaml:"journal"`
	MySQL     MySQLConfig   `yaml:"mysql"`
	NATS      NATSConfig    `yaml:"nats"`
}

type JournalConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Path          string `yaml:"path"`
	SyncEachWrite bool   `yaml:"sync_each_write"`
}

type MySQLConfig struct {
	Enabled      bool `yaml:"enabled"`
	mysql.Config `yaml:",inline"`
}

type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// Load 讀取 yaml 設定檔並補上預設值
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults 補全預設配置 (如果 yaml 沒寫)
func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":8080"
	}
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = ":50051"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Ledger.Engine == "" {
		c.Ledger.Engine = EngineMutex
	}
	if c.Ledger.QueueSize == 0 {
		c.Ledger.QueueSize = 1000
	}
	if c.Audit.QueueSize == 0 {
		c.Audit.QueueSize = 1024
	}
	if c.Audit.Journal.Path == "" {
		c.Audit.Journal.Path = "audit.log"
	}
	if c.Audit.NATS.URL == "" {
		c.Audit.NATS.URL = "nats://127.0.0.1:4222"
	}
	if c.Audit.NATS.Subject == "" {
		c.Audit.NATS.Subject = "ledger.transactions"
	}
	if c.Audit.MySQL.MaxOpenConns == 0 {
		c.Audit.MySQL.MaxOpenConns = 100
	}
	if c.Audit.MySQL.MaxIdleConns == 0 {
		c.Audit.MySQL.MaxIdleConns = 10
	}
	if c.Audit.MySQL.ConnMaxLifetime == 0 {
		c.Audit.MySQL.ConnMaxLifetime = 30 * time.Minute
	}
}

// Validate 檢查設定值是否合法
func (c Config) Validate() error {
	switch c.Ledger.Engine {
	case EngineMutex, EngineLMAX:
	default:
		return fmt.Errorf("unknown ledger engine %q", c.Ledger.Engine)
	}
	if c.Ledger.QueueSize < 0 {
		return fmt.Errorf("ledger.queue_size must be positive, got %d", c.Ledger.QueueSize)
	}
	if c.Audit.QueueSize < 0 {
		return fmt.Errorf("audit.queue_size must be positive, got %d", c.Audit.QueueSize)
	}
	return nil
}
