package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.HTTPAddr != ":8080" || cfg.Server.GRPCAddr != ":50051" {
		t.Fatalf("server=%+v", cfg.Server)
	}
	if cfg.Ledger.Engine != EngineMutex || cfg.Ledger.QueueSize != 1000 {
		t.Fatalf("ledger=%+v", cfg.Ledger)
	}
	if cfg.Audit.Journal.Enabled || cfg.Audit.MySQL.Enabled || cfg.Audit.NATS.Enabled {
		t.Fatalf("audit sinks should be off by default: %+v", cfg.Audit)
	}
	if cfg.Audit.MySQL.MaxOpenConns != 100 || cfg.Audit.MySQL.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("mysql=%+v", cfg.Audit.MySQL)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  http_addr: ":9090"
  shutdown_timeout: 3s
ledger:
  engine: lmax
  queue_size: 64
audit:
  journal:
    enabled: true
    path: /tmp/ledger-audit.log
  mysql:
    enabled: true
    host: db
    port: 3307
    user: ledger
    db_name: audit
    conn_max_lifetime: 5m
  nats:
    enabled: true
    subject: custom.subject
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.HTTPAddr != ":9090" || cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Fatalf("server=%+v", cfg.Server)
	}
	if cfg.Ledger.Engine != EngineLMAX || cfg.Ledger.QueueSize != 64 {
		t.Fatalf("ledger=%+v", cfg.Ledger)
	}
	if !cfg.Audit.Journal.Enabled || cfg.Audit.Journal.Path != "/tmp/ledger-audit.log" {
		t.Fatalf("journal=%+v", cfg.Audit.Journal)
	}
	m := cfg.Audit.MySQL
	if !m.Enabled || m.Host != "db" || m.Port != 3307 || m.DBName != "audit" || m.ConnMaxLifetime != 5*time.Minute {
		t.Fatalf("mysql=%+v", m)
	}
	if !cfg.Audit.NATS.Enabled || cfg.Audit.NATS.Subject != "custom.subject" || cfg.Audit.NATS.URL == "" {
		t.Fatalf("nats=%+v", cfg.Audit.NATS)
	}
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	if _, err := Load(writeConfig(t, "ledger:\n  engine: disruptor\n")); err == nil {
		t.Fatal("want error for unknown engine")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("want error for missing file")
	}
}
