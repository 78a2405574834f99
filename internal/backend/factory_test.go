package backend

import (
	"context"
	"path/filepath"
	"testing"

	"doctab/internal/config"
)

func TestCreateMemoryBackend(t *testing.T) {
	f := NewFactory(nil)

	result, err := f.CreateBackend(context.Background(), Config{
		Type:           MemoryBackend,
		SeedSampleData: true,
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if result.Service == nil {
		t.Fatal("expected wired service")
	}
	if result.Cleanup != nil {
		t.Error("memory backend needs no cleanup")
	}

	tabs, err := result.Service.ListTables(context.Background(), "doc1", 0)
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(tabs) == 0 {
		t.Error("seeded memory backend should return sample tables")
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	f := NewFactory(nil)

	result, err := f.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if result.Cleanup == nil {
		t.Fatal("sqlite backend must return a cleanup func")
	}
	if err := result.Cleanup(); err != nil {
		t.Errorf("Cleanup: %v", err)
	}
}

func TestCreateBackendInvalidType(t *testing.T) {
	f := NewFactory(nil)
	if _, err := f.CreateBackend(context.Background(), Config{Type: "bogus"}); err == nil {
		t.Fatal("expected error for invalid backend type")
	}
}

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		DataBackend:    "sqlite",
		SQLiteDBPath:   "/tmp/x.db",
		AMQPURL:        "amqp://localhost:5672/",
		AMQPExchange:   "doctab",
		AMQPQueue:      "sync_tables",
		SeedSampleData: true,
	}

	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend {
		t.Errorf("Type = %v", cfg.Type)
	}
	if cfg.SQLiteDBPath != "/tmp/x.db" || cfg.AMQPQueue != "sync_tables" {
		t.Errorf("config not carried over: %+v", cfg)
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil app config must error")
	}

	appCfg.DataBackend = "bogus"
	if _, err := FromAppConfig(appCfg); err == nil {
		t.Error("invalid backend type must error")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{Type: MemoryBackend}).Validate(); err != nil {
		t.Errorf("memory config: %v", err)
	}
	if err := (Config{Type: SQLiteBackend}).Validate(); err == nil {
		t.Error("sqlite config without db path must error")
	}
	if err := (Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}).Validate(); err != nil {
		t.Errorf("sqlite config: %v", err)
	}
}
