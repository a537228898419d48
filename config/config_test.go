package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.NodePollInterval != 5*time.Second {
		t.Errorf("NodePollInterval = %v", cfg.Backend.NodePollInterval)
	}
	if cfg.Backend.RefreshDelay != 800*time.Millisecond {
		t.Errorf("RefreshDelay = %v", cfg.Backend.RefreshDelay)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Driver = %q", cfg.Database.Driver)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.yaml")
	data := []byte("backend:\n  base_url: http://backend:9999\n  node_poll_interval: 2s\nweb:\n  port: 9001\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://backend:9999" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.NodePollInterval != 2*time.Second {
		t.Errorf("NodePollInterval = %v", cfg.Backend.NodePollInterval)
	}
	// Untouched keys keep their defaults.
	if cfg.Backend.FilePollInterval != 5*time.Second {
		t.Errorf("FilePollInterval = %v", cfg.Backend.FilePollInterval)
	}
	if cfg.Web.Port != 9001 {
		t.Errorf("Port = %d", cfg.Web.Port)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("{not yaml"), 0644)
	if _, err := Load(path); err == nil {
		t.Fatal("want error for malformed yaml")
	}
}
