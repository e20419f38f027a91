package config

import (
	"os"
	"path/filepath"
	"testing"
)

func createTempDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "speckledic-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temporary directory: %v", err)
	}
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Subset.RadiusX <= 0 || cfg.Subset.RadiusY <= 0 {
		t.Fatalf("default subset radius must be positive, got %+v", cfg.Subset)
	}
	if cfg.Iteration.StopCondition <= 0 {
		t.Fatalf("default stop condition must be positive, got %d", cfg.Iteration.StopCondition)
	}
	if cfg.Parallel.WorkerCount <= 0 {
		t.Fatalf("default worker count must be positive, got %d", cfg.Parallel.WorkerCount)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	tmpDir := createTempDir(t)
	defer os.RemoveAll(tmpDir)

	cfg, err := Load(filepath.Join(tmpDir, "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}

	want := Default()
	if cfg.Subset.RadiusX != want.Subset.RadiusX {
		t.Fatalf("expected default subset radius %d, got %d", want.Subset.RadiusX, cfg.Subset.RadiusX)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	tmpDir := createTempDir(t)
	defer os.RemoveAll(tmpDir)

	cfgPath := filepath.Join(tmpDir, "nested", "dic.yaml")

	cfg := Default()
	cfg.Subset.RadiusX = 21
	cfg.Iteration.ConvCriterion = 0.0005

	if err := Save(cfg, cfgPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Subset.RadiusX != 21 {
		t.Errorf("expected RadiusX 21, got %d", loaded.Subset.RadiusX)
	}
	if loaded.Iteration.ConvCriterion != 0.0005 {
		t.Errorf("expected ConvCriterion 0.0005, got %v", loaded.Iteration.ConvCriterion)
	}
}

func TestCreateDefaultFile(t *testing.T) {
	tmpDir := createTempDir(t)
	defer os.RemoveAll(tmpDir)

	cfgPath := filepath.Join(tmpDir, "default.yaml")
	if err := CreateDefaultFile(cfgPath); err != nil {
		t.Fatalf("CreateDefaultFile failed: %v", err)
	}

	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
}
