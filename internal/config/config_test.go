package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GPU_COMMAND", "")
	t.Setenv("CONFIDENCE_THRESHOLD", "")
	t.Setenv("ML_BACKGROUND_BACKEND", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected config, got error: %v", err)
	}
	if cfg.ML.GPUCommand != "nvidia-smi" {
		t.Fatalf("unexpected gpu command: %s", cfg.ML.GPUCommand)
	}
	if cfg.ML.ConfidenceThreshold != 0.75 {
		t.Fatalf("unexpected threshold: %v", cfg.ML.ConfidenceThreshold)
	}
	if cfg.ML.BackgroundBackend != BackendStub {
		t.Fatalf("unexpected backend: %s", cfg.ML.BackgroundBackend)
	}
	if cfg.ML.MaxPixels != 40_000_000 {
		t.Fatalf("unexpected pixel limit: %d", cfg.ML.MaxPixels)
	}
	if cfg.Server.LogLevel != "info" {
		t.Fatalf("unexpected log level: %s", cfg.Server.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GPU_PROBE_TIMEOUT", "2s")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.5")
	t.Setenv("QUEUE_WORKERS", "7")
	t.Setenv("MAX_FILE_SIZE", "1024")
	t.Setenv("ML_MAX_PIXELS", "1000000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected config, got error: %v", err)
	}
	if cfg.ML.GPUProbeTimeout != 2*time.Second {
		t.Fatalf("unexpected probe timeout: %v", cfg.ML.GPUProbeTimeout)
	}
	if cfg.ML.ConfidenceThreshold != 0.5 {
		t.Fatalf("unexpected threshold: %v", cfg.ML.ConfidenceThreshold)
	}
	if cfg.RabbitMQ.Workers != 7 {
		t.Fatalf("unexpected workers: %d", cfg.RabbitMQ.Workers)
	}
	if cfg.Storage.MaxFileSize != 1024 {
		t.Fatalf("unexpected max file size: %d", cfg.Storage.MaxFileSize)
	}
	if cfg.ML.MaxPixels != 1_000_000 {
		t.Fatalf("unexpected pixel limit: %d", cfg.ML.MaxPixels)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("GPU_PROBE_TIMEOUT", "soon")
	t.Setenv("CONFIDENCE_THRESHOLD", "high")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected config, got error: %v", err)
	}
	if cfg.ML.GPUProbeTimeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %v", cfg.ML.GPUProbeTimeout)
	}
	if cfg.ML.ConfidenceThreshold != 0.75 {
		t.Fatalf("expected default threshold, got %v", cfg.ML.ConfidenceThreshold)
	}
}
