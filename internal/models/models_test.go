package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestHealthCheckResultInvariants(t *testing.T) {
	if _, err := NewHealthy("", "16384 MiB", "535.104", "GPU ready"); !errors.Is(err, ErrMissingGPUName) {
		t.Fatalf("expected ErrMissingGPUName, got %v", err)
	}

	r, err := NewHealthy("Tesla T4", "15360 MiB", "535.104.05", "GPU ready: Tesla T4")
	if err != nil {
		t.Fatalf("expected healthy result, got %v", err)
	}
	if !r.GPUAvailable || *r.GPUName != "Tesla T4" {
		t.Fatalf("unexpected result: %+v", r)
	}

	bad := &HealthCheckResult{Status: StatusHealthy, GPUAvailable: false, Message: "x"}
	if err := bad.Validate(); !errors.Is(err, ErrHealthyWithoutGPU) {
		t.Fatalf("expected ErrHealthyWithoutGPU, got %v", err)
	}

	unknown := &HealthCheckResult{Status: "degraded"}
	if err := unknown.Validate(); !errors.Is(err, ErrUnknownHealthStatus) {
		t.Fatalf("expected ErrUnknownHealthStatus, got %v", err)
	}

	if err := NewHealthError("nvidia-smi timed out").Validate(); err != nil {
		t.Fatalf("expected error result to be valid, got %v", err)
	}
}

func TestHealthErrorSerializesNullGPUName(t *testing.T) {
	data, err := json.Marshal(NewHealthError("nvidia-smi timed out"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if v, ok := decoded["gpu_name"]; !ok || v != nil {
		t.Fatalf("expected gpu_name to be null, got %v", v)
	}
	if _, ok := decoded["driver_version"]; ok {
		t.Fatal("expected driver_version to be omitted")
	}
}

func TestClassificationResultValidate(t *testing.T) {
	tests := []struct {
		name   string
		result ClassificationResult
		want   error
	}{
		{"valid", ClassificationResult{Category: "T-Shirt", Confidence: 0.5, Source: SourceStub}, nil},
		{"empty category", ClassificationResult{Confidence: 0.5, Source: SourceStub}, ErrEmptyCategory},
		{"confidence above one", ClassificationResult{Category: "Dress", Confidence: 1.2, Source: SourceVLM}, ErrConfidenceRange},
		{"negative confidence", ClassificationResult{Category: "Dress", Confidence: -0.1, Source: SourceVLM}, ErrConfidenceRange},
		{"unknown source", ClassificationResult{Category: "Dress", Confidence: 0.3, Source: "guess"}, ErrUnknownSource},
		{"unknown warmth", ClassificationResult{Category: "Coat", Confidence: 0.3, Source: SourceFashionCLIP, WarmthLevel: StringPtr("toasty")}, ErrUnknownWarmthLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBackgroundRemovalResultInvariants(t *testing.T) {
	if _, err := NewBackgroundRemovalSuccess("a.jpg", ""); !errors.Is(err, ErrMissingProcessedURL) {
		t.Fatalf("expected ErrMissingProcessedURL, got %v", err)
	}
	if _, err := NewBackgroundRemovalFailure("a.jpg", ""); !errors.Is(err, ErrMissingError) {
		t.Fatalf("expected ErrMissingError, got %v", err)
	}
	if _, err := NewBackgroundRemovalSuccess("", "a_nobg.png"); !errors.Is(err, ErrMissingOriginalURL) {
		t.Fatalf("expected ErrMissingOriginalURL, got %v", err)
	}

	processed := "a_nobg.png"
	msg := "boom"
	both := &BackgroundRemovalResult{Success: true, OriginalURL: "a.jpg", ProcessedURL: &processed, Error: &msg}
	if err := both.Validate(); !errors.Is(err, ErrUnexpectedError) {
		t.Fatalf("expected ErrUnexpectedError, got %v", err)
	}
	failed := &BackgroundRemovalResult{Success: false, OriginalURL: "a.jpg", ProcessedURL: &processed, Error: &msg}
	if err := failed.Validate(); !errors.Is(err, ErrUnexpectedProcessed) {
		t.Fatalf("expected ErrUnexpectedProcessed, got %v", err)
	}

	ok, err := NewBackgroundRemovalSuccess("a.jpg", "a_nobg.png")
	if err != nil {
		t.Fatalf("expected success result, got %v", err)
	}
	if ok.Error != nil || *ok.ProcessedURL != "a_nobg.png" {
		t.Fatalf("unexpected result: %+v", ok)
	}
}

func TestJobKind(t *testing.T) {
	if !JobRemoveBackground.Valid() || JobKind("resize").Valid() {
		t.Fatal("unexpected job kind validity")
	}
	if JobHealthCheck.NeedsImage() || !JobClassifyItem.NeedsImage() {
		t.Fatal("unexpected NeedsImage result")
	}
}
