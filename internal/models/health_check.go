package models

import (
	"errors"
	"time"
)

type HealthStatus string

const (
	StatusHealthy HealthStatus = "healthy"
	StatusError   HealthStatus = "error"
)

var (
	ErrUnknownHealthStatus = errors.New("unknown health status")
	ErrMissingGPUName      = errors.New("gpu_name is required when gpu_available is true")
	ErrHealthyWithoutGPU   = errors.New("healthy status requires an available gpu")
)

// HealthCheckResult is the outcome of a single GPU probe.
type HealthCheckResult struct {
	Status        HealthStatus `json:"status"`
	GPUAvailable  bool         `json:"gpu_available"`
	GPUName       *string      `json:"gpu_name"`
	GPUMemory     string       `json:"gpu_memory,omitempty"`
	DriverVersion string       `json:"driver_version,omitempty"`
	Message       string       `json:"message"`
}

// NewHealthy builds a healthy result for the named GPU.
func NewHealthy(name, memory, driver, message string) (*HealthCheckResult, error) {
	r := &HealthCheckResult{
		Status:        StatusHealthy,
		GPUAvailable:  true,
		GPUName:       &name,
		GPUMemory:     memory,
		DriverVersion: driver,
		Message:       message,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewHealthError builds an error result. It cannot fail.
func NewHealthError(message string) *HealthCheckResult {
	return &HealthCheckResult{
		Status:       StatusError,
		GPUAvailable: false,
		Message:      message,
	}
}

func (r *HealthCheckResult) Validate() error {
	switch r.Status {
	case StatusHealthy, StatusError:
	default:
		return ErrUnknownHealthStatus
	}
	if r.GPUAvailable && (r.GPUName == nil || *r.GPUName == "") {
		return ErrMissingGPUName
	}
	if r.Status == StatusHealthy && !r.GPUAvailable {
		return ErrHealthyWithoutGPU
	}
	return nil
}

// HealthCheck reports the state of the service's external dependencies.
type HealthCheck struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
