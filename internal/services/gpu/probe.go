package gpu

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/phambaophuc/outfit-ml/internal/logging"
	"github.com/phambaophuc/outfit-ml/internal/models"
)

const DefaultTimeout = 30 * time.Second

// waitDelay bounds how long Run waits for output pipes after the command is
// killed. Children of a wrapper script can otherwise hold them open.
const waitDelay = 500 * time.Millisecond

var queryArgs = []string{
	"--query-gpu=name,memory.total,driver_version",
	"--format=csv,noheader",
}

// Runner executes a command and returns what it wrote to stdout and stderr.
type Runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Info is the first GPU row reported by the diagnostic command.
type Info struct {
	Name          string
	Memory        string
	DriverVersion string
	Raw           string
}

// Probe checks GPU availability by shelling out to a diagnostic tool.
// It never retries: every failure maps to a single error result.
type Probe struct {
	command string
	timeout time.Duration
	run     Runner
	logger  *zap.Logger
}

func NewProbe(command string, timeout time.Duration, logger *zap.Logger) *Probe {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Probe{
		command: command,
		timeout: timeout,
		run:     execRunner,
		logger:  logger.Named("gpu_probe"),
	}
}

// Check runs the probe and converts the outcome into a health record.
func (p *Probe) Check(ctx context.Context) *models.HealthCheckResult {
	info, err := p.Diagnose(ctx)
	if err != nil {
		p.logger.Warn("GPU probe failed", zap.Error(logging.Wrap("gpu.check", err)))
		return models.NewHealthError(err.Error())
	}

	result, err := models.NewHealthy(info.Name, info.Memory, info.DriverVersion, "GPU ready: "+info.Raw)
	if err != nil {
		p.logger.Error("GPU probe produced an invalid result", zap.Error(err))
		return models.NewHealthError(err.Error())
	}

	p.logger.Info("GPU detected", zap.String("gpu_name", info.Name), zap.String("driver_version", info.DriverVersion))
	return result
}

// Diagnose runs the diagnostic command once, bounded by the probe timeout.
// Failures are returned as *DiagnosticError.
func (p *Probe) Diagnose(ctx context.Context) (*Info, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stdout, stderr, err := p.run(ctx, p.command, queryArgs...)
	if err != nil {
		return nil, p.classify(ctx, err, stderr)
	}

	info, err := parseOutput(stdout)
	if err != nil {
		return nil, &DiagnosticError{Command: p.command, Err: err}
	}
	return info, nil
}

func (p *Probe) classify(ctx context.Context, err error, stderr []byte) error {
	// A killed process also reports an ExitError, so the deadline is checked first.
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &DiagnosticError{Cause: ErrTimedOut, Command: p.command, Err: err}
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return &DiagnosticError{Cause: ErrCommandNotFound, Command: p.command, Err: err}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &DiagnosticError{Cause: ErrCommandFailed, Command: p.command, Stderr: string(stderr), Err: err}
	}
	return &DiagnosticError{Command: p.command, Err: err}
}

func parseOutput(stdout []byte) (*Info, error) {
	raw := strings.TrimSpace(string(stdout))
	if raw == "" {
		return nil, ErrNoGPURows
	}

	line := strings.TrimSpace(strings.SplitN(raw, "\n", 2)[0])
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	info := &Info{Name: fields[0], Raw: raw}
	if info.Name == "" {
		return nil, ErrNoGPURows
	}
	if len(fields) > 1 {
		info.Memory = fields[1]
	}
	if len(fields) > 2 {
		info.DriverVersion = fields[2]
	}
	return info, nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
