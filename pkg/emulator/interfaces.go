//go:generate mockgen -destination=./mocks/backend.go -package=mocks . Backend

// Package emulator defines the contract the installation pipeline consumes to
// talk to a Windows-emulation backend. The orchestrator never assumes a
// specific emulation technology behind this interface.
package emulator

import (
	"context"

	"github.com/glorpus-work/cellar/pkg/model"
)

// ProgressFunc reports backend initialization progress in the range 0.0-1.0.
type ProgressFunc func(fraction float64)

// ContainerConfig describes the container the backend should create.
type ContainerConfig struct {
	Name   string
	Preset model.PerformancePreset
	// Env carries extra environment variables for the container's processes.
	Env map[string]string
}

// Process is a handle to an executable launched inside a container.
type Process struct {
	ID string
}

// ProcessStatus reports the liveness of a launched process.
type ProcessStatus struct {
	Running  bool
	ExitCode int
}

// Backend is the emulation backend contract.
type Backend interface {
	// Available reports whether the backend is ready to serve requests
	// without further initialization.
	Available(ctx context.Context) bool

	// Version returns the backend version string, or "" when the backend
	// does not report one.
	Version(ctx context.Context) string

	// Initialize performs first-time backend setup (e.g. unpacking a root
	// filesystem), reporting progress through onProgress.
	Initialize(ctx context.Context, onProgress ProgressFunc) error

	// Containers returns the live containers the backend knows about.
	Containers(ctx context.Context) ([]model.SandboxContainer, error)

	// CreateContainer creates and boots a new container.
	CreateContainer(ctx context.Context, cfg ContainerConfig) (model.SandboxContainer, error)

	// Launch starts an executable inside the container and returns a handle
	// for polling.
	Launch(ctx context.Context, container model.SandboxContainer, exePath string, args []string) (Process, error)

	// ProcessStatus reports whether the process with the given id is running.
	ProcessStatus(ctx context.Context, processID string) (ProcessStatus, error)

	// Kill forcibly terminates the process with the given id.
	Kill(ctx context.Context, processID string) error
}
