// Package winexec is a reference emulator backend driving a host wine binary.
// Each container is a directory used as a dedicated WINEPREFIX. The
// orchestrator only ever sees the emulator.Backend contract; nothing outside
// this package depends on wine being the technology underneath.
package winexec

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/glorpus-work/cellar/internal/logger"
	"github.com/glorpus-work/cellar/pkg/emulator"
	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
	"github.com/glorpus-work/cellar/pkg/fsutil"
	"github.com/glorpus-work/cellar/pkg/model"
)

// Backend runs Windows executables through a locally installed wine.
type Backend struct {
	containersDir string
	wineBinary    string

	mu    sync.Mutex
	procs map[string]*proc
}

type proc struct {
	cmd      *exec.Cmd
	done     chan struct{}
	exitCode int
}

// New creates a backend that keeps its container prefixes under containersDir.
func New(containersDir string) *Backend {
	return &Backend{
		containersDir: containersDir,
		wineBinary:    "wine",
		procs:         make(map[string]*proc),
	}
}

// Available reports whether a wine binary is on PATH and the containers
// directory exists.
func (b *Backend) Available(_ context.Context) bool {
	if _, err := exec.LookPath(b.wineBinary); err != nil {
		return false
	}
	info, err := os.Stat(b.containersDir)
	return err == nil && info.IsDir()
}

// Version returns the wine version, e.g. "10.0", or "" when wine does not
// respond.
func (b *Backend) Version(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, b.wineBinary, "--version").Output()
	if err != nil {
		return ""
	}
	// wine prints "wine-10.0" (optionally with a suffix like "-rc1").
	return strings.TrimPrefix(strings.TrimSpace(string(out)), "wine-")
}

// Initialize creates the containers directory. Wine itself needs no global
// first-time setup beyond being installed.
func (b *Backend) Initialize(_ context.Context, onProgress emulator.ProgressFunc) error {
	if _, err := exec.LookPath(b.wineBinary); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", b.wineBinary, pkgerrors.ErrBackendUnavailable)
	}
	if err := fsutil.EnsureDir(b.containersDir); err != nil {
		return pkgerrors.Wrap(err, "failed to create containers directory")
	}
	if onProgress != nil {
		onProgress(1.0)
	}
	return nil
}

// Containers lists the prefix directories under the containers directory.
func (b *Backend) Containers(_ context.Context) ([]model.SandboxContainer, error) {
	entries, err := os.ReadDir(b.containersDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "failed to list containers")
	}

	var containers []model.SandboxContainer
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		root := filepath.Join(b.containersDir, entry.Name())
		containers = append(containers, model.SandboxContainer{
			ID:          entry.Name(),
			Name:        entry.Name(),
			RootPath:    root,
			Initialized: prefixInitialized(root),
		})
	}
	return containers, nil
}

// CreateContainer creates a fresh prefix directory and boots it with
// wineboot so the registry files are written.
func (b *Backend) CreateContainer(ctx context.Context, cfg emulator.ContainerConfig) (model.SandboxContainer, error) {
	root := filepath.Join(b.containersDir, cfg.Name)
	if err := fsutil.EnsureDir(root); err != nil {
		return model.SandboxContainer{}, pkgerrors.Wrap(err, "failed to create container directory")
	}

	cmd := exec.CommandContext(ctx, b.wineBinary, "wineboot", "--init")
	cmd.Env = b.containerEnv(root, cfg)
	if out, err := cmd.CombinedOutput(); err != nil {
		logger.Debugf("wineboot output: %s", strings.TrimSpace(string(out)))
		return model.SandboxContainer{}, pkgerrors.Wrapf(err, "wineboot failed for container %s", cfg.Name)
	}

	return model.SandboxContainer{
		ID:          cfg.Name,
		Name:        cfg.Name,
		RootPath:    root,
		Initialized: prefixInitialized(root),
	}, nil
}

// Launch starts an executable inside the container and tracks its lifetime.
func (b *Backend) Launch(_ context.Context, container model.SandboxContainer, exePath string, args []string) (emulator.Process, error) {
	cmd := exec.Command(b.wineBinary, append([]string{exePath}, args...)...)
	cmd.Env = b.containerEnv(container.RootPath, emulator.ContainerConfig{})

	if err := cmd.Start(); err != nil {
		return emulator.Process{}, pkgerrors.Wrapf(err, "failed to launch %s", exePath)
	}

	p := &proc{cmd: cmd, done: make(chan struct{})}
	id := strconv.Itoa(cmd.Process.Pid)

	b.mu.Lock()
	b.procs[id] = p
	b.mu.Unlock()

	go func() {
		err := cmd.Wait()
		if exitErr, ok := err.(*exec.ExitError); ok {
			p.exitCode = exitErr.ExitCode()
		}
		close(p.done)
	}()

	return emulator.Process{ID: id}, nil
}

// ProcessStatus reports whether the tracked process is still running.
func (b *Backend) ProcessStatus(_ context.Context, processID string) (emulator.ProcessStatus, error) {
	b.mu.Lock()
	p, ok := b.procs[processID]
	b.mu.Unlock()
	if !ok {
		return emulator.ProcessStatus{}, fmt.Errorf("unknown process id %s", processID)
	}

	select {
	case <-p.done:
		return emulator.ProcessStatus{Running: false, ExitCode: p.exitCode}, nil
	default:
		return emulator.ProcessStatus{Running: true}, nil
	}
}

// Kill forcibly terminates the tracked process.
func (b *Backend) Kill(_ context.Context, processID string) error {
	b.mu.Lock()
	p, ok := b.procs[processID]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown process id %s", processID)
	}
	return p.cmd.Process.Kill()
}

// containerEnv builds the process environment for a prefix, applying the
// performance preset tuning knobs.
func (b *Backend) containerEnv(prefix string, cfg emulator.ContainerConfig) []string {
	env := append(os.Environ(), "WINEPREFIX="+prefix, "WINEDEBUG=-all")
	switch cfg.Preset {
	case model.PresetPerformance:
		env = append(env, "WINEESYNC=1", "WINEFSYNC=1")
	case model.PresetQuality:
		env = append(env, "WINEESYNC=0")
	}
	for k, v := range cfg.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// prefixInitialized mirrors the sandbox manager's marker check: a prefix is
// booted once both registry files exist.
func prefixInitialized(root string) bool {
	return fsutil.FileExists(filepath.Join(root, "system.reg")) &&
		fsutil.FileExists(filepath.Join(root, "user.reg"))
}
