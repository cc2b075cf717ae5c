//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . Downloader,Extractor,ContainerProvider,RecordStore

package orchestrator

import (
	"context"

	"github.com/glorpus-work/cellar/pkg/download"
	"github.com/glorpus-work/cellar/pkg/extract"
	"github.com/glorpus-work/cellar/pkg/model"
	"github.com/glorpus-work/cellar/pkg/sandbox"
)

// Downloader is the subset of the download manager used by the orchestrator.
type Downloader interface {
	FetchFile(ctx context.Context, rawURL, destPath string, progress download.ProgressFunc) (int64, error)
	FetchText(ctx context.Context, rawURL string) (string, error)
}

// Extractor is the subset of the archive extractor used by the orchestrator.
type Extractor interface {
	ExtractImage(ctx context.Context, archivePath, destDir string, progress extract.ProgressFunc) (int, error)
}

// ContainerProvider resolves logical ids to initialized containers.
type ContainerProvider interface {
	GetOrCreate(ctx context.Context, logicalID string, opts sandbox.CreateOptions) (model.SandboxContainer, error)
}

// RecordStore persists installation outcomes.
type RecordStore interface {
	Save(containerID, installPath string, status model.InstallStatus) (string, error)
}

// Phase identifies which stage of the pipeline a progress value belongs to.
type Phase string

// Pipeline phases, in execution order. The installer phase only occurs on the
// fallback path.
const (
	PhaseBackend   Phase = "backend"
	PhaseManifest  Phase = "manifest"
	PhaseDownload  Phase = "download"
	PhasePrepare   Phase = "prepare"
	PhaseExtract   Phase = "extract"
	PhaseInstaller Phase = "installer"
	PhaseFinalize  Phase = "finalize"
	PhaseDone      Phase = "done"
	PhaseError     Phase = "error"
)

// Progress is one immutable progress notification. Fraction is the overall
// completion in [0.0, 1.0] and is non-decreasing within one run; Detail
// optionally carries phase-specific counts (bytes or files).
type Progress struct {
	Fraction float64
	Phase    Phase
	Message  string
	Detail   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnProgress func(Progress)
}

// Status is the terminal outcome kind of an installation run.
type Status string

// Terminal outcomes.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the terminal outcome of an installation run. It is also reported
// through the progress channel as the last emitted value, so UI callers never
// need a separate error path.
type Result struct {
	Status      Status
	ContainerID string
	InstallPath string
	Err         error
}

// InstallOptions control one installation run.
type InstallOptions struct {
	// LogicalID addresses the target container.
	LogicalID string
	// AppName names the application; it doubles as the install directory name
	// and the default container name.
	AppName string

	InstallerURL  string
	InstallerArgs []string

	ManifestURL    string
	PackageBaseURL string
	Packages       []string

	// TargetExecutable is the main executable relative to the install
	// directory, used as the fallback path's success criterion.
	TargetExecutable string

	// TempDir is the scratch space for downloaded artifacts.
	TempDir string

	Preset model.PerformancePreset

	// MinBackendVersion optionally gates the emulator backend version.
	MinBackendVersion string
}
