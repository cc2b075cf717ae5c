// Package orchestrator sequences the installation pipeline: backend
// readiness, package or installer acquisition, integrity verification,
// container preparation, direct extraction with an installer-run fallback,
// and persistence of the final installation record.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	goversion "github.com/hashicorp/go-version"

	"github.com/glorpus-work/cellar/internal/logger"
	"github.com/glorpus-work/cellar/pkg/emulator"
	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
	"github.com/glorpus-work/cellar/pkg/fsutil"
	"github.com/glorpus-work/cellar/pkg/hooks"
	"github.com/glorpus-work/cellar/pkg/manifest"
	"github.com/glorpus-work/cellar/pkg/model"
	"github.com/glorpus-work/cellar/pkg/retry"
	"github.com/glorpus-work/cellar/pkg/sandbox"
	"github.com/glorpus-work/cellar/pkg/verify"
)

// Process-completion polling and post-install verification policy for the
// fallback path.
const (
	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 5 * time.Minute

	verifyAttempts = 3
	verifyInterval = 2 * time.Second
)

// Orchestrator ties the emulator backend, downloader, extractor, sandbox
// manager and record store together for installation runs.
type Orchestrator struct {
	Backend    emulator.Backend
	DL         Downloader
	Extractor  Extractor
	Containers ContainerProvider
	Records    RecordStore
	// HookManager optionally runs pre/post-install scripts; nil disables hooks.
	HookManager hooks.HookManager
	Hooks       Hooks

	// PollInterval and PollTimeout control how the fallback installer process
	// is polled for completion. Zero values use the defaults (2s, 5min).
	PollInterval time.Duration
	PollTimeout  time.Duration
}

func (o *Orchestrator) pollInterval() time.Duration {
	if o.PollInterval > 0 {
		return o.PollInterval
	}
	return defaultPollInterval
}

func (o *Orchestrator) pollTimeout() time.Duration {
	if o.PollTimeout > 0 {
		return o.PollTimeout
	}
	return defaultPollTimeout
}

// New constructs an Orchestrator from existing managers. Helper for wiring.
func New(backend emulator.Backend, dl Downloader, ex Extractor, containers ContainerProvider, records RecordStore, hookMgr hooks.HookManager, h Hooks) *Orchestrator {
	return &Orchestrator{
		Backend:     backend,
		DL:          dl,
		Extractor:   ex,
		Containers:  containers,
		Records:     records,
		HookManager: hookMgr,
		Hooks:       h,
	}
}

// Install runs the full pipeline for opts. Every internal failure is caught
// here and converted into the terminal Error outcome, which is reported on
// the progress channel as the last emitted value; nothing panics or escapes
// past this boundary.
func (o *Orchestrator) Install(ctx context.Context, opts InstallOptions) *Result {
	t := &tracker{hooks: o.Hooks}

	result := o.run(ctx, opts, t)
	if result.Err != nil {
		result.Status = StatusError
		logger.Error("installation failed", logger.Fields{"app": opts.AppName, "error": result.Err})
		t.fail(result.Err)
		return result
	}

	result.Status = StatusSuccess
	t.done(fmt.Sprintf("%s installed to %s", opts.AppName, result.InstallPath))
	return result
}

func (o *Orchestrator) run(ctx context.Context, opts InstallOptions, t *tracker) (result *Result) {
	result = &Result{}
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := o.ensureBackendReady(ctx, opts, t); err != nil {
		result.Err = err
		return result
	}

	runTmp, err := os.MkdirTemp(opts.TempDir, "cellar-install-*")
	if err != nil {
		// TempDir may not exist yet on first run.
		if err = fsutil.EnsureDir(opts.TempDir); err == nil {
			runTmp, err = os.MkdirTemp(opts.TempDir, "cellar-install-*")
		}
	}
	if err != nil {
		result.Err = pkgerrors.Wrap(err, "failed to create scratch directory")
		return result
	}
	// No transient artifact survives the run, whatever the outcome.
	defer func() { _ = os.RemoveAll(runTmp) }()

	records := o.fetchManifest(ctx, opts, t)

	var container model.SandboxContainer
	var installerLocal string
	var directErr error

	if len(records) > 0 {
		container, err = o.prepareContainer(ctx, opts, t, backendEnd, manifestPrepEnd)
		if err != nil {
			result.Err = err
			return result
		}
		if err := o.runHook(hooks.PreInstall, opts, container); err != nil {
			result.Err = err
			return result
		}
		directErr = o.installPackages(ctx, opts, t, container, runTmp, records)
		if directErr != nil && errors.Is(directErr, pkgerrors.ErrHashMismatch) {
			// A corrupted package is never trusted partially; no fallback.
			result.Err = directErr
			return result
		}
	} else {
		installerLocal, err = o.downloadInstaller(ctx, opts, t, runTmp, backendEnd, downloadEnd)
		if err != nil {
			result.Err = err
			return result
		}
		container, err = o.prepareContainer(ctx, opts, t, downloadEnd, prepareEnd)
		if err != nil {
			result.Err = err
			return result
		}
		if err := o.runHook(hooks.PreInstall, opts, container); err != nil {
			result.Err = err
			return result
		}
		directErr = o.extractInstaller(ctx, opts, t, installerLocal, container)
	}

	if directErr != nil {
		// Any direct-extraction failure triggers the fallback automatically.
		// The original reason is kept for diagnostics but only surfaces if
		// the fallback fails too.
		logger.Warn("direct extraction failed, falling back to installer run",
			logger.Fields{"app": opts.AppName, "reason": directErr})
		if err := o.runInstallerFallback(ctx, opts, t, container, installerLocal, runTmp); err != nil {
			result.Err = err
			return result
		}
	}

	installPath := o.installPath(container, opts)
	t.emit(PhaseFinalize, extractEnd, "recording installation", "")

	if _, err := o.Records.Save(container.ID, installPath, model.StatusInstalled); err != nil {
		result.Err = pkgerrors.Wrap(err, "failed to persist installation record")
		return result
	}
	if err := o.runHook(hooks.PostInstall, opts, container); err != nil {
		result.Err = err
		return result
	}

	result.ContainerID = container.ID
	result.InstallPath = installPath
	return result
}

// ensureBackendReady initializes the emulator backend if needed and applies
// the optional minimum-version gate.
func (o *Orchestrator) ensureBackendReady(ctx context.Context, opts InstallOptions, t *tracker) error {
	if o.Backend.Available(ctx) {
		t.emit(PhaseBackend, backendEnd, "emulation backend ready", "")
	} else {
		t.emit(PhaseBackend, 0, "initializing emulation backend", "")
		err := o.Backend.Initialize(ctx, func(fraction float64) {
			t.emit(PhaseBackend, span(0, backendEnd, fraction), "initializing emulation backend", "")
		})
		if err != nil {
			return pkgerrors.Wrap(err, "emulation backend initialization failed")
		}
		t.emit(PhaseBackend, backendEnd, "emulation backend ready", "")
	}

	if opts.MinBackendVersion == "" {
		return nil
	}
	reported := o.Backend.Version(ctx)
	if reported == "" {
		logger.Debug("backend does not report a version, skipping version gate")
		return nil
	}
	have, err := goversion.NewVersion(reported)
	if err != nil {
		logger.Warnf("cannot parse backend version %q, skipping version gate", reported)
		return nil
	}
	want, err := goversion.NewVersion(opts.MinBackendVersion)
	if err != nil {
		return pkgerrors.Wrapf(err, "invalid minimum backend version %q", opts.MinBackendVersion)
	}
	if have.LessThan(want) {
		return fmt.Errorf("backend version %s is older than required %s: %w",
			reported, opts.MinBackendVersion, pkgerrors.ErrBackendVersion)
	}
	return nil
}

// fetchManifest retrieves and parses the package manifest. Manifest problems
// are not fatal: the run falls back to the plain installer download, so an
// unreachable manifest host degrades rather than aborts.
func (o *Orchestrator) fetchManifest(ctx context.Context, opts InstallOptions, t *tracker) []model.PackageRecord {
	if opts.ManifestURL == "" || len(opts.Packages) == 0 {
		return nil
	}

	t.emit(PhaseManifest, backendEnd, "fetching package manifest", "")
	text, err := o.DL.FetchText(ctx, opts.ManifestURL)
	if err != nil {
		logger.Warn("manifest fetch failed, using installer download instead",
			logger.Fields{"url": opts.ManifestURL, "error": err})
		return nil
	}

	records := manifest.Parse(text, opts.Packages)
	if len(records) == 0 {
		logger.Warnf("manifest lists none of the requested packages %v", opts.Packages)
	}
	return records
}

// prepareContainer obtains an initialized container, mapping the wait into
// [start, end] of the overall scale.
func (o *Orchestrator) prepareContainer(ctx context.Context, opts InstallOptions, t *tracker, start, end float64) (model.SandboxContainer, error) {
	if err := ctx.Err(); err != nil {
		return model.SandboxContainer{}, err
	}
	t.emit(PhasePrepare, start, "preparing container", "")
	container, err := o.Containers.GetOrCreate(ctx, opts.LogicalID, sandbox.CreateOptions{
		Name:   opts.AppName,
		Preset: opts.Preset,
	})
	if err != nil {
		return model.SandboxContainer{}, pkgerrors.Wrap(err, "failed to prepare container")
	}
	t.emit(PhasePrepare, end, "container ready", "")
	return container, nil
}

// installPackages downloads, verifies and extracts each manifest package in
// sequence. One package at a time: a failure localizes to a single package
// and at most one large temporary file exists at any moment.
func (o *Orchestrator) installPackages(ctx context.Context, opts InstallOptions, t *tracker, container model.SandboxContainer, runTmp string, records []model.PackageRecord) error {
	installDir := o.installPath(container, opts)

	var totalBytes int64
	for _, rec := range records {
		totalBytes += rec.SizeBytes
	}

	// Each package owns a slice of [manifestPrepEnd, extractEnd] proportional
	// to its declared size; within a slice, downloading takes the first 70%.
	var doneBytes int64
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		sliceStart := span(manifestPrepEnd, extractEnd, ratio(doneBytes, totalBytes))
		sliceEnd := span(manifestPrepEnd, extractEnd, ratio(doneBytes+rec.SizeBytes, totalBytes))
		dlEnd := sliceStart + (sliceEnd-sliceStart)*0.7

		rawURL := opts.PackageBaseURL + "/" + rec.RemoteFilename
		artifact := filepath.Join(runTmp, rec.RemoteFilename)

		t.emit(PhaseDownload, sliceStart, "downloading "+rec.Name, "")
		if _, err := o.DL.FetchFile(ctx, rawURL, artifact, func(written, total int64) {
			if total == 0 {
				total = rec.SizeBytes
			}
			t.emit(PhaseDownload, span(sliceStart, dlEnd, ratio(written, total)),
				"downloading "+rec.Name, fmt.Sprintf("%d/%d bytes", written, total))
		}); err != nil {
			return pkgerrors.Wrapf(err, "failed to download package %s", rec.Name)
		}

		if err := verify.VerifyAndRemove(artifact, rec.ContentHash); err != nil {
			return pkgerrors.Wrapf(err, "package %s failed integrity verification", rec.Name)
		}

		if _, err := o.Extractor.ExtractImage(ctx, artifact, installDir, func(extracted, total int) {
			t.emit(PhaseExtract, span(dlEnd, sliceEnd, ratio(int64(extracted), int64(total))),
				"extracting "+rec.Name, fmt.Sprintf("%d/%d files", extracted, total))
		}); err != nil {
			_ = os.Remove(artifact)
			return pkgerrors.Wrapf(err, "failed to extract package %s", rec.Name)
		}
		_ = os.Remove(artifact)

		doneBytes += rec.SizeBytes
	}

	t.emit(PhaseExtract, extractEnd, "packages extracted", "")
	return nil
}

// downloadInstaller fetches the original installer executable into the run's
// scratch directory, mapping progress into [start, end].
func (o *Orchestrator) downloadInstaller(ctx context.Context, opts InstallOptions, t *tracker, runTmp string, start, end float64) (string, error) {
	if opts.InstallerURL == "" {
		return "", fmt.Errorf("no installer URL configured: %w", pkgerrors.ErrDownloadFailed)
	}

	dest := filepath.Join(runTmp, filepath.Base(opts.InstallerURL))
	t.emit(PhaseDownload, start, "downloading installer", "")
	if _, err := o.DL.FetchFile(ctx, opts.InstallerURL, dest, func(written, total int64) {
		t.emit(PhaseDownload, span(start, end, ratio(written, total)),
			"downloading installer", fmt.Sprintf("%d/%d bytes", written, total))
	}); err != nil {
		return "", pkgerrors.Wrap(err, "failed to download installer")
	}
	t.emit(PhaseDownload, end, "installer downloaded", "")
	return dest, nil
}

// extractInstaller attempts the direct-extraction strategy on the installer
// image itself.
func (o *Orchestrator) extractInstaller(ctx context.Context, opts InstallOptions, t *tracker, installerLocal string, container model.SandboxContainer) error {
	installDir := o.installPath(container, opts)
	t.emit(PhaseExtract, prepareEnd, "extracting installer payload", "")

	if _, err := o.Extractor.ExtractImage(ctx, installerLocal, installDir, func(extracted, total int) {
		t.emit(PhaseExtract, span(prepareEnd, extractEnd, ratio(int64(extracted), int64(total))),
			"extracting installer payload", fmt.Sprintf("%d/%d files", extracted, total))
	}); err != nil {
		return err
	}
	t.emit(PhaseExtract, extractEnd, "installer payload extracted", "")
	return nil
}

// runInstallerFallback copies the installer into the container, runs it
// through the emulator, polls until the process exits and verifies the
// expected artifact appeared.
func (o *Orchestrator) runInstallerFallback(ctx context.Context, opts InstallOptions, t *tracker, container model.SandboxContainer, installerLocal, runTmp string) error {
	var err error
	if installerLocal == "" {
		// Manifest-driven runs reach here without having fetched the
		// installer; do it now.
		installerLocal, err = o.downloadInstaller(ctx, opts, t, runTmp, prepareEnd, fallbackFetchEnd)
		if err != nil {
			return err
		}
	}

	inContainer := filepath.Join(container.RootPath, "drive_c", "users", "Public", filepath.Base(installerLocal))
	if err := fsutil.CopyFile(installerLocal, inContainer, fsutil.FileModeExec); err != nil {
		return pkgerrors.Wrap(err, "failed to copy installer into container")
	}

	t.emit(PhaseInstaller, fallbackFetchEnd, "running installer in container", "")
	proc, err := o.Backend.Launch(ctx, container, inContainer, opts.InstallerArgs)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to launch installer")
	}

	if err := o.pollUntilExit(ctx, t, proc); err != nil {
		return err
	}

	target := filepath.Join(o.installPath(container, opts), filepath.FromSlash(opts.TargetExecutable))
	err = retry.Fixed(ctx, verifyAttempts, verifyInterval, func() error {
		if fsutil.FileExists(target) {
			return nil
		}
		return pkgerrors.ErrVerificationFailed
	})
	if err != nil {
		return fmt.Errorf("installer finished but %s was not created; "+
			"the emulation layer likely cannot run this installer (a known limitation with some "+
			"setup programs) - try the manifest-driven package installation instead: %w",
			target, pkgerrors.ErrVerificationFailed)
	}

	t.emit(PhaseInstaller, extractEnd, "installer finished", "")
	return nil
}

// pollUntilExit polls process liveness at a fixed interval up to a hard
// ceiling. On ceiling reached, the process is forcibly terminated before the
// timeout error is returned.
func (o *Orchestrator) pollUntilExit(ctx context.Context, t *tracker, proc emulator.Process) error {
	timeout := o.pollTimeout()
	started := time.Now()
	ticker := time.NewTicker(o.pollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = o.Backend.Kill(ctx, proc.ID)
			return ctx.Err()
		case <-ticker.C:
		}

		status, err := o.Backend.ProcessStatus(ctx, proc.ID)
		if err != nil {
			return pkgerrors.Wrap(err, "failed to query installer process")
		}
		if !status.Running {
			return nil
		}

		elapsed := time.Since(started)
		if elapsed >= timeout {
			_ = o.Backend.Kill(ctx, proc.ID)
			return fmt.Errorf("installer still running after %s: %w", timeout, pkgerrors.ErrInstallTimeout)
		}
		t.emit(PhaseInstaller, span(fallbackFetchEnd, extractEnd, elapsed.Seconds()/timeout.Seconds()),
			"running installer in container", fmt.Sprintf("%s elapsed", elapsed.Round(time.Second)))
	}
}

// runHook executes the given hook type when a hook manager is configured.
func (o *Orchestrator) runHook(hookType hooks.HookType, opts InstallOptions, container model.SandboxContainer) error {
	if o.HookManager == nil {
		return nil
	}
	err := o.HookManager.Execute(hookType, hooks.HookContext{
		AppName:       opts.AppName,
		ContainerID:   container.ID,
		ContainerRoot: container.RootPath,
		InstallPath:   o.installPath(container, opts),
	})
	return pkgerrors.Wrapf(err, "%s hook failed", hookType)
}

// installPath is the application directory inside the container's C: drive.
func (o *Orchestrator) installPath(container model.SandboxContainer, opts InstallOptions) string {
	return filepath.Join(container.RootPath, "drive_c", "Program Files (x86)", opts.AppName)
}

func ratio(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
