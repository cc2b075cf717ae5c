// Package errors defines the sentinel errors shared across the cellar
// installation pipeline, together with small wrapping helpers.
package errors

import "fmt"

// Common error types.
var (
	// Network errors.
	ErrDownloadFailed = fmt.Errorf("download failed")
	ErrManifestFetch  = fmt.Errorf("failed to fetch manifest")
	ErrManifestEmpty  = fmt.Errorf("manifest contains no requested packages")
	ErrInvalidPath    = fmt.Errorf("invalid path")

	// Integrity errors.
	ErrHashMismatch = fmt.Errorf("content hash mismatch")

	// Extraction errors.
	ErrExtractionFailed = fmt.Errorf("archive extraction failed")

	// Sandbox errors.
	ErrBackendUnavailable    = fmt.Errorf("emulator backend is not available")
	ErrBackendVersion        = fmt.Errorf("emulator backend version is too old")
	ErrSandboxNotInitialized = fmt.Errorf("sandbox container is not initialized")
	ErrContainerNotFound     = fmt.Errorf("container not found")

	// Installer fallback errors.
	ErrInstallTimeout     = fmt.Errorf("installer process exceeded the time ceiling")
	ErrVerificationFailed = fmt.Errorf("installed artifact verification failed")

	// Configuration errors.
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigValidation = fmt.Errorf("invalid configuration")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
