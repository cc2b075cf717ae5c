package model

// PerformancePreset selects the runtime tuning profile applied to a container
// when it is created through the emulator backend.
type PerformancePreset string

// Supported performance presets.
const (
	PresetBalanced    PerformancePreset = "balanced"
	PresetPerformance PerformancePreset = "performance"
	PresetQuality     PerformancePreset = "quality"
)

// Valid reports whether the preset is one of the supported values.
func (p PerformancePreset) Valid() bool {
	switch p {
	case PresetBalanced, PresetPerformance, PresetQuality:
		return true
	}
	return false
}

// SandboxContainer represents a persistent, addressable installation target
// (a Wine-prefix-like directory tree) as reported by the emulator backend.
type SandboxContainer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RootPath    string `json:"root_path"`
	Initialized bool   `json:"initialized"`
}

// ContainerMetadata is the locally persisted description of a container.
// Metadata may outlive the live container; the sandbox manager re-creates the
// live container and binds it back to the existing metadata id when needed.
type ContainerMetadata struct {
	ID        string            `json:"id"`
	LogicalID string            `json:"logical_id"`
	Name      string            `json:"name"`
	Preset    PerformancePreset `json:"preset"`
}
