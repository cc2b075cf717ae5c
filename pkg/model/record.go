package model

import "time"

// InstallStatus tracks the terminal state of an installation.
type InstallStatus string

// Supported installation states.
const (
	StatusNotInstalled InstallStatus = "not_installed"
	StatusInstalled    InstallStatus = "installed"
)

// InstallationRecord is the persisted outcome of an installation run. There is
// at most one record per container id; saving again for the same container
// overwrites the previous record.
type InstallationRecord struct {
	ID          string        `json:"id"`
	ContainerID string        `json:"container_id"`
	InstallPath string        `json:"install_path"`
	Status      InstallStatus `json:"status"`
	InstalledAt time.Time     `json:"installed_at"`
}
