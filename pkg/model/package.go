// Package model provides the shared data structures for packages, containers,
// and installation records used across the cellar installer pipeline.
package model

// PackageRecord describes one downloadable package as declared by the client
// manifest. A record is only emitted by the manifest parser once all three
// value fields have been observed; partially populated records are discarded.
type PackageRecord struct {
	Name           string `json:"name"`
	RemoteFilename string `json:"remote_filename"`
	SizeBytes      int64  `json:"size_bytes"`
	ContentHash    string `json:"content_hash"` // hex-encoded SHA-256
}

// Complete reports whether all value fields of the record have been captured.
func (r *PackageRecord) Complete() bool {
	return r.RemoteFilename != "" && r.SizeBytes > 0 && r.ContentHash != ""
}
