// Package manifest parses the client package manifest: a nested key/value
// text format listing, per package, the remote filename, byte size and
// SHA-256 content hash.
package manifest

import (
	"strconv"
	"strings"

	"github.com/glorpus-work/cellar/internal/logger"
	"github.com/glorpus-work/cellar/pkg/model"
)

const commentMarker = "//"

// Parse scans the raw manifest text and returns one PackageRecord for every
// requested package name whose block declares all of file, size and sha2.
//
// The parser is deliberately forgiving: it never fails. Malformed blocks are
// dropped (after logging) and whatever records were completed so far are
// returned, so a broken entry for one package does not hide the others.
func Parse(text string, names []string) []model.PackageRecord {
	records := make([]model.PackageRecord, 0, len(names))

	var capturing bool
	var current model.PackageRecord

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}

		if !capturing {
			for _, name := range names {
				if strings.HasPrefix(line, `"`+name+`"`) {
					capturing = true
					current = model.PackageRecord{Name: name}
					break
				}
			}
			continue
		}

		switch {
		case strings.Contains(line, `"file"`):
			current.RemoteFilename = lastQuoted(line)
		case strings.Contains(line, `"size"`):
			size, err := strconv.ParseInt(lastQuoted(line), 10, 64)
			if err != nil {
				logger.Warnf("manifest: discarding block %q: bad size value %q", current.Name, lastQuoted(line))
				capturing = false
				continue
			}
			current.SizeBytes = size
		case strings.Contains(line, `"sha2"`), strings.Contains(line, `"sha256"`):
			current.ContentHash = lastQuoted(line)
		}

		if current.Complete() {
			records = append(records, current)
			capturing = false
		}
	}

	return records
}

// lastQuoted returns the contents of the last double-quoted token on the
// line, or "" if the line carries no complete quoted token.
func lastQuoted(line string) string {
	parts := strings.Split(line, `"`)
	// Quoted tokens sit at odd indices; the final element is outside quotes.
	for i := len(parts) - 2; i >= 1; i-- {
		if i%2 == 1 {
			return parts[i]
		}
	}
	return ""
}
