package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/cellar/pkg/model"
)

var sampleManifest = `
// client package manifest
"bins_win32"
{
	"file"		"pkg1.bin"
	"size"		"1000"
	"sha2"		"` + hexA + `"
}
"textures_high"
{
	"file"		"pkg2.bin"
	"sha256"	"` + hexB + `"
	"size"		"2048"
}
"sounds"
{
	"file"		"pkg3.bin"
	"size"		"512"
	"sha2"		"` + hexC + `"
}
`

var (
	hexA = strings.Repeat("aa", 32)
	hexB = strings.Repeat("bb", 32)
	hexC = strings.Repeat("cc", 32)
)

func TestParse_SelectsRequestedPackages(t *testing.T) {
	records := Parse(sampleManifest, []string{"bins_win32", "sounds"})
	require.Len(t, records, 2)

	assert.Equal(t, model.PackageRecord{
		Name:           "bins_win32",
		RemoteFilename: "pkg1.bin",
		SizeBytes:      1000,
		ContentHash:    hexA,
	}, records[0])
	assert.Equal(t, "sounds", records[1].Name)
	assert.Equal(t, "pkg3.bin", records[1].RemoteFilename)
	assert.EqualValues(t, 512, records[1].SizeBytes)
}

func TestParse_FieldOrderDoesNotMatter(t *testing.T) {
	records := Parse(sampleManifest, []string{"textures_high"})
	require.Len(t, records, 1)
	assert.Equal(t, "pkg2.bin", records[0].RemoteFilename)
	assert.EqualValues(t, 2048, records[0].SizeBytes)
	assert.Equal(t, hexB, records[0].ContentHash)
}

func TestParse_UnknownNamesYieldNothing(t *testing.T) {
	assert.Empty(t, Parse(sampleManifest, []string{"nonexistent"}))
}

func TestParse_EmptyInput(t *testing.T) {
	assert.Empty(t, Parse("", []string{"bins_win32"}))
	assert.Empty(t, Parse(sampleManifest, nil))
}

func TestParse_BadSizeDropsBlockOnly(t *testing.T) {
	text := `
"broken"
{
	"file"	"x.bin"
	"size"	"not-a-number"
	"sha2"	"` + hexA + `"
}
"good"
{
	"file"	"y.bin"
	"size"	"10"
	"sha2"	"` + hexB + `"
}
`
	records := Parse(text, []string{"broken", "good"})
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Name)
}

func TestParse_IncompleteBlockDiscarded(t *testing.T) {
	text := `
"partial"
{
	"file"	"x.bin"
	"size"	"10"
}
`
	assert.Empty(t, Parse(text, []string{"partial"}))
}

func TestParse_CommentsAndBlankLinesSkipped(t *testing.T) {
	text := `
// leading comment
"pkg"
{
	// the payload
	"file"	"x.bin"

	"size"	"10"
	"sha2"	"` + hexA + `"
}
`
	records := Parse(text, []string{"pkg"})
	require.Len(t, records, 1)
	assert.Equal(t, "x.bin", records[0].RemoteFilename)
}

func TestLastQuoted(t *testing.T) {
	assert.Equal(t, "pkg1.bin", lastQuoted(`	"file"		"pkg1.bin"`))
	assert.Equal(t, "file", lastQuoted(`	"file"`))
	assert.Equal(t, "", lastQuoted("no quotes here"))
}
