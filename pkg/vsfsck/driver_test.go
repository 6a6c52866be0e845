package vsfsck

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsfs/vsfsck/pkg/vsfsimg"
)

func runFixture(t *testing.T, b *vsfsimg.Builder) *Report {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vsfs.img")
	require.NoError(t, b.Write(path))
	report, err := Run(path)
	require.NoError(t, err)
	return report
}

func TestRunCleanImageOnlyEmitsPassingLines(t *testing.T) {
	report := runFixture(t, vsfsimg.Canonical())

	lines := report.Lines()
	assert.Equal(t, []string{
		"Superblock validated successfully.",
		"Inode bitmap consistency check passed.",
		"Data bitmap consistency check passed.",
		"VSFS consistency check complete.",
	}, lines)
}

func TestRunBadMagic(t *testing.T) {
	b := vsfsimg.Canonical()
	require.NoError(t, vsfsimg.Apply(b, vsfsimg.CorruptMagic))

	report := runFixture(t, b)
	assert.Contains(t, report.Lines(), "Superblock error: Magic number incorrect. Expected 0xd34d, got 0x0. Fixing...")
	assert.Contains(t, report.Lines(), "Superblock errors fixed.")
}

func TestRunMissingBitmapBit(t *testing.T) {
	b := vsfsimg.NewBuilder()
	require.NoError(t, vsfsimg.Apply(b, vsfsimg.CorruptMissingBitmapBit))

	report := runFixture(t, b)
	assert.Contains(t, report.Lines(), "Data Bitmap error: Inode 0 direct pointer references block 10 which is not marked used. Fixing...")
	assert.Contains(t, report.Lines(), "Data bitmap updated.")
}

func TestRunOrphanBitmapBit(t *testing.T) {
	b := vsfsimg.NewBuilder()
	require.NoError(t, vsfsimg.Apply(b, vsfsimg.CorruptOrphanBitmapBit))

	report := runFixture(t, b)
	assert.Contains(t, report.Lines(), "Data Bitmap error: Block 20 marked used but not referenced. Clearing bit...")
	assert.Contains(t, report.Lines(), "Data bitmap updated.")
}

func TestRunBadPointer(t *testing.T) {
	b := vsfsimg.Canonical()
	require.NoError(t, vsfsimg.Apply(b, vsfsimg.CorruptBadPointer))

	report := runFixture(t, b)
	assert.Equal(t, []string{
		"Superblock validated successfully.",
		"Inode bitmap consistency check passed.",
		"Bad block error: Inode 0 direct pointer 200 out of range. Clearing pointer...",
		"Data bitmap consistency check passed.",
		"VSFS consistency check complete.",
	}, report.Lines())
}

func TestRunDuplicateReference(t *testing.T) {
	b := vsfsimg.NewBuilder()
	require.NoError(t, vsfsimg.Apply(b, vsfsimg.CorruptDuplicateReference))

	report := runFixture(t, b)
	assert.Contains(t, report.Lines(), "Duplicate block error: Block 15 referenced 2 times. Fixing...")
	// Duplicate references are report-only: both inodes must still claim the block.
	path := filepath.Join(t.TempDir(), "vsfs.img")
	require.NoError(t, b.Write(path))
	_, err := Run(path)
	require.NoError(t, err)

	img, err := vsfsimg.Open(path)
	require.NoError(t, err)
	defer img.Close()
	table, err := img.ReadBlock(vsfsimg.InodeTableStart)
	require.NoError(t, err)
	inodes, err := vsfsimg.DecodeInodeTable(table, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 15, inodes[0].Direct[0])
	assert.EqualValues(t, 15, inodes[1].Direct[0])
}

func TestRunIsIdempotent(t *testing.T) {
	b := vsfsimg.Canonical()
	require.NoError(t, vsfsimg.Apply(b, vsfsimg.CorruptMissingBitmapBit))
	path := filepath.Join(t.TempDir(), "vsfs.img")
	require.NoError(t, b.Write(path))

	first, err := Run(path)
	require.NoError(t, err)
	assert.NotContains(t, first.Lines(), "Data bitmap consistency check passed.")

	second, err := Run(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Superblock validated successfully.",
		"Inode bitmap consistency check passed.",
		"Data bitmap consistency check passed.",
		"VSFS consistency check complete.",
	}, second.Lines())
}
