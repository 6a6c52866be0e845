package vsfsck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsfs/vsfsck/pkg/vsfsimg"
)

func TestReconcileInodeBitmapFixesBothDirections(t *testing.T) {
	inodes := []*vsfsimg.Inode{
		{NLinks: 1, Dtime: 0}, // live, bit should be set
		{NLinks: 0, Dtime: 0}, // dead, bit should be clear
	}
	bitmap := make(vsfsimg.Bitmap, vsfsimg.BlockSize)
	bitmap.Set(1) // inode 1 is dead but marked used

	report := &Report{}
	dirty := ReconcileInodeBitmap(inodes, len(inodes), bitmap, report)

	require.True(t, dirty)
	assert.True(t, bitmap.IsSet(0))
	assert.False(t, bitmap.IsSet(1))
	assert.Contains(t, report.Lines(), "Inode Bitmap error: Inode 0 is valid but not marked used. Fixing...")
	assert.Contains(t, report.Lines(), "Inode Bitmap error: Inode 1 is invalid but marked used. Fixing...")
	assert.Contains(t, report.Lines(), "Inode bitmap updated.")
}

func TestReconcileInodeBitmapClean(t *testing.T) {
	inodes := []*vsfsimg.Inode{{NLinks: 1, Dtime: 0}}
	bitmap := make(vsfsimg.Bitmap, vsfsimg.BlockSize)
	bitmap.Set(0)

	report := &Report{}
	dirty := ReconcileInodeBitmap(inodes, len(inodes), bitmap, report)

	require.False(t, dirty)
	assert.Equal(t, []string{"Inode bitmap consistency check passed."}, report.Lines())
}

func TestReconcileDataBitmapClearsOrphanBit(t *testing.T) {
	bitmap := make(vsfsimg.Bitmap, vsfsimg.BlockSize)
	bitmap.Set(20) // marked used, never referenced
	tracker := NewTracker(vsfsimg.TotalBlocks, vsfsimg.FirstDataBlock)

	report := &Report{}
	dirty := ReconcileDataBitmap(bitmap, tracker, vsfsimg.FirstDataBlock, vsfsimg.TotalBlocks, report, false)

	require.True(t, dirty)
	assert.False(t, bitmap.IsSet(20))
	assert.Contains(t, report.Lines(), "Data Bitmap error: Block 20 marked used but not referenced. Clearing bit...")
	assert.Contains(t, report.Lines(), "Data bitmap updated.")
}

func TestReconcileDataBitmapReportsDuplicateWithoutRepair(t *testing.T) {
	bitmap := make(vsfsimg.Bitmap, vsfsimg.BlockSize)
	bitmap.Set(15)
	tracker := NewTracker(vsfsimg.TotalBlocks, vsfsimg.FirstDataBlock)
	tracker.Note(15)
	tracker.Note(15)

	report := &Report{}
	dirty := ReconcileDataBitmap(bitmap, tracker, vsfsimg.FirstDataBlock, vsfsimg.TotalBlocks, report, false)

	require.False(t, dirty)
	assert.True(t, bitmap.IsSet(15), "duplicate references are report-only and must not clear the bit")
	assert.Contains(t, report.Lines(), "Duplicate block error: Block 15 referenced 2 times. Fixing...")
	assert.Contains(t, report.Lines(), "Data bitmap consistency check passed.")
}

func TestReconcileDataBitmapCarriesForwardAlreadyDirty(t *testing.T) {
	bitmap := make(vsfsimg.Bitmap, vsfsimg.BlockSize)
	tracker := NewTracker(vsfsimg.TotalBlocks, vsfsimg.FirstDataBlock)

	report := &Report{}
	dirty := ReconcileDataBitmap(bitmap, tracker, vsfsimg.FirstDataBlock, vsfsimg.TotalBlocks, report, true)

	require.True(t, dirty)
	assert.Contains(t, report.Lines(), "Data bitmap updated.")
}
