package vsfsimg

import "fmt"

// Corruption names one of the fault scenarios spec.md §8 enumerates.
// cmd/vsfsimg's `build --corrupt` flag and pkg/vsfsck's test fixtures both
// construct images through this single named list so the scenarios stay
// in lockstep with the checker's own test suite.
type Corruption string

const (
	CorruptNone               Corruption = ""
	CorruptMagic              Corruption = "magic"
	CorruptMissingBitmapBit   Corruption = "missing-bitmap-bit"
	CorruptOrphanBitmapBit    Corruption = "orphan-bitmap-bit"
	CorruptBadPointer         Corruption = "bad-pointer"
	CorruptDuplicateReference Corruption = "duplicate-reference"
)

// Canonical builds the scenario-1 fixture from spec.md §8: a single live
// inode (index 0) with direct[0] pointing at block 8, everything else
// consistent.
func Canonical() *Builder {
	b := NewBuilder()
	b.SetLiveFile(0, []int{FirstDataBlock})
	return b
}

// Apply introduces the named corruption into an otherwise-canonical
// fixture, mutating b in place. It returns an error for an unrecognized
// name so that cmd/vsfsimg can report a clean usage error instead of
// silently building a clean image.
func Apply(b *Builder, kind Corruption) error {
	switch kind {
	case CorruptNone:
		return nil
	case CorruptMagic:
		b.Superblock().Magic = 0
	case CorruptMissingBitmapBit:
		// Live inode references block 10 but the data bitmap bit is unset.
		// A block inode 0 already claimed is released first, so the
		// canonical fixture's block 8 does not become an orphaned bit too.
		if prev := b.Inode(0).Direct[0]; prev != 0 {
			b.MarkDataBitmap(int(prev), false)
			b.Inode(0).BlockCount = 0
		}
		b.SetLiveFile(0, []int{10})
		b.MarkDataBitmap(10, false)
	case CorruptOrphanBitmapBit:
		// No inode references block 20, but its data bitmap bit is set.
		b.MarkDataBitmap(20, true)
	case CorruptBadPointer:
		// Replace the live inode's only pointer with an out-of-range one;
		// the block it used to claim must stop being marked used, or the
		// data bitmap's final pass would report it as orphaned too.
		ino := b.Inode(0)
		ino.Direct[0] = 200
		ino.BlockCount = 0
		b.MarkDataBitmap(FirstDataBlock, false)
	case CorruptDuplicateReference:
		// Inodes 0 and 1 both claim direct[0] = 15. As above, a block inode
		// 0 already claimed is released first.
		if prev := b.Inode(0).Direct[0]; prev != 0 {
			b.MarkDataBitmap(int(prev), false)
			b.Inode(0).BlockCount = 0
		}
		b.SetLiveFile(0, []int{15})
		b.SetLiveFile(1, []int{15})
	default:
		return fmt.Errorf("unrecognized corruption scenario: %q", kind)
	}
	return nil
}
