// Package vsfsimg models the on-disk layout of a VSFS (Very Simple File
// System) image: a fixed 64-block, block-addressed volume with a packed
// superblock, a packed inode table, and two bitmap blocks. It provides the
// block I/O, codec, and bitmap primitives that both the checker
// (pkg/vsfsck) and the fixture builder/inspector (cmd/vsfsimg) are built
// on top of.
package vsfsimg

// Canonical layout constants. VSFS images are always exactly this shape;
// unlike ext-family layouts there is no block-group table to compute, so
// these are plain constants rather than a Commit/Precompile-style
// negotiation.
const (
	BlockSize   = 4096
	TotalBlocks = 64

	SuperblockBlock  = 0
	InodeBitmapBlock = 1
	DataBitmapBlock  = 2
	InodeTableStart  = 3
	InodeTableBlocks = 5
	FirstDataBlock   = 8

	MagicNumber = 0xD34D
	InodeSize   = 256

	DirectPointers   = 12
	PointersPerBlock = BlockSize / 4 // 1024 little-endian uint32 entries

	// MaxInodeCount is the physical maximum number of inode records that
	// fit in the inode table region: INODE_TABLE_BLOCKS * floor(BlockSize/InodeSize).
	MaxInodeCount = InodeTableBlocks * (BlockSize / InodeSize)
)
