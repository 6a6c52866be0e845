package vsfsck

import "github.com/vsfs/vsfsck/pkg/vsfsimg"

// ValidateSuperblock compares every fixed-layout field of sb against the
// canonical VSFS layout constants and patches any mismatch in place,
// emitting one report line per offending field. It is grounded on the
// superblock section of original_source/vsfsck.c, generalized from that
// file's sequence of near-identical if-blocks into a small table of
// (name, expected, observed, setter) tuples.
//
// Patched fields are canonical by construction, so every later phase that
// reads sb.InodeBitmapBlock, sb.DataBitmapBlock, sb.InodeTableStart or
// sb.FirstDataBlock sees the corrected value automatically: there is no
// separate "use observed vs. canonical" tie-break to perform, since VSFS
// defines exactly one valid layout and this function always converges sb
// to it.
func ValidateSuperblock(sb *vsfsimg.Superblock, report *Report) (dirty bool) {
	field := func(name string, expected, observed uint32, set func(uint32)) {
		if expected == observed {
			return
		}
		report.Linef("Superblock error: %s incorrect. Expected %d, got %d. Fixing...", name, expected, observed)
		set(expected)
		dirty = true
	}

	if sb.Magic != vsfsimg.MagicNumber {
		report.Linef("Superblock error: Magic number incorrect. Expected 0x%x, got 0x%x. Fixing...", vsfsimg.MagicNumber, sb.Magic)
		sb.Magic = vsfsimg.MagicNumber
		dirty = true
	}

	field("Block size", vsfsimg.BlockSize, sb.BlockSize, func(v uint32) { sb.BlockSize = v })
	field("Total blocks", vsfsimg.TotalBlocks, sb.TotalBlocks, func(v uint32) { sb.TotalBlocks = v })
	field("Inode bitmap block", vsfsimg.InodeBitmapBlock, sb.InodeBitmapBlock, func(v uint32) { sb.InodeBitmapBlock = v })
	field("Data bitmap block", vsfsimg.DataBitmapBlock, sb.DataBitmapBlock, func(v uint32) { sb.DataBitmapBlock = v })
	field("Inode table start", vsfsimg.InodeTableStart, sb.InodeTableStart, func(v uint32) { sb.InodeTableStart = v })
	field("First data block", vsfsimg.FirstDataBlock, sb.FirstDataBlock, func(v uint32) { sb.FirstDataBlock = v })
	field("Inode size", vsfsimg.InodeSize, sb.InodeSize, func(v uint32) { sb.InodeSize = v })

	maxInodes := uint32(vsfsimg.MaxInodeCount)
	if sb.BlockSize != 0 && sb.InodeSize != 0 {
		maxInodes = vsfsimg.InodeTableBlocks * (sb.BlockSize / sb.InodeSize)
	}
	if sb.InodeCount > maxInodes {
		report.Linef("Superblock error: inode count (%d) exceeds maximum possible (%d). Fixing...", sb.InodeCount, maxInodes)
		sb.InodeCount = maxInodes
		dirty = true
	}

	if dirty {
		report.Line("Superblock errors fixed.")
	} else {
		report.Line("Superblock validated successfully.")
	}
	return dirty
}
