package vsfsck

import "github.com/vsfs/vsfsck/pkg/vsfsimg"

// ReconcileInodeBitmap brings the inode bitmap into agreement with each
// inode's own liveness (vsfsimg.Inode.IsLive), which is the ground truth:
// a live inode whose bit is clear gets the bit set, and a dead inode
// whose bit is still set gets it cleared. Grounded on the inode bitmap
// loop of original_source/vsfsck.c, which walks 0..inode_count rather
// than the full physical table — slots beyond inode_count are never
// allocated, so bounding the loop the same way just skips dead weight.
func ReconcileInodeBitmap(inodes []*vsfsimg.Inode, inodeCount int, bitmap vsfsimg.Bitmap, report *Report) (dirty bool) {
	for i := 0; i < inodeCount; i++ {
		ino := inodes[i]
		live := ino.IsLive()
		used := bitmap.IsSet(i)
		switch {
		case live && !used:
			report.Linef("Inode Bitmap error: Inode %d is valid but not marked used. Fixing...", i)
			bitmap.Set(i)
			dirty = true
		case !live && used:
			report.Linef("Inode Bitmap error: Inode %d is invalid but marked used. Fixing...", i)
			bitmap.Clear(i)
			dirty = true
		}
	}

	if dirty {
		report.Line("Inode bitmap updated.")
	} else {
		report.Line("Inode bitmap consistency check passed.")
	}
	return dirty
}

// ReconcileDataBitmap runs the data bitmap's final pass, after every live
// inode has been walked and tracker holds the true reference count for
// every data block. It clears bits that claim a block is in use when
// nothing references it, and reports (without repairing) blocks that are
// referenced more than once.
//
// alreadyDirty carries in whether the walker already repaired the bitmap
// inline (a valid pointer whose target wasn't yet marked used): that
// counts toward the same "updated" verdict this pass reports, exactly as
// original_source/vsfsck.c accumulates a single data_bitmap_errors
// counter across both the inline fixes and this final sweep. This pass
// itself only ever needs to move in the other direction: used-but-
// unreferenced. Duplicate references are report-only, matching the
// original, which prints the duplicate line but performs no structural
// fix — removing the extra reference would mean picking which owning
// inode loses the block, a policy decision the original tool
// deliberately leaves to a human.
//
// The duplicate scan and the orphan-clear scan run as two separate
// passes over the data region, in that order, matching the line order
// original_source/vsfsck.c produces when a single image has both faults.
func ReconcileDataBitmap(bitmap vsfsimg.Bitmap, tracker *Tracker, firstDataBlock, totalBlocks int, report *Report, alreadyDirty bool) (dirty bool) {
	dirty = alreadyDirty
	for b := firstDataBlock; b < totalBlocks; b++ {
		if tracker.IsDuplicated(b) {
			report.Linef("Duplicate block error: Block %d referenced %d times. Fixing...", b, tracker.RefsOf(b))
		}
	}
	for b := firstDataBlock; b < totalBlocks; b++ {
		if bitmap.IsSet(b) && tracker.IsUnreferenced(b) {
			report.Linef("Data Bitmap error: Block %d marked used but not referenced. Clearing bit...", b)
			bitmap.Clear(b)
			dirty = true
		}
	}

	if dirty {
		report.Line("Data bitmap updated.")
	} else {
		report.Line("Data bitmap consistency check passed.")
	}
	return dirty
}
