package vsfsck

import "github.com/vsfs/vsfsck/pkg/vsfsimg"

// Context holds every piece of mutable state one checking run threads
// through its phases: the open image, the decoded superblock, the two
// bitmaps, the decoded inode table, the reference tracker built while
// walking it, and the report those phases write into. Grounded on the
// context struct pkg/ext/compiler.go threads through its own compile
// pipeline.
type Context struct {
	Image       *vsfsimg.Image
	Superblock  *vsfsimg.Superblock
	InodeBitmap vsfsimg.Bitmap
	DataBitmap  vsfsimg.Bitmap
	Inodes      []*vsfsimg.Inode
	Tracker     *Tracker
	Report      *Report

	superblockDirty  bool
	inodeBitmapDirty bool
	dataBitmapDirty  bool
}
