// Package vsfsck implements the VSFS consistency checker: superblock
// validation, inode/data bitmap reconciliation, and a block-reference
// walk over every live inode's direct and indirect pointer tree. Run
// drives the phases in the fixed order the external report format
// depends on; every individual phase is exported separately so tests can
// exercise them (and the reporting they produce) in isolation.
package vsfsck

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/vsfs/vsfsck/pkg/vsfsimg"
)

// Run performs one full consistency check (and repair) pass over the
// VSFS image at path, in the strict phase order the external contract
// guarantees:
//
//  1. read the superblock
//  2. validate and, if necessary, patch it
//  3. read both bitmaps and the inode table, using the now-canonical
//     superblock fields
//  4. reconcile the inode bitmap against inode liveness
//  5. walk every live inode's block pointers, building the reference
//     tracker and repairing the data bitmap inline as it goes
//  6. run the data bitmap's final pass (orphaned bits, duplicate
//     references)
//  7. write back whatever was patched (the inode table is always
//     rewritten, since a pointer may have been zeroed anywhere in it)
//  8. emit the closing line
func Run(path string) (*Report, error) {
	ctx, err := newContext(path)
	if err != nil {
		return nil, err
	}
	defer ctx.Image.Close()

	if err := ctx.readSuperblock(); err != nil {
		return nil, err
	}
	ctx.superblockDirty = ValidateSuperblock(ctx.Superblock, ctx.Report)

	if err := ctx.readBitmapsAndInodes(); err != nil {
		return nil, err
	}

	ctx.inodeBitmapDirty = ReconcileInodeBitmap(ctx.Inodes, int(ctx.Superblock.InodeCount), ctx.InodeBitmap, ctx.Report)

	ctx.Tracker = NewTracker(vsfsimg.TotalBlocks, int(ctx.Superblock.FirstDataBlock))
	walker := NewWalker(ctx.Image, ctx.DataBitmap, ctx.Tracker, ctx.Report, int(ctx.Superblock.FirstDataBlock), vsfsimg.TotalBlocks)
	for i := 0; i < int(ctx.Superblock.InodeCount); i++ {
		ino := ctx.Inodes[i]
		if !ino.IsLive() {
			continue
		}
		if _, err := walker.Walk(i, ino); err != nil {
			return nil, err
		}
	}

	ctx.dataBitmapDirty = ReconcileDataBitmap(ctx.DataBitmap, ctx.Tracker, int(ctx.Superblock.FirstDataBlock), vsfsimg.TotalBlocks, ctx.Report, walker.BitmapDirty())

	if err := ctx.writeBack(); err != nil {
		return nil, err
	}

	ctx.Report.Line("VSFS consistency check complete.")
	return ctx.Report, nil
}

func newContext(path string) (*Context, error) {
	img, err := vsfsimg.Open(path)
	if err != nil {
		return nil, err
	}
	return &Context{Image: img, Report: &Report{}}, nil
}

func (ctx *Context) readSuperblock() error {
	block, err := ctx.Image.ReadBlock(vsfsimg.SuperblockBlock)
	if err != nil {
		return pkgerrors.Wrap(err, "reading superblock")
	}
	sb, err := vsfsimg.DecodeSuperblock(block)
	if err != nil {
		return pkgerrors.Wrap(err, "decoding superblock")
	}
	ctx.Superblock = sb
	return nil
}

func (ctx *Context) readBitmapsAndInodes() error {
	inodeBitmapBlock, err := ctx.Image.ReadBlock(int(ctx.Superblock.InodeBitmapBlock))
	if err != nil {
		return pkgerrors.Wrap(err, "reading inode bitmap")
	}
	ctx.InodeBitmap = vsfsimg.NewBitmap(inodeBitmapBlock)

	dataBitmapBlock, err := ctx.Image.ReadBlock(int(ctx.Superblock.DataBitmapBlock))
	if err != nil {
		return pkgerrors.Wrap(err, "reading data bitmap")
	}
	ctx.DataBitmap = vsfsimg.NewBitmap(dataBitmapBlock)

	table := make([]byte, 0, vsfsimg.InodeTableBlocks*vsfsimg.BlockSize)
	for b := 0; b < vsfsimg.InodeTableBlocks; b++ {
		block, err := ctx.Image.ReadBlock(int(ctx.Superblock.InodeTableStart) + b)
		if err != nil {
			return pkgerrors.Wrapf(err, "reading inode table block %d", b)
		}
		table = append(table, block...)
	}

	inodes, err := vsfsimg.DecodeInodeTable(table, vsfsimg.MaxInodeCount)
	if err != nil {
		return pkgerrors.Wrap(err, "decoding inode table")
	}
	ctx.Inodes = inodes
	return nil
}

func (ctx *Context) writeBack() error {
	if ctx.superblockDirty {
		if err := ctx.Image.WriteBlock(vsfsimg.SuperblockBlock, ctx.Superblock.Encode()); err != nil {
			return pkgerrors.Wrap(err, "writing superblock")
		}
	}
	if ctx.inodeBitmapDirty {
		if err := ctx.Image.WriteBlock(int(ctx.Superblock.InodeBitmapBlock), []byte(ctx.InodeBitmap)); err != nil {
			return pkgerrors.Wrap(err, "writing inode bitmap")
		}
	}
	if ctx.dataBitmapDirty {
		if err := ctx.Image.WriteBlock(int(ctx.Superblock.DataBitmapBlock), []byte(ctx.DataBitmap)); err != nil {
			return pkgerrors.Wrap(err, "writing data bitmap")
		}
	}

	table := vsfsimg.EncodeInodeTable(ctx.Inodes)
	for b := 0; b < vsfsimg.InodeTableBlocks; b++ {
		chunk := table[b*vsfsimg.BlockSize : (b+1)*vsfsimg.BlockSize]
		if err := ctx.Image.WriteBlock(int(ctx.Superblock.InodeTableStart)+b, chunk); err != nil {
			return pkgerrors.Wrapf(err, "writing inode table block %d", b)
		}
	}
	return nil
}
