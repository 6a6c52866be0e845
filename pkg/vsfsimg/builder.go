package vsfsimg

import (
	"encoding/binary"
	"os"
)

// Builder synthesizes a canonical or deliberately-corrupted 64-block VSFS
// image entirely in memory, then writes it out in one shot. It plays the
// same role pkg/ext/ext.go's four-stage Compiler plays for ext
// file-systems, collapsed down to VSFS's much simpler fixed single-region
// layout: there is no block-group table to negotiate, so Builder has no
// Commit/Precompile staging and instead exposes direct setters over an
// image held entirely in memory.
//
// Builder is the shared fixture factory behind both cmd/vsfsimg's `build`
// command and pkg/vsfsck's test suite.
type Builder struct {
	superblock  Superblock
	inodes      []*Inode
	inodeBitmap Bitmap
	dataBitmap  Bitmap
	dataBlocks  map[int][]byte
}

// NewBuilder returns a Builder pre-loaded with a canonical superblock, a
// fully-populated free inode table, and empty bitmaps.
func NewBuilder() *Builder {
	b := &Builder{
		inodes:      make([]*Inode, MaxInodeCount),
		inodeBitmap: make(Bitmap, BlockSize),
		dataBitmap:  make(Bitmap, BlockSize),
		dataBlocks:  make(map[int][]byte),
	}
	b.superblock = Superblock{
		Magic:            MagicNumber,
		BlockSize:        BlockSize,
		TotalBlocks:      TotalBlocks,
		InodeBitmapBlock: InodeBitmapBlock,
		DataBitmapBlock:  DataBitmapBlock,
		InodeTableStart:  InodeTableStart,
		FirstDataBlock:   FirstDataBlock,
		InodeSize:        InodeSize,
		InodeCount:       MaxInodeCount,
	}
	for i := range b.inodes {
		b.inodes[i] = new(Inode)
	}
	return b
}

// Superblock returns the builder's in-progress superblock for direct
// field-level corruption (e.g. clobbering Magic).
func (b *Builder) Superblock() *Superblock {
	return &b.superblock
}

// Inode returns the inode record at index for direct mutation. Index must
// be in [0, MaxInodeCount).
func (b *Builder) Inode(index int) *Inode {
	return b.inodes[index]
}

// SetLiveFile marks inode index live (NLinks=1, Dtime=0) with the given
// direct block pointers, zeroing every indirect pointer. It also marks the
// inode used in the inode bitmap and each referenced block used in the
// data bitmap, producing a self-consistent fixture unless the caller
// corrupts it afterward.
func (b *Builder) SetLiveFile(index int, direct []int) {
	ino := b.inodes[index]
	ino.NLinks = 1
	ino.Dtime = 0
	ino.Mode = 0100644
	ino.Single, ino.Double, ino.Triple = 0, 0, 0
	for i, block := range direct {
		if i >= DirectPointers {
			break
		}
		ino.Direct[i] = uint32(block)
		ino.BlockCount++
		if block >= FirstDataBlock && block < TotalBlocks {
			b.dataBitmap.Set(block)
			if _, ok := b.dataBlocks[block]; !ok {
				b.dataBlocks[block] = make([]byte, BlockSize)
			}
		}
	}
	b.inodeBitmap.Set(index)
}

// SetIndirectBlock writes a pointer block's contents (as a flat list of up
// to PointersPerBlock little-endian uint32 entries) into the data region
// at the given block number, and marks it used in the data bitmap.
func (b *Builder) SetIndirectBlock(block int, entries []int) {
	buf := make([]byte, BlockSize)
	for i, e := range entries {
		if i >= PointersPerBlock {
			break
		}
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(e))
	}
	b.dataBlocks[block] = buf
	if block >= FirstDataBlock && block < TotalBlocks {
		b.dataBitmap.Set(block)
	}
}

// MarkDataBitmap forces the data bitmap bit for block to the given value,
// independent of whatever data or inode pointers exist — used to build
// the "orphan bitmap bit" and "missing bitmap bit" fixtures.
func (b *Builder) MarkDataBitmap(block int, used bool) {
	if used {
		b.dataBitmap.Set(block)
	} else {
		b.dataBitmap.Clear(block)
	}
}

// MarkInodeBitmap forces the inode bitmap bit for index to the given value.
func (b *Builder) MarkInodeBitmap(index int, used bool) {
	if used {
		b.inodeBitmap.Set(index)
	} else {
		b.inodeBitmap.Clear(index)
	}
}

// Bytes renders the builder's in-memory state into a full
// TotalBlocks*BlockSize byte image.
func (b *Builder) Bytes() []byte {
	image := make([]byte, TotalBlocks*BlockSize)

	copy(image[SuperblockBlock*BlockSize:], b.superblock.Encode())
	copy(image[InodeBitmapBlock*BlockSize:], b.inodeBitmap)
	copy(image[DataBitmapBlock*BlockSize:], b.dataBitmap)

	table := EncodeInodeTable(b.inodes)
	copy(image[InodeTableStart*BlockSize:], table)

	for block, data := range b.dataBlocks {
		copy(image[block*BlockSize:], data)
	}

	return image
}

// Write renders the image and writes it to path, creating or truncating
// the file as needed.
func (b *Builder) Write(path string) error {
	return os.WriteFile(path, b.Bytes(), 0644)
}
