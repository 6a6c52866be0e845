package vsfsimg

import (
	"bytes"
	"encoding/binary"
)

// Inode is the packed, 256-byte on-disk inode record. Layout matches spec
// exactly: ten 32-bit scalar fields, twelve direct pointers, three
// indirect pointers, then padding to InodeSize.
type Inode struct {
	Mode        uint32
	UID         uint32
	GID         uint32
	FileSize    uint32
	Atime       uint32
	Ctime       uint32
	Mtime       uint32
	Dtime       uint32
	NLinks      uint32
	BlockCount  uint32
	Direct      [DirectPointers]uint32
	Single      uint32
	Double      uint32
	Triple      uint32
	Reserved    [156]byte
}

// IsLive reports whether the inode is live per spec: n_links > 0 and
// dtime == 0. A free inode is one that fails this test.
func (ino *Inode) IsLive() bool {
	return ino.NLinks > 0 && ino.Dtime == 0
}

// DecodeInode decodes a single packed Inode record out of an InodeSize-byte
// buffer.
func DecodeInode(buf []byte) (*Inode, error) {
	if len(buf) != InodeSize {
		panic("vsfsimg: DecodeInode requires exactly InodeSize bytes")
	}
	ino := new(Inode)
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, ino); err != nil {
		return nil, wrapf(err, "decoding inode")
	}
	return ino, nil
}

// Encode re-packs the Inode into an InodeSize-byte buffer.
func (ino *Inode) Encode() []byte {
	buf := new(bytes.Buffer)
	buf.Grow(InodeSize)
	if err := binary.Write(buf, binary.LittleEndian, ino); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// DecodeInodeTable decodes count consecutive packed Inode records out of a
// buffer of count*InodeSize bytes, in on-disk order.
func DecodeInodeTable(buf []byte, count int) ([]*Inode, error) {
	if len(buf) < count*InodeSize {
		panic("vsfsimg: DecodeInodeTable buffer too small")
	}
	table := make([]*Inode, count)
	for i := 0; i < count; i++ {
		ino, err := DecodeInode(buf[i*InodeSize : (i+1)*InodeSize])
		if err != nil {
			return nil, wrapf(err, "decoding inode %d", i)
		}
		table[i] = ino
	}
	return table, nil
}

// EncodeInodeTable re-packs a slice of inodes back into a contiguous
// byte buffer in the same order.
func EncodeInodeTable(table []*Inode) []byte {
	buf := make([]byte, 0, len(table)*InodeSize)
	for _, ino := range table {
		buf = append(buf, ino.Encode()...)
	}
	return buf
}
