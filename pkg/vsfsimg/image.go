package vsfsimg

import (
	"io"
	"os"
)

// Image provides block-addressed read/write access to a VSFS disk image
// backed by a regular file opened for read+write random access. It plays
// the same role pkg/vdecompiler's IO type plays for ext images, but VSFS
// has no partition table or container formats to unwrap, so it is a much
// thinner wrapper directly over the backing *os.File.
type Image struct {
	f    *os.File
	path string
}

// Open opens the VSFS image at path for read+write random access.
func Open(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, wrapf(ErrImageUnavailable, "opening %s: %v", path, err)
	}
	return &Image{f: f, path: path}, nil
}

// Close closes the underlying backing file.
func (img *Image) Close() error {
	return img.f.Close()
}

// Path returns the path the image was opened from.
func (img *Image) Path() string {
	return img.path
}

// ReadBlock reads the full BlockSize-byte contents of block n.
func (img *Image) ReadBlock(n int) ([]byte, error) {
	buf := make([]byte, BlockSize)
	if err := img.ReadAt(int64(n)*BlockSize, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteBlock writes buf (which must be exactly BlockSize bytes) to block n.
func (img *Image) WriteBlock(n int, buf []byte) error {
	if len(buf) != BlockSize {
		panic("vsfsimg: WriteBlock requires exactly BlockSize bytes")
	}
	return img.WriteAt(int64(n)*BlockSize, buf)
}

// ReadAt fills buf from the image starting at the given byte offset,
// failing with ErrShortRead if fewer bytes than len(buf) are available.
func (img *Image) ReadAt(offset int64, buf []byte) error {
	n, err := img.f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return wrapf(err, "reading %d bytes at offset %d", len(buf), offset)
	}
	if n != len(buf) {
		return wrapf(ErrShortRead, "read %d of %d bytes at offset %d", n, len(buf), offset)
	}
	return nil
}

// WriteAt writes buf to the image starting at the given byte offset,
// failing with ErrShortWrite if fewer bytes than len(buf) were transferred.
func (img *Image) WriteAt(offset int64, buf []byte) error {
	n, err := img.f.WriteAt(buf, offset)
	if err != nil {
		return wrapf(err, "writing %d bytes at offset %d", len(buf), offset)
	}
	if n != len(buf) {
		return wrapf(ErrShortWrite, "wrote %d of %d bytes at offset %d", n, len(buf), offset)
	}
	return nil
}
