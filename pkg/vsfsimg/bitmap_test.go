package vsfsimg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitmapSetClear(t *testing.T) {
	b := NewBitmap(make([]byte, BlockSize))

	assert.False(t, b.IsSet(0))
	assert.False(t, b.IsSet(8))

	b.Set(8)
	assert.True(t, b.IsSet(8))
	assert.False(t, b.IsSet(7))
	assert.False(t, b.IsSet(9))

	b.Clear(8)
	assert.False(t, b.IsSet(8))
}

func TestBitmapByteOrdering(t *testing.T) {
	b := NewBitmap(make([]byte, BlockSize))

	// bit 0 is byte 0, position 0 (LSB); bit 7 is byte 0, position 7.
	b.Set(0)
	assert.Equal(t, byte(0x01), b[0])

	b.Set(7)
	assert.Equal(t, byte(0x81), b[0])

	// bit 8 rolls over into byte 1.
	b.Set(8)
	assert.Equal(t, byte(0x01), b[1])
}
