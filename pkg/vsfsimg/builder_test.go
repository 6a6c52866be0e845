package vsfsimg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalFixtureIsConsistent(t *testing.T) {
	b := Canonical()
	image := b.Bytes()
	require.Len(t, image, TotalBlocks*BlockSize)

	sb, err := DecodeSuperblock(image[SuperblockBlock*BlockSize : (SuperblockBlock+1)*BlockSize])
	require.NoError(t, err)
	assert.Equal(t, uint16(MagicNumber), sb.Magic)

	ino := b.Inode(0)
	assert.True(t, ino.IsLive())
	assert.EqualValues(t, FirstDataBlock, ino.Direct[0])
	assert.True(t, b.dataBitmap.IsSet(FirstDataBlock))
	assert.True(t, b.inodeBitmap.IsSet(0))
}

func TestApplyBadPointerCorruption(t *testing.T) {
	b := Canonical()
	require.NoError(t, Apply(b, CorruptBadPointer))
	assert.EqualValues(t, 200, b.Inode(0).Direct[0])
}

func TestApplyUnrecognizedCorruption(t *testing.T) {
	b := Canonical()
	err := Apply(b, Corruption("not-a-real-scenario"))
	assert.Error(t, err)
}

func TestApplyDuplicateReference(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, Apply(b, CorruptDuplicateReference))
	assert.EqualValues(t, 15, b.Inode(0).Direct[0])
	assert.EqualValues(t, 15, b.Inode(1).Direct[0])
	assert.True(t, b.dataBitmap.IsSet(15))
}
