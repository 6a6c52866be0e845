package vsfsimg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageReadWriteBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vsfs.img")
	require.NoError(t, Canonical().Write(path))

	img, err := Open(path)
	require.NoError(t, err)
	defer img.Close()

	sbBlock, err := img.ReadBlock(SuperblockBlock)
	require.NoError(t, err)

	sb, err := DecodeSuperblock(sbBlock)
	require.NoError(t, err)
	assert.Equal(t, uint16(MagicNumber), sb.Magic)

	buf := make([]byte, BlockSize)
	buf[0] = 0x42
	require.NoError(t, img.WriteBlock(DataBitmapBlock, buf))

	reread, err := img.ReadBlock(DataBitmapBlock)
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), reread[0])
}

func TestImageOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.img"))
	require.Error(t, err)
}
