package main

import (
	"github.com/spf13/cobra"

	"github.com/vsfs/vsfsck/pkg/vsfsimg"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect IMAGE",
	Short: "Print the superblock, inode liveness, and bitmap occupancy of a VSFS image.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := vsfsimg.Open(args[0])
		if err != nil {
			return err
		}
		defer img.Close()

		sbBlock, err := img.ReadBlock(vsfsimg.SuperblockBlock)
		if err != nil {
			return err
		}
		sb, err := vsfsimg.DecodeSuperblock(sbBlock)
		if err != nil {
			return err
		}
		log.Infof("magic=0x%x block_size=%d total_blocks=%d inode_size=%d inode_count=%d",
			sb.Magic, sb.BlockSize, sb.TotalBlocks, sb.InodeSize, sb.InodeCount)
		log.Infof("inode_bitmap_block=%d data_bitmap_block=%d inode_table_start=%d first_data_block=%d",
			sb.InodeBitmapBlock, sb.DataBitmapBlock, sb.InodeTableStart, sb.FirstDataBlock)

		inodeBitmapBlock, err := img.ReadBlock(int(sb.InodeBitmapBlock))
		if err != nil {
			return err
		}
		inodeBitmap := vsfsimg.NewBitmap(inodeBitmapBlock)

		dataBitmapBlock, err := img.ReadBlock(int(sb.DataBitmapBlock))
		if err != nil {
			return err
		}
		dataBitmap := vsfsimg.NewBitmap(dataBitmapBlock)

		table := make([]byte, 0, vsfsimg.InodeTableBlocks*vsfsimg.BlockSize)
		for i := 0; i < vsfsimg.InodeTableBlocks; i++ {
			block, err := img.ReadBlock(int(sb.InodeTableStart) + i)
			if err != nil {
				return err
			}
			table = append(table, block...)
		}
		inodes, err := vsfsimg.DecodeInodeTable(table, vsfsimg.MaxInodeCount)
		if err != nil {
			return err
		}

		liveCount := 0
		for i, ino := range inodes {
			live := ino.IsLive()
			if live {
				liveCount++
				log.Infof("inode %d: live, bitmap=%v, n_links=%d, block_count=%d", i, inodeBitmap.IsSet(i), ino.NLinks, ino.BlockCount)
			}
		}
		log.Infof("%d live inode(s) of %d", liveCount, len(inodes))

		usedBlocks := 0
		for b := int(sb.FirstDataBlock); b < int(sb.TotalBlocks); b++ {
			if dataBitmap.IsSet(b) {
				usedBlocks++
			}
		}
		log.Infof("%d data block(s) marked used", usedBlocks)
		return nil
	},
}
