package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsfs/vsfsck/pkg/vsfsimg"
)

var (
	buildOut     string
	buildCorrupt string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write a VSFS fixture image, optionally with a named corruption.",
	RunE: func(cmd *cobra.Command, args []string) error {
		b := vsfsimg.Canonical()

		kind := vsfsimg.Corruption(buildCorrupt)
		if err := vsfsimg.Apply(b, kind); err != nil {
			return err
		}

		if err := b.Write(buildOut); err != nil {
			return err
		}

		log.Infof("wrote %s", buildOut)
		if kind != vsfsimg.CorruptNone {
			log.Infof("applied corruption: %s", kind)
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildOut, "out", "vsfs.img", "path to write the image to")
	buildCmd.Flags().StringVar(&buildCorrupt, "corrupt", "", fmt.Sprintf(
		"introduce a named fault: one of %q, %q, %q, %q, %q",
		vsfsimg.CorruptMagic, vsfsimg.CorruptMissingBitmapBit, vsfsimg.CorruptOrphanBitmapBit,
		vsfsimg.CorruptBadPointer, vsfsimg.CorruptDuplicateReference))
}
