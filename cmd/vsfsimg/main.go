// Command vsfsimg builds and inspects VSFS fixture images. It exists
// alongside the fixed-contract vsfsck checker purely as tooling: a way
// to synthesize clean or deliberately-corrupted images for manual
// testing, and to look inside one without running the checker. Unlike
// vsfsck it is a normal cobra-based multi-command CLI.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.StandardLogger()

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

var rootCmd = &cobra.Command{
	Use:   "vsfsimg",
	Short: "Build and inspect VSFS fixture images.",
}

func main() {
	rootCmd.AddCommand(buildCmd, inspectCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
