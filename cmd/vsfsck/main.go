// Command vsfsck checks (and repairs) a VSFS image. It takes no flags,
// no environment variables, and no configuration file: it always opens
// "vsfs.img" in the current directory, and its only output is the
// literal, line-oriented report printed to stdout. This fixed contract
// is deliberate — see pkg/vsfsck for the checks it runs.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vsfs/vsfsck/pkg/vsfsck"
)

const imagePath = "vsfs.img"

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetOutput(os.Stderr)
}

func main() {
	report, err := vsfsck.Run(imagePath)
	if err != nil {
		logrus.WithError(err).Fatalf("could not check %s", imagePath)
	}

	for _, line := range report.Lines() {
		fmt.Println(line)
	}
}
