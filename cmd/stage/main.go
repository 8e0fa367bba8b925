// Command stage runs node-tree scenarios headlessly and reports how input
// was routed through them.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/stage/cmd/stage/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cmd.ExitCode(err))
	}
}
