// Command wasmdecode decodes WebAssembly binaries and prints their contents.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"golang.org/x/term"
)

func main() {
	gs := &globalState{
		fs:        afero.NewOsFs(),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		lookupEnv: os.LookupEnv,
		isTTY:     func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
	if err := newRootCommand(gs).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(gs.stderr, "Error:", err)
		os.Exit(1)
	}
}
