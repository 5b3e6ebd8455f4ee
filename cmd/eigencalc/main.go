// Command eigencalc computes eigenvalues of dense real matrices with the
// power iteration, fixed-shift inverse iteration, and dynamic-shift inverse
// iteration algorithms, either from the command line or as an HTTP server.
package main

import (
	"context"
	"os"

	"github.com/agbru/eigencalc/internal/app"
	apperrors "github.com/agbru/eigencalc/internal/errors"
)

func main() {
	os.Exit(run())
}

// run contains the real logic so that deferred cleanup executes before the
// process exits. os.Exit in main would skip deferred calls.
func run() int {
	// --version works in any position and short-circuits everything else
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return apperrors.ExitSuccess
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			return apperrors.ExitSuccess
		}
		return apperrors.ExitErrorConfig
	}

	return application.Run(context.Background(), os.Stdout)
}
