package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pow3r/cashout/internal/config"
	"github.com/pow3r/cashout/pkg/cashout"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cashout.SetupLogger()

	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		if code, ok := isExitError(err); ok {
			os.Exit(code)
		}
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
