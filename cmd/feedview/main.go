package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"feedview/internal/app"
	"feedview/pkg/banner"
	"feedview/pkg/config"
	"feedview/pkg/logger"
	"feedview/pkg/shutdown"
	"feedview/pkg/state"
)

// set build metadata - via ldflags during build/release
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// load .env file if present
	_ = godotenv.Load(".env")

	flags := config.ParseCommandFlags()
	if flags.Version {
		fmt.Printf("feedview %s (%s) built %s\n", version, commit, buildDate)
		return
	}

	eff, err := config.LoadEffective(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "feedview: %v\n", err)
		os.Exit(2)
	}

	a, err := app.New(eff, version, commit, buildDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "feedview: %v\n", err)
		shutdown.Abort("failed to initialize feedview", err, state.PathsVar.Root, 2)
	}
	defer a.Close()
	defer logger.Sync()

	banner.PrintWithEff(eff, versionString())

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	if err := a.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "feedview: %v\n", err)
		shutdown.Abort("session failed", err, state.PathsVar.Root, 2)
	}
}

// versionString folds commit and build date into the banner version when
// they were stamped in.
func versionString() string {
	v := version
	if commit != "none" {
		v = v + " (" + commit + ")"
	}
	if buildDate != "unknown" {
		v = v + " @ " + buildDate
	}
	return v
}
