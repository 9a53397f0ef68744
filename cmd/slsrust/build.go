package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marijnhurkens/serverless-rust/internal/build"
	"github.com/marijnhurkens/serverless-rust/internal/cargo"
	"github.com/marijnhurkens/serverless-rust/internal/manifest"
	"github.com/marijnhurkens/serverless-rust/internal/output"
	"github.com/marijnhurkens/serverless-rust/internal/paths"
	"github.com/marijnhurkens/serverless-rust/internal/watcher"
)

var (
	buildFunction string
	buildWatch    bool
)

func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile and package the service's Rust functions",
		Long: `Build compiles every function of the service whose runtime is rust
and packages each binary as a bootstrap zip under target/lambda/.

Functions build in declaration order and the pass stops at the first
failure. By default compilation runs inside the softprops/lambda-rust
Docker image; set dockerless (globally under custom.rust, or per
function) to use the host cargo toolchain instead.

Examples:
  # Build all rust functions
  slsrust build

  # Build one function only
  slsrust build --function hello

  # Rebuild on every source change
  slsrust build --watch

  # Machine-readable results
  slsrust build --json`,
		RunE: runBuild,
	}

	cmd.Flags().StringVarP(&buildFunction, "function", "f", "",
		"Build only the named function")
	cmd.Flags().BoolVarP(&buildWatch, "watch", "w", false,
		"Watch Rust sources and rebuild on change")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger := output.DefaultLogger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := loadManifest()
	if err != nil {
		return err
	}
	warnCargoLayout(logger, m)

	if !buildWatch {
		return buildOnce(ctx, logger, m)
	}

	// Watch mode: a failed pass is reported but keeps the watcher alive,
	// the next change triggers a fresh attempt.
	if err := buildOnce(ctx, logger, m); err != nil {
		logger.Error("%v", err)
	}
	return watcher.New(projectDir, logger).Run(ctx, func(ctx context.Context) error {
		fresh, err := loadManifest()
		if err != nil {
			return err
		}
		return buildOnce(ctx, logger, fresh)
	})
}

// buildOnce runs a single pass and applies the results to the manifest
// in memory.
func buildOnce(ctx context.Context, logger *output.Logger, m *manifest.Manifest) error {
	pass, err := build.Run(ctx, m, build.Options{
		SrcDir:   projectDir,
		Function: buildFunction,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	if pass.Skipped {
		logger.Warn("Provider %q is not %q, nothing to build", m.Provider.Name, build.Provider)
		return nil
	}

	for _, fr := range pass.Functions {
		m.Apply(fr.Name, fr.Runtime, fr.Artifact)
	}
	if pass.ServiceRuntime != "" {
		m.Provider.Runtime = pass.ServiceRuntime
	}

	if jsonMode {
		data, err := json.MarshalIndent(pass, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	logger.Println("")
	logger.Bold("Built %d function(s) for service %s", len(pass.Functions), m.Service)
	for _, fr := range pass.Functions {
		logger.Info("  %-20s %-10s %s", fr.Name, fr.Strategy, fr.Artifact)
	}
	return nil
}

// warnCargoLayout compares the manifest's rust handlers against the
// crate layout in Cargo.toml and warns about packages cargo will not
// find. Builds proceed regardless, cargo gives the authoritative error.
func warnCargoLayout(logger *output.Logger, m *manifest.Manifest) {
	cm, err := cargo.LoadManifest(paths.CargoTomlPath(projectDir))
	if err != nil {
		logger.Debug("Skipping crate layout check: %v", err)
		return
	}
	for i := range m.Functions {
		fn := &m.Functions[i]
		if m.EffectiveRuntime(fn) != build.RuntimeRust {
			continue
		}
		unit, err := cargo.ParseHandler(fn.Handler)
		if err != nil {
			continue
		}
		if !cm.HasPackage(unit.Package) {
			logger.Warn("function %s: package %q not found in %s", fn.Name, unit.Package, paths.CargoToml)
		}
	}
}
