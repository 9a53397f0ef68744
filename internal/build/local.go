package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/marijnhurkens/serverless-rust/internal/artifact"
	"github.com/marijnhurkens/serverless-rust/internal/cargo"
	"github.com/marijnhurkens/serverless-rust/internal/output"
	"github.com/marijnhurkens/serverless-rust/internal/paths"
)

// cargoBin is the toolchain entry point local builds invoke.
const cargoBin = "cargo"

// LocalExecutor builds functions with the host's cargo toolchain and
// packages the produced binary itself.
type LocalExecutor struct {
	Logger *output.Logger

	// Cargo overrides the cargo executable. Tests point this at stubs.
	Cargo string

	// GOOS overrides the host OS driving cross-compilation decisions.
	GOOS string
}

// NewLocalExecutor returns an executor using the host toolchain.
func NewLocalExecutor(logger *output.Logger) *LocalExecutor {
	return &LocalExecutor{Logger: logger}
}

// Build compiles the job's unit and zips the result into the job's
// artifact path. Toolchain output streams through unbuffered so compile
// progress is visible live.
func (e *LocalExecutor) Build(ctx context.Context, job Job) Result {
	// TODO: confirm whether local builds should select -p <package> the
	// way containerized builds do; upstream has never passed it here and
	// relies on the project directory instead.
	args := cargo.BuildArgs(job.Settings.Profile, job.Settings.CargoFlags, e.goos())

	e.logger().Debug("Running %s %v in %s", e.cargo(), args, job.SrcDir)
	cmd := exec.CommandContext(ctx, e.cargo(), args...)
	cmd.Dir = job.SrcDir
	cmd.Env = cargo.BuildEnv(os.Environ(), e.goos())
	cmd.Stdout = e.logger().Writer()
	cmd.Stderr = e.logger().ErrWriter()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode()}
		}
		return Result{Err: fmt.Errorf("%w: running %s: %v", ErrToolchain, e.cargo(), err)}
	}

	bin := paths.BuiltBinary(job.SrcDir, cargo.CrossTarget(e.goos()), job.Settings.Profile.Dir(), job.Unit.Bin)
	e.logger().Debug("Packaging %s into %s", bin, job.Artifact)
	if err := artifact.Package(bin, job.Artifact); err != nil {
		return Result{Err: err}
	}
	return Result{}
}

func (e *LocalExecutor) cargo() string {
	if e.Cargo != "" {
		return e.Cargo
	}
	return cargoBin
}

func (e *LocalExecutor) goos() string {
	if e.GOOS != "" {
		return e.GOOS
	}
	return runtime.GOOS
}

func (e *LocalExecutor) logger() *output.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return output.DefaultLogger
}
