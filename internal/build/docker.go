package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/marijnhurkens/serverless-rust/internal/cargo"
	"github.com/marijnhurkens/serverless-rust/internal/output"
	"github.com/marijnhurkens/serverless-rust/internal/paths"
)

// Environment variables steering containerized builds.
const (
	// EnvDockerCLI overrides the container runtime executable.
	EnvDockerCLI = "SLS_DOCKER_CLI"

	// EnvDockerArgs supplies extra raw arguments, whitespace separated,
	// inserted after the fixed arguments and before the image reference.
	EnvDockerArgs = "SLS_DOCKER_ARGS"
)

// DefaultDockerCLI is invoked when EnvDockerCLI is unset.
const DefaultDockerCLI = "docker"

// Mount points fixed by the builder image's entry script.
const (
	containerSrcMount      = "/code"
	containerRegistryMount = "/root/.cargo/registry"
	containerGitMount      = "/root/.cargo/git"
)

// DockerExecutor builds functions inside the configured builder image.
// The image's entry script compiles, strips, and zips the function on
// its own and leaves the bundle under the mounted target directory, so
// this executor never packages anything itself.
type DockerExecutor struct {
	Logger *output.Logger
}

// NewDockerExecutor returns an executor for containerized builds.
func NewDockerExecutor(logger *output.Logger) *DockerExecutor {
	return &DockerExecutor{Logger: logger}
}

// Build runs one containerized build, blocking until the container
// exits.
func (e *DockerExecutor) Build(ctx context.Context, job Job) Result {
	cli := os.Getenv(EnvDockerCLI)
	if cli == "" {
		cli = DefaultDockerCLI
	}
	args := runArgs(job, paths.CargoHome(), cargo.SplitFlags(os.Getenv(EnvDockerArgs)))

	e.logger().Debug("Running %s %v", cli, args)
	cmd := exec.CommandContext(ctx, cli, args...)
	cmd.Stdout = e.logger().Writer()
	cmd.Stderr = e.logger().ErrWriter()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode()}
		}
		return Result{Err: fmt.Errorf("%w: running %s: %v", ErrToolchain, cli, err)}
	}
	return Result{}
}

func (e *DockerExecutor) logger() *output.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return output.DefaultLogger
}

// runArgs assembles the container invocation for one job. Extra args go
// between the fixed arguments and the image reference, verbatim.
func runArgs(job Job, cargoHome string, extra []string) []string {
	src := job.Settings.DockerPath
	if src == "" {
		src = job.SrcDir
	}
	args := []string{
		"run", "--rm", "-t",
		"-e", "BIN=" + job.Unit.Bin,
		"-v", src + ":" + containerSrcMount,
		"-v", paths.CargoRegistry(cargoHome) + ":" + containerRegistryMount,
		"-v", paths.CargoGit(cargoHome) + ":" + containerGitMount,
	}
	args = append(args, extra...)
	args = append(args,
		"-e", "PROFILE="+job.Settings.Profile.Dir(),
		"-e", "CARGO_FLAGS="+containerCargoFlags(job),
	)
	return append(args, job.Settings.DockerImage+":"+job.Settings.DockerTag)
}

// containerCargoFlags combines the user's extra flags with the package
// selector. The entry script splats the value into its own cargo
// invocation, which is why these travel as an environment variable and
// not as arguments.
func containerCargoFlags(job Job) string {
	flags := job.Settings.CargoFlags
	if flags != "" {
		flags += " "
	}
	return flags + "-p " + job.Unit.Package
}
