package build

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/marijnhurkens/serverless-rust/internal/cargo"
	"github.com/marijnhurkens/serverless-rust/internal/config"
	"github.com/marijnhurkens/serverless-rust/internal/manifest"
	"github.com/marijnhurkens/serverless-rust/internal/output"
	"github.com/marijnhurkens/serverless-rust/internal/paths"
)

// Markers recognized and produced by a pass.
const (
	// Provider is the only provider whose functions this builder
	// handles; anything else makes the pass a silent no-op.
	Provider = "aws"

	// RuntimeRust marks a function as a Rust build target.
	RuntimeRust = "rust"

	// RuntimeProvided replaces RuntimeRust after a successful build, so
	// downstream tooling treats the function as a precompiled custom
	// handler.
	RuntimeProvided = "provided"
)

// Options configure one build pass.
type Options struct {
	// SrcDir is the project root containing Cargo.toml.
	SrcDir string

	// Function restricts the pass to one named function. Empty builds
	// every matching function.
	Function string

	// Local and Docker override the strategy executors. Tests inject
	// stubs here; nil selects the real ones.
	Local  Executor
	Docker Executor

	Logger *output.Logger
}

// FunctionResult describes one successfully built function. The caller
// applies it to the manifest: runtime rewrite plus artifact assignment.
type FunctionResult struct {
	Name     string   `json:"name"`
	Runtime  string   `json:"runtime"`
	Artifact string   `json:"artifact"`
	Strategy Strategy `json:"strategy"`
}

// PassResult is the outcome of a completed pass.
type PassResult struct {
	ID        string           `json:"id"`
	Functions []FunctionResult `json:"functions"`

	// ServiceRuntime carries the replacement for the provider-level
	// runtime when that also held the rust marker, empty otherwise.
	ServiceRuntime string `json:"serviceRuntime,omitempty"`

	// Skipped is set when the provider is unsupported and the pass did
	// nothing at all.
	Skipped bool `json:"skipped,omitempty"`
}

// Run executes one build pass over the manifest's functions in
// declaration order, stopping at the first failure. The manifest is not
// mutated; callers apply the returned results.
func Run(ctx context.Context, m *manifest.Manifest, opts Options) (*PassResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = output.DefaultLogger
	}

	if m.Provider.Name != Provider {
		logger.Debug("Provider %q is not %q, skipping rust builds", m.Provider.Name, Provider)
		return &PassResult{Skipped: true}, nil
	}

	local := opts.Local
	if local == nil {
		local = NewLocalExecutor(logger)
	}
	docker := opts.Docker
	if docker == nil {
		docker = NewDockerExecutor(logger)
	}

	var targets []*manifest.Function
	if opts.Function != "" {
		fn := m.Get(opts.Function)
		if fn == nil {
			return nil, fmt.Errorf("function %q not found in service %s", opts.Function, m.Service)
		}
		targets = []*manifest.Function{fn}
	} else {
		for i := range m.Functions {
			targets = append(targets, &m.Functions[i])
		}
	}

	pass := &PassResult{ID: uuid.NewString()}
	logger.Debug("Starting build pass %s (%d candidate functions)", pass.ID, len(targets))

	matched := 0
	for _, fn := range targets {
		if runtime := m.EffectiveRuntime(fn); runtime != RuntimeRust {
			logger.Debug("Skipping %s: runtime %q", fn.Name, runtime)
			continue
		}
		matched++

		unit, err := cargo.ParseHandler(fn.Handler)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fn.Name, err)
		}
		settings := config.Resolve(m.Custom.Rust, fn.Rust)
		strategy := SelectStrategy(settings.Dockerless)

		job := Job{
			Function: fn.Name,
			Unit:     unit,
			Settings: settings,
			SrcDir:   opts.SrcDir,
			Artifact: paths.Artifact(opts.SrcDir, settings.Profile.Dir(), unit.Bin),
		}

		logger.Info("Building Rust function %s (%s strategy, %s profile)", fn.Name, strategy, settings.Profile)
		var res Result
		if strategy == StrategyLocal {
			res = local.Build(ctx, job)
		} else {
			res = docker.Build(ctx, job)
		}
		if !res.OK() {
			logger.Error("Build of function %s ended in failure", fn.Name)
			return nil, fmt.Errorf("function %s: %w", fn.Name, buildError(res))
		}

		logger.Success("Built %s, artifact at %s", fn.Name, job.Artifact)
		pass.Functions = append(pass.Functions, FunctionResult{
			Name:     fn.Name,
			Runtime:  RuntimeProvided,
			Artifact: job.Artifact,
			Strategy: strategy,
		})
	}

	if matched == 0 {
		return nil, fmt.Errorf("%w: no function declares the %q runtime", ErrNoRustFunctions, RuntimeRust)
	}
	if m.Provider.Runtime == RuntimeRust {
		pass.ServiceRuntime = RuntimeProvided
	}
	return pass, nil
}

// buildError classifies a failed result.
func buildError(res Result) error {
	if res.Err != nil {
		return res.Err
	}
	return fmt.Errorf("%w: process exited with status %d", ErrToolchain, res.ExitCode)
}
