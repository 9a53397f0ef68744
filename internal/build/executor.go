// Package build orchestrates Rust function builds: strategy selection,
// toolchain execution, and the pass over a service's functions.
package build

import (
	"context"

	"github.com/marijnhurkens/serverless-rust/internal/cargo"
	"github.com/marijnhurkens/serverless-rust/internal/config"
)

// Job is one function build: the unit to compile, the settings it
// resolved to, and where the bundle must land.
type Job struct {
	Function string
	Unit     cargo.BuildUnit
	Settings config.Settings
	SrcDir   string
	Artifact string
}

// Result is the outcome of one executor invocation. An executor never
// returns an error for a build that ran and failed; it reports the exit
// status here and leaves interpretation to the pass. Err is reserved for
// processes that could not run at all and for packaging failures.
type Result struct {
	ExitCode int
	Err      error
}

// OK reports whether the build ran to completion and the bundle exists.
func (r Result) OK() bool {
	return r.ExitCode == 0 && r.Err == nil
}

// Executor runs one build job to completion, blocking until the
// underlying process exits.
type Executor interface {
	Build(ctx context.Context, job Job) Result
}
