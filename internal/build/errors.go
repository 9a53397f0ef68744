package build

import "errors"

// Sentinel errors surfaced by a build pass.
var (
	// ErrToolchain reports a build process that exited nonzero or could
	// not be started.
	ErrToolchain = errors.New("build toolchain failed")

	// ErrNoRustFunctions reports a pass that found no function carrying
	// the rust runtime marker, which usually means a misconfigured
	// manifest rather than an intentional no-op.
	ErrNoRustFunctions = errors.New("no rust functions found")
)
