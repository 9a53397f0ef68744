// Package cargo models the cargo side of a function build: handler
// parsing, build profiles, and the command line and environment handed
// to the Rust toolchain.
package cargo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedHandler reports a handler string that does not name a
// cargo package.
var ErrMalformedHandler = errors.New("malformed handler")

// BuildUnit identifies what cargo builds for one function: the package
// named by the handler and the binary it produces.
type BuildUnit struct {
	Package string
	Bin     string
}

// ParseHandler splits a handler of the form "package.bin" into its build
// unit. The split happens at the first dot, so binary names may contain
// dots themselves. A bare "package" handler, or one with an empty binary
// segment, builds the binary named after the package.
func ParseHandler(handler string) (BuildUnit, error) {
	pkg, bin, _ := strings.Cut(handler, ".")
	if pkg == "" {
		return BuildUnit{}, fmt.Errorf("%w: %q does not name a cargo package", ErrMalformedHandler, handler)
	}
	if bin == "" {
		bin = pkg
	}
	return BuildUnit{Package: pkg, Bin: bin}, nil
}
