// Package prereq checks that the host has the tooling a build pass
// needs before any function build starts.
package prereq

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/marijnhurkens/serverless-rust/internal/cargo"
)

// Result contains the outcome of one prerequisite check.
type Result struct {
	Name       string `json:"name"`
	Required   bool   `json:"required"`
	Found      bool   `json:"found"`
	Version    string `json:"version,omitempty"`
	Path       string `json:"path,omitempty"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Checker performs prerequisite checks.
type Checker struct {
	dockerCLI string
	crossOS   string
	results   []Result
}

// NewChecker creates a new prerequisite Checker. Cargo is always
// checked; everything else is opt-in.
func NewChecker() *Checker {
	return &Checker{
		results: make([]Result, 0),
	}
}

// RequireDocker marks the container runtime as required. cli is the
// executable containerized builds will invoke.
func (c *Checker) RequireDocker(cli string) *Checker {
	c.dockerCLI = cli
	return c
}

// RequireCrossToolchain marks the cross-compilation toolchain for the
// given host OS as required. Hosts that build Linux binaries natively
// need nothing extra.
func (c *Checker) RequireCrossToolchain(goos string) *Checker {
	c.crossOS = goos
	return c
}

// Check performs all prerequisite checks and returns the results. An
// error is returned when any required tool is missing.
func (c *Checker) Check() ([]Result, error) {
	c.results = make([]Result, 0)

	c.checkCargo()

	if c.dockerCLI != "" {
		c.checkDocker()
	}
	if cargo.CrossTarget(c.crossOS) != "" {
		c.checkCrossTarget()
		if c.crossOS == "darwin" {
			c.checkMuslLinker()
		}
	}

	for _, result := range c.results {
		if result.Required && !result.Found {
			return c.results, fmt.Errorf("prerequisite not met: %s - %s", result.Name, result.Message)
		}
	}
	return c.results, nil
}

// Results returns the check results.
func (c *Checker) Results() []Result {
	return c.results
}

// AllPassed returns true if all checks passed.
func (c *Checker) AllPassed() bool {
	for _, result := range c.results {
		if !result.Found {
			return false
		}
	}
	return true
}

// checkCargo checks that the Rust toolchain is installed.
func (c *Checker) checkCargo() {
	result := Result{
		Name:     "cargo",
		Required: true,
	}

	path, err := exec.LookPath("cargo")
	if err != nil {
		result.Found = false
		result.Message = "cargo is not installed"
		result.Suggestion = "Install Rust via rustup: https://rustup.rs"
		c.results = append(c.results, result)
		return
	}
	result.Path = path

	// Parse version (e.g., "cargo 1.79.0 (ffa9cf99a 2024-06-03)")
	if output, err := exec.Command("cargo", "--version").Output(); err == nil {
		parts := strings.Fields(string(output))
		if len(parts) >= 2 {
			result.Version = parts[1]
		}
	}

	result.Found = true
	result.Message = fmt.Sprintf("cargo %s is available", result.Version)
	c.results = append(c.results, result)
}

// checkDocker checks that the container runtime is installed and the
// daemon answers.
func (c *Checker) checkDocker() {
	result := Result{
		Name:     c.dockerCLI,
		Required: true,
	}

	path, err := exec.LookPath(c.dockerCLI)
	if err != nil {
		result.Found = false
		result.Message = fmt.Sprintf("%s is not installed", c.dockerCLI)
		result.Suggestion = "Install Docker: https://docs.docker.com/get-docker/ (or set SLS_DOCKER_CLI)"
		c.results = append(c.results, result)
		return
	}
	result.Path = path

	if err := exec.Command(c.dockerCLI, "info").Run(); err != nil {
		result.Found = false
		result.Message = fmt.Sprintf("%s is not running", c.dockerCLI)
		if runtime.GOOS == "linux" {
			result.Suggestion = "Start Docker with: sudo systemctl start docker"
		} else {
			result.Suggestion = "Start Docker Desktop"
		}
		c.results = append(c.results, result)
		return
	}

	if output, err := exec.Command(c.dockerCLI, "version", "--format", "{{.Server.Version}}").Output(); err == nil {
		result.Version = strings.TrimSpace(string(output))
	}

	result.Found = true
	result.Message = fmt.Sprintf("%s %s is available", c.dockerCLI, result.Version)
	c.results = append(c.results, result)
}

// checkCrossTarget checks that the musl target is installed in the
// active toolchain.
func (c *Checker) checkCrossTarget() {
	result := Result{
		Name:     "rust target " + cargo.MuslTarget,
		Required: true,
	}

	if _, err := exec.LookPath("rustup"); err != nil {
		result.Found = false
		result.Message = "rustup is not installed, cannot verify the cross target"
		result.Suggestion = "Install rustup: https://rustup.rs"
		c.results = append(c.results, result)
		return
	}

	output, err := exec.Command("rustup", "target", "list", "--installed").Output()
	if err != nil || !strings.Contains(string(output), cargo.MuslTarget) {
		result.Found = false
		result.Message = fmt.Sprintf("target %s is not installed", cargo.MuslTarget)
		result.Suggestion = fmt.Sprintf("Run: rustup target add %s", cargo.MuslTarget)
		c.results = append(c.results, result)
		return
	}

	result.Found = true
	result.Message = fmt.Sprintf("target %s is installed", cargo.MuslTarget)
	c.results = append(c.results, result)
}

// checkMuslLinker checks for the macOS musl cross linker local builds
// export as TARGET_CC.
func (c *Checker) checkMuslLinker() {
	result := Result{
		Name:     "x86_64-linux-musl-gcc",
		Required: true,
	}

	path, err := exec.LookPath("x86_64-linux-musl-gcc")
	if err != nil {
		result.Found = false
		result.Message = "musl cross linker is not installed"
		result.Suggestion = "Run: brew install filosottile/musl-cross/musl-cross"
		c.results = append(c.results, result)
		return
	}

	result.Found = true
	result.Path = path
	result.Message = "musl cross linker is available"
	c.results = append(c.results, result)
}
