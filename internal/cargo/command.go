package cargo

import "strings"

// MuslTarget is the cross-compilation target producing static Linux
// binaries that run on the Lambda execution environment.
const MuslTarget = "x86_64-unknown-linux-musl"

// Environment variable names consumed by local builds.
const (
	envRustFlags = "RUSTFLAGS"
	envTargetCC  = "TARGET_CC"
)

// crossBuildOS lists host operating systems that cannot produce Linux
// binaries natively, so local builds on them target MuslTarget.
var crossBuildOS = map[string]bool{
	"darwin":  true,
	"windows": true,
}

// linkerOverride is the toolchain environment required to link
// MuslTarget binaries on a particular host OS.
type linkerOverride struct {
	targetCC string
	linkFlag string
}

var linkerOverrides = map[string]linkerOverride{
	"darwin":  {targetCC: "x86_64-linux-musl-gcc", linkFlag: "-Clinker=x86_64-linux-musl-gcc"},
	"windows": {targetCC: "rust-lld", linkFlag: "-Clinker=rust-lld"},
}

// CrossTarget returns the --target triple local builds need on the given
// host OS, or the empty string when the host builds Linux binaries
// natively.
func CrossTarget(goos string) string {
	if crossBuildOS[goos] {
		return MuslTarget
	}
	return ""
}

// SplitFlags tokenizes user-supplied extra flags on whitespace, dropping
// empty tokens.
func SplitFlags(flags string) []string {
	return strings.Fields(flags)
}

// BuildArgs assembles the cargo argument list for one local build:
// release flag unless the profile is debug, the cross target when the
// host needs one, then any user flags.
func BuildArgs(profile Profile, cargoFlags, goos string) []string {
	args := []string{"build"}
	if profile != ProfileDebug {
		args = append(args, "--release")
	}
	if target := CrossTarget(goos); target != "" {
		args = append(args, "--target", target)
	}
	return append(args, SplitFlags(cargoFlags)...)
}

// BuildEnv returns the environment for a local build: base, plus the
// linker overrides the host OS requires for MuslTarget. Any RUSTFLAGS
// already present are extended rather than replaced, so user flags
// survive the override.
func BuildEnv(base []string, goos string) []string {
	override, ok := linkerOverrides[goos]
	if !ok {
		return base
	}
	env := make([]string, 0, len(base)+2)
	rustFlags := ""
	for _, kv := range base {
		switch {
		case strings.HasPrefix(kv, envRustFlags+"="):
			rustFlags = strings.TrimPrefix(kv, envRustFlags+"=")
		case strings.HasPrefix(kv, envTargetCC+"="):
			// replaced below
		default:
			env = append(env, kv)
		}
	}
	if rustFlags != "" {
		rustFlags += " "
	}
	env = append(env, envTargetCC+"="+override.targetCC)
	env = append(env, envRustFlags+"="+rustFlags+override.linkFlag)
	return env
}
