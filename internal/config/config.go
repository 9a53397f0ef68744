// Package config resolves the effective build settings for a function
// from the service-wide defaults and the function's own override block.
//
// Precedence, highest first: function override, service custom block,
// built-in default. A nil pointer means the scope does not set the key,
// so resolution falls through to the next scope.
package config

import (
	"github.com/marijnhurkens/serverless-rust/internal/cargo"
)

// Built-in defaults applied when neither the service nor the function
// sets a value.
const (
	DefaultDockerImage = "softprops/lambda-rust"
	DefaultDockerTag   = "latest"
)

// Block is one rust configuration block as it appears in the service
// manifest, either under custom.rust or on a single function.
type Block struct {
	CargoFlags  *string `yaml:"cargoFlags"`
	DockerImage *string `yaml:"dockerImage"`
	DockerTag   *string `yaml:"dockerTag"`
	Dockerless  *bool   `yaml:"dockerless"`
	Profile     *string `yaml:"profile"`
}

// Global is the service-wide block under custom.rust. DockerPath has no
// per-function equivalent; when set it replaces the project directory as
// the source mount of containerized builds.
type Global struct {
	Block      `yaml:",inline"`
	DockerPath *string `yaml:"dockerPath"`
}

// Settings is the fully resolved configuration one build runs with.
type Settings struct {
	CargoFlags  string
	DockerImage string
	DockerTag   string
	Dockerless  bool
	Profile     cargo.Profile
	DockerPath  string
}

// Resolve merges the global block and an optional per-function override
// into effective settings.
func Resolve(global Global, override *Block) Settings {
	if override == nil {
		override = &Block{}
	}
	s := Settings{
		CargoFlags:  stringOr(override.CargoFlags, global.CargoFlags, ""),
		DockerImage: stringOr(override.DockerImage, global.DockerImage, DefaultDockerImage),
		DockerTag:   stringOr(override.DockerTag, global.DockerTag, DefaultDockerTag),
		Dockerless:  boolOr(override.Dockerless, global.Dockerless, false),
		Profile:     cargo.ParseProfile(stringOr(override.Profile, global.Profile, "")),
	}
	if global.DockerPath != nil {
		s.DockerPath = *global.DockerPath
	}
	return s
}

func stringOr(override, global *string, def string) string {
	if override != nil {
		return *override
	}
	if global != nil {
		return *global
	}
	return def
}

func boolOr(override, global *bool, def bool) bool {
	if override != nil {
		return *override
	}
	if global != nil {
		return *global
	}
	return def
}
