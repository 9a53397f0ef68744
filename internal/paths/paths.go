// Package paths provides centralized path management for slsrust.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Cargo output layout constants relative to the project root.
const (
	TargetDir = "target"
	LambdaDir = "lambda"
)

// Artifact naming constants.
const (
	// BootstrapName is the file name the provided runtime executes.
	BootstrapName = "bootstrap"
	ZipExt        = ".zip"
)

// Cargo home layout constants.
const (
	CargoHomeEnv    = "CARGO_HOME"
	DefaultCargoDir = ".cargo"
	RegistryDir     = "registry"
	GitDir          = "git"
)

// Project file names.
const (
	ServerlessYml  = "serverless.yml"
	ServerlessYaml = "serverless.yaml"
	CargoToml      = "Cargo.toml"
	CargoLock      = "Cargo.lock"
)

// CargoHome returns $CARGO_HOME, or ~/.cargo when unset.
func CargoHome() string {
	if home := os.Getenv(CargoHomeEnv); home != "" {
		return home
	}
	return filepath.Join(xdg.Home, DefaultCargoDir)
}

// Cargo cache paths mounted into containerized builds.

func CargoRegistry(cargoHome string) string {
	return filepath.Join(cargoHome, RegistryDir)
}

func CargoGit(cargoHome string) string {
	return filepath.Join(cargoHome, GitDir)
}

// Build output paths

// BuiltBinary returns the path where cargo leaves the compiled binary.
// crossTarget is empty for native builds.
func BuiltBinary(projectDir, crossTarget, profileDir, bin string) string {
	if crossTarget != "" {
		return filepath.Join(projectDir, TargetDir, crossTarget, profileDir, bin)
	}
	return filepath.Join(projectDir, TargetDir, profileDir, bin)
}

// ArtifactDir returns the directory packaged artifacts are written to.
func ArtifactDir(projectDir, profileDir string) string {
	return filepath.Join(projectDir, TargetDir, LambdaDir, profileDir)
}

// Artifact returns the zip path for a function binary.
func Artifact(projectDir, profileDir, bin string) string {
	return filepath.Join(ArtifactDir(projectDir, profileDir), bin+ZipExt)
}

// Project file paths

func ManifestPath(projectDir string) string {
	return filepath.Join(projectDir, ServerlessYml)
}

func CargoTomlPath(projectDir string) string {
	return filepath.Join(projectDir, CargoToml)
}

// Path existence helpers

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
