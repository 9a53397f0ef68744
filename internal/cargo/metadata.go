package cargo

import (
	"fmt"
	"os"
	"path"

	"github.com/pelletier/go-toml/v2"
)

// Manifest mirrors the subset of Cargo.toml that slsrust inspects when
// sanity-checking handlers against the crate layout.
type Manifest struct {
	Package   Package   `toml:"package"`
	Workspace Workspace `toml:"workspace"`
	Bin       []Target  `toml:"bin"`
}

// Package is the [package] table.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Workspace is the [workspace] table. Members are relative directory
// paths, one per member crate.
type Workspace struct {
	Members []string `toml:"members"`
}

// Target is one [[bin]] entry.
type Target struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// LoadManifest reads and parses a Cargo.toml.
func LoadManifest(file string) (*Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return &m, nil
}

// HasPackage reports whether the manifest plausibly provides the named
// package, either as the root package or as a workspace member whose
// directory name matches. Member directories conventionally share the
// package name, so this is a heuristic for preflight warnings, not a
// hard check.
func (m *Manifest) HasPackage(name string) bool {
	if m.Package.Name == name {
		return true
	}
	for _, member := range m.Workspace.Members {
		if path.Base(member) == name {
			return true
		}
	}
	return false
}

// BinNames returns the names of the declared [[bin]] targets.
func (m *Manifest) BinNames() []string {
	names := make([]string, 0, len(m.Bin))
	for _, t := range m.Bin {
		names = append(names, t.Name)
	}
	return names
}
