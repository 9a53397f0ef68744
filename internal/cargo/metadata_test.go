package cargo

import (
	"os"
	"path/filepath"
	"testing"
)

const workspaceToml = `[workspace]
members = ["lambdas/hello", "lambdas/world"]
`

const packageToml = `[package]
name = "hello"
version = "0.1.0"

[[bin]]
name = "hello"
path = "src/main.rs"

[[bin]]
name = "warmup"
path = "src/warmup.rs"
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "Cargo.toml")
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestLoadManifestPackage(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, packageToml))
	if err != nil {
		t.Fatalf("LoadManifest() error: %v", err)
	}
	if m.Package.Name != "hello" {
		t.Errorf("Package.Name = %q, want %q", m.Package.Name, "hello")
	}
	bins := m.BinNames()
	if len(bins) != 2 || bins[0] != "hello" || bins[1] != "warmup" {
		t.Errorf("BinNames() = %v, want [hello warmup]", bins)
	}
	if !m.HasPackage("hello") {
		t.Error("HasPackage(hello) = false, want true")
	}
	if m.HasPackage("world") {
		t.Error("HasPackage(world) = true, want false")
	}
}

func TestLoadManifestWorkspace(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, workspaceToml))
	if err != nil {
		t.Fatalf("LoadManifest() error: %v", err)
	}
	if !m.HasPackage("world") {
		t.Error("HasPackage(world) = false, want true for workspace member")
	}
	if m.HasPackage("missing") {
		t.Error("HasPackage(missing) = true, want false")
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "Cargo.toml")); err == nil {
		t.Error("LoadManifest() on missing file returned nil error")
	}
}
