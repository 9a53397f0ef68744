package prereq

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// stubPath builds a PATH containing only the given fake executables.
func stubPath(t *testing.T, tools map[string]string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tool stubs are shell scripts")
	}
	dir := t.TempDir()
	for name, script := range tools {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", dir)
}

func TestCheckCargoFound(t *testing.T) {
	stubPath(t, map[string]string{
		"cargo": "#!/bin/sh\necho 'cargo 1.79.0 (ffa9cf99a 2024-06-03)'\n",
	})

	results, err := NewChecker().Check()
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Check() returned %d results, want 1", len(results))
	}
	r := results[0]
	if r.Name != "cargo" || !r.Found {
		t.Errorf("cargo result = %+v, want found", r)
	}
	if r.Version != "1.79.0" {
		t.Errorf("Version = %q, want %q", r.Version, "1.79.0")
	}
}

func TestCheckCargoMissing(t *testing.T) {
	stubPath(t, map[string]string{})

	checker := NewChecker()
	results, err := checker.Check()
	if err == nil {
		t.Fatal("Check() returned nil error with cargo missing")
	}
	if len(results) != 1 || results[0].Found {
		t.Errorf("results = %+v, want one missing cargo", results)
	}
	if checker.AllPassed() {
		t.Error("AllPassed() = true, want false")
	}
	if results[0].Suggestion == "" {
		t.Error("missing tool should carry a suggestion")
	}
}

func TestCheckDockerMissing(t *testing.T) {
	stubPath(t, map[string]string{
		"cargo": "#!/bin/sh\necho 'cargo 1.79.0'\n",
	})

	results, err := NewChecker().RequireDocker("docker").Check()
	if err == nil {
		t.Fatal("Check() returned nil error with docker missing")
	}
	if len(results) != 2 {
		t.Fatalf("Check() returned %d results, want 2", len(results))
	}
	if results[1].Found {
		t.Errorf("docker result = %+v, want missing", results[1])
	}
}

func TestCheckDockerDaemonDown(t *testing.T) {
	stubPath(t, map[string]string{
		"cargo":  "#!/bin/sh\necho 'cargo 1.79.0'\n",
		"docker": "#!/bin/sh\nexit 1\n",
	})

	results, err := NewChecker().RequireDocker("docker").Check()
	if err == nil {
		t.Fatal("Check() returned nil error with the daemon down")
	}
	if results[1].Found {
		t.Errorf("docker result = %+v, want not running", results[1])
	}
}

func TestCheckCrossToolchain(t *testing.T) {
	stubPath(t, map[string]string{
		"cargo":                 "#!/bin/sh\necho 'cargo 1.79.0'\n",
		"rustup":                "#!/bin/sh\necho 'x86_64-unknown-linux-musl'\n",
		"x86_64-linux-musl-gcc": "#!/bin/sh\nexit 0\n",
	})

	checker := NewChecker().RequireCrossToolchain("darwin")
	if _, err := checker.Check(); err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if !checker.AllPassed() {
		t.Errorf("AllPassed() = false, results: %+v", checker.Results())
	}
}

func TestCheckCrossToolchainNativeHost(t *testing.T) {
	stubPath(t, map[string]string{
		"cargo": "#!/bin/sh\necho 'cargo 1.79.0'\n",
	})

	results, err := NewChecker().RequireCrossToolchain("linux").Check()
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("linux host should add no cross checks, got %+v", results)
	}
}

func TestCheckMissingCrossTarget(t *testing.T) {
	stubPath(t, map[string]string{
		"cargo":                 "#!/bin/sh\necho 'cargo 1.79.0'\n",
		"rustup":                "#!/bin/sh\necho 'aarch64-apple-darwin'\n",
		"x86_64-linux-musl-gcc": "#!/bin/sh\nexit 0\n",
	})

	_, err := NewChecker().RequireCrossToolchain("darwin").Check()
	if err == nil {
		t.Fatal("Check() returned nil error with the musl target missing")
	}
}
