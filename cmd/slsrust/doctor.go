package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/marijnhurkens/serverless-rust/internal/build"
	"github.com/marijnhurkens/serverless-rust/internal/cargo"
	"github.com/marijnhurkens/serverless-rust/internal/config"
	"github.com/marijnhurkens/serverless-rust/internal/output"
	"github.com/marijnhurkens/serverless-rust/internal/paths"
	"github.com/marijnhurkens/serverless-rust/internal/prereq"
)

// DoctorResult represents the JSON output for the doctor command.
type DoctorResult struct {
	Checks []prereq.Result `json:"checks"`
	OK     bool            `json:"ok"`
}

func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the host toolchain and the project layout",
		Long: `Doctor verifies that the host can build this service before a real
build is attempted.

Which tools are required depends on the service configuration: cargo is
always checked, Docker only when at least one function builds in a
container, and the musl cross toolchain only when a dockerless build
runs on a non-Linux host. The project section then cross-checks every
rust handler against the crate layout in Cargo.toml.

Examples:
  # Check the project in the current directory
  slsrust doctor

  # Machine-readable report
  slsrust doctor --json`,
		RunE: runDoctor,
	}

	return cmd
}

func runDoctor(cmd *cobra.Command, args []string) error {
	logger := output.DefaultLogger

	needDocker, needLocal := strategyNeeds()
	checker := prereq.NewChecker()
	if needDocker {
		checker.RequireDocker(dockerCLI())
	}
	if needLocal {
		checker.RequireCrossToolchain(runtime.GOOS)
	}
	results, checkErr := checker.Check()

	if jsonMode {
		data, err := json.MarshalIndent(DoctorResult{Checks: results, OK: checkErr == nil}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return checkErr
	}

	logger.Bold("Toolchain")
	logger.Println(output.CyanSeparator())
	for _, r := range results {
		if r.Found {
			logger.Success("%s", r.Message)
		} else {
			logger.Error("%s", r.Message)
			if r.Suggestion != "" {
				logger.Info("  %s", r.Suggestion)
			}
		}
	}

	logger.Println("")
	logger.Bold("Project")
	logger.Println(output.CyanSeparator())
	reportProject(logger)

	return checkErr
}

// strategyNeeds inspects the manifest to decide which toolchains a
// build pass would actually invoke. An unreadable manifest makes the
// answer unknowable, so everything gets checked.
func strategyNeeds() (docker, local bool) {
	m, err := loadManifest()
	if err != nil {
		return true, true
	}
	if m.Provider.Name != build.Provider {
		return false, false
	}
	for i := range m.Functions {
		fn := &m.Functions[i]
		if m.EffectiveRuntime(fn) != build.RuntimeRust {
			continue
		}
		settings := config.Resolve(m.Custom.Rust, fn.Rust)
		if build.SelectStrategy(settings.Dockerless) == build.StrategyLocal {
			local = true
		} else {
			docker = true
		}
	}
	return docker, local
}

// dockerCLI resolves the container executable the same way builds do.
func dockerCLI() string {
	if cli := os.Getenv(build.EnvDockerCLI); cli != "" {
		return cli
	}
	return build.DefaultDockerCLI
}

func reportProject(logger *output.Logger) {
	m, err := loadManifest()
	if err != nil {
		logger.Warn("%v", err)
		return
	}
	logger.Success("Manifest %s (service %s, provider %s)", m.Path, m.Service, m.Provider.Name)
	if m.Provider.Name != build.Provider {
		logger.Warn("provider %q is not %q, builds will be skipped", m.Provider.Name, build.Provider)
	}

	cm, err := cargo.LoadManifest(paths.CargoTomlPath(projectDir))
	if err != nil {
		logger.Warn("no readable %s: %v", paths.CargoToml, err)
	} else if cm.Package.Name != "" {
		logger.Success("Cargo package %s %s", cm.Package.Name, cm.Package.Version)
	} else {
		logger.Success("Cargo workspace with %d member(s)", len(cm.Workspace.Members))
	}

	rust := 0
	for i := range m.Functions {
		fn := &m.Functions[i]
		if m.EffectiveRuntime(fn) != build.RuntimeRust {
			continue
		}
		rust++
		unit, err := cargo.ParseHandler(fn.Handler)
		if err != nil {
			logger.Warn("function %s: %v", fn.Name, err)
			continue
		}
		settings := config.Resolve(m.Custom.Rust, fn.Rust)
		strategy := build.SelectStrategy(settings.Dockerless)
		if cm != nil && !cm.HasPackage(unit.Package) {
			logger.Warn("function %s: package %q not found in %s", fn.Name, unit.Package, paths.CargoToml)
			continue
		}
		logger.Success("Function %s: package %s, bin %s (%s strategy)", fn.Name, unit.Package, unit.Bin, strategy)
	}
	if rust == 0 {
		logger.Warn("no function declares the %q runtime", build.RuntimeRust)
	}
}
