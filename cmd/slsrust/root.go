package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marijnhurkens/serverless-rust/internal/manifest"
	"github.com/marijnhurkens/serverless-rust/internal/output"
)

// Global configuration variables
var (
	projectDir   string
	manifestPath string
	jsonMode     bool
	noColor      bool
	verbose      bool
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slsrust",
		Short: "Build Rust functions for serverless deployment",
		Long: `slsrust compiles the Rust functions of a serverless service into
deployable bundles:

  - Every function declaring the rust runtime is compiled with cargo,
    by default inside the softprops/lambda-rust builder image, or with
    the local toolchain when configured dockerless
  - Each binary is packaged as a single-entry zip named bootstrap with
    the executable bit set, ready for the provided runtime
  - Function runtimes are rewritten to provided so downstream tooling
    treats them as precompiled custom handlers

Examples:
  # Build every rust function of the service in the current directory
  slsrust build

  # Build a single function
  slsrust build --function hello

  # Rebuild whenever sources change
  slsrust build --watch

  # Check the host toolchain and the project layout
  slsrust doctor`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// NO_COLOR or a non-terminal stdout disables color unless the
			// flag was given explicitly.
			if !cmd.Flags().Changed("no-color") {
				if os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
					noColor = true
				}
			}
			output.DefaultLogger.SetNoColor(noColor)
			output.DefaultLogger.SetVerbose(verbose)
			output.DefaultLogger.SetJSONMode(jsonMode)
			return nil
		},
	}

	// Global flags available on all commands
	cmd.PersistentFlags().StringVarP(&projectDir, "project", "p", ".",
		"Project directory containing serverless.yml and Cargo.toml")
	cmd.PersistentFlags().StringVarP(&manifestPath, "config", "c", "",
		"Path to the service manifest (default: serverless.yml in the project directory)")
	cmd.PersistentFlags().BoolVar(&jsonMode, "json", false,
		"Output in JSON format")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")

	cmd.AddCommand(
		NewBuildCmd(),
		NewDoctorCmd(),
		NewInitCmd(),
		NewVersionCmd(),
		NewCompletionCmd(),
	)

	return cmd
}

// loadManifest resolves the manifest location from the global flags,
// parses it, and validates it.
func loadManifest() (*manifest.Manifest, error) {
	path := manifestPath
	if path == "" {
		located, err := manifest.Locate(projectDir)
		if err != nil {
			return nil, err
		}
		path = located
	}
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
