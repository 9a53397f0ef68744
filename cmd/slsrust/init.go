package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marijnhurkens/serverless-rust/internal/output"
	"github.com/marijnhurkens/serverless-rust/internal/paths"
)

var (
	initName       string
	initDockerless bool
	initForce      bool
)

// InitResult represents the JSON output for the init command.
type InitResult struct {
	Service     string   `json:"service"`
	Dir         string   `json:"dir"`
	Dockerless  bool     `json:"dockerless"`
	Files       []string `json:"files"`
	NextCommand string   `json:"next_command"`
}

const manifestTemplate = `service: %[1]s

provider:
  name: aws
  runtime: rust
  memorySize: 128

package:
  individually: true

custom:
  rust:
    dockerless: %[2]t

functions:
  hello:
    handler: %[1]s
    events:
      - httpApi:
          path: /hello
          method: get
`

const cargoTemplate = `[package]
name = "%s"
version = "0.1.0"
edition = "2021"

[dependencies]
lambda_runtime = "0.13"
serde_json = "1"
tokio = { version = "1", features = ["macros"] }
`

const mainTemplate = `use lambda_runtime::{service_fn, Error, LambdaEvent};
use serde_json::{json, Value};

async fn handler(event: LambdaEvent<Value>) -> Result<Value, Error> {
    let name = event.payload["name"].as_str().unwrap_or("world");
    Ok(json!({ "message": format!("Hello, {name}!") }))
}

#[tokio::main]
async fn main() -> Result<(), Error> {
    lambda_runtime::run(service_fn(handler)).await
}
`

const gitignoreTemplate = `/target
/.serverless
`

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a new Rust service",
		Long: `Init scaffolds a minimal deployable service: a serverless.yml with one
rust function, a Cargo.toml, and a hello-world handler.

When run on a terminal, missing settings are prompted for; otherwise
flag values and defaults apply as-is.

Examples:
  # Scaffold into the current directory
  slsrust init

  # Scaffold a new project directory
  slsrust init my-service --name my-service

  # Scaffold for local toolchain builds
  slsrust init --dockerless`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}

	cmd.Flags().StringVar(&initName, "name", "",
		"Service name (default: the target directory name)")
	cmd.Flags().BoolVar(&initDockerless, "dockerless", false,
		"Configure the service to build with the local cargo toolchain")
	cmd.Flags().BoolVar(&initForce, "force", false,
		"Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	logger := output.DefaultLogger

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd())) && !jsonMode

	name := initName
	if name == "" {
		name = defaultServiceName(dir)
		if interactive {
			prompt := promptui.Prompt{
				Label:    "Service name",
				Default:  name,
				Validate: validateServiceName,
			}
			entered, err := prompt.Run()
			if err != nil {
				return err
			}
			name = strings.TrimSpace(entered)
		}
	}
	if err := validateServiceName(name); err != nil {
		return err
	}

	if interactive && !cmd.Flags().Changed("dockerless") {
		sel := promptui.Select{
			Label: "Default build strategy",
			Items: []string{
				"docker (softprops/lambda-rust build image)",
				"local cargo toolchain",
			},
		}
		idx, _, err := sel.Run()
		if err != nil {
			return err
		}
		initDockerless = idx == 1
	}

	entries := []struct {
		path    string
		content string
	}{
		{filepath.Join(dir, paths.ServerlessYml), fmt.Sprintf(manifestTemplate, name, initDockerless)},
		{filepath.Join(dir, paths.CargoToml), fmt.Sprintf(cargoTemplate, name)},
		{filepath.Join(dir, "src", "main.rs"), mainTemplate},
		{filepath.Join(dir, ".gitignore"), gitignoreTemplate},
	}

	// Refuse before touching anything, a partial scaffold helps nobody.
	if !initForce {
		for _, f := range entries {
			if paths.Exists(f.path) {
				return fmt.Errorf("%s already exists (use --force to overwrite)", f.path)
			}
		}
	}

	written := make([]string, 0, len(entries))
	for _, f := range entries {
		if err := paths.EnsureDir(filepath.Dir(f.path)); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(f.path), err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		written = append(written, f.path)
		logger.Success("Created %s", f.path)
	}

	if jsonMode {
		result := InitResult{
			Service:     name,
			Dir:         dir,
			Dockerless:  initDockerless,
			Files:       written,
			NextCommand: "slsrust build",
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	logger.Println("")
	logger.Bold("Next step:")
	if dir != "." {
		logger.Println("  cd %s", dir)
	}
	logger.Println("  Run 'slsrust build' to compile and package the service")
	return nil
}

// defaultServiceName derives a service name from the target directory,
// falling back to a fixed name when the directory name is unusable.
func defaultServiceName(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "hello-rust"
	}
	name := strings.ToLower(filepath.Base(abs))
	if validateServiceName(name) != nil {
		return "hello-rust"
	}
	return name
}

func validateServiceName(name string) error {
	if name == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if name[0] < 'a' || name[0] > 'z' {
		return fmt.Errorf("service name must start with a lowercase letter")
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return fmt.Errorf("service name may only contain lowercase letters, digits, '-' and '_'")
		}
	}
	return nil
}
