// Package manifest loads and models the serverless service manifest, as
// far as Rust function builds are concerned.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/marijnhurkens/serverless-rust/internal/config"
	"github.com/marijnhurkens/serverless-rust/internal/paths"
)

// ErrInvalidManifest reports a service manifest that cannot drive a
// build pass.
var ErrInvalidManifest = errors.New("invalid service manifest")

// Provider is the provider block of the manifest.
type Provider struct {
	Name    string `yaml:"name"`
	Runtime string `yaml:"runtime,omitempty"`
}

// Custom carries the service-wide plugin configuration.
type Custom struct {
	Rust config.Global `yaml:"rust"`
}

// Package is the packaging block the builder fills in on success.
type Package struct {
	Artifact string `yaml:"artifact,omitempty"`
}

// Function is one deployable function entry.
type Function struct {
	Name    string        `yaml:"-"`
	Handler string        `yaml:"handler"`
	Runtime string        `yaml:"runtime,omitempty"`
	Rust    *config.Block `yaml:"rust,omitempty"`
	Package Package       `yaml:"package,omitempty"`
}

// Manifest is the parsed service manifest. Functions preserves the
// declaration order of the functions block, which fixes the order
// builds run in.
type Manifest struct {
	Service   string
	Provider  Provider
	Custom    Custom
	Functions []Function

	// Path is the file the manifest was loaded from, empty when parsed
	// from raw bytes.
	Path string
}

// fileManifest is the raw YAML shape. Functions stays a node so the
// mapping's declaration order survives decoding.
type fileManifest struct {
	Service   string    `yaml:"service"`
	Provider  Provider  `yaml:"provider"`
	Custom    Custom    `yaml:"custom"`
	Functions yaml.Node `yaml:"functions"`
}

// Locate returns the manifest path inside dir, preferring the .yml
// spelling over .yaml.
func Locate(dir string) (string, error) {
	for _, name := range []string{paths.ServerlessYml, paths.ServerlessYaml} {
		p := filepath.Join(dir, name)
		if paths.IsFile(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("no %s or %s in %s", paths.ServerlessYml, paths.ServerlessYaml, dir)
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

// Parse decodes manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	var raw fileManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	m := &Manifest{
		Service:  raw.Service,
		Provider: raw.Provider,
		Custom:   raw.Custom,
	}
	if raw.Functions.Kind == 0 {
		return m, nil
	}
	if raw.Functions.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: functions must be a mapping", ErrInvalidManifest)
	}
	content := raw.Functions.Content
	for i := 0; i+1 < len(content); i += 2 {
		var fn Function
		if err := content[i+1].Decode(&fn); err != nil {
			return nil, fmt.Errorf("%w: function %q: %v", ErrInvalidManifest, content[i].Value, err)
		}
		fn.Name = content[i].Value
		m.Functions = append(m.Functions, fn)
	}
	return m, nil
}

// Validate checks that the manifest can drive a build pass.
func (m *Manifest) Validate() error {
	if m.Service == "" {
		return fmt.Errorf("%w: service is required", ErrInvalidManifest)
	}
	if m.Provider.Name == "" {
		return fmt.Errorf("%w: provider.name is required", ErrInvalidManifest)
	}
	if len(m.Functions) == 0 {
		return fmt.Errorf("%w: at least one function is required", ErrInvalidManifest)
	}
	for i := range m.Functions {
		if m.Functions[i].Handler == "" {
			return fmt.Errorf("%w: functions.%s.handler is required", ErrInvalidManifest, m.Functions[i].Name)
		}
	}
	return nil
}

// EffectiveRuntime returns the runtime a function actually runs under:
// its own declaration, or the provider default when unset.
func (m *Manifest) EffectiveRuntime(fn *Function) string {
	if fn.Runtime != "" {
		return fn.Runtime
	}
	return m.Provider.Runtime
}

// Get returns the named function, or nil when the manifest has none by
// that name.
func (m *Manifest) Get(name string) *Function {
	for i := range m.Functions {
		if m.Functions[i].Name == name {
			return &m.Functions[i]
		}
	}
	return nil
}

// Apply records a completed build on the named function: the runtime is
// rewritten and the packaging artifact set. It reports whether the
// function was found.
func (m *Manifest) Apply(name, runtime, artifact string) bool {
	fn := m.Get(name)
	if fn == nil {
		return false
	}
	fn.Runtime = runtime
	fn.Package.Artifact = artifact
	return true
}
