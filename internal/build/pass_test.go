package build

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marijnhurkens/serverless-rust/internal/artifact"
	"github.com/marijnhurkens/serverless-rust/internal/cargo"
	"github.com/marijnhurkens/serverless-rust/internal/manifest"
)

const passManifest = `service: api
provider:
  name: aws
  runtime: rust
functions:
  hello:
    handler: hello
    rust:
      dockerless: true
  world:
    handler: api.world
    rust:
      profile: dev
  js:
    handler: index.handler
    runtime: nodejs18.x
`

// stubExecutor records jobs and plays back queued results, returning
// success once the queue is empty.
type stubExecutor struct {
	results []Result
	jobs    []Job
}

func (s *stubExecutor) Build(_ context.Context, job Job) Result {
	s.jobs = append(s.jobs, job)
	if len(s.results) == 0 {
		return Result{}
	}
	res := s.results[0]
	s.results = s.results[1:]
	return res
}

func parseManifest(t *testing.T, data string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(data))
	require.NoError(t, err)
	return m
}

func TestRunBuildsMatchingFunctions(t *testing.T) {
	m := parseManifest(t, passManifest)
	local := &stubExecutor{}
	docker := &stubExecutor{}

	pass, err := Run(context.Background(), m, Options{
		SrcDir: "/src",
		Local:  local,
		Docker: docker,
	})
	require.NoError(t, err)
	require.NotNil(t, pass)
	assert.False(t, pass.Skipped)
	assert.NotEmpty(t, pass.ID)

	require.Len(t, local.jobs, 1, "hello is dockerless")
	assert.Equal(t, cargo.BuildUnit{Package: "hello", Bin: "hello"}, local.jobs[0].Unit)
	assert.Equal(t, filepath.Join("/src", "target", "lambda", "release", "hello.zip"), local.jobs[0].Artifact)

	require.Len(t, docker.jobs, 1, "world builds in the container")
	assert.Equal(t, cargo.BuildUnit{Package: "api", Bin: "world"}, docker.jobs[0].Unit)
	assert.Equal(t, filepath.Join("/src", "target", "lambda", "debug", "world.zip"), docker.jobs[0].Artifact,
		"dev profile lands in the debug directory")

	require.Len(t, pass.Functions, 2)
	assert.Equal(t, "hello", pass.Functions[0].Name)
	assert.Equal(t, RuntimeProvided, pass.Functions[0].Runtime)
	assert.Equal(t, StrategyLocal, pass.Functions[0].Strategy)
	assert.Equal(t, "world", pass.Functions[1].Name)
	assert.Equal(t, StrategyContainer, pass.Functions[1].Strategy)

	assert.Equal(t, RuntimeProvided, pass.ServiceRuntime, "provider runtime carried the rust marker")
}

func TestRunFailFast(t *testing.T) {
	m := parseManifest(t, passManifest)
	local := &stubExecutor{results: []Result{{ExitCode: 101}}}
	docker := &stubExecutor{}

	pass, err := Run(context.Background(), m, Options{SrcDir: "/src", Local: local, Docker: docker})
	require.Error(t, err)
	assert.Nil(t, pass)
	assert.ErrorIs(t, err, ErrToolchain)
	assert.Contains(t, err.Error(), "hello")

	assert.Len(t, local.jobs, 1)
	assert.Empty(t, docker.jobs, "remaining functions must not build after a failure")
}

func TestRunPackagingFailureKeepsClass(t *testing.T) {
	m := parseManifest(t, passManifest)
	local := &stubExecutor{results: []Result{{Err: fmt.Errorf("%w: disk full", artifact.ErrPackaging)}}}

	_, err := Run(context.Background(), m, Options{SrcDir: "/src", Local: local, Docker: &stubExecutor{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, artifact.ErrPackaging)
	assert.NotErrorIs(t, err, ErrToolchain)
}

func TestRunNoMatchingFunctions(t *testing.T) {
	m := parseManifest(t, `service: api
provider:
  name: aws
functions:
  js:
    handler: index.handler
    runtime: nodejs18.x
`)
	local := &stubExecutor{}
	docker := &stubExecutor{}

	pass, err := Run(context.Background(), m, Options{SrcDir: "/src", Local: local, Docker: docker})
	require.Error(t, err)
	assert.Nil(t, pass)
	assert.ErrorIs(t, err, ErrNoRustFunctions)
	assert.Empty(t, local.jobs)
	assert.Empty(t, docker.jobs)
}

func TestRunSkipsUnsupportedProvider(t *testing.T) {
	m := parseManifest(t, `service: api
provider:
  name: google
functions:
  hello:
    handler: hello
    runtime: rust
`)
	local := &stubExecutor{}

	pass, err := Run(context.Background(), m, Options{SrcDir: "/src", Local: local, Docker: &stubExecutor{}})
	require.NoError(t, err)
	require.NotNil(t, pass)
	assert.True(t, pass.Skipped)
	assert.Empty(t, pass.Functions)
	assert.Empty(t, local.jobs)
}

func TestRunSingleFunction(t *testing.T) {
	m := parseManifest(t, passManifest)
	docker := &stubExecutor{}

	pass, err := Run(context.Background(), m, Options{
		SrcDir:   "/src",
		Function: "world",
		Local:    &stubExecutor{},
		Docker:   docker,
	})
	require.NoError(t, err)
	require.Len(t, pass.Functions, 1)
	assert.Equal(t, "world", pass.Functions[0].Name)
	assert.Len(t, docker.jobs, 1)
}

func TestRunSingleFunctionUnknown(t *testing.T) {
	m := parseManifest(t, passManifest)

	_, err := Run(context.Background(), m, Options{SrcDir: "/src", Function: "nope", Local: &stubExecutor{}, Docker: &stubExecutor{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestRunMalformedHandler(t *testing.T) {
	m := parseManifest(t, `service: api
provider:
  name: aws
functions:
  broken:
    handler: ".oops"
    runtime: rust
`)
	local := &stubExecutor{}

	_, err := Run(context.Background(), m, Options{SrcDir: "/src", Local: local, Docker: &stubExecutor{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, cargo.ErrMalformedHandler)
	assert.Empty(t, local.jobs)
}

func TestSelectStrategy(t *testing.T) {
	assert.Equal(t, StrategyLocal, SelectStrategy(true))
	assert.Equal(t, StrategyContainer, SelectStrategy(false))
}
