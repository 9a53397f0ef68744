package artifact

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBinary(t *testing.T, content string) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "hello")
	require.NoError(t, os.WriteFile(bin, []byte(content), 0755))
	return bin
}

func readBundle(t *testing.T, dest string) (string, *zip.File) {
	t.Helper()
	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.File, 1, "bundle must contain exactly one entry")
	f := r.File[0]
	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data), f
}

func TestPackage(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "target", "lambda", "release", "hello.zip")
	require.NoError(t, Package(writeBinary(t, "ELF fake"), dest))

	content, entry := readBundle(t, dest)
	assert.Equal(t, "bootstrap", entry.Name)
	assert.Equal(t, "ELF fake", content)
	assert.Equal(t, os.FileMode(0755), entry.Mode().Perm(), "entry must be executable")
}

func TestPackageOverwrites(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "hello.zip")
	require.NoError(t, Package(writeBinary(t, "first"), dest))
	require.NoError(t, Package(writeBinary(t, "second"), dest))

	content, _ := readBundle(t, dest)
	assert.Equal(t, "second", content)
}

func TestPackageMissingBinary(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "hello.zip")
	err := Package(filepath.Join(t.TempDir(), "missing"), dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPackaging)
}

func TestPackageUnwritableDestination(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions do not bind for root")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	err := Package(writeBinary(t, "bin"), filepath.Join(dir, "sub", "hello.zip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPackaging)
}
