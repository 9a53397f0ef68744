// Package artifact packages built binaries into the bundle shape the
// provided runtime expects: a single-entry zip whose payload is named
// bootstrap and carries the executable bit.
package artifact

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/marijnhurkens/serverless-rust/internal/paths"
)

// ErrPackaging reports a failure writing the function bundle after a
// successful compile.
var ErrPackaging = errors.New("packaging failed")

// bootstrapMode is the archive entry permission. The execution runtime
// execs the entry directly, so it must be executable.
const bootstrapMode = 0755

// Package zips the binary at binPath into a bundle at dest, creating
// parent directories as needed. An existing bundle is overwritten, so
// repackaging the same build is idempotent.
func Package(binPath, dest string) error {
	bin, err := os.Open(binPath)
	if err != nil {
		return fmt.Errorf("%w: opening built binary: %v", ErrPackaging, err)
	}
	defer bin.Close()

	if err := paths.EnsureDir(filepath.Dir(dest)); err != nil {
		return fmt.Errorf("%w: creating artifact directory: %v", ErrPackaging, err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: creating archive: %v", ErrPackaging, err)
	}

	if err := writeBundle(out, bin); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: closing archive: %v", ErrPackaging, err)
	}
	return nil
}

func writeBundle(out io.Writer, bin io.Reader) error {
	zw := zip.NewWriter(out)
	hdr := &zip.FileHeader{
		Name:   paths.BootstrapName,
		Method: zip.Deflate,
	}
	hdr.SetMode(bootstrapMode)
	entry, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("%w: creating %s entry: %v", ErrPackaging, paths.BootstrapName, err)
	}
	if _, err := io.Copy(entry, bin); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrPackaging, paths.BootstrapName, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: finalizing archive: %v", ErrPackaging, err)
	}
	return nil
}
