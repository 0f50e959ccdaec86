// Package cliutil provides output helpers shared by the CLI commands.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/erraggy/oaschangelog/internal/pathutil"
)

// OutputFileMode is the permission of files written with -o.
const OutputFileMode = 0o600

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// WriteOutput writes data to path on fs, or to w when path is empty.
// Paths are cleaned and made absolute first; symlinks are refused.
// It returns the path written to, or "" for w.
func WriteOutput(w io.Writer, fs afero.Fs, path string, data []byte) (string, error) {
	if path == "" {
		if _, err := w.Write(data); err != nil {
			return "", fmt.Errorf("cliutil: writing output: %w", err)
		}
		return "", nil
	}

	cleaned, err := pathutil.SanitizeOutputPath(fs, path)
	if err != nil {
		return "", err
	}
	if err := afero.WriteFile(fs, cleaned, data, OutputFileMode); err != nil {
		return "", fmt.Errorf("cliutil: writing %s: %w", cleaned, err)
	}
	return cleaned, nil
}
