package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// output returns the writer for an --out flag value. Empty or "-" means
// the command's stdout. The returned close func must always be called.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}

// input opens path for reading; "-" reads the command's stdin.
func input(cmd *cobra.Command, path string) (io.Reader, func() error, error) {
	if path == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, f.Close, nil
}

// done prints a confirmation line unless it would mix with data written
// to stdout.
func done(cmd *cobra.Command, path, format string, args ...any) {
	w := cmd.OutOrStdout()
	if path == "" || path == "-" {
		w = cmd.ErrOrStderr()
	}
	fmt.Fprintf(w, "✓ "+format+"\n", args...)
}
