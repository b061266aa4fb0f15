package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/roach88/configurator/internal/settings"
)

// executeRoot runs the root command with args and returns stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(settings.EnvConfigFile, "")

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// newTestCmd returns a bare command whose output goes to buf, for calling
// run functions directly.
func newTestCmd(buf *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	return cmd
}

func docPath(name string) string {
	return filepath.Join("testdata", "docs", name)
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "sandbox.db")
}
