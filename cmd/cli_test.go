package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quokkaq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConfigCommand(t *testing.T) {
	path := writeConfig(t, "profile:\n  name: Ada Lovelace\n")

	var out bytes.Buffer
	err := run(context.Background(), NewApp(&out), "--config", path, "--reset-tab", "config")
	require.NoError(t, err)

	require.Contains(t, out.String(), "# loaded from "+path)
	require.Contains(t, out.String(), "name: Ada Lovelace")
	require.Contains(t, out.String(), "reopen: reset_first")
}

func TestConfigCommandAccessibilityReport(t *testing.T) {
	var out bytes.Buffer
	path := writeConfig(t, "theme:\n  high_contrast: true\n")
	err := run(context.Background(), NewApp(&out), "--config", path, "config", "--accessibility")
	require.NoError(t, err)
	require.Contains(t, out.String(), "High Contrast: true")
}

func TestInvalidConfigFails(t *testing.T) {
	path := writeConfig(t, "popover:\n  reopen: sometimes\n")
	err := run(context.Background(), NewApp(&bytes.Buffer{}), "--config", path, "config")
	require.Error(t, err)
}

func TestPlainOutput(t *testing.T) {
	path := writeConfig(t, "log:\n  file: "+filepath.Join(t.TempDir(), "quokkaq.log")+"\n")

	var out bytes.Buffer
	err := run(context.Background(), NewApp(&out), "--config", path, "--plain")
	require.NoError(t, err)
	require.Contains(t, out.String(), "QuokkaQ - Course Q&A")
	require.Contains(t, out.String(), "Log out")
}
