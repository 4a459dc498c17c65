package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catcher/internal/cli"
)

// newConfigDir returns a config directory with release checks disabled.
func newConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("update:\n  checkOnLogin: false\n"), 0600))
	return dir
}

func storeCredential(t *testing.T, dir string) {
	t.Helper()
	data, err := json.Marshal(map[string]string{
		"access_token": "t1",
		"token_type":   "bearer",
		"login":        "octocat",
		"name":         "Mona",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.json"), data, 0600))
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		loginNoBrowser, loginQuiet, loginEphemeral = false, false, false
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestSessionCommands(t *testing.T) {
	dir := newConfigDir(t)

	out, err := executeCommand(t, "session", "show", "--config-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No session stored.")

	storeCredential(t, dir)
	_, err = executeCommand(t, "login", "CATcher-org/pe", "--config-path", dir)
	require.NoError(t, err)

	out, err = executeCommand(t, "session", "show", "--config-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Organization:    CATcher-org")
	assert.Contains(t, out, "Data repository: pe")

	out, err = executeCommand(t, "session", "clear", "--config-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Session cleared.")

	out, err = executeCommand(t, "session", "show", "--config-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No session stored.")
}

func TestLogin_ResumesStoredCredential(t *testing.T) {
	dir := newConfigDir(t)
	storeCredential(t, dir)

	out, err := executeCommand(t, "login", "CATcher-org/pe", "--config-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as octocat (Mona) for session CATcher-org/pe")
}

func TestStatus(t *testing.T) {
	dir := newConfigDir(t)

	out, err := executeCommand(t, "status", "--config-path", dir)
	var required *cli.AuthRequiredError
	require.True(t, errors.As(err, &required))
	assert.Equal(t, ExitCodeAuthRequired, getExitCode(err))
	assert.Contains(t, out, "Not authenticated")

	storeCredential(t, dir)
	out, err = executeCommand(t, "status", "--config-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Authenticated")
	assert.Contains(t, out, "octocat (Mona)")
}

func TestLogout(t *testing.T) {
	dir := newConfigDir(t)

	out, err := executeCommand(t, "logout", "--config-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")

	storeCredential(t, dir)
	out, err = executeCommand(t, "logout", "--config-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out octocat.")

	_, err = os.Stat(filepath.Join(dir, "credentials.json"))
	assert.True(t, os.IsNotExist(err), "credential file is removed")
}

func TestStatus_JSONOutput(t *testing.T) {
	dir := newConfigDir(t)
	storeCredential(t, dir)
	t.Cleanup(func() { statusOutput = "text" })

	out, err := executeCommand(t, "status", "-o", "json", "--config-path", dir)
	require.NoError(t, err)

	var report statusReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "authenticated", report.State)
	assert.Equal(t, "octocat", report.Login)
	assert.Equal(t, "file", report.Storage)
}

func TestStatus_RejectsUnknownFormat(t *testing.T) {
	t.Cleanup(func() { statusOutput = "text" })

	_, err := executeCommand(t, "status", "-o", "table", "--config-path", newConfigDir(t))
	assert.ErrorContains(t, err, "unsupported output format")
}
