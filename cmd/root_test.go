package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"catcher/internal/auth"
	"catcher/internal/cli"
)

func TestSetVersion(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()

	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "catcher" {
		t.Errorf("Expected Use to be 'catcher', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if rootCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "catcher version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	if err := testCmd.Execute(); err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	expected := "catcher version 1.0.0\n"
	if buf.String() != expected {
		t.Errorf("Expected version output %q, got %q", expected, buf.String())
	}
}

func TestSubcommands(t *testing.T) {
	expectedCommands := []string{"login", "logout", "status", "session", "version", "self-update"}
	foundCommands := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("Expected subcommand %s to be registered", expected)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"generic", errors.New("boom"), ExitCodeError},
		{"auth required", &cli.AuthRequiredError{Session: "a/b"}, ExitCodeAuthRequired},
		{"auth failed", &cli.AuthFailedError{Reason: errors.New("access_denied")}, ExitCodeAuthFailed},
		{"cancelled", &cli.AuthCancelledError{}, ExitCodeCancelled},
		{"rejected", &cli.AuthCancelledError{Rejected: true}, ExitCodeCancelled},
		{"update required", auth.ErrUpdateRequired, ExitCodeUpdateRequired},
		{"wrapped update required", fmt.Errorf("login: %w", auth.ErrUpdateRequired), ExitCodeUpdateRequired},
		{"wrapped auth failed", fmt.Errorf("login: %w", &cli.AuthFailedError{}), ExitCodeAuthFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestShouldPrintError(t *testing.T) {
	assert.True(t, shouldPrintError(errors.New("boom")))
	assert.True(t, shouldPrintError(&cli.AuthRequiredError{}))
	assert.False(t, shouldPrintError(&cli.AuthFailedError{Reason: errors.New("x")}), "already shown by the reporter")
	assert.False(t, shouldPrintError(auth.ErrUpdateRequired))
}
