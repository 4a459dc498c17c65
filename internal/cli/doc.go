// Package cli holds the terminal-facing pieces of catcher: the error
// reporter the auth machine hands failures to, interactive prompts, the
// waiting spinner, status output, and the typed errors that map to process
// exit codes.
package cli
