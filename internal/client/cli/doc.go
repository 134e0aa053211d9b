// Package cli implements the attendance command-line client: signup, login
// and mark subcommands on top of the HTTP client.
package cli
