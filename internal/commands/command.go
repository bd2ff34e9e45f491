// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"clickform/internal/config"
	"clickform/internal/exitcode"
	"clickform/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires authentication.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// svc is nil unless NeedsAuth() returns true or the command
	// implements ServiceUser.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// ServiceUser is implemented by commands that need a service without
// requiring a stored token (login validates a token before storing it).
type ServiceUser interface {
	NeedsService() bool
}

// WantsService reports whether the dispatcher should build a service for c.
func WantsService(c Command) bool {
	if c.NeedsAuth() {
		return true
	}
	su, ok := c.(ServiceUser)
	return ok && su.NeedsService()
}

// reportError prints err with its class and returns the matching exit code.
func reportError(errOut io.Writer, err error) int {
	code := exitcode.FromError(err)
	switch service.KindOf(err) {
	case service.KindNoToken:
		fmt.Fprintln(errOut, "error: not logged in (run: clickform login)")
	case service.KindInvalidToken:
		fmt.Fprintf(errOut, "error: auth error: %v (run: clickform login)\n", err)
	case service.KindValidation:
		fmt.Fprintf(errOut, "error: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: %s: %v\n", exitcode.Label(code), err)
	}
	return code
}
