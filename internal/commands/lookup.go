package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"clickform/internal/config"
	"clickform/internal/exitcode"
	"clickform/internal/output"
	"clickform/internal/service"
)

func init() {
	Register(&WorkspacesCmd{})
	Register(&SpacesCmd{})
	Register(&ListsCmd{})
	Register(&StatusesCmd{})
}

// lookupFlags are shared by the lookup commands.
type lookupFlags struct {
	json bool
}

func (f *lookupFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&f.json, "json", false, "")
}

// WorkspacesCmd implements the workspaces command.
type WorkspacesCmd struct {
	lookupFlags
}

func (c *WorkspacesCmd) Name() string      { return "workspaces" }
func (c *WorkspacesCmd) Aliases() []string { return []string{"teams"} }
func (c *WorkspacesCmd) Synopsis() string  { return "Print workspaces the token can access" }
func (c *WorkspacesCmd) Usage() string     { return "clickform workspaces [common flags] [--json]" }
func (c *WorkspacesCmd) NeedsAuth() bool   { return true }

func (c *WorkspacesCmd) RegisterFlags(fs *flag.FlagSet) { c.register(fs) }

func (c *WorkspacesCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 0 {
		fmt.Fprintln(errOut, "error: workspaces takes no arguments")
		return exitcode.UserError
	}
	workspaces, err := svc.Workspaces(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	return c.print(out, workspaces, func() { output.FormatChoices(out, workspaces) })
}

// SpacesCmd implements the spaces command.
type SpacesCmd struct {
	lookupFlags
}

func (c *SpacesCmd) Name() string      { return "spaces" }
func (c *SpacesCmd) Aliases() []string { return nil }
func (c *SpacesCmd) Synopsis() string  { return "Print the spaces of a workspace" }
func (c *SpacesCmd) Usage() string     { return "clickform spaces [common flags] [--json] <workspace-id>" }
func (c *SpacesCmd) NeedsAuth() bool   { return true }

func (c *SpacesCmd) RegisterFlags(fs *flag.FlagSet) { c.register(fs) }

func (c *SpacesCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := singleArg(args, "workspace id", errOut)
	if !ok {
		return exitcode.UserError
	}
	spaces, err := svc.Spaces(ctx, id)
	if err != nil {
		return reportError(errOut, err)
	}
	return c.print(out, spaces, func() { output.FormatChoices(out, spaces) })
}

// ListsCmd implements the lists command.
type ListsCmd struct {
	lookupFlags
}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print the lists of a space, including folder lists" }
func (c *ListsCmd) Usage() string     { return "clickform lists [common flags] [--json] <space-id>" }
func (c *ListsCmd) NeedsAuth() bool   { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) { c.register(fs) }

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := singleArg(args, "space id", errOut)
	if !ok {
		return exitcode.UserError
	}
	lists, err := svc.Lists(ctx, id)
	if err != nil {
		return reportError(errOut, err)
	}
	return c.print(out, lists, func() { output.FormatLists(out, lists) })
}

// StatusesCmd implements the statuses command.
type StatusesCmd struct {
	lookupFlags
}

func (c *StatusesCmd) Name() string      { return "statuses" }
func (c *StatusesCmd) Aliases() []string { return nil }
func (c *StatusesCmd) Synopsis() string  { return "Print the task statuses of a list" }
func (c *StatusesCmd) Usage() string     { return "clickform statuses [common flags] [--json] <list-id>" }
func (c *StatusesCmd) NeedsAuth() bool   { return true }

func (c *StatusesCmd) RegisterFlags(fs *flag.FlagSet) { c.register(fs) }

func (c *StatusesCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := singleArg(args, "list id", errOut)
	if !ok {
		return exitcode.UserError
	}
	statuses, err := svc.Statuses(ctx, id)
	if err != nil {
		return reportError(errOut, err)
	}
	return c.print(out, statuses, func() { output.FormatStatuses(out, statuses) })
}

func (f *lookupFlags) print(out io.Writer, v any, text func()) int {
	if f.json {
		if err := output.FormatJSON(out, v); err != nil {
			return exitcode.BackendError
		}
		return exitcode.Success
	}
	text()
	return exitcode.Success
}

func singleArg(args []string, what string, errOut io.Writer) (string, bool) {
	if len(args) != 1 || args[0] == "" {
		fmt.Fprintf(errOut, "error: %s required\n", what)
		return "", false
	}
	return args[0], true
}
