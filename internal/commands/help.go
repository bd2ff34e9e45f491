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

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "clickform help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  clickform submit [common flags] --settings <action.yaml> [--fields <fields.json|->]
                   [--kind task|document] [--list <list-id>] [--dry-run]
  clickform serve [common flags] [--addr <host:port>]
  clickform workspaces [common flags] [--json]
  clickform spaces [common flags] [--json] <workspace-id>
  clickform lists [common flags] [--json] <space-id>
  clickform statuses [common flags] [--json] <list-id>
  clickform login [common flags] [--token <api-token>]
  clickform logout [common flags]
  clickform help
  clickform version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
