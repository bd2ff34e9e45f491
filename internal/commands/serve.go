package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"clickform/internal/config"
	"clickform/internal/exitcode"
	"clickform/internal/server"
	"clickform/internal/service"
	"clickform/internal/submission"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Receive form submissions over HTTP" }
func (c *ServeCmd) Usage() string     { return "clickform serve [common flags] [--addr <host:port>]" }
func (c *ServeCmd) NeedsAuth() bool   { return false }
func (c *ServeCmd) NeedsService() bool {
	return true
}

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	addr := c.addr
	if addr == "" {
		addr = cfg.Settings.Server.Addr
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	loc, err := cfg.Settings.Location()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	opts := []server.Option{
		server.WithOrchestrator(submission.NewOrchestrator(svc, submission.WithLocation(loc))),
	}
	if saver, ok := svc.(server.TokenSaver); ok {
		opts = append(opts, server.WithTokenSaver(saver))
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "listening on http://%s\n", addr)
	}
	if err := server.New(svc, opts...).Run(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
