package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"clickform/internal/config"
	"clickform/internal/exitcode"
	"clickform/internal/output"
	"clickform/internal/service"
	"clickform/internal/submission"
)

func init() {
	Register(&SubmitCmd{})
}

// SubmitCmd implements the submit command.
type SubmitCmd struct {
	settingsPath string
	fieldsPath   string
	kind         string
	listID       string
	dryRun       bool

	// Stdin is read when --fields is "-". Defaults to os.Stdin.
	Stdin io.Reader
}

// SetPaths sets the settings and fields paths (for testing).
func (c *SubmitCmd) SetPaths(settingsPath, fieldsPath string) {
	c.settingsPath = settingsPath
	c.fieldsPath = fieldsPath
}

// SetDryRun enables dry-run mode (for testing).
func (c *SubmitCmd) SetDryRun(dryRun bool) {
	c.dryRun = dryRun
}

func (c *SubmitCmd) Name() string      { return "submit" }
func (c *SubmitCmd) Aliases() []string { return []string{"send"} }
func (c *SubmitCmd) Synopsis() string  { return "Create a task or document from a form submission" }
func (c *SubmitCmd) Usage() string {
	return "clickform submit [common flags] --settings <action.yaml> [--fields <fields.json|->] [--kind task|document] [--list <list-id>] [--dry-run]"
}
func (c *SubmitCmd) NeedsAuth() bool { return true }

func (c *SubmitCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.settingsPath, "settings", "", "")
	fs.StringVar(&c.settingsPath, "s", "", "")
	fs.StringVar(&c.fieldsPath, "fields", "-", "")
	fs.StringVar(&c.fieldsPath, "f", "-", "")
	fs.StringVar(&c.kind, "kind", "", "")
	fs.StringVar(&c.listID, "list", "", "")
	fs.StringVar(&c.listID, "l", "", "")
	fs.BoolVar(&c.dryRun, "dry-run", false, "")
}

func (c *SubmitCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.settingsPath == "" {
		fmt.Fprintln(errOut, "error: --settings required")
		return exitcode.UserError
	}

	settings, err := readActionSettings(c.settingsPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if c.kind != "" {
		settings.Kind = submission.Kind(c.kind)
	}
	if c.listID != "" {
		settings.ListID = c.listID
	}

	fields, err := c.readFields()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var opts []submission.Option
	if loc, err := cfg.Settings.Location(); err == nil {
		opts = append(opts, submission.WithLocation(loc))
	}
	orch := submission.NewOrchestrator(svc, opts...)

	if c.dryRun {
		return c.runDry(ctx, orch, settings, fields, out, errOut)
	}

	outcome := orch.Run(ctx, settings, fields, submission.ReporterFuncs{
		OnSuccess: func(msg string) {
			if !cfg.Quiet {
				fmt.Fprintln(out, msg)
			}
		},
		OnError: func(msg string) {
			fmt.Fprintf(errOut, "error: %s\n", msg)
		},
	})
	if !outcome.Succeeded() {
		return exitcode.FromError(outcome.Err)
	}
	if cfg.Debug {
		for _, skip := range outcome.Skipped {
			fmt.Fprintf(errOut, "skipped %s: %s\n", skip.Step, skip.Reason)
		}
	}
	return exitcode.Success
}

func (c *SubmitCmd) runDry(ctx context.Context, orch *submission.Orchestrator, settings submission.Settings, fields submission.Fields, out, errOut io.Writer) int {
	if err := settings.Validate(); err != nil {
		return reportError(errOut, err)
	}
	plan, err := orch.Build(ctx, settings, fields)
	if err != nil {
		return reportError(errOut, err)
	}
	if err := output.FormatJSON(out, plan); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

func (c *SubmitCmd) readFields() (submission.Fields, error) {
	var (
		data []byte
		err  error
	)
	switch c.fieldsPath {
	case "", "-":
		in := c.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	default:
		data, err = os.ReadFile(c.fieldsPath)
	}
	if err != nil {
		return submission.Fields{}, fmt.Errorf("failed to read fields: %w", err)
	}
	fields, err := submission.ParseFields(data)
	if err != nil {
		return submission.Fields{}, fmt.Errorf("invalid fields: %w", err)
	}
	return fields, nil
}

// readActionSettings reads an action settings YAML file.
func readActionSettings(path string) (submission.Settings, error) {
	var settings submission.Settings
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, fmt.Errorf("settings file not found: %s", path)
		}
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("invalid settings file %s: %w", path, err)
	}
	return settings, nil
}
