package submission

import (
	"context"
	"time"

	"clickform/internal/logger"
	"clickform/internal/metrics"
	"clickform/internal/service"
)

// Stage is a step of a submission run.
type Stage string

const (
	StageStart            Stage = "start"
	StageValidateRequired Stage = "validate_required"
	StageBuildPayload     Stage = "build_payload"
	StageInvoke           Stage = "invoke"
	StageSucceeded        Stage = "succeeded"
	StageFailed           Stage = "failed"
)

// ErrorPrefix starts every failure message shown to the submitter.
const ErrorPrefix = "ClickUp Integration Error: "

// Skip records an optional resolution that produced nothing. Skips never
// fail a submission.
type Skip struct {
	Step   string `json:"step"`
	Reason string `json:"reason"`
}

// Plan is the create call a submission resolves to.
type Plan struct {
	Kind        Kind                     `json:"kind"`
	WorkspaceID string                   `json:"workspace"`
	SpaceID     string                   `json:"space"`
	ListID      string                   `json:"list,omitempty"`
	Task        *service.TaskPayload     `json:"task,omitempty"`
	Document    *service.DocumentPayload `json:"document,omitempty"`
	Skipped     []Skip                   `json:"skipped,omitempty"`
}

// Outcome is the result of one submission run.
type Outcome struct {
	Stage    Stage  `json:"stage"`
	FailedAt Stage  `json:"failed_at,omitempty"`
	Kind     Kind   `json:"kind"`
	EntityID string `json:"entity_id,omitempty"`
	Message  string `json:"message"`
	Err      error  `json:"-"`
	Skipped  []Skip `json:"skipped,omitempty"`
}

// Succeeded reports whether the remote entity was created.
func (o Outcome) Succeeded() bool {
	return o.Stage == StageSucceeded
}

// Reporter receives the submitter-facing result of a run.
type Reporter interface {
	Success(message string)
	Error(message string)
}

// ReporterFuncs adapts two functions to Reporter. Nil functions are ignored.
type ReporterFuncs struct {
	OnSuccess func(message string)
	OnError   func(message string)
}

func (r ReporterFuncs) Success(message string) {
	if r.OnSuccess != nil {
		r.OnSuccess(message)
	}
}

func (r ReporterFuncs) Error(message string) {
	if r.OnError != nil {
		r.OnError(message)
	}
}

// Orchestrator builds payloads from settings and submitted fields and
// issues exactly one create call per run.
type Orchestrator struct {
	svc   service.Service
	dates DueDateResolver
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLocation sets the zone used to read due dates.
func WithLocation(loc *time.Location) Option {
	return func(o *Orchestrator) { o.dates.Location = loc }
}

// WithClock sets the reference time for relative due dates.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.dates.Now = now }
}

// NewOrchestrator creates an Orchestrator over svc.
func NewOrchestrator(svc service.Service, opts ...Option) *Orchestrator {
	o := &Orchestrator{svc: svc}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Build resolves settings and fields into a Plan without creating anything.
// Settings are assumed valid; only the list id of a task is checked here.
func (o *Orchestrator) Build(ctx context.Context, s Settings, fields Fields) (Plan, error) {
	plan := Plan{
		Kind:        s.ActionKind(),
		WorkspaceID: s.WorkspaceID,
		SpaceID:     s.SpaceID,
	}
	description := Expand(orDefault(s.Description, DefaultDescription), fields, s.FormName)

	if plan.Kind == KindDocument {
		plan.Document = &service.DocumentPayload{
			Name:    Interpolate(orDefault(s.DocumentName, DefaultDocumentName), fields, s.FormName),
			Content: description,
		}
		return plan, nil
	}

	if s.ListID == "" {
		return plan, service.NewError(service.KindValidation, "List ID is required for creating tasks.")
	}
	plan.ListID = s.ListID

	task := &service.TaskPayload{
		Name:        Interpolate(orDefault(s.TaskName, DefaultTaskName), fields, s.FormName),
		Description: description,
		Status:      s.Status,
	}
	if s.Priority >= 1 && s.Priority <= 4 {
		task.Priority = s.Priority
	}

	if s.DueDate != "" {
		if due, ok := o.dates.Resolve(s.DueDate, fields); ok {
			task.DueDate = due
		} else {
			plan.Skipped = append(plan.Skipped, Skip{Step: "due_date", Reason: "could not parse " + s.DueDate})
		}
	}

	if s.Assignees != "" {
		ids, err := ResolveAssignees(ctx, s.Assignees, fields, s.FormName, s.WorkspaceID, o.svc)
		switch {
		case err != nil:
			logger.FromContext(ctx).Debug("member roster unavailable", "workspace", s.WorkspaceID, "error", err)
			plan.Skipped = append(plan.Skipped, Skip{Step: "assignees", Reason: err.Error()})
		case len(ids) == 0:
			plan.Skipped = append(plan.Skipped, Skip{Step: "assignees", Reason: "no matching workspace members"})
		default:
			task.Assignees = ids
		}
	}

	if s.CustomFields != "" {
		if cf := ParseCustomFields(s.CustomFields, fields); len(cf) > 0 {
			task.CustomFields = cf
		} else {
			plan.Skipped = append(plan.Skipped, Skip{Step: "custom_fields", Reason: "no mapped form fields were submitted"})
		}
	}

	plan.Task = task
	return plan, nil
}

// Run validates s, builds the payload, creates the entity and reports the
// result to reporter, which may be nil.
func (o *Orchestrator) Run(ctx context.Context, s Settings, fields Fields, reporter Reporter) Outcome {
	if reporter == nil {
		reporter = ReporterFuncs{}
	}
	kind := s.ActionKind()
	log := logger.FromContext(ctx).With("kind", kind)
	out := Outcome{Stage: StageStart, Kind: kind}

	out.Stage = StageValidateRequired
	if err := s.Validate(); err != nil {
		return o.fail(ctx, out, err, reporter)
	}

	out.Stage = StageBuildPayload
	plan, err := o.Build(ctx, s, fields)
	out.Skipped = plan.Skipped
	if err != nil {
		return o.fail(ctx, out, err, reporter)
	}
	for _, skip := range plan.Skipped {
		log.Debug("resolution skipped", "step", skip.Step, "reason", skip.Reason)
	}

	out.Stage = StageInvoke
	created, err := o.invoke(ctx, plan)
	if err != nil {
		return o.fail(ctx, out, err, reporter)
	}

	out.EntityID = created.ID
	if out.EntityID == "" {
		out.EntityID = "N/A"
	}
	out.Stage = StageSucceeded
	if kind == KindDocument {
		out.Message = "ClickUp document created successfully! Document ID: " + out.EntityID
	} else {
		out.Message = "ClickUp task created successfully! Task ID: " + out.EntityID
	}
	metrics.Submissions.WithLabelValues(string(kind), "succeeded").Inc()
	log.Info("submission succeeded", "id", out.EntityID)
	reporter.Success(out.Message)
	return out
}

func (o *Orchestrator) invoke(ctx context.Context, plan Plan) (service.Created, error) {
	if plan.Kind == KindDocument {
		return o.svc.CreateDocument(ctx, *plan.Document, plan.WorkspaceID, plan.SpaceID)
	}
	return o.svc.CreateTask(ctx, *plan.Task, plan.ListID)
}

func (o *Orchestrator) fail(ctx context.Context, out Outcome, err error, reporter Reporter) Outcome {
	out.FailedAt = out.Stage
	out.Stage = StageFailed
	out.Err = err
	out.Message = ErrorPrefix + err.Error()
	metrics.Submissions.WithLabelValues(string(out.Kind), "failed").Inc()
	logger.FromContext(ctx).Warn("submission failed", "kind", out.Kind, "stage", out.FailedAt, "error", err)
	reporter.Error(out.Message)
	return out
}
