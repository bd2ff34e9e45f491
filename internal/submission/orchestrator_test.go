package submission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clickform/internal/service"
	"clickform/internal/testutil"
)

type recordingReporter struct {
	successes []string
	errors    []string
}

func (r *recordingReporter) Success(message string) { r.successes = append(r.successes, message) }
func (r *recordingReporter) Error(message string)   { r.errors = append(r.errors, message) }

var testNow = time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)

func newTestOrchestrator(svc service.Service) *Orchestrator {
	return NewOrchestrator(svc, WithLocation(time.UTC), WithClock(func() time.Time { return testNow }))
}

func contactFields() Fields {
	return NewFields(
		Field{ID: "name", Title: "Name", Value: "Ada"},
		Field{ID: "due", Title: "Due", Value: "2024-01-15"},
		Field{ID: "budget", Title: "Budget", Value: "5000"},
	)
}

func TestOrchestrator_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a task with every optional attribute", func(t *testing.T) {
		svc := rosterService()
		reporter := &recordingReporter{}
		settings := Settings{
			WorkspaceID:  "w1",
			SpaceID:      "s1",
			ListID:       "l1",
			TaskName:     "Lead: {name}",
			Status:       "open",
			Priority:     2,
			DueDate:      "{due}",
			Assignees:    "alice, nobody",
			CustomFields: "cf_budget:budget\ncf_none:missing",
			FormName:     "Contact",
		}

		out := newTestOrchestrator(svc).Run(ctx, settings, contactFields(), reporter)

		require.True(t, out.Succeeded(), out.Message)
		assert.Equal(t, "ClickUp task created successfully! Task ID: task-1", out.Message)
		assert.Equal(t, []string{out.Message}, reporter.successes)
		assert.Empty(t, reporter.errors)

		tasks := svc.Tasks()
		require.Len(t, tasks, 1)
		assert.Equal(t, "l1", tasks[0].ListID)
		assert.Equal(t, service.TaskPayload{
			Name:         "Lead: Ada",
			Description:  "**Name**: Ada\n**Due**: 2024-01-15\n**Budget**: 5000",
			Status:       "open",
			Priority:     2,
			DueDate:      1705276800000,
			Assignees:    []int64{101},
			CustomFields: []service.CustomField{{ID: "cf_budget", Value: "5000"}},
		}, tasks[0].Payload)
	})

	t.Run("Should apply default templates", func(t *testing.T) {
		svc := testutil.NewFakeService()
		settings := Settings{WorkspaceID: "w1", SpaceID: "s1", ListID: "l1"}

		out := newTestOrchestrator(svc).Run(ctx, settings, contactFields(), nil)

		require.True(t, out.Succeeded())
		payload := svc.Tasks()[0].Payload
		assert.Equal(t, "New task from Form", payload.Name)
		assert.Equal(t, AllFields(contactFields()), payload.Description)
		assert.Zero(t, payload.Priority)
		assert.Zero(t, payload.DueDate)
		assert.Nil(t, payload.Assignees)
		assert.Empty(t, out.Skipped)
	})

	t.Run("Should fail validation before any remote call", func(t *testing.T) {
		for _, settings := range []Settings{
			{SpaceID: "s1", ListID: "l1"},
			{WorkspaceID: "w1", ListID: "l1"},
			{Kind: KindDocument, WorkspaceID: "w1"},
		} {
			svc := rosterService()
			reporter := &recordingReporter{}
			out := newTestOrchestrator(svc).Run(ctx, settings, contactFields(), reporter)

			assert.Equal(t, StageFailed, out.Stage)
			assert.Equal(t, StageValidateRequired, out.FailedAt)
			assert.Equal(t, "ClickUp Integration Error: Workspace and Space are required.", out.Message)
			assert.Equal(t, []string{out.Message}, reporter.errors)
			assert.Equal(t, 0, svc.CreateCalls)
			assert.Equal(t, 0, svc.MembersCalls)
		}
	})

	t.Run("Should require a list for tasks", func(t *testing.T) {
		svc := testutil.NewFakeService()
		out := newTestOrchestrator(svc).Run(ctx, Settings{WorkspaceID: "w1", SpaceID: "s1"}, contactFields(), nil)

		assert.Equal(t, StageBuildPayload, out.FailedAt)
		assert.Equal(t, "ClickUp Integration Error: List ID is required for creating tasks.", out.Message)
		assert.True(t, service.IsKind(out.Err, service.KindValidation))
		assert.Equal(t, 0, svc.CreateCalls)
	})

	t.Run("Should reject unknown kinds and out of range priorities", func(t *testing.T) {
		svc := testutil.NewFakeService()
		o := newTestOrchestrator(svc)

		out := o.Run(ctx, Settings{Kind: "folder", WorkspaceID: "w1", SpaceID: "s1", ListID: "l1"}, Fields{}, nil)
		assert.Equal(t, StageValidateRequired, out.FailedAt)
		assert.Contains(t, out.Message, "kind")

		out = o.Run(ctx, Settings{WorkspaceID: "w1", SpaceID: "s1", ListID: "l1", Priority: 7}, Fields{}, nil)
		assert.Equal(t, StageValidateRequired, out.FailedAt)
		assert.Contains(t, out.Message, "priority")
		assert.Equal(t, 0, svc.CreateCalls)
	})

	t.Run("Should report the create error once", func(t *testing.T) {
		svc := testutil.NewFakeService()
		svc.CreateTaskErr = service.NewError(service.KindAPI, "Status not found")
		reporter := &recordingReporter{}

		out := newTestOrchestrator(svc).Run(ctx, Settings{WorkspaceID: "w1", SpaceID: "s1", ListID: "l1"}, Fields{}, reporter)

		assert.Equal(t, StageInvoke, out.FailedAt)
		assert.Equal(t, "ClickUp Integration Error: Status not found", out.Message)
		assert.Equal(t, []string{out.Message}, reporter.errors)
		assert.Empty(t, reporter.successes)
		assert.Equal(t, 1, svc.CreateCalls)
	})

	t.Run("Should absorb failed resolutions as skips", func(t *testing.T) {
		svc := rosterService()
		svc.MembersErr = service.NewError(service.KindTransport, "request timed out")
		settings := Settings{
			WorkspaceID:  "w1",
			SpaceID:      "s1",
			ListID:       "l1",
			DueDate:      "{missing}",
			Assignees:    "alice",
			CustomFields: "cf:missing",
		}

		out := newTestOrchestrator(svc).Run(ctx, settings, contactFields(), nil)

		require.True(t, out.Succeeded())
		steps := make([]string, 0, len(out.Skipped))
		for _, s := range out.Skipped {
			steps = append(steps, s.Step)
		}
		assert.Equal(t, []string{"due_date", "assignees", "custom_fields"}, steps)
		payload := svc.Tasks()[0].Payload
		assert.Zero(t, payload.DueDate)
		assert.Nil(t, payload.Assignees)
		assert.Nil(t, payload.CustomFields)
	})

	t.Run("Should create a document with computed content", func(t *testing.T) {
		svc := testutil.NewFakeService()
		reporter := &recordingReporter{}
		settings := Settings{
			Kind:        KindDocument,
			WorkspaceID: "w1",
			SpaceID:     "s1",
			Description: "Submitted by {name}",
			FormName:    "Contact",
		}

		out := newTestOrchestrator(svc).Run(ctx, settings, contactFields(), reporter)

		require.True(t, out.Succeeded())
		assert.Equal(t, "ClickUp document created successfully! Document ID: doc-1", out.Message)
		docs := svc.Documents()
		require.Len(t, docs, 1)
		assert.Equal(t, "w1", docs[0].WorkspaceID)
		assert.Equal(t, "s1", docs[0].SpaceID)
		assert.Equal(t, service.DocumentPayload{Name: "New document from Contact", Content: "Submitted by Ada"}, docs[0].Payload)
		assert.Empty(t, svc.Tasks())
	})
}

type blankIDService struct {
	*testutil.FakeService
}

func (b blankIDService) CreateTask(ctx context.Context, payload service.TaskPayload, listID string) (service.Created, error) {
	return service.Created{}, nil
}

func TestOrchestrator_RunWithoutEntityID(t *testing.T) {
	svc := blankIDService{testutil.NewFakeService()}
	out := newTestOrchestrator(svc).Run(context.Background(), Settings{WorkspaceID: "w1", SpaceID: "s1", ListID: "l1"}, Fields{}, nil)

	assert.Equal(t, "N/A", out.EntityID)
	assert.Equal(t, "ClickUp task created successfully! Task ID: N/A", out.Message)
}

func TestOrchestrator_Build(t *testing.T) {
	t.Run("Should resolve relative due dates against the clock", func(t *testing.T) {
		o := newTestOrchestrator(testutil.NewFakeService())
		plan, err := o.Build(context.Background(), Settings{WorkspaceID: "w1", SpaceID: "s1", ListID: "l1", DueDate: "+3 days"}, Fields{})

		require.NoError(t, err)
		require.NotNil(t, plan.Task)
		assert.Equal(t, testNow.Add(72*time.Hour).Unix()*1000, plan.Task.DueDate)
		assert.Nil(t, plan.Document)
	})
}
