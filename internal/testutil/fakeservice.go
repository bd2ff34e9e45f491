// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"clickform/internal/service"
)

// ValidToken is the token FakeService accepts by default.
const ValidToken = "pk_fake"

// CreatedTask records a CreateTask call that succeeded.
type CreatedTask struct {
	ID      string
	ListID  string
	Payload service.TaskPayload
}

// CreatedDocument records a CreateDocument call that succeeded.
type CreatedDocument struct {
	ID          string
	WorkspaceID string
	SpaceID     string
	Payload     service.DocumentPayload
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu         sync.RWMutex
	workspaces []service.Choice
	spaces     map[string][]service.Choice     // workspaceID -> spaces
	lists      map[string][]service.ListChoice // spaceID -> lists
	members    map[string][]service.Member     // workspaceID -> roster
	tasks      []CreatedTask
	documents  []CreatedDocument
	nextID     int

	// AcceptedToken is the only token ValidateToken accepts.
	AcceptedToken string

	// StoredToken is the last token passed to SetToken.
	StoredToken string

	// MembersCalls counts roster fetches.
	MembersCalls int

	// CreateCalls counts create attempts, successful or not.
	CreateCalls int

	// Error injection for testing
	WorkspacesErr     error
	SpacesErr         error
	ListsErr          error
	StatusesErr       error
	MembersErr        error
	ValidateTokenErr  error
	CreateTaskErr     error
	CreateDocumentErr error
}

// NewFakeService creates an empty FakeService accepting ValidToken.
func NewFakeService() *FakeService {
	return &FakeService{
		spaces:        make(map[string][]service.Choice),
		lists:         make(map[string][]service.ListChoice),
		members:       make(map[string][]service.Member),
		AcceptedToken: ValidToken,
	}
}

// AddWorkspace adds a workspace.
func (f *FakeService) AddWorkspace(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workspaces = append(f.workspaces, service.Choice{ID: id, Name: name})
}

// AddSpace adds a space to a workspace.
func (f *FakeService) AddSpace(workspaceID, id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spaces[workspaceID] = append(f.spaces[workspaceID], service.Choice{ID: id, Name: name})
}

// AddList adds a list to a space. Status names double as ids.
func (f *FakeService) AddList(spaceID, id, label string, statuses ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := service.ListChoice{Value: id, Label: label, Statuses: []service.Status{}}
	for _, s := range statuses {
		list.Statuses = append(list.Statuses, service.Status{ID: s, Name: s})
	}
	f.lists[spaceID] = append(f.lists[spaceID], list)
}

// AddMember appends a member to a workspace roster.
func (f *FakeService) AddMember(workspaceID string, id int64, username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[workspaceID] = append(f.members[workspaceID], service.Member{ID: id, Username: username})
}

// Tasks returns the tasks created so far.
func (f *FakeService) Tasks() []CreatedTask {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]CreatedTask(nil), f.tasks...)
}

// Documents returns the documents created so far.
func (f *FakeService) Documents() []CreatedDocument {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]CreatedDocument(nil), f.documents...)
}

// Workspaces implements service.Service.
func (f *FakeService) Workspaces(ctx context.Context) ([]service.Choice, error) {
	if f.WorkspacesErr != nil {
		return nil, f.WorkspacesErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Choice{}, f.workspaces...), nil
}

// Spaces implements service.Service.
func (f *FakeService) Spaces(ctx context.Context, workspaceID string) ([]service.Choice, error) {
	if workspaceID == "" {
		return nil, service.NewError(service.KindValidation, "Workspace ID is required")
	}
	if f.SpacesErr != nil {
		return nil, f.SpacesErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Choice{}, f.spaces[workspaceID]...), nil
}

// Lists implements service.Service.
func (f *FakeService) Lists(ctx context.Context, spaceID string) ([]service.ListChoice, error) {
	if spaceID == "" {
		return nil, service.NewError(service.KindValidation, "Space ID is required")
	}
	if f.ListsErr != nil {
		return nil, f.ListsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.ListChoice{}, f.lists[spaceID]...), nil
}

// Statuses implements service.Service.
func (f *FakeService) Statuses(ctx context.Context, listID string) ([]service.Status, error) {
	if listID == "" {
		return nil, service.NewError(service.KindValidation, "List ID is required")
	}
	if f.StatusesErr != nil {
		return nil, f.StatusesErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, lists := range f.lists {
		for _, l := range lists {
			if l.Value == listID {
				return append([]service.Status{}, l.Statuses...), nil
			}
		}
	}
	return nil, service.NewError(service.KindAPI, "List not found")
}

// Members implements service.Service.
func (f *FakeService) Members(ctx context.Context, workspaceID string) ([]service.Member, error) {
	f.mu.Lock()
	f.MembersCalls++
	f.mu.Unlock()
	if f.MembersErr != nil {
		return nil, f.MembersErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Member{}, f.members[workspaceID]...), nil
}

// ValidateToken implements service.Service.
func (f *FakeService) ValidateToken(ctx context.Context, token string) error {
	if token == "" {
		return service.NewError(service.KindValidation, "API token is empty")
	}
	if f.ValidateTokenErr != nil {
		return f.ValidateTokenErr
	}
	if token != f.AcceptedToken {
		return service.NewError(service.KindInvalidToken, "API token is invalid")
	}
	return nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, payload service.TaskPayload, listID string) (service.Created, error) {
	if listID == "" {
		return service.Created{}, service.NewError(service.KindValidation, "List ID is required")
	}
	if payload.Name == "" {
		return service.Created{}, service.NewError(service.KindValidation, "Task name is required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateTaskErr != nil {
		return service.Created{}, f.CreateTaskErr
	}
	f.nextID++
	id := fmt.Sprintf("task-%d", f.nextID)
	f.tasks = append(f.tasks, CreatedTask{ID: id, ListID: listID, Payload: payload})
	return service.Created{ID: id}, nil
}

// CreateDocument implements service.Service.
func (f *FakeService) CreateDocument(ctx context.Context, payload service.DocumentPayload, workspaceID, spaceID string) (service.Created, error) {
	if workspaceID == "" || spaceID == "" {
		return service.Created{}, service.NewError(service.KindValidation, "Workspace ID and Space ID are required")
	}
	if payload.Name == "" {
		return service.Created{}, service.NewError(service.KindValidation, "Document name is required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateDocumentErr != nil {
		return service.Created{}, f.CreateDocumentErr
	}
	f.nextID++
	id := fmt.Sprintf("doc-%d", f.nextID)
	f.documents = append(f.documents, CreatedDocument{ID: id, WorkspaceID: workspaceID, SpaceID: spaceID, Payload: payload})
	return service.Created{ID: id}, nil
}

var _ service.Service = (*FakeService)(nil)

// SetToken records token as the stored credential.
func (f *FakeService) SetToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StoredToken = token
	return nil
}
