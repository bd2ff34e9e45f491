// Package service defines the backend-agnostic interface for workspace lookups
// and task/document creation.
package service

import "context"

// Service defines the interface for project-management backend operations.
// All ClickUp API calls go through this interface.
// Commands and the submission pipeline never import the HTTP client directly.
type Service interface {
	// Workspaces returns the workspaces visible to the stored credential.
	Workspaces(ctx context.Context) ([]Choice, error)

	// Spaces returns the spaces of a workspace.
	Spaces(ctx context.Context, workspaceID string) ([]Choice, error)

	// Lists returns the lists of a space, including lists nested in folders.
	Lists(ctx context.Context, spaceID string) ([]ListChoice, error)

	// Statuses returns the statuses configured on a list.
	Statuses(ctx context.Context, listID string) ([]Status, error)

	// Members returns the member roster of a workspace in API order.
	Members(ctx context.Context, workspaceID string) ([]Member, error)

	// ValidateToken checks a token against the API without persisting it.
	ValidateToken(ctx context.Context, token string) error

	// CreateTask creates a task in the given list.
	CreateTask(ctx context.Context, payload TaskPayload, listID string) (Created, error)

	// CreateDocument creates a document under a space.
	CreateDocument(ctx context.Context, payload DocumentPayload, workspaceID, spaceID string) (Created, error)
}
