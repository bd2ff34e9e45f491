package clickup

import (
	"context"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"clickform/internal/logger"
	"clickform/internal/service"
)

// spaceParentType is the docs API parent type for a space.
const spaceParentType = 4

type docParent struct {
	Type int    `json:"type"`
	ID   string `json:"id"`
}

type docEnvelope struct {
	Name       string    `json:"name"`
	CreatePage bool      `json:"create_page"`
	Parent     docParent `json:"parent"`
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, payload service.TaskPayload, listID string) (service.Created, error) {
	if listID == "" {
		return service.Created{}, service.NewError(service.KindValidation, "List ID is required")
	}
	if payload.Name == "" {
		return service.Created{}, service.NewError(service.KindValidation, "Task name is required")
	}

	body, err := c.Request(ctx, "list/"+listID+"/task", RequestOptions{
		Method: http.MethodPost,
		Body:   payload,
	}, APIVersion)
	if err != nil {
		return service.Created{}, err
	}
	return service.Created{ID: gjson.GetBytes(body, "id").String()}, nil
}

// CreateDocument implements service.Service.
// Only the name and parent space are sent; payload.Content is not part of
// the docs request body.
func (c *Client) CreateDocument(ctx context.Context, payload service.DocumentPayload, workspaceID, spaceID string) (service.Created, error) {
	if workspaceID == "" {
		return service.Created{}, service.NewError(service.KindValidation, "Workspace ID is required")
	}
	if spaceID == "" {
		return service.Created{}, service.NewError(service.KindValidation, "Space ID is required")
	}
	if payload.Name == "" {
		return service.Created{}, service.NewError(service.KindValidation, "Document name is required")
	}

	token, err := c.token(ctx)
	if err != nil {
		return service.Created{}, err
	}
	if payload.Content != "" {
		// TODO: send content as the first page once the docs pages endpoint is wired.
		logger.FromContext(ctx).Debug("document content is not forwarded", "length", len(payload.Content))
	}

	envelope := docEnvelope{
		Name:       strings.TrimSpace(payload.Name),
		CreatePage: false,
		Parent:     docParent{Type: spaceParentType, ID: spaceID},
	}
	body, err := c.Request(ctx, "workspaces/"+workspaceID+"/docs", RequestOptions{
		Method: http.MethodPost,
		Body:   envelope,
		Headers: map[string]string{
			"Authorization": token,
			"Content-Type":  "application/json",
			"Accept":        "application/json",
		},
	}, DocsAPIVersion)
	if err != nil {
		return service.Created{}, err
	}
	return service.Created{ID: gjson.GetBytes(body, "id").String()}, nil
}
