package clickup

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"github.com/tidwall/gjson"

	"clickform/internal/logger"
	"clickform/internal/metrics"
	"clickform/internal/service"
)

const keyPrefix = "clickup_"

func workspacesKey(token string) string {
	sum := md5.Sum([]byte(token))
	return keyPrefix + "workspaces_" + hex.EncodeToString(sum[:])
}

func spacesKey(workspaceID string) string { return keyPrefix + "spaces_" + workspaceID }
func listsKey(spaceID string) string      { return keyPrefix + "lists_" + spaceID }
func statusesKey(listID string) string    { return keyPrefix + "statuses_" + listID }

// cachedLookup serves key from the cache while it is live and otherwise
// calls fetch and stores its result for CacheTTL.
func cachedLookup[T any](ctx context.Context, c *Client, resource, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	log := logger.FromContext(ctx)

	if raw, ok := c.cache.Get(ctx, key); ok {
		var items []T
		if err := json.Unmarshal(raw, &items); err == nil {
			metrics.CacheLookups.WithLabelValues(resource, "hit").Inc()
			log.Debug("lookup cache hit", "key", key)
			return items, nil
		}
		log.Debug("discarding undecodable cache entry", "key", key)
	}
	metrics.CacheLookups.WithLabelValues(resource, "miss").Inc()

	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(items)
	if err != nil {
		log.Warn("failed to encode lookup for cache", "key", key, "error", err)
		return items, nil
	}
	if err := c.cache.Set(ctx, key, data, CacheTTL); err != nil {
		log.Warn("failed to cache lookup", "key", key, "error", err)
	}
	return items, nil
}

// arrayField returns the top-level array at path or an invalid_response error.
func arrayField(body []byte, path string) (gjson.Result, error) {
	field := gjson.GetBytes(body, path)
	if !field.IsArray() {
		return gjson.Result{}, service.NewError(service.KindInvalidResponse, "Invalid API response")
	}
	return field, nil
}

// Workspaces implements service.Service.
func (c *Client) Workspaces(ctx context.Context) ([]service.Choice, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	return cachedLookup(ctx, c, "workspaces", workspacesKey(token), func(ctx context.Context) ([]service.Choice, error) {
		body, err := c.Request(ctx, "team", RequestOptions{}, APIVersion)
		if err != nil {
			return nil, err
		}
		teams, err := arrayField(body, "teams")
		if err != nil {
			return nil, err
		}
		return choices(teams), nil
	})
}

// Spaces implements service.Service.
func (c *Client) Spaces(ctx context.Context, workspaceID string) ([]service.Choice, error) {
	if workspaceID == "" {
		return nil, service.NewError(service.KindValidation, "Workspace ID is required")
	}
	return cachedLookup(ctx, c, "spaces", spacesKey(workspaceID), func(ctx context.Context) ([]service.Choice, error) {
		body, err := c.Request(ctx, "team/"+workspaceID+"/space", RequestOptions{}, APIVersion)
		if err != nil {
			return nil, err
		}
		spaces, err := arrayField(body, "spaces")
		if err != nil {
			return nil, err
		}
		return choices(spaces), nil
	})
}

// Lists implements service.Service.
// Lists inside folders follow the folderless ones, labelled "<folder> → <list>".
// A failed folder listing still returns the folderless lists.
func (c *Client) Lists(ctx context.Context, spaceID string) ([]service.ListChoice, error) {
	if spaceID == "" {
		return nil, service.NewError(service.KindValidation, "Space ID is required")
	}
	return cachedLookup(ctx, c, "lists", listsKey(spaceID), func(ctx context.Context) ([]service.ListChoice, error) {
		body, err := c.Request(ctx, "space/"+spaceID+"/list", RequestOptions{}, APIVersion)
		if err != nil {
			return nil, err
		}
		lists, err := arrayField(body, "lists")
		if err != nil {
			return nil, err
		}

		result := make([]service.ListChoice, 0, len(lists.Array()))
		for _, list := range lists.Array() {
			result = append(result, listChoice(list, list.Get("name").String()))
		}

		folderBody, err := c.Request(ctx, "space/"+spaceID+"/folder", RequestOptions{}, APIVersion)
		if err != nil {
			logger.FromContext(ctx).Debug("skipping folder lists", "space", spaceID, "error", err)
			return result, nil
		}
		for _, folder := range gjson.GetBytes(folderBody, "folders").Array() {
			folderLists := folder.Get("lists")
			if !folderLists.IsArray() {
				continue
			}
			folderName := folder.Get("name").String()
			for _, list := range folderLists.Array() {
				result = append(result, listChoice(list, folderName+" → "+list.Get("name").String()))
			}
		}
		return result, nil
	})
}

// Statuses implements service.Service.
func (c *Client) Statuses(ctx context.Context, listID string) ([]service.Status, error) {
	if listID == "" {
		return nil, service.NewError(service.KindValidation, "List ID is required")
	}
	return cachedLookup(ctx, c, "statuses", statusesKey(listID), func(ctx context.Context) ([]service.Status, error) {
		body, err := c.Request(ctx, "list/"+listID, RequestOptions{}, APIVersion)
		if err != nil {
			return nil, err
		}
		statuses, err := arrayField(body, "statuses")
		if err != nil {
			return nil, err
		}
		return parseStatuses(statuses), nil
	})
}

// Members implements service.Service. Rosters are not cached.
func (c *Client) Members(ctx context.Context, workspaceID string) ([]service.Member, error) {
	if workspaceID == "" {
		return nil, service.NewError(service.KindValidation, "Workspace ID is required")
	}
	body, err := c.Request(ctx, "team/"+workspaceID, RequestOptions{}, APIVersion)
	if err != nil {
		return nil, err
	}
	members, err := arrayField(body, "team.members")
	if err != nil {
		return nil, err
	}

	result := make([]service.Member, 0, len(members.Array()))
	for _, m := range members.Array() {
		user := m.Get("user")
		if !user.Get("username").Exists() {
			continue
		}
		result = append(result, service.Member{
			ID:       user.Get("id").Int(),
			Username: user.Get("username").String(),
			Email:    user.Get("email").String(),
		})
	}
	return result, nil
}

// ValidateToken implements service.Service. The token is used for one
// GET user call and never stored; persisting it is the caller's job.
func (c *Client) ValidateToken(ctx context.Context, token string) error {
	if token == "" {
		return service.NewError(service.KindValidation, "API token is empty")
	}
	_, err := c.do(ctx, token, "user", RequestOptions{}, APIVersion)
	return err
}

func choices(items gjson.Result) []service.Choice {
	result := make([]service.Choice, 0, len(items.Array()))
	for _, item := range items.Array() {
		result = append(result, service.Choice{
			ID:   item.Get("id").String(),
			Name: item.Get("name").String(),
		})
	}
	return result
}

func listChoice(list gjson.Result, label string) service.ListChoice {
	return service.ListChoice{
		Value:    list.Get("id").String(),
		Label:    label,
		Statuses: parseStatuses(list.Get("statuses")),
	}
}

func parseStatuses(statuses gjson.Result) []service.Status {
	result := make([]service.Status, 0, len(statuses.Array()))
	for _, s := range statuses.Array() {
		name := s.Get("status").String()
		result = append(result, service.Status{
			ID:    name,
			Name:  name,
			Color: s.Get("color").String(),
		})
	}
	return result
}
