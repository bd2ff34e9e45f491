package submission

import (
	"context"
	"strings"

	"clickform/internal/service"
)

// MemberDirectory lists the members of a workspace.
type MemberDirectory interface {
	Members(ctx context.Context, workspaceID string) ([]service.Member, error)
}

// ParseAssignees interpolates spec and splits it into trimmed, non-empty
// candidate usernames.
func ParseAssignees(spec string, fields Fields, formName string) []string {
	var candidates []string
	for _, part := range strings.Split(Interpolate(spec, fields, formName), ",") {
		if part = strings.TrimSpace(part); part != "" {
			candidates = append(candidates, part)
		}
	}
	return candidates
}

// ResolveAssignees maps candidates from spec to member ids of the workspace.
//
// Each candidate takes the first roster member whose username equals it
// exactly; candidates without a match are dropped. A candidate listed twice
// yields its id twice. When the roster cannot be fetched the result is empty
// and the fetch error is returned for reporting only.
func ResolveAssignees(ctx context.Context, spec string, fields Fields, formName, workspaceID string, dir MemberDirectory) ([]int64, error) {
	candidates := ParseAssignees(spec, fields, formName)
	if len(candidates) == 0 || workspaceID == "" {
		return nil, nil
	}

	roster, err := dir.Members(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, candidate := range candidates {
		for _, member := range roster {
			if member.Username == candidate {
				ids = append(ids, member.ID)
				break
			}
		}
	}
	return ids, nil
}
