package gatekeeper

import (
	"context"
	"slices"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ShouldHide reports whether the unit, or any of its ancestors, carries a
// user-key from the hide-list. An empty hide-list returns false without any
// remote call.
//
// The chain is walked strictly upward. The source integration recursed with
// no cycle protection and would never terminate on malformed data; here a
// visited-set turns that into ErrCycle.
func ShouldHide(ctx context.Context, querier Querier, unit uuid.UUID, hideList []string) (bool, error) {
	if len(hideList) == 0 {
		return false, nil
	}

	visited := make(map[uuid.UUID]struct{})
	current := unit
	for {
		if _, seen := visited[current]; seen {
			return false, errors.Wrapf(ErrCycle, "unit %s revisited while walking ancestors of %s", current, unit)
		}
		visited[current] = struct{}{}

		link, err := querier.ParentLink(ctx, current)
		if err != nil {
			return false, errors.Wrapf(err, "fetch parent link for unit %s", current)
		}
		if slices.Contains(hideList, link.UserKey) {
			return true, nil
		}
		if link.ParentUUID == nil {
			return false, nil
		}
		current = *link.ParentUUID
	}
}
