package gatekeeper

import (
	"context"

	"github.com/google/uuid"
)

// Querier is the read-only graph capability consumed by the gatekeeper.
// Implementations run parameterized queries against MO and must return
// ErrAmbiguous when a single-object query matches zero or several records.
type Querier interface {
	// FacetUUID resolves a facet user-key to its UUID.
	FacetUUID(ctx context.Context, userKey string) (uuid.UUID, error)
	// ClassUUID resolves a class user-key within the given facet.
	ClassUUID(ctx context.Context, facet uuid.UUID, userKey string) (uuid.UUID, error)
	// OrgUnit fetches a unit's full attribute set.
	OrgUnit(ctx context.Context, unit uuid.UUID) (OrgUnit, error)
	// UnitLevel fetches a unit's level user-key and attached people counts.
	UnitLevel(ctx context.Context, unit uuid.UUID) (UnitLevel, error)
	// ParentLink fetches a unit's user-key and parent reference.
	ParentLink(ctx context.Context, unit uuid.UUID) (ParentLink, error)
	// AllUnitUUIDs lists every organisation unit, for bulk re-evaluation.
	AllUnitUUIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Editor is the write capability: apply one updated unit record.
type Editor interface {
	EditOrgUnit(ctx context.Context, unit OrgUnit) error
}
