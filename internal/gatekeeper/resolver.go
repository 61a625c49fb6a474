package gatekeeper

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HierarchyFacetKey is the well-known facet under which the hierarchy
// classes (hidden, line management) are registered in MO.
const HierarchyFacetKey = "org_unit_hierarchy"

// Resolver turns class user-keys into their backing UUIDs. Results are
// memoized in the injected Cache; user-keys pre-resolved via configuration
// skip the remote lookup entirely.
type Resolver struct {
	querier Querier
	cache   *Cache
	preset  map[string]uuid.UUID
	logger  *logrus.Logger
}

func NewResolver(querier Querier, cache *Cache, logger *logrus.Logger) *Resolver {
	return &Resolver{
		querier: querier,
		cache:   cache,
		preset:  make(map[string]uuid.UUID),
		logger:  logger,
	}
}

// Preset registers a pre-resolved UUID for a class user-key. Not safe for
// concurrent use with ClassUUID; call during wiring only.
func (r *Resolver) Preset(userKey string, id uuid.UUID) {
	r.preset[userKey] = id
}

// ClassUUID resolves the class with the given user-key under the hierarchy
// facet. Returns ErrNotFound (wrapped) when the facet or the class does not
// exist; that aborts the whole reconciliation at the caller.
func (r *Resolver) ClassUUID(ctx context.Context, userKey string) (uuid.UUID, error) {
	if id, ok := r.preset[userKey]; ok {
		return id, nil
	}
	return r.cache.GetOrCompute("class:"+userKey, func() (uuid.UUID, error) {
		facet, err := r.facetUUID(ctx)
		if err != nil {
			return uuid.Nil, err
		}
		id, err := r.querier.ClassUUID(ctx, facet, userKey)
		if err != nil {
			return uuid.Nil, errors.Wrapf(err, "resolve class %q under facet %q", userKey, HierarchyFacetKey)
		}
		r.logger.WithFields(logrus.Fields{
			"user_key": userKey,
			"uuid":     id,
		}).Debug("Class uuid not preset, fetched")
		return id, nil
	})
}

func (r *Resolver) facetUUID(ctx context.Context) (uuid.UUID, error) {
	return r.cache.GetOrCompute("facet:"+HierarchyFacetKey, func() (uuid.UUID, error) {
		id, err := r.querier.FacetUUID(ctx, HierarchyFacetKey)
		if err != nil {
			return uuid.Nil, errors.Wrapf(err, "resolve facet %q", HierarchyFacetKey)
		}
		return id, nil
	})
}
