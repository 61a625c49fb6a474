package gatekeeper

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// fakeQuerier serves canned graph data and counts remote calls.
type fakeQuerier struct {
	mu sync.Mutex

	facets  map[string]uuid.UUID
	classes map[string]uuid.UUID
	units   map[uuid.UUID]OrgUnit
	levels  map[uuid.UUID]UnitLevel
	parents map[uuid.UUID]ParentLink
	all     []uuid.UUID

	facetCalls  int
	classCalls  int
	unitCalls   int
	levelCalls  int
	parentCalls int
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		facets:  make(map[string]uuid.UUID),
		classes: make(map[string]uuid.UUID),
		units:   make(map[uuid.UUID]OrgUnit),
		levels:  make(map[uuid.UUID]UnitLevel),
		parents: make(map[uuid.UUID]ParentLink),
	}
}

func (f *fakeQuerier) FacetUUID(_ context.Context, userKey string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.facetCalls++
	id, ok := f.facets[userKey]
	if !ok {
		return uuid.Nil, errors.Wrapf(ErrNotFound, "facet %q", userKey)
	}
	return id, nil
}

func (f *fakeQuerier) ClassUUID(_ context.Context, _ uuid.UUID, userKey string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.classCalls++
	id, ok := f.classes[userKey]
	if !ok {
		return uuid.Nil, errors.Wrapf(ErrNotFound, "class %q", userKey)
	}
	return id, nil
}

func (f *fakeQuerier) OrgUnit(_ context.Context, unit uuid.UUID) (OrgUnit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unitCalls++
	ou, ok := f.units[unit]
	if !ok {
		return OrgUnit{}, errors.Wrapf(ErrNotFound, "org unit %s", unit)
	}
	return ou, nil
}

func (f *fakeQuerier) UnitLevel(_ context.Context, unit uuid.UUID) (UnitLevel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levelCalls++
	level, ok := f.levels[unit]
	if !ok {
		return UnitLevel{}, errors.Wrapf(ErrNotFound, "unit level for %s", unit)
	}
	return level, nil
}

func (f *fakeQuerier) ParentLink(_ context.Context, unit uuid.UUID) (ParentLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parentCalls++
	link, ok := f.parents[unit]
	if !ok {
		return ParentLink{}, errors.Wrapf(ErrNotFound, "parent link for %s", unit)
	}
	return link, nil
}

func (f *fakeQuerier) AllUnitUUIDs(_ context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.all, nil
}

// fakeEditor records submitted edits.
type fakeEditor struct {
	mu    sync.Mutex
	edits []OrgUnit
	err   error
}

func (f *fakeEditor) EditOrgUnit(_ context.Context, unit OrgUnit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.edits = append(f.edits, unit)
	return nil
}
