package gatekeeper

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// for tests
var nowFunc = time.Now

// Options carries the decision inputs consumed by the Service. All fields
// map one-to-one to the settings surface.
type Options struct {
	HideList              []string
	EnableHideLogic       bool
	HiddenUserKey         string
	LineManagementUserKey string
	DryRun                bool
}

// Service reconciles a unit's persisted hierarchy class with the desired
// classification. It keeps no state between invocations apart from the
// resolver's memoization cache.
type Service struct {
	querier  Querier
	editor   Editor
	resolver *Resolver
	opts     Options
	logger   *logrus.Logger

	// checks are evaluated in fixed priority order; the first match wins.
	checks []classificationCheck
}

type classificationCheck struct {
	classification Classification
	applies        func(ctx context.Context, unit uuid.UUID) (bool, error)
}

func NewService(querier Querier, editor Editor, resolver *Resolver, opts Options, logger *logrus.Logger) *Service {
	s := &Service{
		querier:  querier,
		editor:   editor,
		resolver: resolver,
		opts:     opts,
		logger:   logger,
	}
	s.checks = []classificationCheck{
		{Hidden, s.hiddenCheck},
		{LineManagement, s.lineManagementCheck},
	}
	return s
}

func (s *Service) hiddenCheck(ctx context.Context, unit uuid.UUID) (bool, error) {
	if !s.opts.EnableHideLogic {
		return false, nil
	}
	return ShouldHide(ctx, s.querier, unit, s.opts.HideList)
}

func (s *Service) lineManagementCheck(ctx context.Context, unit uuid.UUID) (bool, error) {
	level, err := s.querier.UnitLevel(ctx, unit)
	if err != nil {
		return false, errors.Wrapf(err, "fetch unit level for %s", unit)
	}
	return IsLineManagement(level), nil
}

// DesiredClassification computes what the unit's hierarchy class should be.
func (s *Service) DesiredClassification(ctx context.Context, unit uuid.UUID) (Classification, error) {
	for _, check := range s.checks {
		matched, err := check.applies(ctx, unit)
		if err != nil {
			return Unclassified, err
		}
		if matched {
			return check.classification, nil
		}
	}
	return Unclassified, nil
}

// UpdateUnit recomputes the unit's classification and writes it back iff it
// diverges from the persisted state. Returns whether a change was made, or
// would have been made in dry-run mode.
func (s *Service) UpdateUnit(ctx context.Context, unit uuid.UUID) (bool, error) {
	log := s.logger.WithField("unit", unit)

	desired, err := s.DesiredClassification(ctx, unit)
	if err != nil {
		return false, err
	}

	var desiredUUID *uuid.UUID
	switch desired {
	case Hidden:
		id, err := s.resolver.ClassUUID(ctx, s.opts.HiddenUserKey)
		if err != nil {
			return false, err
		}
		desiredUUID = &id
	case LineManagement:
		id, err := s.resolver.ClassUUID(ctx, s.opts.LineManagementUserKey)
		if err != nil {
			return false, err
		}
		desiredUUID = &id
	}
	log = log.WithField("desired", desired.String())

	// Fetch fresh right before deciding to write; keeps the race window
	// with concurrent edits as small as the platform allows.
	current, err := s.querier.OrgUnit(ctx, unit)
	if err != nil {
		return false, errors.Wrapf(err, "fetch org unit %s", unit)
	}
	if uuidPtrEqual(current.HierarchyUUID, desiredUUID) {
		log.Debug("Hierarchy already as desired, not updating")
		return false, nil
	}

	updated := current
	updated.HierarchyUUID = desiredUUID
	updated.Validity = Validity{From: truncateToDate(nowFunc())}

	if s.opts.DryRun {
		log.WithField("org_unit", updated).Info("dry-run: would have submitted edit")
		return true, nil
	}

	if err := s.editor.EditOrgUnit(ctx, updated); err != nil {
		return false, errors.Wrapf(err, "edit org unit %s", unit)
	}
	log.Info("Hierarchy updated")
	return true, nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
