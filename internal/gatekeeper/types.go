// Package gatekeeper decides whether an organisation unit belongs to line
// management or should be hidden, and reconciles that decision back to MO.
package gatekeeper

import (
	"time"

	"github.com/google/uuid"
)

// Classification is the desired hierarchy placement of a unit. Precedence is
// Hidden > LineManagement > Unclassified and is enforced by the reconciler.
type Classification int

const (
	Unclassified Classification = iota
	Hidden
	LineManagement
)

func (c Classification) String() string {
	switch c {
	case Hidden:
		return "hidden"
	case LineManagement:
		return "line-management"
	default:
		return "unclassified"
	}
}

type Validity struct {
	From time.Time
	To   *time.Time
}

// OrgUnit is a unit's full attribute set as registered in MO. It is fetched
// fresh for every reconciliation and never cached.
type OrgUnit struct {
	UUID          uuid.UUID
	UserKey       string
	Name          string
	ParentUUID    *uuid.UUID
	HierarchyUUID *uuid.UUID
	TypeUUID      *uuid.UUID
	LevelUUID     *uuid.UUID
	Validity      Validity
}

// UnitLevel is the slice of a unit needed by the line-management predicate.
// LevelUserKey is empty when the unit has no level registered.
type UnitLevel struct {
	LevelUserKey string
	Engagements  int
	Associations int
}

// ParentLink is the slice of a unit needed while walking the parent chain.
type ParentLink struct {
	UserKey    string
	ParentUUID *uuid.UUID
}

// UnitTriggered asks for a unit to be re-evaluated. Published on the event
// bus by the trigger endpoints; handled by a reconciliation subscriber.
type UnitTriggered struct {
	UUID uuid.UUID
}
