package gatekeeper

import "regexp"

// NY1-niveau through NY9-niveau are the SD structural levels.
var nyLevelPattern = regexp.MustCompile(`^NY[1-9]-niveau$`)

const departmentLevelKey = "Afdelings-niveau"

type lineManagementRule struct {
	name    string
	matches func(UnitLevel) bool
}

// lineManagementRules are evaluated in order, short-circuiting on the first
// match. The ordering is part of the contract, not an implementation detail.
var lineManagementRules = []lineManagementRule{
	{
		name: "ny-level",
		matches: func(level UnitLevel) bool {
			return nyLevelPattern.MatchString(level.LevelUserKey)
		},
	},
	{
		name: "department-with-people",
		matches: func(level UnitLevel) bool {
			return level.LevelUserKey == departmentLevelKey &&
				(level.Engagements > 0 || level.Associations > 0)
		},
	},
}

// IsLineManagement reports whether a unit with the given level belongs to
// line management. An absent or unrecognized level user-key is not an error,
// it simply never matches.
func IsLineManagement(level UnitLevel) bool {
	for _, rule := range lineManagementRules {
		if rule.matches(level) {
			return true
		}
	}
	return false
}
