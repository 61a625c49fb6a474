package gatekeeper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsLineManagement_NYLevelsMatchRegardlessOfPeople(t *testing.T) {
	for digit := 1; digit <= 9; digit++ {
		key := fmt.Sprintf("NY%d-niveau", digit)
		require.True(t, IsLineManagement(UnitLevel{LevelUserKey: key}), key)
		require.True(t, IsLineManagement(UnitLevel{LevelUserKey: key, Engagements: 3}), key)
	}
}

func TestIsLineManagement_DepartmentLevelNeedsPeople(t *testing.T) {
	require.False(t, IsLineManagement(UnitLevel{LevelUserKey: "Afdelings-niveau"}))
	require.True(t, IsLineManagement(UnitLevel{LevelUserKey: "Afdelings-niveau", Engagements: 1}))
	require.True(t, IsLineManagement(UnitLevel{LevelUserKey: "Afdelings-niveau", Associations: 1}))
	require.True(t, IsLineManagement(UnitLevel{LevelUserKey: "Afdelings-niveau", Engagements: 2, Associations: 5}))
}

func TestIsLineManagement_OtherLevelsNeverMatch(t *testing.T) {
	for _, key := range []string{
		"",
		"NY0-niveau",
		"NY10-niveau",
		"NYx-niveau",
		"ny2-niveau",
		"Institutions-niveau",
		"NY2-niveau-extra",
	} {
		require.False(t, IsLineManagement(UnitLevel{LevelUserKey: key, Engagements: 7, Associations: 7}), "key %q", key)
	}
}

func TestLineManagementRules_PriorityOrder(t *testing.T) {
	require.Len(t, lineManagementRules, 2)
	require.Equal(t, "ny-level", lineManagementRules[0].name)
	require.Equal(t, "department-with-people", lineManagementRules[1].name)
}
