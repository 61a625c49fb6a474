package configuration

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c := &Configuration{}
	require.NoError(t, c.load(nil))
	t.Cleanup(c.Unload)

	require.Equal(t, "http://mo-service:5000", c.MO.URL)
	require.Equal(t, "orggatekeeper", c.Auth.ClientID)
	require.True(t, c.EnableHideLogic)
	require.Empty(t, c.Hidden)
	require.Equal(t, uuid.Nil, c.HiddenUUID)
	require.Equal(t, "hide", c.HiddenUserKey)
	require.Equal(t, "linjeorg", c.LineManagementUserKey)
	require.False(t, c.DryRun)
	require.Equal(t, "localhost:8000", c.SocketAddress)
	require.NotNil(t, c.Logger())
}

func TestLoad_HiddenListTrimsEmptyEntries(t *testing.T) {
	t.Setenv("HIDDEN", "QQQQ, ABCD,,XYZ ")

	c := &Configuration{}
	require.NoError(t, c.load(nil))
	t.Cleanup(c.Unload)

	require.Equal(t, []string{"QQQQ", "ABCD", "XYZ"}, c.Hidden)
}

func TestLoad_PreResolvedUUIDs(t *testing.T) {
	hidden := uuid.New()
	lineManagement := uuid.New()
	t.Setenv("HIDDEN_UUID", hidden.String())
	t.Setenv("LINE_MANAGEMENT_UUID", lineManagement.String())

	c := &Configuration{}
	require.NoError(t, c.load(nil))
	t.Cleanup(c.Unload)

	require.Equal(t, hidden, c.HiddenUUID)
	require.Equal(t, lineManagement, c.LineManagementUUID)
}

func TestLoad_InvalidPortRejected(t *testing.T) {
	t.Setenv("PORT", "70000")

	c := &Configuration{}
	require.Error(t, c.load(nil))
}

func TestLoad_ProductionSocketAddress(t *testing.T) {
	t.Setenv("GO_APP_ENV", Production)
	t.Setenv("PORT", "9000")

	c := &Configuration{}
	require.NoError(t, c.load(nil))
	t.Cleanup(c.Unload)

	require.Equal(t, ":9000", c.SocketAddress)
}

func TestTokenURL(t *testing.T) {
	a := &AuthOptions{AuthServer: "http://keycloak:8080/auth/", AuthRealm: "mo"}
	require.Equal(t, "http://keycloak:8080/auth/realms/mo/protocol/openid-connect/token", a.TokenURL())
}
