// Package haltest provides a vendor-agnostic conformance suite for
// simplelink.Driver implementations. Any driver the HAL is expected to run
// on (the simulator, a hardware port) must pass it.
package haltest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wifi-control/whal/internal/simplelink"
)

// RunConformance runs the full driver conformance suite. newDriver must
// return a fresh, cold instance per call.
func RunConformance(t *testing.T, newDriver func() simplelink.Driver) {
	t.Run("Lifecycle", func(t *testing.T) { runLifecycle(t, newDriver()) })
	t.Run("RoleLatching", func(t *testing.T) { runRoleLatching(t, newDriver()) })
	t.Run("ProfileStore", func(t *testing.T) { runProfileStore(t, newDriver()) })
	t.Run("NetworkList", func(t *testing.T) { runNetworkList(t, newDriver()) })
	t.Run("ScanPolicy", func(t *testing.T) { runScanPolicy(t, newDriver()) })
	t.Run("PowerPolicy", func(t *testing.T) { runPowerPolicy(t, newDriver()) })
}

func runLifecycle(t *testing.T, drv simplelink.Driver) {
	require.NoError(t, drv.SpawnWorker())

	// The firmware requires a start before the first stop.
	role, err := drv.Start()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, int(role), 0, "start must report a role")

	require.NoError(t, drv.Stop(200*time.Millisecond))
	assert.Error(t, drv.Stop(200*time.Millisecond), "second stop must fail")
}

func runRoleLatching(t *testing.T, drv simplelink.Driver) {
	require.NoError(t, drv.SpawnWorker())
	_, err := drv.Start()
	require.NoError(t, err)

	// A requested role only takes effect across a restart.
	require.NoError(t, drv.SetMode(simplelink.RoleAP))
	require.NoError(t, drv.Stop(200*time.Millisecond))
	role, err := drv.Start()
	require.NoError(t, err)
	assert.Equal(t, simplelink.RoleAP, role)

	assert.Error(t, drv.SetMode(simplelink.RoleReserved), "reserved role must be rejected")
}

func runProfileStore(t *testing.T, drv simplelink.Driver) {
	require.NoError(t, drv.SpawnWorker())
	_, err := drv.Start()
	require.NoError(t, err)

	bssid := [simplelink.BSSIDLen]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	sec := simplelink.SecParams{Type: simplelink.SecWPAWPA2, Key: []byte("hunter22")}

	index, err := drv.ProfileAdd([]byte("conformance-net"), bssid, sec)
	require.NoError(t, err)
	require.GreaterOrEqual(t, index, 0, "assigned index must be zero or positive")

	profile, err := drv.ProfileGet(index)
	require.NoError(t, err)
	assert.Equal(t, []byte("conformance-net"), profile.SSID)
	assert.Equal(t, bssid, profile.BSSID)
	assert.Equal(t, simplelink.SecWPAWPA2, profile.Security)

	require.NoError(t, drv.ProfileDelete(index))
	_, err = drv.ProfileGet(index)
	assert.Error(t, err, "deleted profile must not be readable")
	assert.Error(t, drv.ProfileDelete(index), "double delete must fail")

	// Unknown security must be rejected without storing anything.
	_, err = drv.ProfileAdd([]byte("x"), bssid, simplelink.SecParams{Type: simplelink.SecUnknown})
	assert.Error(t, err)
}

func runNetworkList(t *testing.T, drv simplelink.Driver) {
	require.NoError(t, drv.SpawnWorker())
	_, err := drv.Start()
	require.NoError(t, err)

	// The list always fills the requested count, zero-padding past the
	// live networks.
	entries, err := drv.NetworkList(0, 4)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	entries, err = drv.NetworkList(0, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 0)

	_, err = drv.NetworkList(-1, 4)
	assert.Error(t, err)
}

func runScanPolicy(t *testing.T, drv simplelink.Driver) {
	require.NoError(t, drv.SpawnWorker())
	_, err := drv.Start()
	require.NoError(t, err)

	assert.Error(t, drv.SetScanPolicy(1, true), "interval below firmware minimum must be rejected")
	require.NoError(t, drv.SetScanPolicy(10, true))
	require.NoError(t, drv.DisableScanPolicy())
}

func runPowerPolicy(t *testing.T, drv simplelink.Driver) {
	require.NoError(t, drv.SpawnWorker())
	_, err := drv.Start()
	require.NoError(t, err)

	for _, policy := range []simplelink.PowerPolicy{
		simplelink.PolicyLowPower,
		simplelink.PolicyAlwaysOn,
		simplelink.PolicyNormal,
	} {
		require.NoError(t, drv.SetPowerPolicy(policy))
		got, err := drv.PowerPolicy()
		require.NoError(t, err)
		assert.Equal(t, policy, got)
	}
}
