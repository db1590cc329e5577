package wifi

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wifi-control/whal/internal/simplelink"
)

func networkEntry(ssid string, channel uint8, rssi int8, sec simplelink.Security, hidden bool) simplelink.NetworkEntry {
	var e simplelink.NetworkEntry
	copy(e.SSID[:], ssid)
	e.SSIDLen = uint8(len(ssid))
	e.Channel = channel
	e.RSSI = rssi
	e.SecurityInfo = simplelink.PackSecurityInfo(sec, hidden)
	return e
}

func TestScan(t *testing.T) {
	sim, hal := newTestHAL(t)
	sim.SetNetworks([]simplelink.NetworkEntry{
		networkEntry("CoffeeShop", 6, -40, simplelink.SecWPAWPA2, false),
		networkEntry("Library", 11, -70, simplelink.SecOpen, false),
	})

	out := make([]ScanResult, 4)
	require.NoError(t, hal.Scan(context.Background(), out))

	assert.Equal(t, "CoffeeShop", out[0].SSID)
	assert.Equal(t, uint8(6), out[0].Channel)
	assert.Equal(t, int8(-40), out[0].RSSI)
	assert.Equal(t, SecurityWPA2, out[0].Security)
	assert.False(t, out[0].Hidden)

	assert.Equal(t, "Library", out[1].SSID)
	assert.Equal(t, SecurityOpen, out[1].Security)

	// Past the live networks the firmware zero-pads; the decode keeps
	// the padding as empty entries rather than stale data.
	assert.Equal(t, ScanResult{Security: SecurityOpen}, out[2])
	assert.Equal(t, ScanResult{Security: SecurityOpen}, out[3])

	// One full cycle: arm, disarm, one list read.
	assert.Equal(t, 1, sim.CallCount("SetScanPolicy"))
	assert.Equal(t, 1, sim.CallCount("DisableScanPolicy"))
	assert.Equal(t, 1, sim.CallCount("NetworkList"))
}

func TestScanZeroLengthOutput(t *testing.T) {
	sim, hal := newTestHAL(t)
	sim.SetNetworks([]simplelink.NetworkEntry{
		networkEntry("CoffeeShop", 6, -40, simplelink.SecWPAWPA2, false),
	})

	require.NoError(t, hal.Scan(context.Background(), nil))

	// The cycle still runs, but no list read and no writes happen.
	assert.Equal(t, 1, sim.CallCount("SetScanPolicy"))
	assert.Equal(t, 1, sim.CallCount("DisableScanPolicy"))
	assert.Equal(t, 0, sim.CallCount("NetworkList"))
}

func TestScanTruncatesUnterminatedSSID(t *testing.T) {
	sim, hal := newTestHAL(t)

	// A raw SSID field occupying every byte with no terminator.
	full := strings.Repeat("x", simplelink.MaxSSIDLen)
	sim.SetNetworks([]simplelink.NetworkEntry{
		networkEntry(full, 1, -50, simplelink.SecOpen, false),
		networkEntry("short\x00garbage", 2, -60, simplelink.SecOpen, false),
	})

	out := make([]ScanResult, 2)
	require.NoError(t, hal.Scan(context.Background(), out))

	assert.Equal(t, full, out[0].SSID)
	assert.Len(t, out[0].SSID, simplelink.MaxSSIDLen)
	// Decoding stops at the first NUL.
	assert.Equal(t, "short", out[1].SSID)
}

func TestScanHiddenNetworks(t *testing.T) {
	sim, hal := newTestHAL(t)
	sim.SetNetworks([]simplelink.NetworkEntry{
		networkEntry("", 3, -55, simplelink.SecWPAWPA2, true),
	})

	out := make([]ScanResult, 1)
	require.NoError(t, hal.Scan(context.Background(), out))
	assert.True(t, out[0].Hidden)
	assert.Empty(t, out[0].SSID)
}

func TestScanCancelledContextStillDisarms(t *testing.T) {
	sim, hal := newTestHAL(t)
	cfg := testConfig()
	cfg.ScanWindow = time.Hour
	hal.cfg = cfg

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := hal.Scan(ctx, make([]ScanResult, 1))
	assert.ErrorIs(t, err, ErrTimeout)
	// The policy is disarmed even when the caller goes away mid-window.
	assert.Equal(t, 1, sim.CallCount("DisableScanPolicy"))
	assert.Equal(t, 0, sim.CallCount("NetworkList"))
}

func TestScanDriverFailures(t *testing.T) {
	t.Run("arm fails", func(t *testing.T) {
		sim, hal := newTestHAL(t)
		sim.FailNext("SetScanPolicy", errors.New("policy rejected"))
		err := hal.Scan(context.Background(), make([]ScanResult, 1))
		assert.ErrorIs(t, err, ErrFailure)
		assert.Equal(t, 0, sim.CallCount("NetworkList"))
	})

	t.Run("list read fails", func(t *testing.T) {
		sim, hal := newTestHAL(t)
		sim.FailNext("NetworkList", errors.New("list unavailable"))
		err := hal.Scan(context.Background(), make([]ScanResult, 1))
		assert.ErrorIs(t, err, ErrFailure)
		// The disarm already happened before the read.
		assert.Equal(t, 1, sim.CallCount("DisableScanPolicy"))
	})
}
