package wifi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wifi-control/whal/internal/simplelink"
)

func TestSecurityTranslation(t *testing.T) {
	tests := []struct {
		name     string
		in       SecurityType
		native   simplelink.Security
		readBack SecurityType
	}{
		{"open", SecurityOpen, simplelink.SecOpen, SecurityOpen},
		{"wep", SecurityWEP, simplelink.SecWEP, SecurityWEP},
		{"wpa2", SecurityWPA2, simplelink.SecWPAWPA2, SecurityWPA2},
		// Plain WPA maps forward to the deprecated firmware value but
		// never reads back: the reverse mapping reports not-supported.
		{"wpa one-way", SecurityWPA, simplelink.SecWPA, SecurityNotSupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.native, securityToNative(tt.in))
			assert.Equal(t, tt.readBack, securityFromNative(tt.native))
		})
	}
}

func TestSecurityTranslationUnmapped(t *testing.T) {
	assert.Equal(t, simplelink.SecUnknown, securityToNative(SecurityNotSupported))
	assert.Equal(t, simplelink.SecUnknown, securityToNative(SecurityType(99)))
	assert.Equal(t, SecurityNotSupported, securityFromNative(simplelink.SecUnknown))
	assert.Equal(t, SecurityNotSupported, securityFromNative(simplelink.Security(0x42)))
}

func TestModeTranslationRoundTrip(t *testing.T) {
	for _, mode := range []DeviceMode{ModeStation, ModeAP, ModeP2P} {
		assert.Equal(t, mode, modeFromNative(modeToNative(mode)), mode.String())
	}
	assert.Equal(t, simplelink.RoleReserved, modeToNative(ModeNotSupported))
	assert.Equal(t, ModeNotSupported, modeFromNative(simplelink.RoleReserved))
}

func TestPMTranslationRoundTrip(t *testing.T) {
	for _, mode := range []PMMode{PMNormal, PMLowPower, PMAlwaysOn} {
		policy, ok := pmToNative(mode)
		assert.True(t, ok, mode.String())
		assert.Equal(t, mode, pmFromNative(policy), mode.String())
	}

	_, ok := pmToNative(PMNotSupported)
	assert.False(t, ok)
	// A firmware policy outside the mapped set reads back as not-supported.
	assert.Equal(t, PMNotSupported, pmFromNative(simplelink.PowerPolicy(7)))
}
