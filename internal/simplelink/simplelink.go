// Package simplelink defines the native vocabulary and the driver contract of
// the SimpleLink network processor this layer wraps. The HAL in internal/wifi
// talks to the device exclusively through the Driver interface; everything in
// this package mirrors what the vendor firmware actually reports.
package simplelink

// Device limits imposed by the network processor.
const (
	// MaxSSIDLen is the longest SSID the firmware accepts, in bytes.
	MaxSSIDLen = 32

	// MaxPassphraseLen is the longest AP passphrase the firmware accepts.
	MaxPassphraseLen = 64

	// BSSIDLen is the fixed hardware address length.
	BSSIDLen = 6

	// MaxProfiles is the capacity of the on-device profile store.
	MaxProfiles = 7
)

// Role is the device role as reported by the firmware. Start returns the
// role the device came up in; negative values indicate a start failure.
type Role int

const (
	RoleStation  Role = 0
	RoleReserved Role = 1
	RoleAP       Role = 2
	RoleP2P      Role = 3
)

// String returns the firmware role name.
func (r Role) String() string {
	switch r {
	case RoleStation:
		return "ROLE_STA"
	case RoleAP:
		return "ROLE_AP"
	case RoleP2P:
		return "ROLE_P2P"
	default:
		return "ROLE_RESERVED"
	}
}

// Security is the firmware's native security type enumeration.
type Security uint8

const (
	SecOpen    Security = 0
	SecWEP     Security = 1
	SecWPA     Security = 2 // deprecated in the firmware, still reported by old APs
	SecWPAWPA2 Security = 3

	// SecUnknown is the sentinel for an input the HAL could not map.
	// It is never a valid value to hand to the firmware.
	SecUnknown Security = 0xFF
)

// PowerPolicy is the firmware power-management policy identifier.
type PowerPolicy uint8

const (
	PolicyNormal   PowerPolicy = 0
	PolicyLowPower PowerPolicy = 2
	PolicyAlwaysOn PowerPolicy = 3
)

// StateBits is the connection status word maintained by the driver's event
// handlers. Reads are single-word fetches, so gate-free queries stay safe.
type StateBits uint32

const (
	StatusConnected  StateBits = 1 << 0
	StatusIPAcquired StateBits = 1 << 1
)

// Connected reports whether the station is associated with an AP.
func (s StateBits) Connected() bool { return s&StatusConnected != 0 }

// IPAcquired reports whether an IP address has been leased or configured.
func (s StateBits) IPAcquired() bool { return s&StatusIPAcquired != 0 }

// NetworkEntry is one record of the firmware's scan-result list. SSID is the
// raw field as stored by the firmware and is not guaranteed to be
// NUL-terminated; SecurityInfo packs the security bitmap and the hidden flag.
type NetworkEntry struct {
	SSID         [MaxSSIDLen]byte
	SSIDLen      uint8
	BSSID        [BSSIDLen]byte
	Channel      uint8
	RSSI         int8
	SecurityInfo uint16
}

// SecurityInfo layout: bits 0-2 security bitmap, bit 3 hidden SSID.
const (
	secTypeMask   = 0x0007
	hiddenSSIDBit = 0x0008
)

// Security extracts the native security type from the SecurityInfo bitmap.
func (e NetworkEntry) Security() Security {
	return Security(e.SecurityInfo & secTypeMask)
}

// Hidden reports whether the entry belongs to a hidden network.
func (e NetworkEntry) Hidden() bool {
	return e.SecurityInfo&hiddenSSIDBit != 0
}

// PackSecurityInfo builds a SecurityInfo word; used by driver doubles.
func PackSecurityInfo(sec Security, hidden bool) uint16 {
	info := uint16(sec) & secTypeMask
	if hidden {
		info |= hiddenSSIDBit
	}
	return info
}

// SecParams carries the security credentials for a connect or profile write.
type SecParams struct {
	Type Security
	Key  []byte
}

// Profile is one persisted network entry as read back from the profile
// store. The firmware never returns the stored key.
type Profile struct {
	SSID     []byte
	BSSID    [BSSIDLen]byte
	Security Security
	Priority uint32
}

// ConnStatus is the firmware's connection-status record.
type ConnStatus struct {
	Role      Role
	Connected bool
	SSID      []byte
	BSSID     [BSSIDLen]byte
}

// IPConfig is the station IP configuration as 32-bit addresses in host
// order; byte decomposition is the HAL's job.
type IPConfig struct {
	IP      uint32
	Mask    uint32
	Gateway uint32
	DNS     uint32
}

// APOption selects which access-point parameter an APConfigSet call writes.
type APOption uint8

const (
	APOptionSSID APOption = iota
	APOptionChannel
	APOptionSecurity
	APOptionPassword
)

// String returns the option name, used in logs and driver diagnostics.
func (o APOption) String() string {
	switch o {
	case APOptionSSID:
		return "ssid"
	case APOptionChannel:
		return "channel"
	case APOptionSecurity:
		return "security"
	case APOptionPassword:
		return "password"
	default:
		return "unknown"
	}
}
