package wifi

import (
	"time"

	"github.com/wifi-control/whal/internal/simplelink"
)

// SecurityType is the abstracted security vocabulary exposed to callers.
//
// SecurityWPA is accepted on input but never reported back: the firmware
// deprecated its plain-WPA value, so networks that present WPA/WPA2-mixed
// read back as SecurityWPA2 and legacy plain-WPA networks read back as
// SecurityNotSupported. Documented, lossy, one-directional.
type SecurityType int

const (
	SecurityOpen SecurityType = iota
	SecurityWEP
	SecurityWPA
	SecurityWPA2
	SecurityNotSupported
)

// String returns the abstracted security name.
func (s SecurityType) String() string {
	switch s {
	case SecurityOpen:
		return "open"
	case SecurityWEP:
		return "wep"
	case SecurityWPA:
		return "wpa"
	case SecurityWPA2:
		return "wpa2"
	default:
		return "not-supported"
	}
}

// DeviceMode is the abstracted device role.
type DeviceMode int

const (
	ModeStation DeviceMode = iota
	ModeAP
	ModeP2P
	ModeNotSupported
)

// String returns the abstracted mode name.
func (m DeviceMode) String() string {
	switch m {
	case ModeStation:
		return "station"
	case ModeAP:
		return "ap"
	case ModeP2P:
		return "p2p"
	default:
		return "not-supported"
	}
}

// PMMode is the abstracted power-management mode.
type PMMode int

const (
	PMNormal PMMode = iota
	PMLowPower
	PMAlwaysOn
	PMNotSupported
)

// String returns the abstracted power-mode name.
func (m PMMode) String() string {
	switch m {
	case PMNormal:
		return "normal"
	case PMLowPower:
		return "low-power"
	case PMAlwaysOn:
		return "always-on"
	default:
		return "not-supported"
	}
}

// NetworkParams carries the inputs of a connect or AP-configuration request.
// Password is required for any security type other than SecurityOpen.
// Channel is only consulted by ConfigureAP.
type NetworkParams struct {
	SSID     []byte
	Password []byte
	Security SecurityType
	Channel  uint8
}

// NetworkProfile is one persisted network credential entry. Password is
// write-only: profile reads always return it zero-length, and the priority
// the firmware keeps per profile is not exposed.
type NetworkProfile struct {
	SSID     []byte
	BSSID    [simplelink.BSSIDLen]byte
	Security SecurityType
	Password []byte
}

// ScanResult is one decoded scan record. SSID is truncated to the device
// maximum even when the raw firmware field is not NUL-terminated.
type ScanResult struct {
	SSID     string
	BSSID    [simplelink.BSSIDLen]byte
	Channel  uint8
	RSSI     int8
	Security SecurityType
	Hidden   bool
}

// Config holds the timing knobs of the HAL. Zero values are not usable;
// start from DefaultConfig.
type Config struct {
	// GateWait bounds how long an operation blocks on the exclusive
	// access gate before failing with ErrTimeout.
	GateWait time.Duration

	// ScanIntervalSec is the periodic-scan interval handed to the
	// firmware; the firmware enforces a 10 second minimum.
	ScanIntervalSec uint32

	// ScanWindow is how long a scan runs between arming and disarming
	// the scan policy. No partial results are available mid-window.
	ScanWindow time.Duration

	// ScanHidden includes hidden networks in scan results.
	ScanHidden bool

	// StopTimeout bounds the firmware stop call's transmission drain.
	StopTimeout time.Duration

	// APIPAcquireTimeout bounds the wait for an IP address after the
	// device enters AP mode; expiry surfaces as ErrTimeout.
	APIPAcquireTimeout time.Duration

	// APIPPollInterval is the poll period of that wait.
	APIPPollInterval time.Duration
}

// DefaultConfig returns the timing defaults used on the reference hardware.
func DefaultConfig() Config {
	return Config{
		GateWait:           60 * time.Second,
		ScanIntervalSec:    10,
		ScanWindow:         5 * time.Second,
		ScanHidden:         true,
		StopTimeout:        200 * time.Millisecond,
		APIPAcquireTimeout: 10 * time.Second,
		APIPPollInterval:   10 * time.Millisecond,
	}
}
