package simplelink

import (
	"context"
	"time"
)

// Driver is the southbound contract the HAL depends on. A real port binds it
// to the vendor host driver; tests and the demo daemon use the simulator.
//
// Calls are not safe for concurrent use; the HAL serializes them behind its
// exclusive access gate. CurrentState and MACAddress are the documented
// exceptions: both reduce to single-word or cached reads in the firmware and
// may race with gated operations.
type Driver interface {
	// SpawnWorker creates the detached worker that runs the vendor event
	// loop. Must be called once before any other driver call.
	SpawnWorker() error

	// Start powers the network processor and returns the role it came up
	// in. Start must precede Stop after a cold boot.
	Start() (Role, error)

	// Stop powers the network processor down, waiting up to timeout for
	// pending transmissions to drain.
	Stop(timeout time.Duration) error

	// SetMode requests the role the device starts in on the next Start.
	SetMode(role Role) error

	// ResetStateMachine clears the connection-state bookkeeping owned by
	// the driver task.
	ResetStateMachine()

	// InitDriver brings the driver up in the requested role.
	InitDriver(role Role) error

	// DeinitDriver disconnects if needed and stops the host driver.
	DeinitDriver()

	// ConnectAP associates with the network named by ssid. The firmware
	// call scribbles on its ssid argument, so callers must pass a copy
	// they do not mind losing.
	ConnectAP(ssid []byte, sec SecParams) error

	// DisconnectFromAP returns 0 when an association was torn down and
	// nonzero when the device was already disconnected.
	DisconnectFromAP() int

	// CurrentState returns the connection status word. Gate-free.
	CurrentState() StateBits

	// ConnectionInfo reads the firmware's connection-status record.
	ConnectionInfo() (ConnStatus, error)

	// SetScanPolicy arms the periodic scan with the given interval and
	// hidden-network visibility.
	SetScanPolicy(intervalSec uint32, hidden bool) error

	// DisableScanPolicy disarms the periodic scan.
	DisableScanPolicy() error

	// NetworkList copies up to count scan entries starting at index. The
	// firmware always fills count entries, zero-padding past the live
	// ones; the slice returned has exactly count elements on success.
	NetworkList(index, count int) ([]NetworkEntry, error)

	// ProfileAdd stores a network profile and returns the assigned index
	// (zero or positive). The store holds at most MaxProfiles entries.
	ProfileAdd(ssid []byte, bssid [BSSIDLen]byte, sec SecParams) (int, error)

	// ProfileGet reads the profile at index. The stored key is never
	// returned.
	ProfileGet(index int) (Profile, error)

	// ProfileDelete removes the profile at index.
	ProfileDelete(index int) error

	// APConfigSet writes one access-point parameter.
	APConfigSet(opt APOption, value []byte) error

	// SetPowerPolicy selects the power-management policy.
	SetPowerPolicy(policy PowerPolicy) error

	// PowerPolicy reads the active power-management policy.
	PowerPolicy() (PowerPolicy, error)

	// MACAddress reads the device hardware address from the network
	// configuration layer. Gate-free.
	MACAddress() ([BSSIDLen]byte, error)

	// IPConfig reads the station IP configuration from the IP stack.
	IPConfig() (IPConfig, error)

	// LookupHost resolves a hostname through the device's resolver. A zero
	// address means the lookup failed.
	LookupHost(ctx context.Context, host string) (uint32, error)
}
