// Package simulator provides an in-process network-processor double
// implementing the simplelink.Driver contract. It reproduces the firmware
// behaviors the HAL depends on (role latching across a restart, the
// profile-store index assignment, the fill-to-count network list) and adds
// the test hooks the HAL's properties are asserted with: per-call counting
// and one-shot error arming.
package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wifi-control/whal/internal/simplelink"
)

type storedProfile struct {
	ssid     []byte
	bssid    [simplelink.BSSIDLen]byte
	security simplelink.Security
	key      []byte
	priority uint32
}

// Simulator is a software network processor. The zero value is not usable;
// call New.
type Simulator struct {
	mu sync.Mutex

	calls    map[string]int
	failNext map[string]error

	workerSpawned bool
	powered       bool
	role          simplelink.Role
	pendingRole   simplelink.Role
	state         simplelink.StateBits

	profiles map[int]storedProfile
	networks []simplelink.NetworkEntry
	scanning bool

	policy   simplelink.PowerPolicy
	apConfig map[simplelink.APOption][]byte

	mac      [simplelink.BSSIDLen]byte
	ipConfig simplelink.IPConfig
	hosts    map[string]uint32

	// neverAcquireAPIP keeps the IP-acquired bit clear after an AP-mode
	// start, for exercising the bounded wait.
	neverAcquireAPIP bool

	connectedSSID []byte
}

// New returns a simulator in the powered-off station role with an empty
// profile store.
func New() *Simulator {
	return &Simulator{
		calls:       make(map[string]int),
		failNext:    make(map[string]error),
		role:        simplelink.RoleStation,
		pendingRole: simplelink.RoleStation,
		profiles:    make(map[int]storedProfile),
		apConfig:    make(map[simplelink.APOption][]byte),
		policy:      simplelink.PolicyNormal,
		mac:         [simplelink.BSSIDLen]byte{0x08, 0x00, 0x28, 0x5A, 0x7B, 0x9C},
		ipConfig: simplelink.IPConfig{
			IP:      0xC0A80164, // 192.168.1.100
			Mask:    0xFFFFFF00,
			Gateway: 0xC0A80101,
			DNS:     0x08080808,
		},
		hosts: make(map[string]uint32),
	}
}

// --- test hooks ---

// FailNext arms a one-shot error for the named driver call.
func (s *Simulator) FailNext(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[method] = err
}

// CallCount returns how many times the named driver call ran.
func (s *Simulator) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// SetNetworks replaces the scan-result table.
func (s *Simulator) SetNetworks(entries []simplelink.NetworkEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.networks = append([]simplelink.NetworkEntry(nil), entries...)
}

// SetHostAddress seeds the resolver table.
func (s *Simulator) SetHostAddress(host string, addr uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hosts[host] = addr
}

// SetNeverAcquireAPIP keeps the device from ever reporting an IP address
// in AP mode.
func (s *Simulator) SetNeverAcquireAPIP(never bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.neverAcquireAPIP = never
}

// APConfig returns the last value written for an AP option, or nil.
func (s *Simulator) APConfig(opt simplelink.APOption) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.apConfig[opt]...)
}

// ConnectedSSID returns the SSID of the current association, or nil.
func (s *Simulator) ConnectedSSID() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.connectedSSID...)
}

// ProfileCount returns the number of stored profiles.
func (s *Simulator) ProfileCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

// enter counts the call and pops any armed error.
func (s *Simulator) enter(method string) error {
	s.calls[method]++
	if err, ok := s.failNext[method]; ok {
		delete(s.failNext, method)
		return err
	}
	return nil
}

// --- simplelink.Driver ---

func (s *Simulator) SpawnWorker() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SpawnWorker"); err != nil {
		return err
	}
	if s.workerSpawned {
		return fmt.Errorf("simulator: worker already spawned")
	}
	s.workerSpawned = true
	return nil
}

func (s *Simulator) Start() (simplelink.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Start"); err != nil {
		return simplelink.RoleReserved, err
	}
	s.powered = true
	s.role = s.pendingRole
	if s.role == simplelink.RoleAP && !s.neverAcquireAPIP {
		s.state |= simplelink.StatusIPAcquired
	}
	return s.role, nil
}

func (s *Simulator) Stop(timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Stop"); err != nil {
		return err
	}
	if !s.powered {
		return fmt.Errorf("simulator: stop before start")
	}
	s.powered = false
	s.state = 0
	s.connectedSSID = nil
	return nil
}

func (s *Simulator) SetMode(role simplelink.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SetMode"); err != nil {
		return err
	}
	if role == simplelink.RoleReserved {
		return fmt.Errorf("simulator: reserved role")
	}
	s.pendingRole = role
	return nil
}

func (s *Simulator) ResetStateMachine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("ResetStateMachine")
	s.state = 0
	s.connectedSSID = nil
}

func (s *Simulator) InitDriver(role simplelink.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InitDriver"); err != nil {
		return err
	}
	s.pendingRole = role
	s.role = role
	s.powered = true
	return nil
}

func (s *Simulator) DeinitDriver() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("DeinitDriver")
	s.powered = false
	s.state = 0
	s.connectedSSID = nil
}

func (s *Simulator) ConnectAP(ssid []byte, sec simplelink.SecParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ConnectAP"); err != nil {
		return err
	}
	if sec.Type == simplelink.SecUnknown {
		return fmt.Errorf("simulator: unknown security type")
	}
	s.connectedSSID = append([]byte(nil), ssid...)

	// The real firmware call scribbles on its SSID argument; reproduce
	// that so callers passing shared buffers get caught.
	for i := range ssid {
		ssid[i] = 0
	}

	s.state |= simplelink.StatusConnected | simplelink.StatusIPAcquired
	return nil
}

func (s *Simulator) DisconnectFromAP() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter("DisconnectFromAP")
	if s.state.Connected() {
		s.state &^= simplelink.StatusConnected | simplelink.StatusIPAcquired
		s.connectedSSID = nil
		return 0
	}
	return 1
}

func (s *Simulator) CurrentState() simplelink.StateBits {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Simulator) ConnectionInfo() (simplelink.ConnStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ConnectionInfo"); err != nil {
		return simplelink.ConnStatus{}, err
	}
	return simplelink.ConnStatus{
		Role:      s.role,
		Connected: s.state.Connected(),
		SSID:      append([]byte(nil), s.connectedSSID...),
	}, nil
}

func (s *Simulator) SetScanPolicy(intervalSec uint32, hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SetScanPolicy"); err != nil {
		return err
	}
	if intervalSec < 10 {
		return fmt.Errorf("simulator: scan interval below firmware minimum")
	}
	s.scanning = true
	return nil
}

func (s *Simulator) DisableScanPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DisableScanPolicy"); err != nil {
		return err
	}
	s.scanning = false
	return nil
}

func (s *Simulator) NetworkList(index, count int) ([]simplelink.NetworkEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("NetworkList"); err != nil {
		return nil, err
	}
	if index < 0 || count < 0 {
		return nil, fmt.Errorf("simulator: bad network list window")
	}

	// Firmware contract: exactly count entries, zero-padded past the
	// live networks.
	entries := make([]simplelink.NetworkEntry, count)
	for i := 0; i < count; i++ {
		if index+i < len(s.networks) {
			entries[i] = s.networks[index+i]
		}
	}
	return entries, nil
}

func (s *Simulator) ProfileAdd(ssid []byte, bssid [simplelink.BSSIDLen]byte, sec simplelink.SecParams) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ProfileAdd"); err != nil {
		return -1, err
	}
	if sec.Type == simplelink.SecUnknown {
		return -1, fmt.Errorf("simulator: unknown security type")
	}

	// Lowest free slot, as the firmware assigns.
	for index := 0; index < simplelink.MaxProfiles; index++ {
		if _, used := s.profiles[index]; used {
			continue
		}
		s.profiles[index] = storedProfile{
			ssid:     append([]byte(nil), ssid...),
			bssid:    bssid,
			security: sec.Type,
			key:      append([]byte(nil), sec.Key...),
		}
		return index, nil
	}
	return -1, fmt.Errorf("simulator: profile store full")
}

func (s *Simulator) ProfileGet(index int) (simplelink.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ProfileGet"); err != nil {
		return simplelink.Profile{}, err
	}
	stored, ok := s.profiles[index]
	if !ok {
		return simplelink.Profile{}, fmt.Errorf("simulator: no profile at index %d", index)
	}
	// The stored key is never returned.
	return simplelink.Profile{
		SSID:     append([]byte(nil), stored.ssid...),
		BSSID:    stored.bssid,
		Security: stored.security,
		Priority: stored.priority,
	}, nil
}

func (s *Simulator) ProfileDelete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ProfileDelete"); err != nil {
		return err
	}
	if _, ok := s.profiles[index]; !ok {
		return fmt.Errorf("simulator: no profile at index %d", index)
	}
	delete(s.profiles, index)
	return nil
}

func (s *Simulator) APConfigSet(opt simplelink.APOption, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("APConfigSet"); err != nil {
		return err
	}
	if opt == simplelink.APOptionSecurity && len(value) == 1 && simplelink.Security(value[0]) == simplelink.SecUnknown {
		return fmt.Errorf("simulator: unknown ap security type")
	}
	s.apConfig[opt] = append([]byte(nil), value...)
	return nil
}

func (s *Simulator) SetPowerPolicy(policy simplelink.PowerPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SetPowerPolicy"); err != nil {
		return err
	}
	s.policy = policy
	return nil
}

func (s *Simulator) PowerPolicy() (simplelink.PowerPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("PowerPolicy"); err != nil {
		return 0, err
	}
	return s.policy, nil
}

func (s *Simulator) MACAddress() ([simplelink.BSSIDLen]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("MACAddress"); err != nil {
		return [simplelink.BSSIDLen]byte{}, err
	}
	return s.mac, nil
}

func (s *Simulator) IPConfig() (simplelink.IPConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("IPConfig"); err != nil {
		return simplelink.IPConfig{}, err
	}
	return s.ipConfig, nil
}

func (s *Simulator) LookupHost(ctx context.Context, host string) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("LookupHost"); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.hosts[host], nil
}

var _ simplelink.Driver = (*Simulator)(nil)
