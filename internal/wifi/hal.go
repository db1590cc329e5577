package wifi

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wifi-control/whal/internal/simplelink"
)

// ActionLogger receives one record per public HAL operation.
type ActionLogger interface {
	LogAction(ctx context.Context, action, outcome string, latency time.Duration)
}

// HAL is the explicit context object owning the exclusive access gate, the
// one-time initialization flag, and the driver handle. The application
// constructs it once and shares it by reference; all state the operations
// need lives here rather than in package globals.
type HAL struct {
	drv  simplelink.Driver
	gate *Gate
	cfg  Config
	log  zerolog.Logger

	audit ActionLogger

	// initDone guards the one-time worker spawn in On. The first-time
	// setup path is not protected by the gate; callers serialize it
	// externally.
	initDone bool
}

// New creates the HAL around a driver. The gate is created here, once, and
// is never destroyed.
func New(drv simplelink.Driver, cfg Config, log zerolog.Logger) *HAL {
	return &HAL{
		drv:  drv,
		gate: NewGate(),
		cfg:  cfg,
		log:  log,
	}
}

// SetActionLogger attaches an audit sink. Nil disables auditing.
func (h *HAL) SetActionLogger(l ActionLogger) {
	h.audit = l
}

// done records the operation outcome and returns err unchanged.
func (h *HAL) done(ctx context.Context, action string, start time.Time, err error) error {
	outcome := outcomeFor(err)
	if h.audit != nil {
		h.audit.LogAction(ctx, action, outcome, time.Since(start))
	}
	if err != nil {
		h.log.Warn().Str("action", action).Str("outcome", outcome).Err(err).Msg("wifi operation failed")
	} else {
		h.log.Debug().Str("action", action).Msg("wifi operation complete")
	}
	return err
}

// On powers the radio up. The first invocation spawns the driver worker;
// re-invocation skips that but still performs the radio reset sequence
// (start, stop, state-machine reset, driver init in station mode).
func (h *HAL) On(ctx context.Context) error {
	start := time.Now()

	if !h.initDone {
		if err := h.drv.SpawnWorker(); err != nil {
			return h.done(ctx, "on", start, driverFailure(err))
		}
		h.initDone = true
		h.log.Info().Msg("driver worker spawned")
	}

	if err := h.resetNetworkCPU(); err != nil {
		return h.done(ctx, "on", start, err)
	}

	h.drv.ResetStateMachine()
	if err := h.drv.InitDriver(simplelink.RoleStation); err != nil {
		// On reports the reset outcome; a failed station init is logged
		// and recovered by a later Reset.
		h.log.Warn().Err(err).Msg("station init failed after radio reset")
	}

	return h.done(ctx, "on", start, nil)
}

// resetNetworkCPU cycles the network processor to a known-off state. The
// firmware requires a start before the first stop.
func (h *HAL) resetNetworkCPU() error {
	if _, err := h.drv.Start(); err != nil {
		return driverFailure(err)
	}
	if err := h.drv.Stop(h.cfg.StopTimeout); err != nil {
		return driverFailure(err)
	}
	return nil
}

// Off disconnects and powers the radio down.
func (h *HAL) Off(ctx context.Context) error {
	start := time.Now()

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return h.done(ctx, "off", start, err)
	}
	defer h.gate.Release()

	h.drv.DisconnectFromAP()
	if err := h.drv.Stop(h.cfg.StopTimeout); err != nil {
		return h.done(ctx, "off", start, driverFailure(err))
	}
	h.drv.ResetStateMachine()

	return h.done(ctx, "off", start, nil)
}

// Connect associates with the network described by params. The SSID is
// copied into a scratch buffer before the driver call because the firmware
// scribbles on its SSID argument. Oversized SSIDs and unmappable security
// types fail without a connect call being issued.
func (h *HAL) Connect(ctx context.Context, params NetworkParams) error {
	start := time.Now()

	if len(params.SSID) == 0 {
		return h.done(ctx, "connect", start, ErrFailure)
	}
	if params.Security != SecurityOpen && len(params.Password) == 0 {
		return h.done(ctx, "connect", start, ErrFailure)
	}

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return h.done(ctx, "connect", start, err)
	}
	defer h.gate.Release()

	if len(params.SSID) > simplelink.MaxSSIDLen {
		return h.done(ctx, "connect", start, ErrFailure)
	}

	sec := simplelink.SecParams{
		Type: securityToNative(params.Security),
		Key:  params.Password,
	}
	if sec.Type == simplelink.SecUnknown {
		return h.done(ctx, "connect", start, ErrFailure)
	}

	ssidCopy := make([]byte, len(params.SSID), simplelink.MaxSSIDLen+1)
	copy(ssidCopy, params.SSID)

	if err := h.drv.ConnectAP(ssidCopy, sec); err != nil {
		return h.done(ctx, "connect", start, driverFailure(err))
	}

	return h.done(ctx, "connect", start, nil)
}

// Disconnect tears down the current association. "Was connected and is now
// disconnected" and "was already disconnected" both report success; the
// distinction is diagnostic only.
func (h *HAL) Disconnect(ctx context.Context) error {
	start := time.Now()

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return h.done(ctx, "disconnect", start, err)
	}
	defer h.gate.Release()

	if ret := h.drv.DisconnectFromAP(); ret == 0 {
		h.log.Info().Msg("wifi disconnected")
	} else {
		h.log.Info().Msg("wifi already disconnected")
	}

	return h.done(ctx, "disconnect", start, nil)
}

// Reset restores the driver to a clean station-mode state. Only the
// reinitialize step can fail.
func (h *HAL) Reset(ctx context.Context) error {
	start := time.Now()

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return h.done(ctx, "reset", start, err)
	}
	defer h.gate.Release()

	h.drv.ResetStateMachine()
	h.drv.DeinitDriver()
	if err := h.drv.InitDriver(simplelink.RoleStation); err != nil {
		return h.done(ctx, "reset", start, driverFailure(err))
	}

	return h.done(ctx, "reset", start, nil)
}

// SetMode switches the device role. The new role takes effect through a
// stop/start cycle, and the achieved role is verified against the request.
// When the achieved role is AP, SetMode blocks until the device has an IP
// address so that callers can assume AP mode is usable on return; the wait
// is bounded by APIPAcquireTimeout and surfaces as ErrTimeout.
func (h *HAL) SetMode(ctx context.Context, mode DeviceMode) error {
	start := time.Now()

	role := modeToNative(mode)
	if role == simplelink.RoleReserved {
		return h.done(ctx, "set-mode", start, ErrFailure)
	}

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return h.done(ctx, "set-mode", start, err)
	}
	defer h.gate.Release()

	if err := h.drv.SetMode(role); err != nil {
		return h.done(ctx, "set-mode", start, driverFailure(err))
	}

	// The requested mode only latches across a restart.
	if err := h.drv.Stop(h.cfg.StopTimeout); err != nil {
		return h.done(ctx, "set-mode", start, driverFailure(err))
	}
	got, err := h.drv.Start()
	if err != nil {
		return h.done(ctx, "set-mode", start, driverFailure(err))
	}
	if got != role {
		return h.done(ctx, "set-mode", start, ErrFailure)
	}

	if got == simplelink.RoleAP {
		if err := h.waitForIP(ctx); err != nil {
			return h.done(ctx, "set-mode", start, err)
		}
	}

	return h.done(ctx, "set-mode", start, nil)
}

// waitForIP polls the status word until an IP address is acquired, the
// configured timeout expires, or ctx is cancelled.
func (h *HAL) waitForIP(ctx context.Context) error {
	deadline := time.NewTimer(h.cfg.APIPAcquireTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(h.cfg.APIPPollInterval)
	defer tick.Stop()

	for !h.drv.CurrentState().IPAcquired() {
		select {
		case <-ctx.Done():
			return ErrTimeout
		case <-deadline.C:
			return ErrTimeout
		case <-tick.C:
		}
	}
	return nil
}

// Mode reads the current device role.
func (h *HAL) Mode(ctx context.Context) (DeviceMode, error) {
	start := time.Now()

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return ModeNotSupported, h.done(ctx, "get-mode", start, err)
	}
	defer h.gate.Release()

	info, err := h.drv.ConnectionInfo()
	if err != nil {
		return ModeNotSupported, h.done(ctx, "get-mode", start, driverFailure(err))
	}

	mode := modeFromNative(info.Role)
	if mode == ModeNotSupported {
		return mode, h.done(ctx, "get-mode", start, ErrFailure)
	}

	return mode, h.done(ctx, "get-mode", start, nil)
}

// ProfileAdd stores a network profile in the device profile store and
// returns the firmware-assigned index. An unmappable security type fails
// before any profile call is issued.
func (h *HAL) ProfileAdd(ctx context.Context, profile NetworkProfile) (int, error) {
	start := time.Now()

	if len(profile.SSID) == 0 || len(profile.SSID) > simplelink.MaxSSIDLen {
		return -1, h.done(ctx, "profile-add", start, ErrFailure)
	}

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return -1, h.done(ctx, "profile-add", start, err)
	}
	defer h.gate.Release()

	sec := simplelink.SecParams{
		Type: securityToNative(profile.Security),
		Key:  profile.Password,
	}
	if sec.Type == simplelink.SecUnknown {
		return -1, h.done(ctx, "profile-add", start, ErrFailure)
	}

	index, err := h.drv.ProfileAdd(profile.SSID, profile.BSSID, sec)
	if err != nil {
		return -1, h.done(ctx, "profile-add", start, driverFailure(err))
	}

	h.log.Info().Int("index", index).Msg("network profile stored")
	return index, h.done(ctx, "profile-add", start, nil)
}

// ProfileGet reads the profile at index. The stored password is write-only
// and always comes back zero-length.
func (h *HAL) ProfileGet(ctx context.Context, index int) (NetworkProfile, error) {
	start := time.Now()

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return NetworkProfile{}, h.done(ctx, "profile-get", start, err)
	}
	defer h.gate.Release()

	stored, err := h.drv.ProfileGet(index)
	if err != nil {
		return NetworkProfile{}, h.done(ctx, "profile-get", start, driverFailure(err))
	}

	profile := NetworkProfile{
		SSID:     stored.SSID,
		BSSID:    stored.BSSID,
		Security: securityFromNative(stored.Security),
	}
	return profile, h.done(ctx, "profile-get", start, nil)
}

// ProfileDelete removes the profile at index.
func (h *HAL) ProfileDelete(ctx context.Context, index int) error {
	start := time.Now()

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return h.done(ctx, "profile-delete", start, err)
	}
	defer h.gate.Release()

	if err := h.drv.ProfileDelete(index); err != nil {
		return h.done(ctx, "profile-delete", start, driverFailure(err))
	}

	h.log.Info().Int("index", index).Msg("network profile deleted")
	return h.done(ctx, "profile-delete", start, nil)
}

// ConfigureAP writes the soft-AP parameters as a sequential best-effort
// pipeline: SSID, channel, security type, then password unless the network
// is open. Each step runs only if the previous one succeeded; the first
// failure short-circuits the rest. Oversized SSIDs and passwords fail their
// step before the corresponding firmware call.
func (h *HAL) ConfigureAP(ctx context.Context, params NetworkParams) error {
	start := time.Now()

	if len(params.SSID) == 0 {
		return h.done(ctx, "configure-ap", start, ErrFailure)
	}
	if params.Security != SecurityOpen && len(params.Password) == 0 {
		return h.done(ctx, "configure-ap", start, ErrFailure)
	}

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return h.done(ctx, "configure-ap", start, err)
	}
	defer h.gate.Release()

	err := h.setAPSSID(params.SSID)
	if err == nil {
		err = h.apConfigStep(simplelink.APOptionChannel, []byte{params.Channel})
	}
	if err == nil {
		sec := securityToNative(params.Security)
		err = h.apConfigStep(simplelink.APOptionSecurity, []byte{byte(sec)})
	}
	if err == nil && params.Security != SecurityOpen {
		err = h.setAPPassword(params.Password)
	}

	return h.done(ctx, "configure-ap", start, err)
}

func (h *HAL) setAPSSID(ssid []byte) error {
	if len(ssid) > simplelink.MaxSSIDLen {
		return ErrFailure
	}
	// The firmware wants a terminated copy.
	value := make([]byte, len(ssid)+1)
	copy(value, ssid)
	return h.apConfigStep(simplelink.APOptionSSID, value)
}

func (h *HAL) setAPPassword(password []byte) error {
	if len(password) > simplelink.MaxPassphraseLen {
		return ErrFailure
	}
	value := make([]byte, len(password)+1)
	copy(value, password)
	return h.apConfigStep(simplelink.APOptionPassword, value)
}

func (h *HAL) apConfigStep(opt simplelink.APOption, value []byte) error {
	if err := h.drv.APConfigSet(opt, value); err != nil {
		h.log.Warn().Stringer("option", opt).Err(err).Msg("ap configuration step failed")
		return driverFailure(err)
	}
	return nil
}

// SetPMMode selects the power-management policy. The gate is acquired
// before the mode switch so that set and get follow the same discipline; a
// mode with no firmware equivalent releases the gate and reports
// ErrNotSupported without a policy call.
func (h *HAL) SetPMMode(ctx context.Context, mode PMMode) error {
	start := time.Now()

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return h.done(ctx, "set-pm-mode", start, err)
	}
	defer h.gate.Release()

	policy, ok := pmToNative(mode)
	if !ok {
		return h.done(ctx, "set-pm-mode", start, ErrNotSupported)
	}

	if err := h.drv.SetPowerPolicy(policy); err != nil {
		return h.done(ctx, "set-pm-mode", start, driverFailure(err))
	}

	return h.done(ctx, "set-pm-mode", start, nil)
}

// PMMode reads the active power-management policy. A policy outside the
// abstracted vocabulary reads back as PMNotSupported with success.
func (h *HAL) PMMode(ctx context.Context) (PMMode, error) {
	start := time.Now()

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return PMNotSupported, h.done(ctx, "get-pm-mode", start, err)
	}
	defer h.gate.Release()

	policy, err := h.drv.PowerPolicy()
	if err != nil {
		return PMNotSupported, h.done(ctx, "get-pm-mode", start, driverFailure(err))
	}

	return pmFromNative(policy), h.done(ctx, "get-pm-mode", start, nil)
}

// IP returns the station IPv4 address, most-significant byte first. This is
// a read-only path into the IP stack and does not take the gate.
func (h *HAL) IP(ctx context.Context) ([4]byte, error) {
	ipcfg, err := h.drv.IPConfig()
	if err != nil {
		return [4]byte{}, driverFailure(err)
	}
	return ipv4Bytes(ipcfg.IP), nil
}

// HostIP resolves host through the device resolver and returns the IPv4
// address, most-significant byte first. A zero address is a failure.
func (h *HAL) HostIP(ctx context.Context, host string) ([4]byte, error) {
	if host == "" {
		return [4]byte{}, ErrFailure
	}
	addr, err := h.drv.LookupHost(ctx, host)
	if err != nil {
		return [4]byte{}, driverFailure(err)
	}
	if addr == 0 {
		return [4]byte{}, ErrFailure
	}
	return ipv4Bytes(addr), nil
}

// ipv4Bytes decomposes a 32-bit address into network-significant order.
func ipv4Bytes(addr uint32) [4]byte {
	return [4]byte{
		byte(addr >> 24),
		byte(addr >> 16),
		byte(addr >> 8),
		byte(addr),
	}
}

// MAC reads the device hardware address. The query goes straight to the
// network-configuration layer without taking the gate.
func (h *HAL) MAC(ctx context.Context) ([simplelink.BSSIDLen]byte, error) {
	mac, err := h.drv.MACAddress()
	if err != nil {
		return [simplelink.BSSIDLen]byte{}, driverFailure(err)
	}
	return mac, nil
}

// IsConnected reports the current association status. No failure path; the
// underlying read is a single-word fetch.
func (h *HAL) IsConnected() bool {
	return h.drv.CurrentState().Connected()
}

// Ping is intentionally unimplemented in this revision.
func (h *HAL) Ping(ctx context.Context, addr [4]byte, count int, interval time.Duration) error {
	return ErrNotSupported
}

// StartAP is intentionally unimplemented; use SetMode(ModeAP).
func (h *HAL) StartAP(ctx context.Context) error {
	return ErrNotSupported
}

// StopAP is intentionally unimplemented.
func (h *HAL) StopAP(ctx context.Context) error {
	return ErrNotSupported
}

// StateChangeCallback receives network state transitions.
type StateChangeCallback func(connected bool)

// RegisterStateChangeCallback is intentionally unimplemented in this
// revision; there is no asynchronous event delivery.
func (h *HAL) RegisterStateChangeCallback(cb StateChangeCallback) error {
	return ErrNotSupported
}
