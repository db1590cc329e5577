package wifi

import (
	"bytes"
	"context"
	"time"

	"github.com/wifi-control/whal/internal/simplelink"
)

// Scan runs one scan cycle and decodes the firmware's network list into
// out. The caller owns out and chooses the result count by its length; the
// firmware fills exactly that many entries, zero-padding past the live
// networks, so every element of out is written. A zero-length out succeeds
// without touching the firmware list.
//
// The cycle is arm policy, wait the scan window, disarm policy, collect.
// No partial results are available mid-window.
func (h *HAL) Scan(ctx context.Context, out []ScanResult) error {
	start := time.Now()

	if err := h.gate.Acquire(h.cfg.GateWait); err != nil {
		return h.done(ctx, "scan", start, err)
	}
	defer h.gate.Release()

	return h.done(ctx, "scan", start, h.scanLocked(ctx, out))
}

func (h *HAL) scanLocked(ctx context.Context, out []ScanResult) error {
	if err := h.drv.SetScanPolicy(h.cfg.ScanIntervalSec, h.cfg.ScanHidden); err != nil {
		return driverFailure(err)
	}

	// The scan window elapses even when the caller goes away; the policy
	// must be disarmed either way.
	interrupted := h.waitScanWindow(ctx)

	if err := h.drv.DisableScanPolicy(); err != nil {
		return driverFailure(err)
	}
	if interrupted {
		return ErrTimeout
	}

	if len(out) == 0 {
		return nil
	}

	entries, err := h.drv.NetworkList(0, len(out))
	if err != nil {
		return driverFailure(err)
	}

	for i := range out {
		e := entries[i]
		out[i] = ScanResult{
			SSID:     terminatedSSID(e),
			BSSID:    e.BSSID,
			Channel:  e.Channel,
			RSSI:     e.RSSI,
			Security: securityFromNative(e.Security()),
			Hidden:   e.Hidden(),
		}
	}
	return nil
}

// waitScanWindow sleeps for the configured scan window. Returns true when
// ctx was cancelled before the window elapsed.
func (h *HAL) waitScanWindow(ctx context.Context) bool {
	t := time.NewTimer(h.cfg.ScanWindow)
	defer t.Stop()

	select {
	case <-t.C:
		return false
	case <-ctx.Done():
		return true
	}
}

// terminatedSSID decodes the raw firmware SSID field, stopping at the first
// NUL. Unterminated fields truncate at the device maximum because the raw
// field is exactly that long.
func terminatedSSID(e simplelink.NetworkEntry) string {
	raw := e.SSID[:]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}
