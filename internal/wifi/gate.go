package wifi

import "time"

// Gate is the binary mutual-exclusion primitive serializing every driver
// call. It is created once with the HAL and lives for the process lifetime.
// Acquire blocks up to the given timeout; Release must run on every code
// path that follows a successful Acquire, including early-exit error paths.
// Operations never re-enter.
type Gate struct {
	ch chan struct{}
}

// NewGate returns a free gate.
func NewGate() *Gate {
	g := &Gate{ch: make(chan struct{}, 1)}
	g.ch <- struct{}{}
	return g
}

// Acquire takes the gate, waiting up to timeout. On expiry it returns
// ErrTimeout and the caller must not proceed with the operation.
func (g *Gate) Acquire(timeout time.Duration) error {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-g.ch:
		return nil
	case <-t.C:
		return ErrTimeout
	}
}

// Release frees the gate. Releasing a free gate is a serialization bug in
// the caller and panics, matching sync.Mutex semantics.
func (g *Gate) Release() {
	select {
	case g.ch <- struct{}{}:
	default:
		panic("wifi: release of free gate")
	}
}
