package dlpack

import "sync"

// Handle is an opaque reference to a pinned value. Handle 0 is reserved
// and always invalid.
type Handle uint64

// PinTable keeps exported owner objects reachable until their deleter
// runs. Go's collector cannot see references held by a foreign runtime
// through a raw address, so every export pins its owner here and the
// managed-tensor deleter unpins it exactly once.
type PinTable struct {
	mu   sync.Mutex
	next Handle
	pins map[Handle]any
}

// NewPinTable creates an empty table.
func NewPinTable() *PinTable {
	return &PinTable{pins: make(map[Handle]any)}
}

// Pin stores value and returns its handle.
func (t *PinTable) Pin(value any) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.pins[t.next] = value
	return t.next
}

// Unpin drops the value for handle. It returns false if the handle was
// never pinned or was already released, which lets callers detect a
// double finalization.
func (t *PinTable) Unpin(handle Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.pins[handle]; !ok {
		return false
	}
	delete(t.pins, handle)
	return true
}

// Get returns the pinned value, if any.
func (t *PinTable) Get(handle Handle) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.pins[handle]
	return v, ok
}

// Len returns the number of live pins.
func (t *PinTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pins)
}

var defaultPins = NewPinTable()

// Pins returns the process-wide pin table used by exporters.
func Pins() *PinTable {
	return defaultPins
}
