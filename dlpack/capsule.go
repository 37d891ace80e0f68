package dlpack

import (
	"sync"

	"go.uber.org/zap"

	ferrors "github.com/ferry-ml/ferry/errors"
)

// Capsule tag strings. A fresh capsule carries CapsuleTag; Consume renames
// it to UsedCapsuleTag so stale references are detectable.
const (
	CapsuleTag     = "dltensor"
	UsedCapsuleTag = "used_dltensor"
)

// Exchanger is the protocol surface an object provides to participate in
// zero-copy exchange: an export method producing a capsule, and a device
// query usable independently so importers can check compatibility first.
type Exchanger interface {
	DLPack() (*Capsule, error)
	DLPackDevice() (Device, error)
}

// Capsule is the opaque container handed from exporter to importer. It
// holds a ManagedTensor behind a well-known tag and carries a destructor
// that fires if the capsule is finalized without being consumed.
//
// Exactly one of two things must happen to every capsule:
//   - Consume: the importer takes ownership of the record and becomes
//     responsible for calling its Delete.
//   - Destroy: the capsule-level deleter validates the tag, delegates to
//     the record's Delete, and clears the destructor so a second
//     finalization is a no-op.
type Capsule struct {
	mu     sync.Mutex
	name   string
	record *ManagedTensor
	// hasDestructor mirrors the capsule destructor slot: cleared on
	// Consume and after Destroy.
	hasDestructor bool
}

// NewCapsule wraps a managed record under the protocol tag.
func NewCapsule(record *ManagedTensor) *Capsule {
	return &Capsule{name: CapsuleTag, record: record, hasDestructor: true}
}

// Name returns the capsule's current tag.
func (c *Capsule) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// IsValid reports whether the capsule still holds a record under the given
// tag.
func (c *Capsule) IsValid(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name == name && c.record != nil
}

// Consume transfers ownership of the record to the caller. The capsule is
// renamed to UsedCapsuleTag and its destructor cleared; the caller must
// invoke Delete on the returned record exactly once.
func (c *Capsule) Consume() (*ManagedTensor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.name != CapsuleTag || c.record == nil {
		return nil, ferrors.InvalidArgumentf("capsule %q already consumed or destroyed", c.name)
	}
	record := c.record
	c.name = UsedCapsuleTag
	c.record = nil
	c.hasDestructor = false
	return record, nil
}

// Destroy finalizes an unconsumed capsule. It checks the capsule still
// holds a valid record under the expected tag before delegating to the
// record's Delete, then clears the destructor; calling it again does
// nothing. A panic out of the record deleter is logged and re-raised: a
// half-finalized record corrupts the protocol's invariants for every
// future capsule, so it must not be swallowed.
func (c *Capsule) Destroy() {
	c.mu.Lock()
	if !c.hasDestructor || c.name != CapsuleTag || c.record == nil {
		c.mu.Unlock()
		return
	}
	record := c.record
	c.record = nil
	c.hasDestructor = false
	c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			Logger().Error("capsule destructor failed", zap.Any("panic", r))
			panic(r)
		}
	}()
	record.Delete()
}
