package tensor

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ferry-ml/ferry/dlpack"
)

// DeviceBridge is the host-capable numeric bridge used for device
// migration. The core probes no capability itself; callers that have a
// device runtime install a bridge once at initialization via Configure.
type DeviceBridge interface {
	// Download produces a plain-host copy of t.
	Download(t *Tensor) (*Tensor, error)
	// Upload produces a device-resident copy of t on the given device id.
	// Implementations accept host and device sources.
	Upload(t *Tensor, deviceID int) (*Tensor, error)
}

type runtime struct {
	bridge DeviceBridge
	log    *zap.Logger
}

var (
	runtimeMu sync.RWMutex
	active    = runtime{log: zap.NewNop()}
)

// Option configures the package runtime.
type Option func(*runtime)

// WithBridge installs the device bridge used by ToDevice.
func WithBridge(b DeviceBridge) Option {
	return func(r *runtime) { r.bridge = b }
}

// WithLogger installs the logger for migration and finalization
// diagnostics. It also becomes the protocol package's logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *runtime) { r.log = l }
}

// Configure applies options to the package runtime. Call once at
// initialization, before tensors start moving.
func Configure(opts ...Option) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	for _, opt := range opts {
		opt(&active)
	}
	if active.log != nil {
		dlpack.SetLogger(active.log)
	}
}

func activeBridge() DeviceBridge {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	return active.bridge
}

func logger() *zap.Logger {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	return active.log
}
