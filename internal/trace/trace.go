// Package trace implements the backing core's advisory diagnostic
// surface: notable events accompany PCI-root discovery, detected device
// identity, mapping failures, and resolution failures, but trace
// absence never changes semantics. It is a thin wrapper over log/slog
// so the advisory-only contract is explicit in the type instead of
// implicit in log strings.
package trace

import "log/slog"

// Event names the kind of notable event being traced.
type Event int

const (
	PCIRootDiscovered Event = iota
	PCIRootNotFound
	DeviceIdentity
	MappingFailed
	DeviceNotFound
)

// Tracer emits trace entries. A nil *Tracer is valid and discards every
// event, so backings can accept one optionally.
type Tracer struct{}

// New returns a Tracer that logs through the default slog handler.
func New() *Tracer {
	return &Tracer{}
}

// Emit records a trace entry for the given event.
func (t *Tracer) Emit(ev Event, msg string, args ...any) {
	if t == nil {
		return
	}
	switch ev {
	case PCIRootNotFound:
		slog.Warn(msg, args...)
	case MappingFailed, DeviceNotFound:
		slog.Error(msg, args...)
	default:
		slog.Info(msg, args...)
	}
}
