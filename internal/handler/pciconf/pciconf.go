// Package pciconf implements the PCI-config address-space backing:
// attach resolves a full PCI bus address by walking the ACPI namespace
// once, and every subsequent read/write reuses that resolved address
// without re-walking.
package pciconf

import (
	"fmt"

	"github.com/tinyrange/acpihandlers/internal/handler"
	"github.com/tinyrange/acpihandlers/internal/platform"
	"github.com/tinyrange/acpihandlers/internal/trace"
)

// Context is the per-region state owned by the PCI-config backing
// between attach and detach: the resolved, immutable bus address.
type Context struct {
	Address platform.PCIAddress
}

// Backing implements handler.Backing for the PCI-config address space.
type Backing struct {
	pci platform.PCI
	tr  *trace.Tracer
}

// New creates a PCI-config backing over the given platform PCI access
// primitives.
func New(pci platform.PCI, tr *trace.Tracer) *Backing {
	return &Backing{pci: pci, tr: tr}
}

// Handle implements the uniform (op, op_data) dispatch contract.
func (b *Backing) Handle(op handler.Op, data any) (any, error) {
	switch op {
	case handler.OpAttach:
		in, ok := data.(handler.AttachInput)
		if !ok {
			return nil, handler.ErrInvalidArgument
		}
		return b.attach(in)
	case handler.OpDetach:
		in, ok := data.(handler.DetachInput)
		if !ok {
			return nil, handler.ErrInvalidArgument
		}
		return nil, b.detach(in)
	case handler.OpRead:
		in, ok := data.(handler.RwInput)
		if !ok {
			return nil, handler.ErrInvalidArgument
		}
		return b.read(in)
	case handler.OpWrite:
		in, ok := data.(handler.RwInput)
		if !ok {
			return nil, handler.ErrInvalidArgument
		}
		return nil, b.write(in)
	default:
		return nil, handler.ErrInvalidArgument
	}
}

func (b *Backing) attach(in handler.AttachInput) (handler.AttachResult, error) {
	addr, err := resolve(in.Node, b.tr)
	if err != nil {
		return handler.AttachResult{}, err
	}
	return handler.AttachResult{Context: &Context{Address: addr}}, nil
}

func (b *Backing) detach(in handler.DetachInput) error {
	if _, ok := in.Context.(*Context); !ok {
		return handler.ErrInvalidArgument
	}
	return nil
}

func (b *Backing) read(in handler.RwInput) (handler.RwResult, error) {
	ctx, ok := in.Context.(*Context)
	if !ok {
		return handler.RwResult{}, handler.ErrInvalidArgument
	}
	v, err := b.pci.PCIRead(ctx.Address, in.Offset, in.ByteWidth)
	if err != nil {
		return handler.RwResult{}, fmt.Errorf("pciconf: read: %w", err)
	}
	return handler.RwResult{Value: v}, nil
}

func (b *Backing) write(in handler.RwInput) error {
	ctx, ok := in.Context.(*Context)
	if !ok {
		return handler.ErrInvalidArgument
	}
	if err := b.pci.PCIWrite(ctx.Address, in.Offset, in.ByteWidth, in.Value); err != nil {
		return fmt.Errorf("pciconf: write: %w", err)
	}
	return nil
}

var _ handler.Backing = (*Backing)(nil)
