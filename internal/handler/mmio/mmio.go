// Package mmio implements the system-memory (MMIO) address-space
// backing: attach maps a region's full physical extent, read/write
// translate an absolute address into that mapping and perform a
// width-discriminated volatile access.
package mmio

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tinyrange/acpihandlers/internal/access"
	"github.com/tinyrange/acpihandlers/internal/handler"
	"github.com/tinyrange/acpihandlers/internal/platform"
	"github.com/tinyrange/acpihandlers/internal/trace"
)

// Context is the per-region state owned by the MMIO backing between
// attach and detach.
type Context struct {
	Phys uint64
	Virt uintptr
	Size uint64
}

// Backing implements handler.Backing for the system-memory address
// space.
type Backing struct {
	mem platform.Memory
	tr  *trace.Tracer
}

// New creates an MMIO backing over the given memory-mapping primitives.
func New(mem platform.Memory, tr *trace.Tracer) *Backing {
	return &Backing{mem: mem, tr: tr}
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
	desc, ok := in.Node.RegionDescriptor()
	if !ok {
		return handler.AttachResult{}, fmt.Errorf("mmio: node %q has no region descriptor: %w", in.Node.Name(), handler.ErrInvalidArgument)
	}

	ctx := &Context{Phys: desc.Offset, Size: desc.Length}

	// TODO: map lazily per access with a small LRU of sub-mappings
	// instead of the region's full extent; wasteful for very large
	// regions.
	virt, err := b.mem.Map(ctx.Phys, ctx.Size)
	if err != nil {
		b.tr.Emit(trace.MappingFailed, "mmio: map region failed", "region", in.Node.Name(), "phys", ctx.Phys, "size", ctx.Size, "err", err)
		return handler.AttachResult{}, fmt.Errorf("mmio: map region %q: %w", in.Node.Name(), errors.Join(handler.ErrMappingFailed, err))
	}
	ctx.Virt = virt

	return handler.AttachResult{Context: ctx}, nil
}

func (b *Backing) detach(in handler.DetachInput) error {
	ctx, ok := in.Context.(*Context)
	if !ok {
		return handler.ErrInvalidArgument
	}
	if err := b.mem.Unmap(ctx.Virt, ctx.Size); err != nil {
		return fmt.Errorf("mmio: unmap: %w", err)
	}
	return nil
}

func (b *Backing) read(in handler.RwInput) (handler.RwResult, error) {
	ptr, err := b.translate(in)
	if err != nil {
		return handler.RwResult{}, err
	}
	v, err := access.Read(ptr, in.ByteWidth)
	if err != nil {
		return handler.RwResult{}, err
	}
	return handler.RwResult{Value: v}, nil
}

func (b *Backing) write(in handler.RwInput) error {
	ptr, err := b.translate(in)
	if err != nil {
		return err
	}
	return access.Write(ptr, in.ByteWidth, in.Value)
}

// translate computes the mapped virtual address for an absolute access,
// ignoring the region-relative offset: the absolute address is what
// makes this backing robust to regions whose logical offset differs
// from their physical base.
func (b *Backing) translate(in handler.RwInput) (uintptr, error) {
	ctx, ok := in.Context.(*Context)
	if !ok {
		return 0, handler.ErrInvalidArgument
	}
	if !access.Valid(in.ByteWidth) {
		return 0, handler.ErrInvalidArgument
	}
	if in.Address < ctx.Phys || in.Address >= ctx.Phys+ctx.Size {
		slog.Error("mmio: access out of region bounds", "address", in.Address, "phys", ctx.Phys, "size", ctx.Size)
		return 0, fmt.Errorf("mmio: address 0x%x out of bounds [0x%x, 0x%x): %w", in.Address, ctx.Phys, ctx.Phys+ctx.Size, handler.ErrInvalidArgument)
	}
	return ctx.Virt + uintptr(in.Address-ctx.Phys), nil
}

var _ handler.Backing = (*Backing)(nil)
