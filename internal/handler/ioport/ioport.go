// Package ioport implements the system-IO (port-I/O) address-space
// backing: attach io-maps the region's port window, read/write
// translate an absolute address into a region-relative offset and
// delegate to the platform's port read/write.
package ioport

import (
	"errors"
	"fmt"

	"github.com/tinyrange/acpihandlers/internal/handler"
	"github.com/tinyrange/acpihandlers/internal/platform"
)

// Context is the per-region state owned by the port-I/O backing between
// attach and detach.
type Context struct {
	Base   uint64
	Handle platform.IOHandle
}

// Backing implements handler.Backing for the system-IO address space.
type Backing struct {
	io platform.IO
}

// New creates a port-I/O backing over the given port-mapping primitives.
func New(io platform.IO) *Backing {
	return &Backing{io: io}
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
		return handler.AttachResult{}, fmt.Errorf("ioport: node %q has no region descriptor: %w", in.Node.Name(), handler.ErrInvalidArgument)
	}

	h, err := b.io.IOMap(desc.Offset, desc.Length)
	if err != nil {
		return handler.AttachResult{}, fmt.Errorf("ioport: io-map region %q: %w", in.Node.Name(), errors.Join(handler.ErrMappingFailed, err))
	}

	return handler.AttachResult{Context: &Context{Base: desc.Offset, Handle: h}}, nil
}

func (b *Backing) detach(in handler.DetachInput) error {
	ctx, ok := in.Context.(*Context)
	if !ok {
		return handler.ErrInvalidArgument
	}
	if err := b.io.IOUnmap(ctx.Handle); err != nil {
		return fmt.Errorf("ioport: io-unmap: %w", err)
	}
	return nil
}

func (b *Backing) read(in handler.RwInput) (handler.RwResult, error) {
	ctx, offset, err := b.resolve(in)
	if err != nil {
		return handler.RwResult{}, err
	}
	v, err := b.io.IORead(ctx.Handle, offset, in.ByteWidth)
	if err != nil {
		return handler.RwResult{}, fmt.Errorf("ioport: read: %w", err)
	}
	return handler.RwResult{Value: v}, nil
}

func (b *Backing) write(in handler.RwInput) error {
	ctx, offset, err := b.resolve(in)
	if err != nil {
		return err
	}
	if err := b.io.IOWrite(ctx.Handle, offset, in.ByteWidth, in.Value); err != nil {
		return fmt.Errorf("ioport: write: %w", err)
	}
	return nil
}

// resolve computes the region-relative port offset for an absolute
// access.
func (b *Backing) resolve(in handler.RwInput) (*Context, uint64, error) {
	ctx, ok := in.Context.(*Context)
	if !ok {
		return nil, 0, handler.ErrInvalidArgument
	}
	if in.Address < ctx.Base {
		return nil, 0, fmt.Errorf("ioport: address 0x%x below base 0x%x: %w", in.Address, ctx.Base, handler.ErrInvalidArgument)
	}
	return ctx, in.Address - ctx.Base, nil
}

var _ handler.Backing = (*Backing)(nil)
