package ioport_test

import (
	"testing"

	"github.com/tinyrange/acpihandlers/internal/acpins"
	acpinsfake "github.com/tinyrange/acpihandlers/internal/acpins/fake"
	"github.com/tinyrange/acpihandlers/internal/handler"
	"github.com/tinyrange/acpihandlers/internal/handler/ioport"
	platformfake "github.com/tinyrange/acpihandlers/internal/platform/fake"
)

func TestRelativeOffsetWrite(t *testing.T) {
	plat := platformfake.New()
	b := ioport.New(plat)

	root := acpinsfake.NewRoot()
	region := root.Add("COM1", acpins.NodeTypeRegion)
	region.SetRegion(acpins.RegionDescriptor{SpaceID: acpins.SpaceSystemIO, Offset: 0x3F8, Length: 8})

	res, err := b.Handle(handler.OpAttach, handler.AttachInput{Node: region})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	ctx := res.(handler.AttachResult).Context

	if _, err := b.Handle(handler.OpWrite, handler.RwInput{Context: ctx, Address: 0x3FA, ByteWidth: 1, Value: 0x5A}); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Address 0x3FA against base 0x3F8 must land at relative offset 2.
	read, err := b.Handle(handler.OpRead, handler.RwInput{Context: ctx, Address: 0x3FA, ByteWidth: 1})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := read.(handler.RwResult).Value; got != 0x5A {
		t.Fatalf("got 0x%x, want 0x5A", got)
	}

	ioCtx := ctx.(*ioport.Context)
	raw, err := plat.IORead(ioCtx.Handle, 2, 1)
	if err != nil {
		t.Fatalf("raw io read: %v", err)
	}
	if raw != 0x5A {
		t.Fatalf("platform saw offset mismatch: got 0x%x at offset 2, want 0x5A", raw)
	}

	if _, err := b.Handle(handler.OpDetach, handler.DetachInput{Context: ctx}); err != nil {
		t.Fatalf("detach: %v", err)
	}
}

func TestAddressBelowBaseRejected(t *testing.T) {
	plat := platformfake.New()
	b := ioport.New(plat)

	root := acpinsfake.NewRoot()
	region := root.Add("COM1", acpins.NodeTypeRegion)
	region.SetRegion(acpins.RegionDescriptor{SpaceID: acpins.SpaceSystemIO, Offset: 0x3F8, Length: 8})

	res, err := b.Handle(handler.OpAttach, handler.AttachInput{Node: region})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	ctx := res.(handler.AttachResult).Context

	if _, err := b.Handle(handler.OpRead, handler.RwInput{Context: ctx, Address: 0x100, ByteWidth: 1}); err == nil {
		t.Fatal("expected error for address below base")
	}
}
