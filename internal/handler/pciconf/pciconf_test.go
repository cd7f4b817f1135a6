package pciconf_test

import (
	"errors"
	"testing"

	"github.com/tinyrange/acpihandlers/internal/acpins"
	acpinsfake "github.com/tinyrange/acpihandlers/internal/acpins/fake"
	"github.com/tinyrange/acpihandlers/internal/handler"
	"github.com/tinyrange/acpihandlers/internal/handler/pciconf"
	platformfake "github.com/tinyrange/acpihandlers/internal/platform/fake"
)

// buildTopology assembles a namespace:
// \_SB.PCI0(_HID="PNP0A08", _SEG=1, _BBN=0x40).DEV0(_ADR=0x001F0003).REG
func buildTopology() *acpinsfake.Node {
	root := acpinsfake.NewRoot()
	sb := root.Add("_SB", acpins.NodeTypeScope)
	pci0 := sb.Add("PCI0", acpins.NodeTypeDevice)
	pci0.SetMethod("_HID", acpinsfake.String("PNP0A08"))
	pci0.SetMethod("_SEG", acpinsfake.Integer(1))
	pci0.SetMethod("_BBN", acpinsfake.Integer(0x40))
	dev0 := pci0.Add("DEV0", acpins.NodeTypeDevice)
	dev0.SetMethod("_ADR", acpinsfake.Integer(0x001F0003))
	reg := dev0.Add("REG", acpins.NodeTypeRegion)
	reg.SetRegion(acpins.RegionDescriptor{SpaceID: acpins.SpacePCIConfig})
	return reg
}

func TestResolution(t *testing.T) {
	plat := platformfake.New()
	b := pciconf.New(plat, nil)
	region := buildTopology()

	res, err := b.Handle(handler.OpAttach, handler.AttachInput{Node: region})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	ctx := res.(handler.AttachResult).Context.(*pciconf.Context)

	if ctx.Address.Segment != 1 || ctx.Address.Bus != 0x40 || ctx.Address.Device != 0x1F || ctx.Address.Function != 0x03 {
		t.Fatalf("resolved address mismatch: %+v", ctx.Address)
	}
}

func TestResolutionIdempotentAcrossReads(t *testing.T) {
	plat := platformfake.New()
	b := pciconf.New(plat, nil)
	region := buildTopology()

	res, err := b.Handle(handler.OpAttach, handler.AttachInput{Node: region})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	ctx := res.(handler.AttachResult).Context

	// Mutating the namespace's _BBN after attach must not affect already
	// resolved contexts: the walk only runs once, at attach.
	dev0, _ := region.Parent()
	pci0, _ := dev0.Parent()
	pci0.(*acpinsfake.Node).SetMethod("_BBN", acpinsfake.Integer(0x99))

	if _, err := b.Handle(handler.OpWrite, handler.RwInput{Context: ctx, Offset: 0, ByteWidth: 4, Value: 0x12345678}); err != nil {
		t.Fatalf("write: %v", err)
	}
	read, err := b.Handle(handler.OpRead, handler.RwInput{Context: ctx, Offset: 0, ByteWidth: 4})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := read.(handler.RwResult).Value; got != 0x12345678 {
		t.Fatalf("got 0x%x, want 0x12345678", got)
	}

	got := ctx.(*pciconf.Context).Address.Bus
	if got != 0x40 {
		t.Fatalf("bus changed after attach: got 0x%x, want 0x40 (namespace was not re-walked)", got)
	}
}

func TestNoControllingDeviceFails(t *testing.T) {
	plat := platformfake.New()
	b := pciconf.New(plat, nil)

	root := acpinsfake.NewRoot()
	region := root.Add("REG", acpins.NodeTypeRegion)
	region.SetRegion(acpins.RegionDescriptor{SpaceID: acpins.SpacePCIConfig})

	_, err := b.Handle(handler.OpAttach, handler.AttachInput{Node: region})
	if !errors.Is(err, handler.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestMissingADRAndRootDefaultsToZero(t *testing.T) {
	plat := platformfake.New()
	b := pciconf.New(plat, nil)

	root := acpinsfake.NewRoot()
	dev := root.Add("DEV", acpins.NodeTypeDevice)
	region := dev.Add("REG", acpins.NodeTypeRegion)
	region.SetRegion(acpins.RegionDescriptor{SpaceID: acpins.SpacePCIConfig})

	res, err := b.Handle(handler.OpAttach, handler.AttachInput{Node: region})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	addr := res.(handler.AttachResult).Context.(*pciconf.Context).Address
	if addr.Segment != 0 || addr.Bus != 0 || addr.Device != 0 || addr.Function != 0 {
		t.Fatalf("expected zero address, got %+v", addr)
	}
}
