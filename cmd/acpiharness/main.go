// Command acpiharness is a seed-test harness for the address-space
// handler core: it builds a synthetic namespace/hardware topology and
// drives each backing's Attach/Read/Write/Detach lifecycle against it,
// standing in for a freestanding test harness that would otherwise
// build real ACPI tables and evaluate a named method.
//
// Integer/string method evaluation lives in the interpreter, not this
// core, so this harness only drives the four hardware-backed scenarios.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tinyrange/acpihandlers/internal/acpins"
	acpinsfake "github.com/tinyrange/acpihandlers/internal/acpins/fake"
	"github.com/tinyrange/acpihandlers/internal/handler"
	"github.com/tinyrange/acpihandlers/internal/install"
	platformfake "github.com/tinyrange/acpihandlers/internal/platform/fake"
	"github.com/tinyrange/acpihandlers/internal/trace"
)

func main() {
	fixturePath := flag.String("fixture", "", "path to a YAML fixture overriding the default scenario topology")
	flag.Parse()

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		slog.Error("acpiharness: load fixture", "err", err)
		os.Exit(2)
	}

	results := run(fixture)

	failed := 0
	for _, r := range results {
		status := "PASS"
		if r.err != nil {
			status = "FAIL"
			failed++
		}
		fmt.Printf("[%s] %s\n", status, r.name)
		if r.err != nil {
			fmt.Printf("       %v\n", r.err)
		}
	}

	if failed > 0 {
		fmt.Printf("%d/%d scenarios failed\n", failed, len(results))
		os.Exit(1)
	}
	fmt.Printf("%d scenarios passed\n", len(results))
}

type result struct {
	name string
	err  error
}

func run(fixture Fixture) []result {
	return []result{
		{"mmio round-trip", scenarioMMIORoundTrip(fixture)},
		{"port-I/O relative offset", scenarioIOPortOffset(fixture)},
		{"PCI resolution", scenarioPCIResolution(fixture)},
		{"unsupported width rejected", scenarioUnsupportedWidth(fixture)},
	}
}

func newNamespaceAndPlatform() (*acpinsfake.Node, *acpinsfake.Registrar, *platformfake.Platform) {
	root := acpinsfake.NewRoot()
	reg := acpinsfake.NewRegistrar()
	plat := platformfake.New()
	return root, reg, plat
}

func scenarioMMIORoundTrip(fixture Fixture) error {
	root, reg, plat := newNamespaceAndPlatform()
	if err := install.Install(root, reg, plat, trace.New()); err != nil {
		return err
	}
	mmioHandler, _ := reg.HandlerFor(acpins.SpaceSystemMemory)

	region := root.Add("REG0", acpins.NodeTypeRegion)
	region.SetRegion(acpins.RegionDescriptor{SpaceID: acpins.SpaceSystemMemory, Offset: fixture.MMIO.Base, Length: fixture.MMIO.Size})

	res, err := mmioHandler.Handle(handler.OpAttach, handler.AttachInput{Node: region})
	if err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	ctx := res.(handler.AttachResult).Context
	defer mmioHandler.Handle(handler.OpDetach, handler.DetachInput{Context: ctx})

	if _, err := mmioHandler.Handle(handler.OpWrite, handler.RwInput{Context: ctx, Address: fixture.MMIO.Base, ByteWidth: 4, Value: 0xDEADBEEF}); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	read, err := mmioHandler.Handle(handler.OpRead, handler.RwInput{Context: ctx, Address: fixture.MMIO.Base, ByteWidth: 4})
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if got := read.(handler.RwResult).Value; got != 0xDEADBEEF {
		return fmt.Errorf("round trip mismatch: got 0x%x, want 0xDEADBEEF", got)
	}
	return nil
}

func scenarioIOPortOffset(fixture Fixture) error {
	root, reg, plat := newNamespaceAndPlatform()
	if err := install.Install(root, reg, plat, trace.New()); err != nil {
		return err
	}
	ioHandler, _ := reg.HandlerFor(acpins.SpaceSystemIO)

	region := root.Add("COM1", acpins.NodeTypeRegion)
	region.SetRegion(acpins.RegionDescriptor{SpaceID: acpins.SpaceSystemIO, Offset: fixture.IOPort.Base, Length: fixture.IOPort.Size})

	res, err := ioHandler.Handle(handler.OpAttach, handler.AttachInput{Node: region})
	if err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	ctx := res.(handler.AttachResult).Context
	defer ioHandler.Handle(handler.OpDetach, handler.DetachInput{Context: ctx})

	addr := fixture.IOPort.Base + 2
	if _, err := ioHandler.Handle(handler.OpWrite, handler.RwInput{Context: ctx, Address: addr, ByteWidth: 1, Value: 0x5A}); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	read, err := ioHandler.Handle(handler.OpRead, handler.RwInput{Context: ctx, Address: addr, ByteWidth: 1})
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if got := read.(handler.RwResult).Value; got != 0x5A {
		return fmt.Errorf("relative offset mismatch: got 0x%x, want 0x5A", got)
	}
	return nil
}

func scenarioPCIResolution(fixture Fixture) error {
	root, reg, plat := newNamespaceAndPlatform()
	if err := install.Install(root, reg, plat, trace.New()); err != nil {
		return err
	}
	pciHandler, _ := reg.HandlerFor(acpins.SpacePCIConfig)

	sb := root.Add("_SB", acpins.NodeTypeScope)
	pci0 := sb.Add("PCI0", acpins.NodeTypeDevice)
	pci0.SetMethod("_HID", acpinsfake.String(fixture.PCI.RootHID))
	pci0.SetMethod("_SEG", acpinsfake.Integer(fixture.PCI.Segment))
	pci0.SetMethod("_BBN", acpinsfake.Integer(fixture.PCI.Bus))
	dev0 := pci0.Add("DEV0", acpins.NodeTypeDevice)
	dev0.SetMethod("_ADR", acpinsfake.Integer(fixture.PCI.DeviceAdr))
	region := dev0.Add("REG", acpins.NodeTypeRegion)
	region.SetRegion(acpins.RegionDescriptor{SpaceID: acpins.SpacePCIConfig})

	res, err := pciHandler.Handle(handler.OpAttach, handler.AttachInput{Node: region})
	if err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	ctx := res.(handler.AttachResult).Context
	defer pciHandler.Handle(handler.OpDetach, handler.DetachInput{Context: ctx})

	// The harness only has the opaque handler.Context; exercise the
	// resolved address indirectly through a config-space round trip,
	// the same path a real interpreter would use.
	if _, err := pciHandler.Handle(handler.OpWrite, handler.RwInput{Context: ctx, Offset: 0, ByteWidth: 4, Value: 0x11223344}); err != nil {
		return fmt.Errorf("write config space: %w", err)
	}
	read, err := pciHandler.Handle(handler.OpRead, handler.RwInput{Context: ctx, Offset: 0, ByteWidth: 4})
	if err != nil {
		return fmt.Errorf("read config space: %w", err)
	}
	if got := read.(handler.RwResult).Value; got != 0x11223344 {
		return fmt.Errorf("config space round trip mismatch: got 0x%x", got)
	}

	return nil
}

func scenarioUnsupportedWidth(fixture Fixture) error {
	root, reg, plat := newNamespaceAndPlatform()
	if err := install.Install(root, reg, plat, trace.New()); err != nil {
		return err
	}
	mmioHandler, _ := reg.HandlerFor(acpins.SpaceSystemMemory)

	region := root.Add("REG1", acpins.NodeTypeRegion)
	region.SetRegion(acpins.RegionDescriptor{SpaceID: acpins.SpaceSystemMemory, Offset: fixture.MMIO.Base, Length: fixture.MMIO.Size})

	res, err := mmioHandler.Handle(handler.OpAttach, handler.AttachInput{Node: region})
	if err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	ctx := res.(handler.AttachResult).Context
	defer mmioHandler.Handle(handler.OpDetach, handler.DetachInput{Context: ctx})

	_, err = mmioHandler.Handle(handler.OpRead, handler.RwInput{Context: ctx, Address: fixture.MMIO.Base, ByteWidth: 3})
	if !errors.Is(err, handler.ErrInvalidArgument) {
		return fmt.Errorf("width 3 read: got %v, want ErrInvalidArgument", err)
	}
	return nil
}
