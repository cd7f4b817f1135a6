// Package install registers the three built-in backings at the
// namespace root for their corresponding address-space identifiers, so
// they are inherited by every region beneath unless overridden.
package install

import (
	"fmt"

	"github.com/tinyrange/acpihandlers/internal/acpins"
	"github.com/tinyrange/acpihandlers/internal/handler"
	"github.com/tinyrange/acpihandlers/internal/handler/ioport"
	"github.com/tinyrange/acpihandlers/internal/handler/mmio"
	"github.com/tinyrange/acpihandlers/internal/handler/pciconf"
	"github.com/tinyrange/acpihandlers/internal/platform"
	"github.com/tinyrange/acpihandlers/internal/trace"
)

// Registrar is the interface the core consumes from the interpreter to
// register an address-space handler. No user data is associated with
// the registrations this installer performs.
type Registrar interface {
	InstallAddressSpaceHandler(node acpins.Node, space acpins.SpaceID, h handler.Backing) error
}

// Install registers the MMIO, port-I/O, and PCI-config backings at root
// for their respective address-space identifiers.
func Install(root acpins.Node, reg Registrar, plat platform.Platform, tr *trace.Tracer) error {
	if err := reg.InstallAddressSpaceHandler(root, acpins.SpaceSystemMemory, mmio.New(plat, tr)); err != nil {
		return fmt.Errorf("install: system-memory handler: %w", err)
	}
	if err := reg.InstallAddressSpaceHandler(root, acpins.SpaceSystemIO, ioport.New(plat)); err != nil {
		return fmt.Errorf("install: system-IO handler: %w", err)
	}
	if err := reg.InstallAddressSpaceHandler(root, acpins.SpacePCIConfig, pciconf.New(plat, tr)); err != nil {
		return fmt.Errorf("install: PCI-config handler: %w", err)
	}
	return nil
}
