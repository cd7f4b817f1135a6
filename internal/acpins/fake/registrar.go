package fake

import (
	"github.com/tinyrange/acpihandlers/internal/acpins"
	"github.com/tinyrange/acpihandlers/internal/handler"
)

// Registrar is an in-memory install.Registrar used by tests and the
// seed-test harness to record which backing serves which address space,
// standing in for the interpreter's real handler table.
type Registrar struct {
	handlers map[acpins.SpaceID]handler.Backing
}

// NewRegistrar creates an empty Registrar.
func NewRegistrar() *Registrar {
	return &Registrar{handlers: make(map[acpins.SpaceID]handler.Backing)}
}

// InstallAddressSpaceHandler implements install.Registrar.
func (r *Registrar) InstallAddressSpaceHandler(node acpins.Node, space acpins.SpaceID, h handler.Backing) error {
	r.handlers[space] = h
	return nil
}

// HandlerFor returns the backing installed for the given address space,
// or (nil, false) if none was registered.
func (r *Registrar) HandlerFor(space acpins.SpaceID) (handler.Backing, bool) {
	h, ok := r.handlers[space]
	return h, ok
}
