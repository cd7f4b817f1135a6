// Package platform defines the downward interfaces the address-space
// handler core consumes from the kernel glue layer: physical-memory
// mapping, port-I/O mapping and access, and PCI configuration-space
// access. The core never talks to hardware directly; it always goes
// through one of these.
package platform

// PCIAddress identifies a PCI function's configuration space by its
// fully-resolved (segment, bus, device, function) tuple.
type PCIAddress struct {
	Segment  uint16
	Bus      uint8
	Device   uint8
	Function uint8
}

// IOHandle is an opaque handle to a mapped port-I/O window, owned by
// whichever platform implementation issued it via IOMap.
type IOHandle interface{}

// Memory maps and unmaps physical address ranges for MMIO access. Map
// must return a virtual address valid for reads/writes of the mapped
// extent until the matching Unmap; the returned address is not
// reference-counted or shared across Map calls.
type Memory interface {
	Map(phys, size uint64) (virt uintptr, err error)
	Unmap(virt uintptr, size uint64) error
}

// IO maps port-I/O windows and performs width-discriminated reads/writes
// against them. Width validity (1/2/4/8 bytes) is enforced here; the
// core passes it through unchanged.
type IO interface {
	IOMap(base, size uint64) (IOHandle, error)
	IOUnmap(handle IOHandle) error
	IORead(handle IOHandle, offset uint64, width int) (uint64, error)
	IOWrite(handle IOHandle, offset uint64, width int, value uint64) error
}

// PCI performs width-discriminated reads/writes against a resolved PCI
// function's configuration space.
type PCI interface {
	PCIRead(addr PCIAddress, offset uint64, width int) (uint64, error)
	PCIWrite(addr PCIAddress, offset uint64, width int, value uint64) error
}

// Platform aggregates the three backing surfaces the installer wires up.
type Platform interface {
	Memory
	IO
	PCI
}
