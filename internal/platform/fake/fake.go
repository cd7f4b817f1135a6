// Package fake provides an in-process platform.Platform used by tests
// and the seed-test harness, standing in for real hardware without
// requiring a kernel mapping layer.
package fake

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/tinyrange/acpihandlers/internal/platform"
)

// Platform is a byte-slice-backed stand-in for the kernel's map/io-map/
// pci primitives. It is not safe for concurrent region lifecycles beyond
// what the single-threaded core itself assumes.
type Platform struct {
	mu sync.Mutex

	// mmio holds the byte slices backing each outstanding Map call,
	// keyed by the virtual address handed back to the caller. Holding
	// the slice here keeps it reachable for the lifetime of the mapping;
	// Go's garbage collector does not relocate heap allocations, so a
	// uintptr derived from &buf[0] stays valid as long as buf is kept
	// reachable this way.
	mmio map[uintptr][]byte

	ports map[*ioWindow]bool

	// ForceMapErr, when non-nil, is returned by the next call to Map.
	ForceMapErr error
	// ForceIOMapErr, when non-nil, is returned by the next call to IOMap.
	ForceIOMapErr error

	pci map[platform.PCIAddress][]byte
}

type ioWindow struct {
	base uint64
	buf  []byte
}

// New creates an empty fake platform.
func New() *Platform {
	return &Platform{
		mmio:  make(map[uintptr][]byte),
		ports: make(map[*ioWindow]bool),
		pci:   make(map[platform.PCIAddress][]byte),
	}
}

func (p *Platform) Map(phys, size uint64) (uintptr, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ForceMapErr != nil {
		err := p.ForceMapErr
		p.ForceMapErr = nil
		return 0, err
	}

	buf := make([]byte, size)
	virt := uintptr(unsafe.Pointer(&buf[0]))
	p.mmio[virt] = buf
	return virt, nil
}

func (p *Platform) Unmap(virt uintptr, size uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.mmio[virt]; !ok {
		return fmt.Errorf("fake: unmap of unknown virtual address 0x%x", virt)
	}
	delete(p.mmio, virt)
	return nil
}

func (p *Platform) IOMap(base, size uint64) (platform.IOHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ForceIOMapErr != nil {
		err := p.ForceIOMapErr
		p.ForceIOMapErr = nil
		return nil, err
	}

	w := &ioWindow{base: base, buf: make([]byte, size)}
	p.ports[w] = true
	return w, nil
}

func (p *Platform) IOUnmap(handle platform.IOHandle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, ok := handle.(*ioWindow)
	if !ok || !p.ports[w] {
		return fmt.Errorf("fake: io-unmap of unknown handle")
	}
	delete(p.ports, w)
	return nil
}

func (p *Platform) IORead(handle platform.IOHandle, offset uint64, width int) (uint64, error) {
	w, ok := handle.(*ioWindow)
	if !ok {
		return 0, fmt.Errorf("fake: io-read on unknown handle")
	}
	switch width {
	case 1, 2, 4, 8:
	default:
		return 0, fmt.Errorf("fake: io-read with unsupported width %d", width)
	}
	return loadLE(w.buf, offset, width)
}

func (p *Platform) IOWrite(handle platform.IOHandle, offset uint64, width int, value uint64) error {
	w, ok := handle.(*ioWindow)
	if !ok {
		return fmt.Errorf("fake: io-write on unknown handle")
	}
	switch width {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("fake: io-write with unsupported width %d", width)
	}
	return storeLE(w.buf, offset, width, value)
}

func (p *Platform) PCIRead(addr platform.PCIAddress, offset uint64, width int) (uint64, error) {
	p.mu.Lock()
	buf := p.pciSpace(addr)
	p.mu.Unlock()
	return loadLE(buf, offset, width)
}

func (p *Platform) PCIWrite(addr platform.PCIAddress, offset uint64, width int, value uint64) error {
	p.mu.Lock()
	buf := p.pciSpace(addr)
	p.mu.Unlock()
	return storeLE(buf, offset, width, value)
}

func (p *Platform) pciSpace(addr platform.PCIAddress) []byte {
	buf, ok := p.pci[addr]
	if !ok {
		buf = make([]byte, 4096)
		p.pci[addr] = buf
	}
	return buf
}

func loadLE(buf []byte, offset uint64, width int) (uint64, error) {
	if offset+uint64(width) > uint64(len(buf)) {
		return 0, fmt.Errorf("fake: read out of range: offset=0x%x width=%d len=%d", offset, width, len(buf))
	}
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(buf[offset+uint64(i)]) << (8 * i)
	}
	return v, nil
}

func storeLE(buf []byte, offset uint64, width int, value uint64) error {
	if offset+uint64(width) > uint64(len(buf)) {
		return fmt.Errorf("fake: write out of range: offset=0x%x width=%d len=%d", offset, width, len(buf))
	}
	for i := 0; i < width; i++ {
		buf[offset+uint64(i)] = byte(value >> (8 * i))
	}
	return nil
}

var _ platform.Platform = (*Platform)(nil)
