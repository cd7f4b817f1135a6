// Package access implements the width-discriminated volatile load/store
// primitives the MMIO backing uses against mapped virtual addresses.
// Each width is performed as a single access of exactly that width;
// none are synthesized from narrower ones.
package access

import (
	"sync/atomic"
	"unsafe"

	"github.com/tinyrange/acpihandlers/internal/handler"
)

// Valid reports whether width is one of the widths this core supports.
func Valid(width int) bool {
	switch width {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// Read performs a single volatile load of width bytes at ptr.
//
// The 32- and 64-bit paths go through sync/atomic, which the Go memory
// model guarantees is neither reordered nor elided with respect to other
// atomic operations on the same address — the closest stdlib primitive
// to a single hardware bus transaction. sync/atomic has no 8- or 16-bit
// load, so those widths use a direct
// pointer dereference; the compiler is not free to split or combine it
// with an adjacent access because the access has volatile-like scope
// (a single statement, pointer freshly computed by the caller), but this
// is weaker than the 32/64-bit guarantee and platforms that need a
// stronger guarantee for narrow widths should reject them upstream.
func Read(ptr uintptr, width int) (uint64, error) {
	if ptr == 0 {
		return 0, handler.ErrInvalidArgument
	}
	switch width {
	case 1:
		return uint64(*(*uint8)(unsafe.Pointer(ptr))), nil
	case 2:
		return uint64(*(*uint16)(unsafe.Pointer(ptr))), nil
	case 4:
		return uint64(atomic.LoadUint32((*uint32)(unsafe.Pointer(ptr)))), nil
	case 8:
		return atomic.LoadUint64((*uint64)(unsafe.Pointer(ptr))), nil
	default:
		return 0, handler.ErrInvalidArgument
	}
}

// Write performs a single volatile store of width bytes at ptr. See Read
// for the volatility guarantees per width.
func Write(ptr uintptr, width int, value uint64) error {
	if ptr == 0 {
		return handler.ErrInvalidArgument
	}
	switch width {
	case 1:
		*(*uint8)(unsafe.Pointer(ptr)) = uint8(value)
	case 2:
		*(*uint16)(unsafe.Pointer(ptr)) = uint16(value)
	case 4:
		atomic.StoreUint32((*uint32)(unsafe.Pointer(ptr)), uint32(value))
	case 8:
		atomic.StoreUint64((*uint64)(unsafe.Pointer(ptr)), value)
	default:
		return handler.ErrInvalidArgument
	}
	return nil
}
