package access_test

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/tinyrange/acpihandlers/internal/access"
	"github.com/tinyrange/acpihandlers/internal/handler"
)

func TestReadWriteRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	ptr := uintptr(unsafe.Pointer(&buf[0]))

	cases := []struct {
		width int
		value uint64
	}{
		{1, 0xAB},
		{2, 0xBEEF},
		{4, 0xDEADBEEF},
		{8, 0x0123456789ABCDEF},
	}

	for _, c := range cases {
		if err := access.Write(ptr, c.width, c.value); err != nil {
			t.Fatalf("width %d: write: %v", c.width, err)
		}
		got, err := access.Read(ptr, c.width)
		if err != nil {
			t.Fatalf("width %d: read: %v", c.width, err)
		}
		if got != c.value {
			t.Fatalf("width %d: got 0x%x, want 0x%x", c.width, got, c.value)
		}
	}
}

func TestInvalidWidthRejected(t *testing.T) {
	buf := make([]byte, 16)
	ptr := uintptr(unsafe.Pointer(&buf[0]))

	for _, width := range []int{0, 3, 5, 7, 16} {
		if _, err := access.Read(ptr, width); !errors.Is(err, handler.ErrInvalidArgument) {
			t.Fatalf("read width %d: got %v, want ErrInvalidArgument", width, err)
		}
		if err := access.Write(ptr, width, 1); !errors.Is(err, handler.ErrInvalidArgument) {
			t.Fatalf("write width %d: got %v, want ErrInvalidArgument", width, err)
		}
	}
}

func TestValid(t *testing.T) {
	for _, width := range []int{1, 2, 4, 8} {
		if !access.Valid(width) {
			t.Fatalf("width %d should be valid", width)
		}
	}
	for _, width := range []int{0, 3, 5, 6, 7, 9} {
		if access.Valid(width) {
			t.Fatalf("width %d should be invalid", width)
		}
	}
}
