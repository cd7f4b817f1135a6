package pciconf

import (
	"fmt"

	"github.com/tinyrange/acpihandlers/internal/acpins"
	"github.com/tinyrange/acpihandlers/internal/handler"
	"github.com/tinyrange/acpihandlers/internal/platform"
	"github.com/tinyrange/acpihandlers/internal/trace"
)

// resolve walks the namespace ancestry of a PCI-config region node to
// produce its full (segment, bus, device, function) address. The walk
// intentionally uses two distinct anchors — the controlling device for
// _ADR, and the PCI root for _SEG/_BBN — and must not collapse them
// into one: doing so produces wrong addresses on multi-segment systems.
func resolve(node acpins.Node, tr *trace.Tracer) (platform.PCIAddress, error) {
	device, err := findControllingDevice(node, tr)
	if err != nil {
		return platform.PCIAddress{}, fmt.Errorf("pciconf: resolve %q: %w", node.Name(), err)
	}
	tr.Emit(trace.DeviceIdentity, "pciconf: controlling device resolved", "region", node.Name(), "device", device.Name())

	root := findPCIRoot(node, tr)

	var addr platform.PCIAddress

	// _ADR encodes function in bits[7:0] and device in bits[23:16];
	// absence is non-fatal and leaves both 0.
	if obj, err := device.Eval("_ADR"); err == nil && obj.Kind == acpins.KindInteger {
		addr.Function = uint8(obj.Integer & 0xFF)
		addr.Device = uint8((obj.Integer >> 16) & 0xFF)
	}

	// _SEG/_BBN are each non-fatal on absence and leave the field 0.
	if obj, err := root.Eval("_SEG"); err == nil && obj.Kind == acpins.KindInteger {
		addr.Segment = uint16(obj.Integer)
	}
	if obj, err := root.Eval("_BBN"); err == nil && obj.Kind == acpins.KindInteger {
		addr.Bus = uint8(obj.Integer)
	}

	return addr, nil
}

// findControllingDevice ascends from the region node until an ancestor
// of object type Device is found. No such ancestor is a fatal error for
// the attach, so it is traced at error level rather than silently
// defaulted the way a missing _ADR/_SEG/_BBN is.
func findControllingDevice(node acpins.Node, tr *trace.Tracer) (acpins.Node, error) {
	cur := node
	for {
		if cur.Type() == acpins.NodeTypeDevice {
			return cur, nil
		}
		if cur.IsRoot() {
			tr.Emit(trace.DeviceNotFound, "pciconf: no controlling device ancestor", "region", node.Name())
			return nil, handler.ErrNotFound
		}
		parent, ok := cur.Parent()
		if !ok {
			tr.Emit(trace.DeviceNotFound, "pciconf: no controlling device ancestor", "region", node.Name())
			return nil, handler.ErrNotFound
		}
		cur = parent
	}
}

// findPCIRoot ascends from the region node's parent toward the
// namespace root, looking for an ancestor whose _HID (or one of its
// _CID entries) names a recognized PCI root bridge. If none is found
// before the namespace root, it emits a trace warning and falls back to
// the region node itself, leaving _SEG/_BBN evaluation to fail
// non-fatally against whatever that node yields.
func findPCIRoot(node acpins.Node, tr *trace.Tracer) acpins.Node {
	cur, ok := node.Parent()
	if !ok {
		tr.Emit(trace.PCIRootNotFound, "pciconf: no PCI root ancestor, falling back to region node", "region", node.Name())
		return node
	}

	for {
		if isRootBridgeNode(cur) {
			tr.Emit(trace.PCIRootDiscovered, "pciconf: PCI root discovered", "root", cur.Name())
			return cur
		}
		if cur.IsRoot() {
			break
		}
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		cur = parent
	}

	tr.Emit(trace.PCIRootNotFound, "pciconf: no PCI root ancestor, falling back to region node", "region", node.Name())
	return node
}

func isRootBridgeNode(n acpins.Node) bool {
	if obj, err := n.Eval("_HID"); err == nil && obj.Kind == acpins.KindString && isRootBridgeID(obj.String) {
		return true
	}
	if obj, err := n.Eval("_CID"); err == nil {
		switch obj.Kind {
		case acpins.KindString:
			if isRootBridgeID(obj.String) {
				return true
			}
		case acpins.KindPackage:
			for _, entry := range obj.Package {
				if entry.Kind == acpins.KindString && isRootBridgeID(entry.String) {
					return true
				}
			}
		}
	}
	return false
}
