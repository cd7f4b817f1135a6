// Package acpins defines the namespace and object-model interfaces that
// the address-space handler core consumes from the ACPI interpreter. The
// interpreter, the AML parser, and the namespace tree itself live outside
// this module; acpins only names the shape of what the core needs from
// them.
package acpins

import "errors"

// ErrMethodNotFound is returned by Node.Eval when the named method (or
// named object) does not exist on that node. Per the core's error policy,
// a missing _HID/_CID/_ADR/_SEG/_BBN is not itself a failure — callers
// decide whether the absence is material.
var ErrMethodNotFound = errors.New("acpins: method not found")

// NodeType identifies the kind of namespace object a Node represents.
type NodeType int

const (
	NodeTypeUnknown NodeType = iota
	NodeTypeDevice
	NodeTypeRegion
	NodeTypeMethod
	NodeTypeScope
	NodeTypeProcessor
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeDevice:
		return "Device"
	case NodeTypeRegion:
		return "OperationRegion"
	case NodeTypeMethod:
		return "Method"
	case NodeTypeScope:
		return "Scope"
	case NodeTypeProcessor:
		return "Processor"
	default:
		return "Unknown"
	}
}

// SpaceID identifies an ACPI address space. Only the three backed by this
// core's built-in handlers are named here.
type SpaceID int

const (
	SpaceSystemMemory SpaceID = iota
	SpaceSystemIO
	SpacePCIConfig
)

// RegionDescriptor is the operation-region descriptor the interpreter
// attaches to a NodeTypeRegion node: the address space it belongs to and
// its offset/length within that space.
type RegionDescriptor struct {
	SpaceID SpaceID
	Offset  uint64
	Length  uint64
}

// ObjectKind discriminates the value carried by an Object.
type ObjectKind int

const (
	KindInteger ObjectKind = iota
	KindString
	KindPackage
)

// Object is the typed result of evaluating an ACPI method or named
// object, e.g. _HID, _CID, _ADR, _SEG, _BBN.
type Object struct {
	Kind    ObjectKind
	Integer uint64
	String  string
	Package []Object
}

// Node is a single entry in the ACPI namespace tree, as presented to the
// core by the interpreter.
type Node interface {
	// Name returns this node's namespace segment (e.g. "PCI0", "DEV0").
	Name() string

	// Type returns the object type this node holds.
	Type() NodeType

	// Parent returns this node's parent and true, or (nil, false) if this
	// node is the namespace root.
	Parent() (Node, bool)

	// IsRoot reports whether this node is the namespace root (\).
	IsRoot() bool

	// RegionDescriptor returns the operation-region descriptor for this
	// node, if it is a NodeTypeRegion node.
	RegionDescriptor() (RegionDescriptor, bool)

	// Eval evaluates the named method or object on this node (e.g.
	// "_HID", "_ADR") and returns its result. It returns ErrMethodNotFound
	// if the name does not resolve under this node.
	Eval(name string) (Object, error)
}
