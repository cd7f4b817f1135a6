// Package fake provides an in-memory acpins.Node implementation for
// building synthetic ACPI namespaces in tests and in the seed-test
// harness, the way internal/acpi/install_test.go in this module's
// ancestor builds a fake VirtualMachine instead of pulling in a real
// hypervisor.
package fake

import (
	"github.com/tinyrange/acpihandlers/internal/acpins"
)

// Node is a mutable namespace node used to assemble synthetic ACPI
// device/region topologies.
type Node struct {
	name     string
	typ      acpins.NodeType
	parent   *Node
	children []*Node
	methods  map[string]acpins.Object
	region   *acpins.RegionDescriptor
}

// NewRoot creates the namespace root (\).
func NewRoot() *Node {
	return &Node{name: `\`, typ: acpins.NodeTypeScope}
}

// Add creates a child node under n and returns it.
func (n *Node) Add(name string, typ acpins.NodeType) *Node {
	child := &Node{name: name, typ: typ, parent: n}
	n.children = append(n.children, child)
	return child
}

// SetMethod records the result that Eval(name) should return for this
// node.
func (n *Node) SetMethod(name string, obj acpins.Object) *Node {
	if n.methods == nil {
		n.methods = make(map[string]acpins.Object)
	}
	n.methods[name] = obj
	return n
}

// SetRegion attaches an operation-region descriptor to this node.
func (n *Node) SetRegion(desc acpins.RegionDescriptor) *Node {
	n.region = &desc
	return n
}

// Integer is a convenience constructor for an integer-valued Object.
func Integer(v uint64) acpins.Object {
	return acpins.Object{Kind: acpins.KindInteger, Integer: v}
}

// String is a convenience constructor for a string-valued Object.
func String(v string) acpins.Object {
	return acpins.Object{Kind: acpins.KindString, String: v}
}

// PNPIDList is a convenience constructor for a _CID-style package of
// string identifiers.
func PNPIDList(ids ...string) acpins.Object {
	pkg := make([]acpins.Object, len(ids))
	for i, id := range ids {
		pkg[i] = String(id)
	}
	return acpins.Object{Kind: acpins.KindPackage, Package: pkg}
}

func (n *Node) Name() string { return n.name }

func (n *Node) Type() acpins.NodeType { return n.typ }

func (n *Node) Parent() (acpins.Node, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

func (n *Node) IsRoot() bool { return n.parent == nil }

func (n *Node) RegionDescriptor() (acpins.RegionDescriptor, bool) {
	if n.region == nil {
		return acpins.RegionDescriptor{}, false
	}
	return *n.region, true
}

func (n *Node) Eval(name string) (acpins.Object, error) {
	obj, ok := n.methods[name]
	if !ok {
		return acpins.Object{}, acpins.ErrMethodNotFound
	}
	return obj, nil
}

var _ acpins.Node = (*Node)(nil)
