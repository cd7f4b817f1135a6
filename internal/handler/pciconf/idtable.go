package pciconf

// rootBridgeHIDs lists the well-known _HID/_CID identifiers recognized
// as a PCI root bridge. PNP0A03 is the plain PCI root bridge, PNP0A08 is
// the PCI Express root bridge, and ACPI0016 covers the PCI Express
// host-bridge pattern seen on newer platforms.
var rootBridgeHIDs = map[string]bool{
	"PNP0A03":  true,
	"PNP0A08":  true,
	"ACPI0016": true,
}

func isRootBridgeID(id string) bool {
	return rootBridgeHIDs[id]
}
