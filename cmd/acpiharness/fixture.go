package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture describes the synthetic hardware/namespace topology the
// harness exercises the core against, in place of a freestanding test
// harness's real ACPI table fixtures.
type Fixture struct {
	MMIO struct {
		Base uint64 `yaml:"base"`
		Size uint64 `yaml:"size"`
	} `yaml:"mmio"`

	IOPort struct {
		Base uint64 `yaml:"base"`
		Size uint64 `yaml:"size"`
	} `yaml:"ioport"`

	PCI struct {
		RootHID   string `yaml:"root_hid"`
		Segment   uint64 `yaml:"segment"`
		Bus       uint64 `yaml:"bus"`
		DeviceAdr uint64 `yaml:"device_adr"`
	} `yaml:"pci"`
}

// defaultFixture reproduces the MMIO, port-I/O, and PCI scenarios this
// harness drives out of the box.
func defaultFixture() Fixture {
	var f Fixture
	f.MMIO.Base = 0x10000
	f.MMIO.Size = 0x100
	f.IOPort.Base = 0x3F8
	f.IOPort.Size = 8
	f.PCI.RootHID = "PNP0A08"
	f.PCI.Segment = 1
	f.PCI.Bus = 0x40
	f.PCI.DeviceAdr = 0x001F0003
	return f
}

func loadFixture(path string) (Fixture, error) {
	if path == "" {
		return defaultFixture(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture %q: %w", path, err)
	}
	f := defaultFixture()
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture %q: %w", path, err)
	}
	return f, nil
}
