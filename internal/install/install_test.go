package install_test

import (
	"testing"

	"github.com/tinyrange/acpihandlers/internal/acpins"
	acpinsfake "github.com/tinyrange/acpihandlers/internal/acpins/fake"
	"github.com/tinyrange/acpihandlers/internal/install"
	platformfake "github.com/tinyrange/acpihandlers/internal/platform/fake"
)

func TestInstallRegistersAllThreeSpaces(t *testing.T) {
	root := acpinsfake.NewRoot()
	reg := acpinsfake.NewRegistrar()
	plat := platformfake.New()

	if err := install.Install(root, reg, plat, nil); err != nil {
		t.Fatalf("install: %v", err)
	}

	for _, space := range []acpins.SpaceID{acpins.SpaceSystemMemory, acpins.SpaceSystemIO, acpins.SpacePCIConfig} {
		if _, ok := reg.HandlerFor(space); !ok {
			t.Fatalf("address space %v has no registered handler", space)
		}
	}
}
