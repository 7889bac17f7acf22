//go:build linux

package registry

import (
	"strconv"
	"strings"

	"github.com/jochenvg/go-udev"
)

// defaultBusEnumerator enumerates i2c-dev nodes with udev. ReadEDID
// (internal/transport) still does the actual probing; this only finds
// the candidate bus numbers.
type defaultBusEnumerator struct{}

func (defaultBusEnumerator) I2CBuses() ([]int, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem("i2c-dev"); err != nil {
		return nil, err
	}
	devices, err := e.Devices()
	if err != nil {
		return nil, err
	}

	var buses []int
	for _, d := range devices {
		name := d.Sysname()
		n, ok := busNumberFromSysname(name)
		if !ok {
			continue
		}
		buses = append(buses, n)
	}
	return buses, nil
}

func busNumberFromSysname(name string) (int, bool) {
	const prefix = "i2c-"
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

// defaultHIDEnumerator enumerates hidraw nodes with udev: nodes whose
// parent USB interface advertises the USB Monitor Control Class
// (interface class 0x03), plus a fallback for devices where that
// attribute can't be read (some DDC-over-HID bridges walk the same
// usb-parent chain without exposing the class byte directly).
type defaultHIDEnumerator struct{}

const usbInterfaceClassHID = "03"

func (defaultHIDEnumerator) HIDPaths() ([]string, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem("hidraw"); err != nil {
		return nil, err
	}
	devices, err := e.Devices()
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, d := range devices {
		node := d.Devnode()
		if node == "" {
			continue
		}
		if parent := d.ParentWithSubsystemDevtype("usb", "usb_interface"); parent != nil {
			class := parent.PropertyValue("INTERFACE")
			if class != "" && !strings.Contains(class, usbInterfaceClassHID) {
				continue
			}
		}
		paths = append(paths, node)
	}
	return paths, nil
}
