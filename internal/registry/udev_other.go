//go:build !linux

package registry

// defaultBusEnumerator and defaultHIDEnumerator degrade to "nothing
// found" outside Linux, matching the transport package's own
// non-Linux stubs: udev and /dev/i2c-*/hidraw* are Linux concepts.
type defaultBusEnumerator struct{}

func (defaultBusEnumerator) I2CBuses() ([]int, error) { return nil, nil }

type defaultHIDEnumerator struct{}

func (defaultHIDEnumerator) HIDPaths() ([]string, error) { return nil, nil }
