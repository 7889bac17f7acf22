//go:build linux

package transport

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// EDIDSlaveAddr is the fixed I2C address every DDC-capable display
// answers EDID reads on.
const EDIDSlaveAddr = 0x50

// EDIDLength is the size of the base EDID block.
const EDIDLength = 128

// ReadEDID opens /dev/i2c-busNumber, switches the slave address to
// 0x50, and reads the 128-byte base EDID block. This is the registry's
// probe for "does this bus have a display attached", independent of
// whether DDC/CI itself later turns out to work.
func ReadEDID(busNumber int) ([EDIDLength]byte, error) {
	var out [EDIDLength]byte

	path := fmt.Sprintf("/dev/i2c-%d", busNumber)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return out, mapErrno(err)
	}
	defer f.Close()

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), ioctlI2CSlave, uintptr(EDIDSlaveAddr)); errno != 0 {
		return out, mapErrno(errno)
	}

	n, err := f.Read(out[:])
	if err != nil {
		return out, mapErrno(err)
	}
	if n != EDIDLength {
		return out, mapErrno(unix.EIO)
	}
	// A blank bus (no EDID responder) often reads back as all 0x00 or
	// all 0xFF rather than failing the read outright.
	if isBlank(out[:]) {
		return out, mapErrno(unix.ENODEV)
	}
	return out, nil
}

func isBlank(b []byte) bool {
	allZero, allFF := true, true
	for _, v := range b {
		if v != 0x00 {
			allZero = false
		}
		if v != 0xff {
			allFF = false
		}
	}
	return allZero || allFF
}
