//go:build linux

package transport

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/n5dux/ddctl/internal/ddcctx"
)

// DDCI2CSlaveAddr is the MCCS DDC/CI I2C slave address.
const DDCI2CSlaveAddr = 0x37

// ioctl request numbers from linux/i2c-dev.h; see DESIGN.md for the
// example this is grounded on.
const (
	ioctlI2CSlave = 0x0703
	ioctlI2CRDWR  = 0x0707

	i2cMsgFlagRead = 0x0001
)

type i2cMsg struct {
	addr   uint16
	flags  uint16
	length uint16
	pad    uint16 // keep struct word-aligned to match the kernel's i2c_msg layout
	buf    uintptr
}

type i2cRdwrIoctlData struct {
	msgs  uintptr
	nmsgs uint32
}

// i2cHandle is the I2C implementation of Handle. Writes and reads are
// entire DDC frames minus the leading pseudo-address byte, per
// the DDC/CI protocol: the kernel supplies the slave address via the fd's
// ioctl(I2C_SLAVE) state, not a byte on the wire.
type i2cHandle struct {
	f   *os.File
	mu  sync.Mutex
	rt  *ddcctx.Runtime
	bus int
}

// I2COpener opens /dev/i2c-N endpoints.
type I2COpener struct{}

func (I2COpener) Open(coords Coordinates, rt *ddcctx.Runtime) (Handle, error) {
	path := fmt.Sprintf("/dev/i2c-%d", coords.I2CBusNumber)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, mapErrno(err)
	}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), ioctlI2CSlave, uintptr(DDCI2CSlaveAddr)); errno != 0 {
		f.Close()
		return nil, mapErrno(errno)
	}
	h := &i2cHandle{f: f, rt: rt, bus: coords.I2CBusNumber}
	rt.Sleep(ddcctx.PhasePostOpen)
	return h, nil
}

func (h *i2cHandle) Kind() Kind { return KindI2C }

func (h *i2cHandle) Write(frame []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rt.Strategy() == ddcctx.StrategyIoctl {
		return h.ioctlWrite(frame)
	}
	n, err := h.f.Write(frame)
	if err != nil {
		return mapErrno(err)
	}
	if n != len(frame) {
		return ddcerrShortWrite()
	}
	return nil
}

func (h *i2cHandle) Read(maxBytes int) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rt.Strategy() == ddcctx.StrategyIoctl {
		return h.ioctlRead(maxBytes)
	}
	buf := make([]byte, maxBytes)
	n, err := h.f.Read(buf)
	if err != nil {
		return nil, mapErrno(err)
	}
	return buf[:n], nil
}

// ioctlWrite and ioctlRead use I2C_RDWR instead of write()/read() on
// the file. Each call submits a single one-message transfer: the write
// and the read of an exchange are two separate ioctls, not one bundled
// atomic transfer.
func (h *i2cHandle) ioctlWrite(frame []byte) error {
	msg := i2cMsg{
		addr:   DDCI2CSlaveAddr,
		flags:  0,
		length: uint16(len(frame)),
		buf:    uintptr(unsafe.Pointer(&frame[0])),
	}
	data := i2cRdwrIoctlData{msgs: uintptr(unsafe.Pointer(&msg)), nmsgs: 1}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, h.f.Fd(), ioctlI2CRDWR, uintptr(unsafe.Pointer(&data))); errno != 0 {
		return mapErrno(errno)
	}
	return nil
}

func (h *i2cHandle) ioctlRead(maxBytes int) ([]byte, error) {
	buf := make([]byte, maxBytes)
	msg := i2cMsg{
		addr:   DDCI2CSlaveAddr,
		flags:  i2cMsgFlagRead,
		length: uint16(maxBytes),
		buf:    uintptr(unsafe.Pointer(&buf[0])),
	}
	data := i2cRdwrIoctlData{msgs: uintptr(unsafe.Pointer(&msg)), nmsgs: 1}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, h.f.Fd(), ioctlI2CRDWR, uintptr(unsafe.Pointer(&data))); errno != 0 {
		return nil, mapErrno(errno)
	}
	return buf, nil
}

func (h *i2cHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.f.Close()
}

func ddcerrShortWrite() error {
	return mapErrno(unix.EIO)
}
