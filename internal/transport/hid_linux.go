//go:build linux

package transport

import (
	"os"
	"sync"

	"github.com/n5dux/ddctl/internal/ddcctx"
)

// hidHandle is the USB-HID implementation of Handle, for monitors
// exposing MCCS over the USB Monitor Control Class. The packet codec
// frames differently here (opcode-indexed HID reports rather than raw
// I2C bytes, see packet.HIDBytes/ParseHIDReport and
// exchange.frameFor); this transport is deliberately dumb about that,
// it just moves fixed-size reports in and out of the hidraw device
// node.
type hidHandle struct {
	f  *os.File
	mu sync.Mutex
	rt *ddcctx.Runtime
}

// HIDOpener opens /dev/hidraw* endpoints discovered by registry
// enumeration.
type HIDOpener struct{}

func (HIDOpener) Open(coords Coordinates, rt *ddcctx.Runtime) (Handle, error) {
	f, err := os.OpenFile(coords.HIDPath, os.O_RDWR, 0)
	if err != nil {
		return nil, mapErrno(err)
	}
	h := &hidHandle{f: f, rt: rt}
	rt.Sleep(ddcctx.PhasePostOpen)
	return h, nil
}

func (h *hidHandle) Kind() Kind { return KindUSB }

func (h *hidHandle) Write(report []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := h.f.Write(report)
	if err != nil {
		return mapErrno(err)
	}
	if n != len(report) {
		return mapErrno(os.ErrClosed)
	}
	return nil
}

func (h *hidHandle) Read(maxBytes int) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf := make([]byte, maxBytes)
	n, err := h.f.Read(buf)
	if err != nil {
		return nil, mapErrno(err)
	}
	return buf[:n], nil
}

func (h *hidHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.f.Close()
}

var _ Opener = HIDOpener{}
