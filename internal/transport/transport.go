// Package transport implements the three byte-level transports DDC/CI
// can ride on (I2C, a vendor GPU adapter API, and USB-HID) behind one
// small contract.
package transport

import (
	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddcerr"
)

// Kind identifies which of the three transports a Handle belongs to.
type Kind int

const (
	KindI2C Kind = iota
	KindAdapter
	KindUSB
)

func (k Kind) String() string {
	switch k {
	case KindI2C:
		return "i2c"
	case KindAdapter:
		return "adapter"
	case KindUSB:
		return "usb"
	default:
		return "unknown"
	}
}

// Coordinates locates a transport endpoint. Exactly the fields for one
// Kind are meaningful; the registry is responsible for populating the
// right ones.
type Coordinates struct {
	Kind Kind

	// KindI2C
	I2CBusNumber int

	// KindAdapter
	AdapterIndex int
	DisplayIndex int

	// KindUSB
	USBBus    int
	USBDevice int
	HIDPath   string
}

// Handle is an opened transport endpoint. It is the transport-level
// analogue of a display handle, minus the reference borrow the
// registry attaches on top.
type Handle interface {
	Kind() Kind
	// Write sends an entire DDC frame. For I2C this is the frame with
	// its leading pseudo-address byte already stripped by the caller
	// (the kernel supplies the slave address); for the adapter and HID
	// transports it is whatever that transport's native framing needs.
	Write(frame []byte) error
	// Read reads up to maxBytes of a reply. It returns fewer bytes on
	// a short read; callers classify the result, they don't retry here.
	Read(maxBytes int) ([]byte, error)
	Close() error
}

// Opener opens a Handle for one Kind's Coordinates.
type Opener interface {
	Open(coords Coordinates, rt *ddcctx.Runtime) (Handle, error)
}

// IncludesAddressByte reports whether frames this transport's Write
// expects already carry the literal pseudo source-address byte
// (true for the adapter transport, false for I2C and HID).
func IncludesAddressByte(k Kind) bool {
	return k == KindAdapter
}

// mapErrno turns a raw OS error into the transport/OS error-kind
// family. Transport implementations funnel every syscall error through
// this so the retry controller sees the closed taxonomy rather than
// raw errno values.
func mapErrno(err error) *ddcerr.Error {
	if err == nil {
		return nil
	}
	switch {
	case isErrno(err, errnoEBUSY):
		return ddcerr.Wrap(ddcerr.KindBusBusy, err)
	case isErrno(err, errnoEBADF):
		return ddcerr.Wrap(ddcerr.KindBadDescriptor, err)
	case isErrno(err, errnoEACCES), isErrno(err, errnoEPERM):
		return ddcerr.Wrap(ddcerr.KindPermissionDenied, err)
	case isErrno(err, errnoENODEV), isErrno(err, errnoENXIO), isErrno(err, errnoENOENT):
		return ddcerr.Wrap(ddcerr.KindNoDevice, err)
	case isErrno(err, errnoEIO):
		return ddcerr.Wrap(ddcerr.KindBusBusy, err) // EIO is treated as a busy bus, not a hard failure
	default:
		return ddcerr.Wrap(ddcerr.KindTransportOther, err)
	}
}
