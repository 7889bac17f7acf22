//go:build !linux

package transport

import (
	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddcerr"
)

// I2COpener and HIDOpener degrade to always-fails stubs outside Linux:
// DDC/CI over I2C and hidraw are Linux device-node concepts, but the
// package still needs to build on a developer's non-Linux machine.
type I2COpener struct{}

func (I2COpener) Open(coords Coordinates, rt *ddcctx.Runtime) (Handle, error) {
	return nil, ddcerr.New(ddcerr.KindNoDevice)
}

type HIDOpener struct{}

func (HIDOpener) Open(coords Coordinates, rt *ddcctx.Runtime) (Handle, error) {
	return nil, ddcerr.New(ddcerr.KindNoDevice)
}

var (
	_ Opener = I2COpener{}
	_ Opener = HIDOpener{}
)
