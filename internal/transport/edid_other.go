//go:build !linux

package transport

import "github.com/n5dux/ddctl/internal/ddcerr"

const EDIDLength = 128

func ReadEDID(busNumber int) ([EDIDLength]byte, error) {
	var out [EDIDLength]byte
	return out, ddcerr.New(ddcerr.KindNoDevice)
}
