// Package exchange owns a single write-read or write-only round trip
// with a device. It does not retry: that is the retry controller's
// job, layered on top in internal/retry.
package exchange

import (
	"bytes"

	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddcerr"
	"github.com/n5dux/ddctl/internal/packet"
	"github.com/n5dux/ddctl/internal/transport"
)

// WriteRead performs a full round trip: write the request,
// sleep, read a reply, sleep, and classify it. A successful
// classification still has to pass the codec parse (ParseTypedResponse
// for I2C/adapter, ParseHIDReport for USB-HID); any checksum/opcode/
// subtype mismatch there surfaces as KindDDCData.
func WriteRead(h transport.Handle, rt *ddcctx.Runtime, req *packet.Packet, maxRead int, expectedOpcode packet.Opcode, expectedSubtype int) (*packet.Packet, error) {
	log := rt.Logger
	isHID := h.Kind() == transport.KindUSB
	frame := frameFor(req, h.Kind())

	if err := h.Write(frame); err != nil {
		log.Debug("write failed", "kind", h.Kind(), "err", err)
		return nil, err
	}

	rt.Sleep(ddcctx.PhaseWriteToRead)

	raw, err := h.Read(maxRead)
	rt.Sleep(ddcctx.PhasePostRead)
	if err != nil {
		log.Debug("read failed", "kind", h.Kind(), "err", err)
		return nil, err
	}

	switch {
	case packet.IsAllZero(raw):
		return nil, ddcerr.New(ddcerr.KindReadAllZero)
	case bytes.Equal(raw, frame):
		return nil, ddcerr.New(ddcerr.KindReadEqualsWrite)
	case packet.IsNullMessage(raw):
		return nil, ddcerr.New(ddcerr.KindNullResponse)
	}

	var resp *packet.Packet
	if isHID {
		resp, err = packet.ParseHIDReport(raw, expectedOpcode, expectedSubtype)
	} else {
		hasAddr := transport.IncludesAddressByte(h.Kind())
		resp, err = packet.ParseTypedResponse(raw, hasAddr, expectedOpcode, expectedSubtype)
	}
	if err != nil {
		log.Debug("codec rejected response", "kind", h.Kind(), "err", err)
		return nil, err
	}
	return resp, nil
}

// WriteOnly performs a fire-and-forget request: write, sleep
// PostWrite. Used for VCP set, reset, and save-settings.
func WriteOnly(h transport.Handle, rt *ddcctx.Runtime, req *packet.Packet) error {
	frame := frameFor(req, h.Kind())
	if err := h.Write(frame); err != nil {
		rt.Logger.Debug("write failed", "kind", h.Kind(), "err", err)
		return err
	}
	rt.Sleep(ddcctx.PhasePostWrite)
	return nil
}

// frameFor encodes req for kind's wire shape: an opcode-indexed HID
// report for USB-HID, the checksummed length/opcode/payload frame
// Bytes builds for I2C and the adapter transport otherwise.
func frameFor(req *packet.Packet, kind transport.Kind) []byte {
	if kind == transport.KindUSB {
		return req.HIDBytes()
	}
	return req.Bytes(transport.IncludesAddressByte(kind))
}
