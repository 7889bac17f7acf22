// Package vcp implements the transport-agnostic value facade of
// the DDC/CI protocol: one call per operation (get/set/capabilities) over
// whichever transport a Handle happens to be bound to.
package vcp

import (
	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddcerr"
	"github.com/n5dux/ddctl/internal/exchange"
	"github.com/n5dux/ddctl/internal/multipart"
	"github.com/n5dux/ddctl/internal/packet"
	"github.com/n5dux/ddctl/internal/registry"
	"github.com/n5dux/ddctl/internal/retry"
)

// Type selects how get_value dispatches a feature read: non-table
// features use a single write-read, table features use the multi-part
// reader.
type Type int

const (
	TypeContinuous Type = iota
	TypeNonContinuous
	TypeTable
)

// nullProbeFeature is the one feature code whose reads treat a DDC
// Null Message reply as a successful observation rather than a
// failure.
const nullProbeFeature = 0x00

// maxTableTotal and maxCapabilitiesTotal bound the multi-part reader's
// accumulated buffer, sized generously but finitely for real MCCS
// capability strings and table features.
const (
	maxTableTotal        = 16384
	maxCapabilitiesTotal = 16384
)

// Value is a decoded VCP read: Current/Max for continuous and
// non-continuous features, TableData for table features (mutually
// exclusive with Current/Max, selected by the Type passed to
// GetValue).
type Value struct {
	Current   uint16
	Max       uint16
	TableData []byte
}

// GetValue reads feature from h, dispatching on vtype.
func GetValue(h *registry.Handle, rt *ddcctx.Runtime, feature byte, vtype Type) (Value, error) {
	if vtype == TypeTable {
		data, err := readTable(h, rt, feature)
		if err != nil {
			return Value{}, err
		}
		return Value{TableData: data}, nil
	}

	tk := h.Kind()
	resp, err := retry.WriteRead(rt, ddcctx.ClassWriteRead, tk, false, func() (*packet.Packet, error) {
		req := packet.BuildVCPRequest(feature)
		return exchange.WriteRead(h.Transport(), rt, req, 2+packet.MaxPayload, packet.OpVCPReply, -1)
	})
	if err != nil {
		return Value{}, classifyReadErr(h, feature, err)
	}

	v, decErr := packet.DecodeVCPReply(resp)
	if decErr != nil {
		return Value{}, decErr
	}
	if v.Feature != feature {
		return Value{}, ddcerr.New(ddcerr.KindDDCData)
	}
	if v.Result != 0 {
		return Value{}, ddcerr.New(ddcerr.KindReportedUnsupported)
	}
	return Value{Current: v.Cur(), Max: v.Max()}, nil
}

// classifyReadErr turns a terminal write-read error into the public
// unsupported-feature outcomes the DDC/CI protocol describes, when
// applicable; feature 0x00's NULL_RESPONSE is a positive probe
// result handled entirely by the registry's initial check, not here,
// but GetValue may still be called directly against feature 0x00, so
// the same rule applies.
func classifyReadErr(h *registry.Handle, feature byte, err error) error {
	de, ok := err.(*ddcerr.Error)
	if !ok || de.Kind != ddcerr.KindNullResponse {
		return err
	}
	if feature == nullProbeFeature {
		return nil
	}
	if h.Reference().Flags().Has(registry.FlagUsesNullResponseForUnsupported) {
		return ddcerr.New(ddcerr.KindDeterminedUnsupported)
	}
	return err
}

func readTable(h *registry.Handle, rt *ddcctx.Runtime, feature byte) ([]byte, error) {
	tk := h.Kind()
	return multipart.ReadMulti(rt, tk, multipart.Target{Feature: feature}, maxTableTotal, func(offset uint16) multipart.FragmentFunc {
		return func() (*packet.Packet, error) {
			req := packet.BuildTableReadRequest(feature, offset)
			return exchange.WriteRead(h.Transport(), rt, req, 2+packet.MaxPayload, packet.OpTableReadReply, -1)
		}
	})
}

// SetValue writes value to feature via a write-only exchange. When
// rt's verify-on-set flag is enabled, it follows up with a GetValue
// and returns KindVerify on mismatch.
func SetValue(h *registry.Handle, rt *ddcctx.Runtime, feature byte, value uint16) error {
	tk := h.Kind()
	err := retry.WriteOnly(rt, ddcctx.ClassWriteOnly, tk, func() error {
		req := packet.BuildVCPSet(feature, byte(value>>8), byte(value))
		return exchange.WriteOnly(h.Transport(), rt, req)
	})
	if err != nil {
		return err
	}
	if !rt.VerifyOnSet() {
		return nil
	}

	got, err := GetValue(h, rt, feature, TypeContinuous)
	if err != nil {
		return err
	}
	if got.Current != value {
		return ddcerr.New(ddcerr.KindVerify)
	}
	return nil
}

// GetCapabilities reads and caches the capability string bytes on
// h's Reference.
func GetCapabilities(h *registry.Handle, rt *ddcctx.Runtime) ([]byte, error) {
	if cached, ok := h.Reference().Capabilities(); ok {
		return cached, nil
	}

	tk := h.Kind()
	data, err := multipart.ReadMulti(rt, tk, multipart.Target{Capabilities: true}, maxCapabilitiesTotal, func(offset uint16) multipart.FragmentFunc {
		return func() (*packet.Packet, error) {
			req := packet.BuildCapabilitiesRequest(offset)
			return exchange.WriteRead(h.Transport(), rt, req, 2+packet.MaxPayload, packet.OpCapabilityReply, -1)
		}
	})
	if err != nil {
		return nil, err
	}
	h.Reference().CacheCapabilities(data)
	return data, nil
}
