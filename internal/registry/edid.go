package registry

import "strings"

// edidDescriptorBase and edidDescriptorLen locate the four 18-byte
// display descriptor blocks an EDID base block carries at bytes 54-125.
// A block that isn't a detailed timing descriptor (first two bytes
// zero) carries a tag byte at offset 3 identifying what it holds.
const (
	edidDescriptorBase = 54
	edidDescriptorLen  = 18
	edidDescriptorTag  = 3
	edidDescriptorText = 5

	edidTagMonitorName   = 0xfc
	edidTagMonitorSerial = 0xff
)

// parseEDIDIdentity extracts the manufacturer/model/serial triple a
// Display Reference needs for identity-based selection out of a raw
// 128-byte EDID block. Manufacturer comes from the compressed 3-letter
// PNP ID at bytes 8-9; model and serial come from whichever display
// descriptor blocks carry the monitor-name and serial-number tags, if
// the monitor bothers to populate them.
func parseEDIDIdentity(edid [128]byte) (mfg, model, serial string) {
	mfg = edidManufacturer(edid)
	for i := 0; i < 4; i++ {
		off := edidDescriptorBase + i*edidDescriptorLen
		block := edid[off : off+edidDescriptorLen]
		if block[0] != 0 || block[1] != 0 || block[2] != 0 {
			continue
		}
		text := edidDecodeText(block[edidDescriptorText:edidDescriptorLen])
		switch block[edidDescriptorTag] {
		case edidTagMonitorName:
			model = text
		case edidTagMonitorSerial:
			serial = text
		}
	}
	return mfg, model, serial
}

// edidManufacturer decodes the 3-letter PNP manufacturer ID packed into
// bytes 8-9: a big-endian uint16 with bit 15 reserved and three 5-bit
// letter codes (1 = 'A' through 26 = 'Z') in the remaining bits.
func edidManufacturer(edid [128]byte) string {
	v := uint16(edid[8])<<8 | uint16(edid[9])
	codes := [3]byte{byte(v>>10) & 0x1f, byte(v>>5) & 0x1f, byte(v) & 0x1f}

	var b strings.Builder
	for _, c := range codes {
		if c < 1 || c > 26 {
			return ""
		}
		b.WriteByte('A' + c - 1)
	}
	return b.String()
}

// edidDecodeText reads a descriptor's ASCII payload, stopping at the
// line-feed terminator EDID uses in place of a length byte and
// trimming the trailing 0x20 padding.
func edidDecodeText(b []byte) string {
	if i := strings.IndexByte(string(b), '\n'); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(string(b), " ")
}
