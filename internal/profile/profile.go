// Package profile implements the dumpvcp/loadvcp line-oriented text
// format: a header line, one VCP line per feature, a version tag. The
// timestamp in the header is formatted via lestrrat-go/strftime rather
// than time.Format directly.
package profile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/n5dux/ddctl/internal/ddcerr"
)

// timestampPattern is a daily-log-style timestamp, adapted to a header
// field rather than a filename.
const timestampPattern = "%Y-%m-%d %H:%M:%S"

// FeatureValue is one (feature code, current value) pair from a
// profile.
type FeatureValue struct {
	Feature byte
	Value   uint16
}

// Profile is the in-memory form of a dumpvcp/loadvcp file
// (ambient "Profile" type).
type Profile struct {
	EDIDHex          string
	Manufacturer     string
	Model            string
	Serial           string
	Timestamp        time.Time
	MCCSVersionMajor byte
	MCCSVersionMinor byte
	Features         []FeatureValue
}

// Dump serializes p to w in the dumpvcp format: one header line, one
// "VCP hh value" line per feature, one version line.
func Dump(w io.Writer, p Profile) error {
	ts, err := strftime.Format(timestampPattern, p.Timestamp)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("DISPLAY edid=%s mfg=%s model=%s sn=%s timestamp=%s",
		p.EDIDHex, p.Manufacturer, p.Model, p.Serial, ts)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	for _, fv := range p.Features {
		if _, err := fmt.Fprintf(w, "VCP %02x %d\n", fv.Feature, fv.Value); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "VERSION %d.%d\n", p.MCCSVersionMajor, p.MCCSVersionMinor); err != nil {
		return err
	}
	return nil
}

// Load parses a dumpvcp-format stream. It is tolerant of the header's
// exact timestamp formatting (it does not attempt to re-parse it,
// since round-trip fidelity is only required of (feature, value)
// pairs) but requires the header and version lines be present and
// well-formed.
func Load(r io.Reader) (Profile, error) {
	var p Profile
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		return Profile{}, ddcerr.New(ddcerr.KindInvalidArgument)
	}
	if err := parseHeader(sc.Text(), &p); err != nil {
		return Profile{}, err
	}

	sawVersion := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "VCP "):
			fv, err := parseFeatureLine(line)
			if err != nil {
				return Profile{}, err
			}
			p.Features = append(p.Features, fv)
		case strings.HasPrefix(line, "VERSION "):
			major, minor, err := parseVersionLine(line)
			if err != nil {
				return Profile{}, err
			}
			p.MCCSVersionMajor, p.MCCSVersionMinor = major, minor
			sawVersion = true
		default:
			return Profile{}, ddcerr.New(ddcerr.KindInvalidArgument)
		}
	}
	if err := sc.Err(); err != nil {
		return Profile{}, err
	}
	if !sawVersion {
		return Profile{}, ddcerr.New(ddcerr.KindInvalidArgument)
	}
	return p, nil
}

func parseHeader(line string, p *Profile) error {
	if !strings.HasPrefix(line, "DISPLAY ") {
		return ddcerr.New(ddcerr.KindInvalidArgument)
	}
	fields := strings.Fields(strings.TrimPrefix(line, "DISPLAY "))
	// A value containing spaces (e.g. a model name) is split by Fields;
	// words without "=" are joined back onto the preceding value with a
	// single space.
	var cur *string
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			if cur != nil {
				*cur += " " + f
			}
			continue
		}
		cur = nil
		switch k {
		case "edid":
			p.EDIDHex = v
		case "mfg":
			p.Manufacturer = v
			cur = &p.Manufacturer
		case "model":
			p.Model = v
			cur = &p.Model
		case "sn":
			p.Serial = v
			cur = &p.Serial
		case "timestamp":
			// Intentionally not re-parsed; see Load's doc comment.
		}
	}
	return nil
}

func parseFeatureLine(line string) (FeatureValue, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return FeatureValue{}, ddcerr.New(ddcerr.KindInvalidArgument)
	}
	feature, err := strconv.ParseUint(fields[1], 16, 8)
	if err != nil {
		return FeatureValue{}, ddcerr.Wrap(ddcerr.KindInvalidArgument, err)
	}
	value, err := strconv.ParseUint(fields[2], 10, 16)
	if err != nil {
		return FeatureValue{}, ddcerr.Wrap(ddcerr.KindInvalidArgument, err)
	}
	return FeatureValue{Feature: byte(feature), Value: uint16(value)}, nil
}

func parseVersionLine(line string) (major, minor byte, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, ddcerr.New(ddcerr.KindInvalidArgument)
	}
	parts := strings.SplitN(fields[1], ".", 2)
	if len(parts) != 2 {
		return 0, 0, ddcerr.New(ddcerr.KindInvalidArgument)
	}
	maj, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return 0, 0, ddcerr.Wrap(ddcerr.KindInvalidArgument, err)
	}
	min, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return 0, 0, ddcerr.Wrap(ddcerr.KindInvalidArgument, err)
	}
	return byte(maj), byte(min), nil
}
