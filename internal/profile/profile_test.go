package profile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpLoad_RoundTripsFeaturePairs(t *testing.T) {
	p := Profile{
		EDIDHex:          strings.Repeat("ab", 128),
		Manufacturer:     "ACM",
		Model:            "Test Monitor",
		Serial:           "SN123",
		Timestamp:        time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC),
		MCCSVersionMajor: 2,
		MCCSVersionMinor: 1,
		Features: []FeatureValue{
			{Feature: 0x10, Value: 50},
			{Feature: 0x12, Value: 75},
			{Feature: 0x60, Value: 17},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, p))

	got, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, p.EDIDHex, got.EDIDHex)
	assert.Equal(t, p.Manufacturer, got.Manufacturer)
	assert.Equal(t, p.Model, got.Model)
	assert.Equal(t, p.Serial, got.Serial)
	assert.Equal(t, p.MCCSVersionMajor, got.MCCSVersionMajor)
	assert.Equal(t, p.MCCSVersionMinor, got.MCCSVersionMinor)
	assert.Equal(t, p.Features, got.Features)
}

func TestLoad_RejectsMissingVersionLine(t *testing.T) {
	r := strings.NewReader("DISPLAY edid=ab mfg=X model=Y sn=Z timestamp=2026-01-01\nVCP 10 50\n")
	_, err := Load(r)
	require.Error(t, err)
}

func TestLoad_RejectsMissingHeader(t *testing.T) {
	r := strings.NewReader("VCP 10 50\nVERSION 2.1\n")
	_, err := Load(r)
	require.Error(t, err)
}

func TestLoad_RejectsMalformedFeatureLine(t *testing.T) {
	r := strings.NewReader("DISPLAY edid=ab\nVCP zz 50\nVERSION 2.1\n")
	_, err := Load(r)
	require.Error(t, err)
}

func TestLoad_RejectsUnknownLineKind(t *testing.T) {
	r := strings.NewReader("DISPLAY edid=ab\nBOGUS line\nVERSION 2.1\n")
	_, err := Load(r)
	require.Error(t, err)
}

func TestLoad_SkipsBlankLines(t *testing.T) {
	r := strings.NewReader("DISPLAY edid=ab\n\nVCP 10 50\n\nVERSION 2.1\n")
	got, err := Load(r)
	require.NoError(t, err)
	assert.Len(t, got.Features, 1)
}
