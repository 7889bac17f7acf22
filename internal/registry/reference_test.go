package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReference_MarkDDCCheckedImpliesWorkingBit(t *testing.T) {
	r := &Reference{}
	r.markDDCChecked(true)
	assert.True(t, r.Flags().Has(FlagDDCChecked))
	assert.True(t, r.Flags().Has(FlagDDCWorking))
}

func TestReference_MarkDDCCheckedFailureLeavesWorkingUnset(t *testing.T) {
	r := &Reference{}
	r.markDDCChecked(false)
	assert.True(t, r.Flags().Has(FlagDDCChecked))
	assert.False(t, r.Flags().Has(FlagDDCWorking))
}

func TestReference_SetDisplayNumberRequiresDDCWorking(t *testing.T) {
	r := &Reference{}
	assert.Panics(t, func() { r.setDisplayNumber(1) })

	r.markDDCChecked(true)
	assert.NotPanics(t, func() { r.setDisplayNumber(1) })
	assert.Equal(t, 1, r.DisplayNumber())

	// A negative display number never requires DDC_WORKING.
	r2 := &Reference{}
	assert.NotPanics(t, func() { r2.setDisplayNumber(-1) })
}

func TestReference_CapabilitiesCache(t *testing.T) {
	r := &Reference{}
	_, ok := r.Capabilities()
	assert.False(t, ok)

	r.CacheCapabilities([]byte("(cap)"))
	got, ok := r.Capabilities()
	assert.True(t, ok)
	assert.Equal(t, []byte("(cap)"), got)
}

func TestReference_NullResponseConvention(t *testing.T) {
	r := &Reference{}
	r.markNullResponseConvention(true)
	assert.True(t, r.Flags().Has(FlagNullResponseChecked))
	assert.True(t, r.Flags().Has(FlagUsesNullResponseForUnsupported))
}
