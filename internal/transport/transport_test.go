package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/n5dux/ddctl/internal/ddcerr"
)

func TestIncludesAddressByte(t *testing.T) {
	assert.True(t, IncludesAddressByte(KindAdapter))
	assert.False(t, IncludesAddressByte(KindI2C))
	assert.False(t, IncludesAddressByte(KindUSB))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "i2c", KindI2C.String())
	assert.Equal(t, "adapter", KindAdapter.String())
	assert.Equal(t, "usb", KindUSB.String())
}

func TestMapErrno_Nil(t *testing.T) {
	assert.Nil(t, mapErrno(nil))
}

func TestMapErrno_Busy(t *testing.T) {
	err := mapErrno(errnoEBUSY)
	assert.Equal(t, ddcerr.KindBusBusy, err.Kind)
}

func TestMapErrno_BadDescriptor(t *testing.T) {
	err := mapErrno(errnoEBADF)
	assert.Equal(t, ddcerr.KindBadDescriptor, err.Kind)
}

func TestMapErrno_PermissionDenied(t *testing.T) {
	assert.Equal(t, ddcerr.KindPermissionDenied, mapErrno(errnoEACCES).Kind)
	assert.Equal(t, ddcerr.KindPermissionDenied, mapErrno(errnoEPERM).Kind)
}

func TestMapErrno_NoDevice(t *testing.T) {
	assert.Equal(t, ddcerr.KindNoDevice, mapErrno(errnoENODEV).Kind)
	assert.Equal(t, ddcerr.KindNoDevice, mapErrno(errnoENXIO).Kind)
	assert.Equal(t, ddcerr.KindNoDevice, mapErrno(errnoENOENT).Kind)
}

func TestMapErrno_IOMapsToBusy(t *testing.T) {
	assert.Equal(t, ddcerr.KindBusBusy, mapErrno(errnoEIO).Kind)
}

func TestMapErrno_Unknown(t *testing.T) {
	err := mapErrno(assert.AnError)
	assert.Equal(t, ddcerr.KindTransportOther, err.Kind)
}
