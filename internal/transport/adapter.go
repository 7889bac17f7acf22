package transport

import (
	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/ddcerr"
)

// AdapterOpener opens a handle through a vendor GPU adapter API (e.g. an
// NVAPI/ADL-style call that performs the I2C exchange internally and
// hands back a pre-assembled DDC reply). It reports "no displays"
// rather than failing the whole process.
//
// AdapterOpener is always the stub: NumDisplays always returns 0 and
// Open always fails with KindNoDevice. There is no build tag or other
// build option that links a vendor library in its place.
type AdapterOpener struct{}

// NumDisplays reports how many adapter-API displays are present. The
// stub always reports zero, which is what lets registry detection
// degrade gracefully with no adapter-API displays.
func (AdapterOpener) NumDisplays() int { return 0 }

func (AdapterOpener) Open(coords Coordinates, rt *ddcctx.Runtime) (Handle, error) {
	return nil, ddcerr.New(ddcerr.KindNoDevice)
}

var _ Opener = AdapterOpener{}
