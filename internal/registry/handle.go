package registry

import (
	"github.com/n5dux/ddctl/internal/ddcctx"
	"github.com/n5dux/ddctl/internal/transport"
)

// Handle is an opened transport endpoint bound to one Reference, per
// "Display Handle". It is exclusively owned by whichever
// caller obtained it from Registry.Open; closing it releases the
// transport descriptor but leaves the Reference (and the registry's
// record of it) intact.
type Handle struct {
	transport transport.Handle
	ref       *Reference
	rt        *ddcctx.Runtime
}

// NewHandleForTest builds a Handle directly from a transport and
// reference, bypassing Registry.Open. Exported so other packages'
// tests (notably internal/vcp) can drive the facade against a
// scripted fake transport without standing up a full Registry.
func NewHandleForTest(t transport.Handle, ref *Reference, rt *ddcctx.Runtime) *Handle {
	return &Handle{transport: t, ref: ref, rt: rt}
}

// Transport exposes the underlying transport.Handle for the exchange
// and multi-part layers to write/read through.
func (h *Handle) Transport() transport.Handle { return h.transport }

// Reference returns the borrowed Reference this handle is bound to.
func (h *Handle) Reference() *Reference { return h.ref }

// Kind is a convenience forward to the underlying transport's Kind.
func (h *Handle) Kind() transport.Kind { return h.transport.Kind() }

func (h *Handle) Close() error {
	return h.transport.Close()
}
