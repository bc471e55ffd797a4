// Package natmap models the spec's opportunistic NAT port-mapping
// attempt: advisory only, and a failure to map must never be fatal or
// disrupt the caller beyond a log line.
package natmap

import "github.com/seniorbeto/p2pshare/pkg/logging"

// Mapper attempts to expose a locally bound port to the outside world.
type Mapper interface {
	// Map best-effort maps port and returns whatever cleanup is needed.
	// A non-nil error from Map is always advisory: callers must proceed
	// as though Map succeeded.
	Map(port int) (unmap func(), err error)
}

// noop is used when NAT mapping is disabled, which is the default: the
// spec's own source only attempts it best-effort and most deployments
// run without a UPnP-capable router reachable from the process.
type noop struct{}

// Disabled returns a Mapper that never attempts a mapping.
func Disabled() Mapper { return noop{} }

func (noop) Map(int) (func(), error) { return func() {}, nil }

// logged wraps a Mapper so a failed mapping attempt is always logged at
// Warn and never returned to the caller as fatal, per the spec's
// "failure must be non-fatal and silent beyond a log line" rule.
type logged struct {
	inner Mapper
	log   logging.Logger
}

// WithLogging wraps inner so its failures are reported but swallowed.
func WithLogging(inner Mapper, log logging.Logger) Mapper {
	return &logged{inner: inner, log: log}
}

func (l *logged) Map(port int) (func(), error) {
	unmap, err := l.inner.Map(port)
	if err != nil {
		l.log.Warnf("natmap: best-effort port mapping for %d failed: %v", port, err)
		return func() {}, nil
	}
	return unmap, nil
}
