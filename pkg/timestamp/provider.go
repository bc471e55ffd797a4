// Package timestamp models the spec's external time-stamp service: an
// opaque string producer consulted by the client before each directory
// request. The directory reads and discards the value; the core never
// parses or validates it, so the interface boundary below is the entire
// contract.
package timestamp

import "time"

// Provider produces the opaque "ts" field carried by every directory
// request that has one.
type Provider interface {
	Now() (string, error)
}

// localClock is the default Provider, standing in for the out-of-scope
// remote time-stamp service referenced by the spec. It never fails.
type localClock struct{}

// NewLocalClock returns a Provider that formats the local wall clock,
// used when no remote time-stamp service is configured.
func NewLocalClock() Provider { return localClock{} }

func (localClock) Now() (string, error) {
	return time.Now().Format("02/01/2006 15:04:05"), nil
}
