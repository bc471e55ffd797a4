// Package logging defines the structured logger used across the
// directory, the peer serving endpoint and the client. The interface
// mirrors the teacher corpus's logger shape (Info/Warn/Error/Debug, each
// with an "f" formatting variant) so every component can depend on the
// small interface instead of a concrete logging library.
package logging

// Logger is implemented by every logging backend used in this module.
type Logger interface {
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	// WithField returns a derived Logger that annotates every subsequent
	// line with the given key/value, used to tag log lines with the verb,
	// remote address and ts of the request being served.
	WithField(key string, value interface{}) Logger
}
