package logging

// discard is a Logger that drops every line. Used by tests that exercise
// components taking a Logger but don't want test output cluttered with
// request-level log lines.
type discard struct{}

// Discard returns a Logger that drops everything written to it.
func Discard() Logger { return discard{} }

func (discard) Info(args ...interface{})                  {}
func (discard) Infof(format string, args ...interface{})  {}
func (discard) Warn(args ...interface{})                  {}
func (discard) Warnf(format string, args ...interface{})  {}
func (discard) Error(args ...interface{})                 {}
func (discard) Errorf(format string, args ...interface{}) {}
func (discard) Debug(args ...interface{})                 {}
func (discard) Debugf(format string, args ...interface{}) {}
func (discard) WithField(key string, value interface{}) Logger { return discard{} }
