package logging

import "github.com/sirupsen/logrus"

// logrusLogger adapts logrus.FieldLogger (satisfied by both *logrus.Logger
// and *logrus.Entry) to the Logger interface, so WithField can return a
// derived Logger without leaking the logrus type into the rest of the
// module.
type logrusLogger struct {
	entry logrus.FieldLogger
}

// NewLogrus builds a Logger backed by logrus, logging text-formatted
// lines with full timestamps at the given level. This is the logger used
// by cmd/directoryd and cmd/p2pclient.
func NewLogrus(level logrus.Level) Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &logrusLogger{entry: l}
}

// ParseLevel parses the --log-level flag value, defaulting to Info on any
// unrecognized input rather than failing process startup over a typo.
func ParseLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func (l *logrusLogger) Info(args ...interface{})                 { l.entry.Info(args...) }
func (l *logrusLogger) Infof(format string, args ...interface{}) { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warn(args ...interface{})                 { l.entry.Warn(args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{}) { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Error(args ...interface{})                { l.entry.Error(args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}
func (l *logrusLogger) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}
