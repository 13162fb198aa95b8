// Package logrus adapts logrus to rtcache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/rtcache"
)

var _ rtcache.Logger = Logger{}

// Logger tags every entry with component=rtcache.
type Logger struct{ e *logrus.Entry }

// New wraps l. A nil l uses logrus.StandardLogger().
func New(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return Logger{e: l.WithField("component", "rtcache")}
}

func (l Logger) Debug(msg string, f rtcache.Fields) { l.log(logrus.DebugLevel, msg, f) }
func (l Logger) Info(msg string, f rtcache.Fields)  { l.log(logrus.InfoLevel, msg, f) }
func (l Logger) Warn(msg string, f rtcache.Fields)  { l.log(logrus.WarnLevel, msg, f) }
func (l Logger) Error(msg string, f rtcache.Fields) { l.log(logrus.ErrorLevel, msg, f) }

func (l Logger) log(lvl logrus.Level, msg string, f rtcache.Fields) {
	if !l.e.Logger.IsLevelEnabled(lvl) {
		return
	}
	e := l.e
	if len(f) > 0 {
		e = e.WithFields(logrus.Fields(f))
	}
	e.Log(lvl, msg)
}
