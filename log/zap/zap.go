// Package zap adapts a *zap.Logger to rtcache.Logger.
package zap

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/rtcache"
)

var _ rtcache.Logger = Logger{}

// Logger writes cache events to a zap logger named "rtcache".
type Logger struct{ l *zap.Logger }

// New wraps l. A nil l yields a no-op logger.
func New(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return Logger{l: l.Named("rtcache")}
}

func (z Logger) Debug(msg string, f rtcache.Fields) { z.log(zapcore.DebugLevel, msg, f) }
func (z Logger) Info(msg string, f rtcache.Fields)  { z.log(zapcore.InfoLevel, msg, f) }
func (z Logger) Warn(msg string, f rtcache.Fields)  { z.log(zapcore.WarnLevel, msg, f) }
func (z Logger) Error(msg string, f rtcache.Fields) { z.log(zapcore.ErrorLevel, msg, f) }

func (z Logger) log(lvl zapcore.Level, msg string, f rtcache.Fields) {
	// skip building fields for debug noise on hot paths
	if ce := z.l.Check(lvl, msg); ce != nil {
		ce.Write(fields(f)...)
	}
}

func fields(f rtcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		switch v := v.(type) {
		case nil:
			continue
		case error:
			out = append(out, zap.NamedError(k, v))
		default:
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
