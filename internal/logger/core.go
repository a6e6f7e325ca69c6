package logger

import (
	"go.uber.org/zap/zapcore"
)

// Sink receives log entries for persistence.
type Sink interface {
	AddLog(entry LogEntry)
}

// LogEntry holds the data passed from Zap to a Sink
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	Caller    string
	SessionID string
	IpAddress string
	AdminID   string
}

// SinkCore tees entries at or above minLevel to a Sink while still writing
// them through the wrapped core.
type SinkCore struct {
	zapcore.Core
	sink     Sink
	minLevel zapcore.Level
	fields   []zapcore.Field
}

func NewSinkCore(base zapcore.Core, sink Sink, minLevel zapcore.Level) zapcore.Core {
	return &SinkCore{Core: base, sink: sink, minLevel: minLevel}
}

// With keeps the sink attached to child loggers.
func (c *SinkCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &SinkCore{
		Core:     c.Core.With(fields),
		sink:     c.sink,
		minLevel: c.minLevel,
		fields:   merged,
	}
}

func (c *SinkCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *SinkCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if entry.Level >= c.minLevel {
		le := LogEntry{
			Level:   entry.Level,
			Message: entry.Message,
			Caller:  entry.Caller.Function,
		}
		for _, f := range append(c.fields, fields...) {
			switch f.Key {
			case "sid":
				le.SessionID = f.String
			case "ip":
				le.IpAddress = f.String
			case "adminId":
				le.AdminID = f.String
			}
		}
		c.sink.AddLog(le)
	}

	return c.Core.Write(entry, fields)
}
