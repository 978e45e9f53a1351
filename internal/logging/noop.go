package logging

// Nop is the Logger routers and event buses fall back to when none is
// configured. It discards every record.
var Nop Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Debug(Record)    {}
func (nopLogger) Info(Record)     {}
func (nopLogger) Warn(Record)     {}
func (nopLogger) Error(Record)    {}
func (nopLogger) Critical(Record) {}
func (n nopLogger) With(map[string]any) Logger { return n }
