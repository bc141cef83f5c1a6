package runtime

import "log"

// scriptLog is the `log` global: log.Info, log.Warn and log.Error write
// through the standard logger with the runtime's prefix.
type scriptLog struct {
	prefix string
}

func (l *scriptLog) Info(msg string)  { l.printf("INFO", msg) }
func (l *scriptLog) Warn(msg string)  { l.printf("WARN", msg) }
func (l *scriptLog) Error(msg string) { l.printf("ERROR", msg) }

func (l *scriptLog) printf(level, msg string) {
	log.Printf("[%s] %s: %s", l.prefix, level, msg)
}
