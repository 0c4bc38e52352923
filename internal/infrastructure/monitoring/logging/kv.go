package logging

import "fmt"

// KVLogger adapts Logger for components that declare their own minimal
// logger interface taking alternating key-value pairs, such as the
// extraction engine.
type KVLogger struct {
	l Logger
}

// NewKVLogger wraps l; a nil l degrades to the no-op logger.
func NewKVLogger(l Logger) *KVLogger {
	if l == nil {
		l = NewNopLogger()
	}
	return &KVLogger{l: l}
}

func kvFields(kv []interface{}) []Field {
	fields := make([]Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kv[i])
		}
		fields = append(fields, Any(key, kv[i+1]))
	}
	return fields
}

func (k *KVLogger) Debug(msg string, kv ...interface{}) { k.l.Debug(msg, kvFields(kv)...) }
func (k *KVLogger) Info(msg string, kv ...interface{})  { k.l.Info(msg, kvFields(kv)...) }
func (k *KVLogger) Warn(msg string, kv ...interface{})  { k.l.Warn(msg, kvFields(kv)...) }
func (k *KVLogger) Error(msg string, kv ...interface{}) { k.l.Error(msg, kvFields(kv)...) }
