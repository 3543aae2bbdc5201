package observability

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type float64Field struct {
	key string
	val float64
}

func (f float64Field) Key() string        { return f.key }
func (f float64Field) Value() interface{} { return f.val }

type durationField struct {
	key string
	val time.Duration
}

func (f durationField) Key() string        { return f.key }
func (f durationField) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field             { return stringField{key, value} }
func Int(key string, value int) Field            { return intField{key, value} }
func Float64(key string, value float64) Field    { return float64Field{key, value} }
func Duration(key string, d time.Duration) Field { return durationField{key, d} }
func Error(key string, err error) Field          { return errorField{key, err} }

type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// WriterLogger emits one line per event to an io.Writer. Writes are
// serialized so a single instance can be shared across page workers.
type WriterLogger struct {
	mu     sync.Mutex
	out    io.Writer
	bound  []Field
	Debugs bool
}

// NewWriterLogger returns a Logger emitting to out. Debug events are dropped
// unless Debugs is set.
func NewWriterLogger(out io.Writer) *WriterLogger { return &WriterLogger{out: out} }

func (l *WriterLogger) log(level, msg string, fields []Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s %s", time.Now().Format(time.RFC3339), level, msg)
	for _, f := range l.bound {
		fmt.Fprintf(l.out, " %s=%v", f.Key(), f.Value())
	}
	for _, f := range fields {
		fmt.Fprintf(l.out, " %s=%v", f.Key(), f.Value())
	}
	fmt.Fprintln(l.out)
}

func (l *WriterLogger) Debug(msg string, fields ...Field) {
	if l.Debugs {
		l.log("DEBUG", msg, fields)
	}
}
func (l *WriterLogger) Info(msg string, fields ...Field)  { l.log("INFO", msg, fields) }
func (l *WriterLogger) Warn(msg string, fields ...Field)  { l.log("WARN", msg, fields) }
func (l *WriterLogger) Error(msg string, fields ...Field) { l.log("ERROR", msg, fields) }

func (l *WriterLogger) With(fields ...Field) Logger {
	child := &WriterLogger{out: l.out, Debugs: l.Debugs}
	child.bound = append(append([]Field(nil), l.bound...), fields...)
	return child
}

// Tracer provides tracing hooks for pipeline operations.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a tracing span.
type Span interface {
	SetTag(key string, value interface{})
	SetError(err error)
	Finish()
}

type nopTracer struct{}

func (nopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, nopSpan{}
}

// NopTracer returns a tracer that does nothing.
func NopTracer() Tracer { return nopTracer{} }

type nopSpan struct{}

func (nopSpan) SetTag(string, interface{}) {}
func (nopSpan) SetError(error)             {}
func (nopSpan) Finish()                    {}

// Standard span names emitted by the page pipeline.
const (
	SpanRasterize = "page.rasterize"
	SpanDetect    = "page.detect"
	SpanRectify   = "page.rectify"
	SpanEnhance   = "page.enhance"
	SpanRecognize = "page.recognize"
	SpanSynthesis = "page.synthesize"
)
