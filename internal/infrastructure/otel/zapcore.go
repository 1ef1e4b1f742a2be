package otel

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

// attributeKeys renames the logger's field keys to OpenTelemetry semantic
// convention names. Keys not listed are exported unchanged.
var attributeKeys = map[string]string{
	"repository":  "vcs.repository.name",
	"revision":    "vcs.ref.head.name",
	"command":     "process.command_args",
	"dir":         "process.working_directory",
	"exit_code":   "process.exit.code",
	"stderr":      "git.stderr",
	"method":      "http.request.method",
	"path":        "url.path",
	"query":       "url.query",
	"route":       "http.route",
	"status_code": "http.response.status_code",
	"client_ip":   "client.address",
	"user_agent":  "user_agent.original",
	"body_size":   "http.response.body.size",
	"protocol":    "network.protocol.version",
	"request_id":  "http.request.id",
	"error":       "exception.message",
}

// flusher is satisfied by *Provider
type flusher interface {
	ForceFlush(ctx context.Context) error
}

// ZapCore forwards zap entries to an OpenTelemetry logger
type ZapCore struct {
	zapcore.LevelEnabler
	logger  log.Logger
	flusher flusher
	fields  []zapcore.Field
}

// NewZapCore creates a core emitting to logger. flusher may be nil.
func NewZapCore(logger log.Logger, flusher flusher, level zapcore.LevelEnabler) *ZapCore {
	return &ZapCore{LevelEnabler: level, logger: logger, flusher: flusher}
}

func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field(nil), c.fields...), fields...)
	return &clone
}

func (c *ZapCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *ZapCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var record log.Record
	record.SetTimestamp(entry.Time)
	record.SetObservedTimestamp(time.Now())
	record.SetSeverity(severity(entry.Level))
	record.SetSeverityText(entry.Level.CapitalString())
	record.SetBody(log.StringValue(entry.Message))

	if entry.LoggerName != "" {
		record.AddAttributes(log.String("logger.name", entry.LoggerName))
	}
	if entry.Caller.Defined {
		record.AddAttributes(
			log.String("code.filepath", entry.Caller.File),
			log.Int("code.lineno", entry.Caller.Line),
			log.String("code.function", entry.Caller.Function),
		)
	}
	if entry.Stack != "" {
		record.AddAttributes(log.String("exception.stacktrace", entry.Stack))
	}

	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	record.AddAttributes(fieldAttributes(all)...)

	c.logger.Emit(context.Background(), record)
	return nil
}

func (c *ZapCore) Sync() error {
	if c.flusher == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.flusher.ForceFlush(ctx)
}

func severity(level zapcore.Level) log.Severity {
	switch level {
	case zapcore.DebugLevel:
		return log.SeverityDebug
	case zapcore.InfoLevel:
		return log.SeverityInfo
	case zapcore.WarnLevel:
		return log.SeverityWarn
	case zapcore.ErrorLevel, zapcore.DPanicLevel:
		return log.SeverityError
	case zapcore.PanicLevel, zapcore.FatalLevel:
		return log.SeverityFatal
	default:
		return log.SeverityInfo
	}
}

// fieldAttributes encodes fields through zap's map encoder, so every field
// type zap knows (arrays, objects, errors, durations) becomes a typed value
func fieldAttributes(fields []zapcore.Field) []log.KeyValue {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]log.KeyValue, 0, len(keys))
	for _, k := range keys {
		name := k
		if renamed, ok := attributeKeys[k]; ok {
			name = renamed
		}
		attrs = append(attrs, log.KeyValue{Key: name, Value: toValue(enc.Fields[k])})
	}
	return attrs
}

func toValue(v interface{}) log.Value {
	switch val := v.(type) {
	case nil:
		return log.Value{}
	case string:
		return log.StringValue(val)
	case bool:
		return log.BoolValue(val)
	case int:
		return log.IntValue(val)
	case int8:
		return log.Int64Value(int64(val))
	case int16:
		return log.Int64Value(int64(val))
	case int32:
		return log.Int64Value(int64(val))
	case int64:
		return log.Int64Value(val)
	case uint:
		return log.Int64Value(int64(val))
	case uint8:
		return log.Int64Value(int64(val))
	case uint16:
		return log.Int64Value(int64(val))
	case uint32:
		return log.Int64Value(int64(val))
	case uint64:
		return log.Int64Value(int64(val))
	case uintptr:
		return log.Int64Value(int64(val))
	case float32:
		return log.Float64Value(float64(val))
	case float64:
		return log.Float64Value(val)
	case time.Duration:
		return log.StringValue(val.String())
	case time.Time:
		return log.StringValue(val.Format(time.RFC3339Nano))
	case []byte:
		return log.BytesValue(val)
	case []interface{}:
		values := make([]log.Value, len(val))
		for i, elem := range val {
			values[i] = toValue(elem)
		}
		return log.SliceValue(values...)
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		kvs := make([]log.KeyValue, 0, len(keys))
		for _, k := range keys {
			kvs = append(kvs, log.KeyValue{Key: k, Value: toValue(val[k])})
		}
		return log.MapValue(kvs...)
	case fmt.Stringer:
		return log.StringValue(val.String())
	case error:
		return log.StringValue(val.Error())
	default:
		return log.StringValue(fmt.Sprintf("%v", val))
	}
}

// NewCombinedCore tees localCore with a core exporting through provider
func NewCombinedCore(localCore zapcore.Core, provider *Provider, level zapcore.LevelEnabler) zapcore.Core {
	return zapcore.NewTee(localCore, NewZapCore(provider.Logger(), provider, level))
}

var _ zapcore.Core = (*ZapCore)(nil)
