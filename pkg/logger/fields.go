package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field type alias for convenience
type Field = zap.Field

// String constructs a field with the given key and value
func String(key string, val string) Field {
	return zap.String(key, val)
}

// Strings constructs a field with the given key and slice of strings
func Strings(key string, val []string) Field {
	return zap.Strings(key, val)
}

// Int constructs a field with the given key and value
func Int(key string, val int) Field {
	return zap.Int(key, val)
}

// Duration constructs a field with the given key and value
func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}

// Error constructs a field that lazily stores err.Error() under the key "error"
func Error(err error) Field {
	return zap.Error(err)
}

// Any takes a key and an arbitrary value and chooses the best way to represent them
func Any(key string, val interface{}) Field {
	return zap.Any(key, val)
}

// ByteString constructs a field that carries UTF-8 encoded text as a []byte
func ByteString(key string, val []byte) Field {
	return zap.ByteString(key, val)
}

// HTTP request fields

func RequestID(id string) Field {
	return String("request_id", id)
}

func TraceID(id string) Field {
	return String("trace_id", id)
}

func SpanID(id string) Field {
	return String("span_id", id)
}

func Method(method string) Field {
	return String("method", method)
}

func Path(path string) Field {
	return String("path", path)
}

func Query(q string) Field {
	return String("query", q)
}

func StatusCode(code int) Field {
	return Int("status_code", code)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func ClientIP(ip string) Field {
	return String("client_ip", ip)
}

func UserAgent(ua string) Field {
	return String("user_agent", ua)
}

func BodySize(size int) Field {
	return Int("body_size", size)
}

func Protocol(proto string) Field {
	return String("protocol", proto)
}

func Referer(ref string) Field {
	return String("referer", ref)
}

func Route(pattern string) Field {
	return String("route", pattern)
}

// Component constructs a field for component name
func Component(name string) Field {
	return String("component", name)
}

// Git fields

// Repository constructs a field for repository name
func Repository(name string) Field {
	return String("repository", name)
}

// Revision constructs a field for a revision token (branch, tag, object id or HEAD)
func Revision(rev string) Field {
	return String("revision", rev)
}

// Command constructs a field for a git argument vector
func Command(args []string) Field {
	return Strings("command", args)
}

// Dir constructs a field for the working directory of a git invocation
func Dir(dir string) Field {
	return String("dir", dir)
}

// ExitCode constructs a field for a process exit status
func ExitCode(code int) Field {
	return Int("exit_code", code)
}

// Stderr constructs a field for captured process error output
func Stderr(out string) Field {
	return String("stderr", out)
}

// Version constructs a field for version
func Version(version string) Field {
	return String("version", version)
}
