package redact

import (
	"bytes"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// jsonWriter redacts zerolog JSON events before handing them to out.
type jsonWriter struct {
	out io.Writer
	r   *Redactor
}

// NewJSONWriter wraps out so that every event written through it is redacted.
//
// For a JSON object the message field is passed through the Redactor and any
// top-level string field whose key is a redacted field name is replaced with
// the token. Anything that is not a JSON object is redacted as plain text.
// The writer can sit in front of a zerolog.ConsoleWriter, which parses the
// already-redacted JSON.
func NewJSONWriter(out io.Writer, r *Redactor) io.Writer {
	return &jsonWriter{out: out, r: r}
}

// Write implements io.Writer. It reports len(p) on success so zerolog does
// not treat a length change from redaction as a short write.
func (w *jsonWriter) Write(p []byte) (int, error) {
	if _, err := w.out.Write(w.r.RedactEvent(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// RedactEvent redacts a single log event. See NewJSONWriter for the rules.
func (r *Redactor) RedactEvent(event []byte) []byte {
	trimmed := bytes.TrimSpace(event)
	if len(trimmed) == 0 || trimmed[0] != '{' || !gjson.ValidBytes(trimmed) {
		return []byte(r.Redact(string(event)))
	}

	out := bytes.Clone(event)
	gjson.ParseBytes(trimmed).ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			return true
		}

		name := key.String()
		var replacement string
		switch {
		case r.HasField(name):
			replacement = r.token
		case name == zerolog.MessageFieldName:
			replacement = r.Redact(value.String())
		default:
			return true
		}

		if updated, err := sjson.SetBytes(out, escapePath(name), replacement); err == nil {
			out = updated
		}
		return true
	})

	return out
}

// escapePath escapes the sjson path syntax characters in a literal key.
func escapePath(key string) string {
	if !strings.ContainsAny(key, `.*?\|#@!`) {
		return key
	}

	var b strings.Builder
	for _, c := range key {
		if strings.ContainsRune(`.*?\|#@!`, c) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
