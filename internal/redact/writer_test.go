package redact_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/omarluq/authgate/internal/redact"
)

func newPIIRedactor() *redact.Redactor {
	return redact.New(redact.PIIFields, redact.DefaultToken, redact.DefaultSeparator)
}

func TestJSONWriter_RedactsMessageAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(redact.NewJSONWriter(&buf, newPIIRedactor()))

	logger.Info().
		Str("email", "bob@example.com").
		Str("path", "/api/v1/users/me").
		Int("phone", 5551234).
		Msg("name=Bob;email=bob@example.com;ip=10.0.0.1")

	line := buf.Bytes()
	require.True(t, gjson.ValidBytes(line), "output must stay valid JSON: %s", line)

	assert.Equal(t, "***", gjson.GetBytes(line, "email").String())
	assert.Equal(t, "/api/v1/users/me", gjson.GetBytes(line, "path").String())
	assert.Equal(t, int64(5551234), gjson.GetBytes(line, "phone").Int(), "non-string fields are untouched")
	assert.Equal(t, "name=***; email=***; ip=10.0.0.1", gjson.GetBytes(line, "message").String())
	assert.NotContains(t, buf.String(), "bob@example.com")
}

func TestJSONWriter_PlainText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := redact.NewJSONWriter(&buf, newPIIRedactor())

	n, err := w.Write([]byte("password=hunter2;user=bob\n"))
	require.NoError(t, err)
	assert.Equal(t, len("password=hunter2;user=bob\n"), n)
	assert.Equal(t, "password=***; user=bob\n", buf.String())
}

func TestJSONWriter_KeysWithPathSyntax(t *testing.T) {
	t.Parallel()

	r := redact.New([]string{"user.email"}, "***", ';')
	out := r.RedactEvent([]byte(`{"user.email":"a@b.c","level":"info"}`))

	assert.JSONEq(t, `{"user.email":"***","level":"info"}`, string(out))
}

func TestJSONWriter_InFrontOfConsoleWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	console := zerolog.ConsoleWriter{Out: &buf, NoColor: true}
	logger := zerolog.New(redact.NewJSONWriter(console, newPIIRedactor()))

	logger.Warn().Str("password", "hunter2").Msg("login ssn=123-45-6789")

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "123-45-6789")
	assert.Contains(t, out, "ssn=***")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestJSONWriter_PropagatesWriteErrors(t *testing.T) {
	t.Parallel()

	w := redact.NewJSONWriter(failingWriter{}, newPIIRedactor())
	_, err := w.Write([]byte(`{"message":"x"}`))
	assert.EqualError(t, err, "disk full")
}

func TestStream(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("name=Bob;ip=1.1.1.1\nplain line\nemail=a@b.c;password=pw\n")
	var out bytes.Buffer

	err := redact.Stream(context.Background(), in, &out, newPIIRedactor())
	require.NoError(t, err)

	assert.Equal(t,
		"name=***; ip=1.1.1.1\nplain line\nemail=***; password=***\n",
		out.String())
}

func TestStream_EmptyInput(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := redact.Stream(context.Background(), strings.NewReader(""), &out, newPIIRedactor())

	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestStream_CancelInterruptsIdleRead(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- redact.Stream(ctx, pr, io.Discard, newPIIRedactor()) }()

	_, err := io.WriteString(pw, "name=Bob;\n")
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Stream kept reading after cancel")
	}
}

func TestStream_WriteError(t *testing.T) {
	t.Parallel()

	err := redact.Stream(context.Background(), strings.NewReader("a=1\nb=2\n"), failingWriter{}, newPIIRedactor())
	assert.EqualError(t, err, "disk full")
}
