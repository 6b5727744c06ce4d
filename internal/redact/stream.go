package redact

import (
	"bufio"
	"context"
	"io"

	"github.com/samber/ro"
)

// maxLineSize bounds a single input line for Stream.
const maxLineSize = 1 << 20

// Stream redacts in line by line and writes the result to out, one line per
// output line. It returns when in is exhausted, ctx is canceled, or a read or
// write fails.
//
// A read blocked on idle input is only interrupted by cancellation when in is
// an io.Closer; Stream closes it once ctx is done.
func Stream(ctx context.Context, in io.Reader, out io.Writer, r *Redactor) error {
	if c, ok := in.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stop()
	}

	lines := make(chan string)

	var scanErr error
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = scanner.Err()
	}()

	redacted := ro.Pipe1(
		ro.FromChannel(lines),
		ro.Map(r.Redact),
	)

	var writeErr error
	done := make(chan struct{})
	redacted.Subscribe(ro.NewObserver(
		func(line string) {
			if writeErr != nil {
				return
			}
			_, writeErr = io.WriteString(out, line+"\n")
		},
		func(err error) {
			writeErr = err
			close(done)
		},
		func() { close(done) },
	))
	<-done

	switch {
	case writeErr != nil:
		return writeErr
	case ctx.Err() != nil:
		// A read error after cancellation comes from closing in.
		return ctx.Err()
	default:
		return scanErr
	}
}
