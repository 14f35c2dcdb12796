package common

import (
	"bytes"
	"net/http"
)

// BufferedWriter implements http.ResponseWriter while holding the status
// code and body back until Flush. The dispatcher wraps every response in
// one so that middleware and handlers can be run to completion, and a
// recovery path can still discard half-written output, before anything
// reaches the wire. Headers pass straight through to the underlying
// writer's header map.
type BufferedWriter struct {
	rw      http.ResponseWriter
	buf     bytes.Buffer
	status  int
	flushed bool
}

// NewBufferedWriter wraps w.
func NewBufferedWriter(w http.ResponseWriter) *BufferedWriter {
	return &BufferedWriter{rw: w}
}

// Header returns the underlying writer's header map.
func (b *BufferedWriter) Header() http.Header {
	return b.rw.Header()
}

// Write buffers p. After Flush, writes pass through unbuffered.
func (b *BufferedWriter) Write(p []byte) (int, error) {
	if b.flushed {
		return b.rw.Write(p)
	}
	return b.buf.Write(p)
}

// WriteHeader records the status code. The last call before Flush wins;
// calls after Flush are ignored.
func (b *BufferedWriter) WriteHeader(code int) {
	if b.flushed {
		return
	}
	b.status = code
}

// Status returns the recorded status code, or 0 when none was set.
func (b *BufferedWriter) Status() int {
	return b.status
}

// Len returns the number of buffered body bytes.
func (b *BufferedWriter) Len() int {
	return b.buf.Len()
}

// Reset discards the buffered body and any recorded status.
func (b *BufferedWriter) Reset() {
	b.status = 0
	b.buf.Reset()
}

// Flush sends the recorded status and buffered body to the underlying
// writer. When no status was recorded the underlying writer applies its
// default on the first body write. Flush is idempotent.
func (b *BufferedWriter) Flush() error {
	if b.flushed {
		return nil
	}
	b.flushed = true
	if b.status != 0 {
		b.rw.WriteHeader(b.status)
	}
	if b.buf.Len() == 0 {
		return nil
	}
	_, err := b.rw.Write(b.buf.Bytes())
	b.buf.Reset()
	return err
}
