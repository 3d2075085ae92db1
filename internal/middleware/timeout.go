package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mediconnect/clinic-api/pkg/httputil"
)

// timeoutWriter serializes access to the ResponseWriter between the
// handler goroutine and the timeout reply. Once the 504 is out, late
// handler writes are swallowed instead of corrupting the response.
type timeoutWriter struct {
	gin.ResponseWriter
	mu       sync.Mutex
	timedOut bool
}

func (w *timeoutWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *timeoutWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}

func (w *timeoutWriter) WriteString(s string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return len(s), nil
	}
	return w.ResponseWriter.WriteString(s)
}

// replyTimeout writes the 504 unless the handler already started a
// response, and cuts the handler off from the writer either way.
func (w *timeoutWriter) replyTimeout() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return
	}
	w.timedOut = true

	if w.ResponseWriter.Written() {
		return
	}
	body, _ := json.Marshal(httputil.Response{
		Success: false,
		Error: &httputil.Error{
			Code:    http.StatusGatewayTimeout,
			Message: "request timeout",
		},
	})
	w.ResponseWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.ResponseWriter.WriteHeader(http.StatusGatewayTimeout)
	w.ResponseWriter.Write(body)
}

// Timeout bounds each request's context. Handlers observe the deadline
// through ctx; a handler that overruns answers 504 and loses access to
// the response writer.
func Timeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		d = 30 * time.Second
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		w := &timeoutWriter{ResponseWriter: c.Writer}
		c.Writer = w

		done := make(chan struct{})
		go func() {
			c.Next()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				w.replyTimeout()
			}
		}
	}
}
