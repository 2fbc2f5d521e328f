package logger

import (
	"bytes"
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Capture collects everything logged through a captured context.
type Capture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer for the zap core.
func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buf.Write(p)
}

// String returns the captured output.
func (c *Capture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buf.String()
}

// CaptureContext returns a context whose logger writes into the returned buffer instead of stdout.
// Messages below level are dropped.
func CaptureContext(ctx context.Context, level zapcore.Level) (context.Context, *Capture) {
	c := new(Capture)

	return ToContext(ctx, newWithWriter(c, level)), c
}

// Mute returns a context whose logger discards everything.
func Mute(ctx context.Context) context.Context {
	return ToContext(ctx, zap.NewNop().Sugar())
}
