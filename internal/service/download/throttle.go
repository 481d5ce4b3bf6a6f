package download

import (
	"context"
	"io"
	"math"

	"golang.org/x/time/rate"
)

// throttledReader limits the read rate with a token bucket holding one second of data.
type throttledReader struct {
	ctx     context.Context //nolint:containedctx // Reads have no context of their own.
	reader  io.Reader
	limiter *rate.Limiter
}

// newThrottledReader wraps reader so it yields at most bytesPerSecond.
// A non-positive limit returns reader unchanged.
func newThrottledReader(ctx context.Context, reader io.Reader, bytesPerSecond int64) io.Reader {
	if bytesPerSecond <= 0 {
		return reader
	}

	burst := int(min(bytesPerSecond, math.MaxInt32))

	return &throttledReader{
		ctx:     ctx,
		reader:  reader,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), burst),
	}
}

// Read never returns more than one burst so WaitN can always be satisfied.
func (r *throttledReader) Read(p []byte) (int, error) {
	if burst := r.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}

	n, err := r.reader.Read(p)
	if n > 0 {
		if waitErr := r.limiter.WaitN(r.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}

	return n, err
}

// throttledBody keeps the original Close of a throttled response body.
type throttledBody struct {
	io.Reader
	io.Closer
}
