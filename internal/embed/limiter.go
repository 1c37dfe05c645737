package embed

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttled wraps an Encoder with a token-bucket rate limiter so batch runs
// stay inside provider quotas.
type Throttled struct {
	inner   Encoder
	limiter *rate.Limiter
}

// NewThrottled wraps inner with a limiter allowing rps requests per second
// with the given burst.
func NewThrottled(inner Encoder, rps float64, burst int) *Throttled {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = int(rps)
	}
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (t *Throttled) Name() string {
	return t.inner.Name()
}

func (t *Throttled) Dims() int {
	return t.inner.Dims()
}

func (t *Throttled) IsAvailable(ctx context.Context) bool {
	return t.inner.IsAvailable(ctx)
}

func (t *Throttled) Encode(ctx context.Context, text string) ([]float32, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.inner.Encode(ctx, text)
}
