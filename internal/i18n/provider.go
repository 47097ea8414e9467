package i18n

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

// ErrUnavailable is returned by translators that cannot reach a provider.
var ErrUnavailable = errors.New("translation provider unavailable")

// Translator is the machine-translation capability. Language codes are
// upper-case provider codes such as "EN" or "PT-BR".
type Translator interface {
	Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error)
}

// TranslatorFunc adapts an ordinary function to Translator.
type TranslatorFunc func(ctx context.Context, text, targetLang, sourceLang string) (string, error)

// Translate calls f.
func (f TranslatorFunc) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	return f(ctx, text, targetLang, sourceLang)
}

// Unavailable is the translator used when no provider is configured. Every
// call fails with ErrUnavailable, so readers get the original text and nothing
// is cached.
type Unavailable struct{}

// Translate always returns ErrUnavailable.
func (Unavailable) Translate(context.Context, string, string, string) (string, error) {
	return "", ErrUnavailable
}

// RateLimited throttles calls to the wrapped translator with a token bucket.
// Callers block until a token is available or ctx is done.
type RateLimited struct {
	next    Translator
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a limiter of rps calls per second and the
// given burst. rps <= 0 disables limiting; burst < 1 is coerced to 1.
func NewRateLimited(next Translator, rps float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// Translate waits for a token and then delegates.
func (r *RateLimited) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.next.Translate(ctx, text, targetLang, sourceLang)
}
