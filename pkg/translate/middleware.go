package translate

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrtranslate/pkg/layout"
)

// DefaultRetryInterval is used by WithRetry when no interval is given.
const DefaultRetryInterval = 2 * time.Second

// WithTimeout bounds every call to t by d.
func WithTimeout(t layout.Translator, d time.Duration) layout.Translator {
	return layout.TranslatorFunc(func(ctx context.Context, text string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return t.Translate(ctx, text)
	})
}

// WithRetry retries failed calls to t up to retries times, waiting interval
// between attempts. Client errors other than 429 and context cancellation
// are not retried.
func WithRetry(t layout.Translator, retries int, interval time.Duration, log logrus.FieldLogger) layout.Translator {
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	return layout.TranslatorFunc(func(ctx context.Context, text string) (string, error) {
		attempt := 0
		policy := backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(retries)),
			ctx,
		)
		return backoff.RetryWithData(func() (string, error) {
			attempt++
			out, err := t.Translate(ctx, text)
			if err == nil {
				return out, nil
			}
			if !retryable(ctx, err) {
				return "", backoff.Permanent(err)
			}
			log.WithError(err).WithField("attempt", attempt).Warn("Translation failed, retrying")
			return "", err
		}, policy)
	})
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Temporary()
	}
	return true
}
