package pipeline

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/docoutline/internal/resultstore"
)

// MaxRetries bounds the attempts to write one outline to the result store.
const MaxRetries = 3

const (
	storeBackoffBase = time.Second
	storeBackoffCap  = 30 * time.Second
)

// IsRetryable reports whether a result store error is transient: the store
// was rate limited or unavailable. Bad keys and encoding failures are not.
func IsRetryable(err error) bool {
	var retryErr *resultstore.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff is the wait before store attempt n+1: 1s, 2s, 4s and so on up to
// 30s, plus up to half that again in jitter so workers do not retry in step.
func Backoff(attempt int) time.Duration {
	wait := storeBackoffCap
	if attempt < 5 {
		wait = min(storeBackoffBase<<attempt, storeBackoffCap)
	}
	return wait + time.Duration(rand.Int64N(int64(wait)/2))
}
