package retrieval

import "errors"

var (
	// ErrEmptyResponse means the knowledge API returned no usable content.
	ErrEmptyResponse = errors.New("empty response from knowledge API")
	// ErrRateLimited means the knowledge API rejected the call for quota.
	ErrRateLimited = errors.New("knowledge API rate limited")
	// ErrInvalidPayload means the response did not satisfy the corpus schema.
	ErrInvalidPayload = errors.New("invalid corpus payload")
	// ErrRetryExhausted means every fetch attempt for a cuisine failed.
	ErrRetryExhausted = errors.New("fetch retry budget exhausted")
)
