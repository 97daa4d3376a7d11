package knowledge

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mealmosaic/engine/internal/models"
)

// BatchFailure names one cuisine a batch could not supply and why.
type BatchFailure struct {
	Cuisine string `json:"cuisine"`
	Reason  string `json:"reason"`
}

// BatchResult reports a batch fetch per cuisine. A batch never rolls back:
// whatever succeeded is in Corpora regardless of what failed.
type BatchResult struct {
	Corpora map[string]*models.CuisineCorpus `json:"corpora"`
	Failed  []BatchFailure                   `json:"failed,omitempty"`
}

// BatchFetch warms the cache for several cuisines, fetching BatchSize of
// them concurrently and pausing BatchDelay between batches to stay friendly
// to the upstream quota.
func (c *Cache) BatchFetch(ctx context.Context, cuisines []string) BatchResult {
	result := BatchResult{Corpora: make(map[string]*models.CuisineCorpus)}

	keys := dedupeKeys(cuisines)
	if len(keys) == 0 {
		return result
	}

	var mu sync.Mutex
	for start := 0; start < len(keys); start += c.config.BatchSize {
		if start > 0 {
			if err := c.sleep(ctx, c.config.BatchDelay); err != nil {
				for _, key := range keys[start:] {
					result.Failed = append(result.Failed, BatchFailure{Cuisine: key, Reason: err.Error()})
				}
				return result
			}
		}

		end := start + c.config.BatchSize
		if end > len(keys) {
			end = len(keys)
		}

		var wg sync.WaitGroup
		for _, key := range keys[start:end] {
			wg.Add(1)
			go func(cuisine string) {
				defer wg.Done()
				corpus, err := c.Get(ctx, cuisine)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err != nil:
					result.Failed = append(result.Failed, BatchFailure{Cuisine: cuisine, Reason: err.Error()})
				case corpus == nil:
					result.Failed = append(result.Failed, BatchFailure{Cuisine: cuisine, Reason: "no corpus data available"})
				default:
					result.Corpora[cuisine] = corpus
				}
			}(key)
		}
		wg.Wait()
	}

	c.logger.Info("batch fetch finished",
		zap.Int("requested", len(keys)),
		zap.Int("fetched", len(result.Corpora)),
		zap.Int("failed", len(result.Failed)))
	return result
}

func dedupeKeys(cuisines []string) []string {
	seen := make(map[string]struct{}, len(cuisines))
	keys := make([]string, 0, len(cuisines))
	for _, cuisine := range cuisines {
		key := models.NormalizeKey(cuisine)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}
