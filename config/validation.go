package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the loaded values and reports every problem at once
// rather than stopping at the first one
func (c *Config) Validate() error {
	var errs []ValidationError

	requireString := func(field, value string) {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "must not be empty"})
		}
	}
	requireString("DBHost", c.DBHost)
	requireString("DBPort", c.DBPort)
	requireString("DBUser", c.DBUser)
	requireString("DBName", c.DBName)
	requireString("KnowledgeAPIURL", c.KnowledgeAPIURL)
	requireString("KnowledgeModel", c.KnowledgeModel)

	// Planning can run against an already warm corpus cache without a key,
	// but production refuses to start blind.
	if IsProduction() && c.KnowledgeAPIKey == "" {
		errs = append(errs, ValidationError{Field: "KnowledgeAPIKey", Message: "required in production"})
	}

	positiveDurations := []struct {
		field string
		value time.Duration
	}{
		{"CorpusTTL", c.CorpusTTL},
		{"LibraryCacheTTL", c.LibraryCacheTTL},
		{"FetchBackoffBase", c.FetchBackoffBase},
		{"RateLimitWindow", c.RateLimitWindow},
		{"RateLimitRetryDelay", c.RateLimitRetryDelay},
		{"BatchDelay", c.BatchDelay},
	}
	for _, d := range positiveDurations {
		if d.value <= 0 {
			errs = append(errs, ValidationError{Field: d.field, Message: "must be positive"})
		}
	}

	positiveCounts := []struct {
		field string
		value int
	}{
		{"FetchMaxAttempts", c.FetchMaxAttempts},
		{"RateLimitMax", c.RateLimitMax},
		{"BatchSize", c.BatchSize},
	}
	for _, n := range positiveCounts {
		if n.value < 1 {
			errs = append(errs, ValidationError{Field: n.field, Message: "must be at least 1"})
		}
	}

	if c.RedisDB < 0 {
		errs = append(errs, ValidationError{Field: "RedisDB", Message: "must not be negative"})
	}

	if len(errs) == 0 {
		return nil
	}
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}
