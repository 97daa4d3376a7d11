package knowledge

import (
	"context"
	"fmt"

	"github.com/mealmosaic/engine/internal/models"
)

// CorpusAccess pairs a cached cuisine with how often it has been read.
type CorpusAccess struct {
	Cuisine     string `json:"cuisine"`
	AccessCount int    `json:"access_count"`
	Quality     int    `json:"quality"`
}

// Stats summarizes the cache contents for dashboards and seeding decisions.
type Stats struct {
	Corpora        int64          `json:"corpora"`
	AverageQuality float64        `json:"average_quality"`
	MostAccessed   []CorpusAccess `json:"most_accessed,omitempty"`
}

// Stats reports cache-wide counters. Read-only; safe to call concurrently
// with fetches.
func (c *Cache) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := c.db.WithContext(ctx).Model(&models.CuisineCorpus{}).Count(&stats.Corpora).Error; err != nil {
		return nil, fmt.Errorf("failed to count corpora: %w", err)
	}
	if stats.Corpora == 0 {
		return stats, nil
	}

	err := c.db.WithContext(ctx).Model(&models.CuisineCorpus{}).
		Select("COALESCE(AVG(quality_score), 0)").
		Scan(&stats.AverageQuality).Error
	if err != nil {
		return nil, fmt.Errorf("failed to average quality: %w", err)
	}

	var rows []models.CuisineCorpus
	err = c.db.WithContext(ctx).
		Order("access_count DESC").
		Limit(5).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list corpora: %w", err)
	}
	for _, row := range rows {
		stats.MostAccessed = append(stats.MostAccessed, CorpusAccess{
			Cuisine:     row.CuisineName,
			AccessCount: row.AccessCount,
			Quality:     row.QualityScore,
		})
	}

	return stats, nil
}
