package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CorpusDataVersion tags the JSON shape stored in cuisine corpus rows. Bump it
// when the payload schema changes so stale rows are refetched on read.
const CorpusDataVersion = "2"

// CuisineCorpus is one durable cached knowledge corpus for a cuisine.
// CuisineName is stored normalized (lowercase, trimmed) and UpdatedAt doubles
// as the fetched-at timestamp: every refetch rewrites the full row.
type CuisineCorpus struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primaryKey" json:"id"`
	CuisineName  string         `gorm:"size:100;not null;uniqueIndex" json:"cuisine_name"`
	MealsData    datatypes.JSON `json:"meals_data"`
	SummaryData  datatypes.JSON `json:"summary_data"`
	DataVersion  string         `gorm:"size:20;not null" json:"data_version"`
	QualityScore int            `gorm:"not null;default:0" json:"quality_score"`
	AccessCount  int            `gorm:"not null;default:0" json:"access_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (CuisineCorpus) TableName() string {
	return "cuisine_corpora"
}

// Age reports how long ago the corpus was fetched.
func (c *CuisineCorpus) Age(now time.Time) time.Duration {
	return now.Sub(c.UpdatedAt)
}

// Payload decodes the stored JSON columns back into the fetch schema.
func (c *CuisineCorpus) Payload() (*CorpusPayload, error) {
	p := &CorpusPayload{Culture: c.CuisineName}
	if len(c.MealsData) > 0 {
		if err := json.Unmarshal(c.MealsData, &p.Meals); err != nil {
			return nil, fmt.Errorf("failed to decode meals data: %w", err)
		}
	}
	if len(c.SummaryData) > 0 {
		if err := json.Unmarshal(c.SummaryData, &p.Summary); err != nil {
			return nil, fmt.Errorf("failed to decode summary data: %w", err)
		}
	}
	return p, nil
}

// SavedMealCollection is a user-curated set of cultural meals. Rows are
// written by the collection-management feature; this module only reads them.
// MealsData holds heterogeneous meal records that normalization cleans up.
type SavedMealCollection struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CuisineName string         `gorm:"size:100;not null" json:"cuisine_name"`
	CustomName  string         `gorm:"size:100" json:"custom_name"`
	Notes       string         `gorm:"type:text" json:"notes"`
	MealsData   datatypes.JSON `json:"meals_data"`
	SummaryData datatypes.JSON `json:"summary_data"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (SavedMealCollection) TableName() string {
	return "saved_meal_collections"
}

// CorpusPayload is the validated response of the external knowledge service.
type CorpusPayload struct {
	Culture string        `json:"culture"`
	Meals   []CorpusMeal  `json:"meals"`
	Summary CorpusSummary `json:"summary"`
}

// CorpusMeal is one meal entry inside a knowledge corpus.
type CorpusMeal struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	CookingTechniques    []string `json:"cooking_techniques"`
	HealthyIngredients   []string `json:"healthy_ingredients"`
	HealthyModifications []string `json:"healthy_modifications"`
}

// CorpusSummary aggregates cuisine-level knowledge across the ten meals.
type CorpusSummary struct {
	CommonHealthyIngredients []string `json:"common_healthy_ingredients"`
	CommonCookingTechniques  []string `json:"common_cooking_techniques"`
	KeyFlavorProfiles        []string `json:"key_flavor_profiles"`
	TraditionalMealPatterns  []string `json:"traditional_meal_patterns"`
}
