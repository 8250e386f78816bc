package variants

import (
	"time"

	"github.com/google/uuid"
)

// ========================================
// CONTENT VARIANTS
// ========================================

// ContentVariant is one candidate payload for a (content key, locale) slot
type ContentVariant struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ContentKey  string    `json:"content_key" db:"content_key"` // e.g., "concept:tokenization:title"
	Locale      string    `json:"locale" db:"locale"`
	VariantName string    `json:"variant_name" db:"variant_name"`
	Content     string    `json:"content" db:"content"`
	Weight      float64   `json:"weight" db:"weight"` // relative selection weight, >= 0
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// VariantSelection is the variant a session sees for a (content key, locale) slot.
// It is never modified after it has been cached.
type VariantSelection struct {
	ContentKey  string `json:"content_key"`
	Locale      string `json:"locale"`
	VariantName string `json:"variant_name"`
	Content     string `json:"content"`
}

// ========================================
// TELEMETRY
// ========================================

// EventType identifies what happened to a shown variant
type EventType string

const (
	EventImpression EventType = "impression"
	EventEngagement EventType = "engagement"
	EventConversion EventType = "conversion"
)

// Event is a best-effort telemetry record for a variant
type Event struct {
	ID          uuid.UUID `json:"id"`
	ContentKey  string    `json:"content_key"`
	Locale      string    `json:"locale"`
	VariantName string    `json:"variant_name"`
	Type        EventType `json:"event_type"`
	SessionID   string    `json:"session_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// VariantStats aggregates telemetry for one variant
type VariantStats struct {
	VariantName    string  `json:"variant_name"`
	Weight         float64 `json:"weight"`
	IsActive       bool    `json:"is_active"`
	ExpectedShare  float64 `json:"expected_share"` // weight / total active weight
	Impressions    int64   `json:"impressions"`
	Engagements    int64   `json:"engagements"`
	Conversions    int64   `json:"conversions"`
	EngagementRate float64 `json:"engagement_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ========================================
// REQUEST/RESPONSE TYPES
// ========================================

// CreateVariantRequest creates a new content variant
type CreateVariantRequest struct {
	ContentKey  string   `json:"content_key" binding:"required,max=200"`
	Locale      string   `json:"locale" binding:"required,max=16"`
	VariantName string   `json:"variant_name" binding:"required,max=100"`
	Content     string   `json:"content" binding:"required"`
	Weight      *float64 `json:"weight,omitempty" binding:"omitempty,gte=0"`
	Inactive    bool     `json:"inactive,omitempty"`
}

// VariantEventRequest reports an engagement or conversion for a shown variant
type VariantEventRequest struct {
	ContentKey  string `json:"content_key" binding:"required"`
	Locale      string `json:"locale" binding:"required"`
	VariantName string `json:"variant_name" binding:"required"`
}

// ResolveResponse is returned by the variant lookup endpoint
type ResolveResponse struct {
	Found     bool              `json:"found"`
	Selection *VariantSelection `json:"selection"`
}
