package content

import (
	"time"

	"github.com/google/uuid"
)

// ========================================
// LEARNING CONTENT
// ========================================

// Concept is one lesson of the learning path in one locale
type Concept struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"`
	Stage     Stage     `json:"stage" db:"stage"`
	Locale    string    `json:"locale" db:"locale"`
	Title     string    `json:"title" db:"title"`
	Summary   string    `json:"summary" db:"summary"`
	Body      string    `json:"body,omitempty" db:"body"`
	Position  int       `json:"position" db:"position"`
	Published bool      `json:"-" db:"published"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Variants names the copy variants applied, keyed by field
	Variants map[string]string `json:"variants,omitempty" db:"-"`
}

// Program is an enrollable course in one locale
type Program struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Slug          string     `json:"slug" db:"slug"`
	Locale        string     `json:"locale" db:"locale"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	DurationWeeks int        `json:"duration_weeks" db:"duration_weeks"`
	PriceCents    int64      `json:"price_cents" db:"price_cents"`
	Currency      string     `json:"currency" db:"currency"`
	StartsAt      *time.Time `json:"starts_at,omitempty" db:"starts_at"`
	Active        bool       `json:"-" db:"active"`

	// Display fields filled in by the service
	PriceFormatted string            `json:"price_formatted" db:"-"`
	DurationLabel  string            `json:"duration_label,omitempty" db:"-"`
	Variants       map[string]string `json:"variants,omitempty" db:"-"`
}

// ========================================
// RESPONSE TYPES
// ========================================

// StageInfo is a stage with its localized copy
type StageInfo struct {
	Stage   Stage  `json:"stage"`
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Tagline string `json:"tagline"`
}

// ConceptDetail is a concept with its place on the path
type ConceptDetail struct {
	Concept  *Concept   `json:"concept"`
	Stage    StageInfo  `json:"stage"`
	Previous *StageInfo `json:"previous_stage,omitempty"`
	Next     *StageInfo `json:"next_stage,omitempty"`
}

// HomePage is the landing page payload
type HomePage struct {
	Locale   string            `json:"locale"`
	Headline string            `json:"headline"`
	Stages   []StageInfo       `json:"stages"`
	Programs []*Program        `json:"programs"`
	Variants map[string]string `json:"variants,omitempty"`
}
