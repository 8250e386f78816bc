package leads

import (
	"time"

	"github.com/google/uuid"
)

// Lead is an enquiry captured from the site
type Lead struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	ProgramSlug  string    `json:"program_slug,omitempty" db:"program_slug"`
	Locale       string    `json:"locale" db:"locale"`
	Message      string    `json:"message,omitempty" db:"message"`
	Source       string    `json:"source,omitempty" db:"source"` // e.g., "program-page", "footer"
	ConsentGiven bool      `json:"consent_given" db:"consent_given"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CreateLeadRequest is the lead form payload
type CreateLeadRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,phone"`
	ProgramSlug string `json:"program_slug,omitempty" validate:"omitempty,slug,max=120"`
	Locale      string `json:"locale,omitempty" validate:"omitempty,locale"`
	Message     string `json:"message,omitempty" validate:"max=2000"`
	Source      string `json:"source,omitempty" validate:"max=60"`
	Consent     bool   `json:"consent" validate:"consent"`

	// Variant attribution; a conversion is recorded when present
	ContentKey  string `json:"content_key,omitempty" validate:"max=200"`
	VariantName string `json:"variant_name,omitempty" validate:"max=100"`
}

// CreateLeadResponse confirms a captured lead
type CreateLeadResponse struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

// LeadCreatedEvent is published once a lead is stored
type LeadCreatedEvent struct {
	LeadID      uuid.UUID `json:"lead_id"`
	Email       string    `json:"email"`
	ProgramSlug string    `json:"program_slug,omitempty"`
	Locale      string    `json:"locale"`
	Source      string    `json:"source,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
