package leads

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles lead data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new leads repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateLead stores a lead
func (r *Repository) CreateLead(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO leads (id, name, email, phone, program_slug, locale, message, source, consent_given, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.ProgramSlug,
		lead.Locale, lead.Message, lead.Source, lead.ConsentGiven, lead.CreatedAt,
	)
	return err
}
