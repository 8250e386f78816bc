package content

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles learning content data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new content repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const conceptColumns = `id, slug, stage, locale, title, summary, body, position, published, created_at, updated_at`

// ListConcepts returns published concepts of a locale in path order. Bodies
// are left out of listings.
func (r *Repository) ListConcepts(ctx context.Context, locale string, stage *Stage) ([]*Concept, error) {
	query := `
		SELECT id, slug, stage, locale, title, summary, '' AS body, position, published, created_at, updated_at
		FROM concepts
		WHERE locale = $1 AND published AND ($2::text IS NULL OR stage = $2)
		ORDER BY array_position(ARRAY['dna','seed','sprout','sapling','tree','fruits','orchard'], stage), position, slug
	`

	var stageArg *string
	if stage != nil {
		s := string(*stage)
		stageArg = &s
	}

	rows, err := r.db.Query(ctx, query, locale, stageArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var concepts []*Concept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, err
		}
		concepts = append(concepts, c)
	}
	return concepts, rows.Err()
}

// GetConceptBySlug retrieves a published concept, or nil when there is none
func (r *Repository) GetConceptBySlug(ctx context.Context, slug, locale string) (*Concept, error) {
	query := `SELECT ` + conceptColumns + ` FROM concepts WHERE slug = $1 AND locale = $2 AND published`

	c, err := scanConcept(r.db.QueryRow(ctx, query, slug, locale))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

const programColumns = `id, slug, locale, title, description, duration_weeks, price_cents, currency, starts_at, active`

// ListPrograms returns active programs of a locale, soonest start first
func (r *Repository) ListPrograms(ctx context.Context, locale string) ([]*Program, error) {
	query := `
		SELECT ` + programColumns + `
		FROM programs
		WHERE locale = $1 AND active
		ORDER BY starts_at ASC NULLS LAST, title ASC
	`

	rows, err := r.db.Query(ctx, query, locale)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []*Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// GetProgramBySlug retrieves an active program, or nil when there is none
func (r *Repository) GetProgramBySlug(ctx context.Context, slug, locale string) (*Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE slug = $1 AND locale = $2 AND active`

	p, err := scanProgram(r.db.QueryRow(ctx, query, slug, locale))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func scanConcept(row pgx.Row) (*Concept, error) {
	c := &Concept{}
	var stage string
	err := row.Scan(
		&c.ID, &c.Slug, &stage, &c.Locale, &c.Title, &c.Summary, &c.Body,
		&c.Position, &c.Published, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Stage = Stage(stage)
	return c, nil
}

func scanProgram(row pgx.Row) (*Program, error) {
	p := &Program{}
	err := row.Scan(
		&p.ID, &p.Slug, &p.Locale, &p.Title, &p.Description, &p.DurationWeeks,
		&p.PriceCents, &p.Currency, &p.StartsAt, &p.Active,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
