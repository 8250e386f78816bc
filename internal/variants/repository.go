package variants

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateVariant is returned when (content_key, locale, variant_name) already exists
var ErrDuplicateVariant = errors.New("duplicate content variant")

// Repository handles content variant data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new content variants repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const variantColumns = `id, content_key, locale, variant_name, content, weight, is_active, created_at, updated_at`

// ActiveVariants returns the active variants of a slot in a stable order
func (r *Repository) ActiveVariants(ctx context.Context, contentKey, locale string) ([]*ContentVariant, error) {
	query := `
		SELECT ` + variantColumns + `
		FROM content_variants
		WHERE content_key = $1 AND locale = $2 AND is_active
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, contentKey, locale)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVariants(rows)
}

// Record stores a telemetry event
func (r *Repository) Record(ctx context.Context, event *Event) error {
	query := `
		INSERT INTO content_variant_events (id, content_key, locale, variant_name, event_type, session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
	`
	_, err := r.db.Exec(ctx, query,
		event.ID, event.ContentKey, event.Locale, event.VariantName,
		string(event.Type), event.SessionID, event.CreatedAt,
	)
	return err
}

// CreateVariant inserts a new variant
func (r *Repository) CreateVariant(ctx context.Context, v *ContentVariant) error {
	query := `
		INSERT INTO content_variants (` + variantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		v.ID, v.ContentKey, v.Locale, v.VariantName, v.Content,
		v.Weight, v.IsActive, v.CreatedAt, v.UpdatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateVariant
	}
	return err
}

// GetVariantByID retrieves a variant by ID
func (r *Repository) GetVariantByID(ctx context.Context, id uuid.UUID) (*ContentVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM content_variants WHERE id = $1`

	v := &ContentVariant{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.ContentKey, &v.Locale, &v.VariantName, &v.Content,
		&v.Weight, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ListVariants lists variants; empty filters match everything
func (r *Repository) ListVariants(ctx context.Context, contentKey, locale string, limit, offset int) ([]*ContentVariant, error) {
	query := `
		SELECT ` + variantColumns + `
		FROM content_variants
		WHERE ($1 = '' OR content_key = $1)
		  AND ($2 = '' OR locale = $2)
		ORDER BY content_key ASC, locale ASC, created_at ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, contentKey, locale, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVariants(rows)
}

// SetVariantActive flips a variant's active flag
func (r *Repository) SetVariantActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE content_variants SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		id, active,
	)
	return err
}

// GetEventCounts counts events per variant name and type for a slot
func (r *Repository) GetEventCounts(ctx context.Context, contentKey, locale string) (map[string]map[EventType]int64, error) {
	query := `
		SELECT variant_name, event_type, COUNT(*)
		FROM content_variant_events
		WHERE content_key = $1 AND locale = $2
		GROUP BY variant_name, event_type
	`

	rows, err := r.db.Query(ctx, query, contentKey, locale)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]map[EventType]int64)
	for rows.Next() {
		var name, eventType string
		var count int64
		if err := rows.Scan(&name, &eventType, &count); err != nil {
			return nil, err
		}
		if counts[name] == nil {
			counts[name] = make(map[EventType]int64)
		}
		counts[name][EventType(eventType)] = count
	}
	return counts, rows.Err()
}

func scanVariants(rows pgx.Rows) ([]*ContentVariant, error) {
	var variants []*ContentVariant
	for rows.Next() {
		v := &ContentVariant{}
		if err := rows.Scan(
			&v.ID, &v.ContentKey, &v.Locale, &v.VariantName, &v.Content,
			&v.Weight, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
