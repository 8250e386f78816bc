package content

import (
	"context"

	"github.com/dendrix-ai/dendrix-web/internal/variants"
)

// RepositoryInterface defines the interface for learning content reads
type RepositoryInterface interface {
	ListConcepts(ctx context.Context, locale string, stage *Stage) ([]*Concept, error)
	GetConceptBySlug(ctx context.Context, slug, locale string) (*Concept, error)
	ListPrograms(ctx context.Context, locale string) ([]*Program, error)
	GetProgramBySlug(ctx context.Context, slug, locale string) (*Program, error)
}

// Overlay swaps default copy for a session's content variant
type Overlay interface {
	Resolve(ctx context.Context, contentKey, locale string) *variants.VariantSelection
}
