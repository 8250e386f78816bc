package content

import (
	"context"

	"github.com/dendrix-ai/dendrix-web/internal/variants"
	"github.com/dendrix-ai/dendrix-web/pkg/common"
	"github.com/dendrix-ai/dendrix-web/pkg/i18n"
	"github.com/dendrix-ai/dendrix-web/pkg/logger"
	"go.uber.org/zap"
)

const homeHeadlineKey = "home:headline"

// Service serves localized learning content with per-session copy variants
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new content service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// ========================================
// STAGES
// ========================================

// Stages returns every stage with its localized copy
func (s *Service) Stages(locale string) []StageInfo {
	stages := AllStages()
	out := make([]StageInfo, 0, len(stages))
	for _, st := range stages {
		out = append(out, stageInfo(st, locale))
	}
	return out
}

func stageInfo(st Stage, locale string) StageInfo {
	return StageInfo{
		Stage:   st,
		Index:   st.Index(),
		Label:   st.Label(locale),
		Tagline: st.Tagline(locale),
	}
}

// Home builds the landing page. A program listing failure leaves the
// program list empty rather than failing the page.
func (s *Service) Home(ctx context.Context, overlay Overlay, locale string) *HomePage {
	page := &HomePage{
		Locale:   locale,
		Headline: i18n.Translate("home.headline", locale),
		Stages:   s.Stages(locale),
		Programs: []*Program{},
	}
	if sel := resolve(ctx, overlay, homeHeadlineKey, locale); sel != nil {
		page.Headline = sel.Content
		page.Variants = map[string]string{"headline": sel.VariantName}
	}

	programs, err := s.repo.ListPrograms(ctx, locale)
	if err != nil {
		logger.WithContext(ctx).Warn("home page programs unavailable", zap.String("locale", locale), zap.Error(err))
		return page
	}
	for _, p := range programs {
		s.decorateProgram(ctx, overlay, p, locale)
	}
	page.Programs = programs
	return page
}

// ========================================
// CONCEPTS
// ========================================

// ListConcepts lists published concepts, optionally of one stage
func (s *Service) ListConcepts(ctx context.Context, overlay Overlay, locale string, stage *Stage) ([]*Concept, error) {
	concepts, err := s.repo.ListConcepts(ctx, locale, stage)
	if err != nil {
		logger.WithContext(ctx).Error("failed to list concepts", zap.String("locale", locale), zap.Error(err))
		return nil, common.NewInternalServerError("failed to list concepts")
	}
	if concepts == nil {
		concepts = []*Concept{}
	}
	for _, c := range concepts {
		s.overlayConcept(ctx, overlay, c, locale)
	}
	return concepts, nil
}

// GetConcept returns a concept with its neighbouring stages
func (s *Service) GetConcept(ctx context.Context, overlay Overlay, slug, locale string) (*ConceptDetail, error) {
	concept, err := s.repo.GetConceptBySlug(ctx, slug, locale)
	if err != nil {
		logger.WithContext(ctx).Error("failed to load concept", zap.String("slug", slug), zap.Error(err))
		return nil, common.NewInternalServerError("failed to load concept")
	}
	if concept == nil {
		return nil, common.NewNotFoundError(i18n.Translate("error.not_found", locale), nil)
	}

	s.overlayConcept(ctx, overlay, concept, locale)

	detail := &ConceptDetail{
		Concept: concept,
		Stage:   stageInfo(concept.Stage, locale),
	}
	if prev, ok := concept.Stage.Previous(); ok {
		info := stageInfo(prev, locale)
		detail.Previous = &info
	}
	if next, ok := concept.Stage.Next(); ok {
		info := stageInfo(next, locale)
		detail.Next = &info
	}
	return detail, nil
}

func (s *Service) overlayConcept(ctx context.Context, overlay Overlay, c *Concept, locale string) {
	if sel := resolve(ctx, overlay, "concept:"+c.Slug+":title", locale); sel != nil {
		c.Title = sel.Content
		c.Variants = addVariant(c.Variants, "title", sel.VariantName)
	}
	if sel := resolve(ctx, overlay, "concept:"+c.Slug+":summary", locale); sel != nil {
		c.Summary = sel.Content
		c.Variants = addVariant(c.Variants, "summary", sel.VariantName)
	}
}

// ========================================
// PROGRAMS
// ========================================

// ListPrograms lists active programs
func (s *Service) ListPrograms(ctx context.Context, overlay Overlay, locale string) ([]*Program, error) {
	programs, err := s.repo.ListPrograms(ctx, locale)
	if err != nil {
		logger.WithContext(ctx).Error("failed to list programs", zap.String("locale", locale), zap.Error(err))
		return nil, common.NewInternalServerError("failed to list programs")
	}
	if programs == nil {
		programs = []*Program{}
	}
	for _, p := range programs {
		s.decorateProgram(ctx, overlay, p, locale)
	}
	return programs, nil
}

// GetProgram returns one active program
func (s *Service) GetProgram(ctx context.Context, overlay Overlay, slug, locale string) (*Program, error) {
	program, err := s.repo.GetProgramBySlug(ctx, slug, locale)
	if err != nil {
		logger.WithContext(ctx).Error("failed to load program", zap.String("slug", slug), zap.Error(err))
		return nil, common.NewInternalServerError("failed to load program")
	}
	if program == nil {
		return nil, common.NewNotFoundError(i18n.Translate("error.not_found", locale), nil)
	}

	s.decorateProgram(ctx, overlay, program, locale)
	return program, nil
}

func (s *Service) decorateProgram(ctx context.Context, overlay Overlay, p *Program, locale string) {
	p.PriceFormatted = i18n.FormatPrice(p.PriceCents, p.Currency, locale)
	if p.DurationWeeks > 0 {
		p.DurationLabel = i18n.Translate("program.duration", locale, p.DurationWeeks)
	}
	if sel := resolve(ctx, overlay, "program:"+p.Slug+":title", locale); sel != nil {
		p.Title = sel.Content
		p.Variants = addVariant(p.Variants, "title", sel.VariantName)
	}
}

// ========================================
// HELPERS
// ========================================

func resolve(ctx context.Context, overlay Overlay, key, locale string) *variants.VariantSelection {
	if overlay == nil {
		return nil
	}
	return overlay.Resolve(ctx, key, locale)
}

func addVariant(m map[string]string, field, name string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m[field] = name
	return m
}
