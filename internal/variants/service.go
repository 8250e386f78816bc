package variants

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dendrix-ai/dendrix-web/pkg/common"
	"github.com/dendrix-ai/dendrix-web/pkg/logger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service selects content variants and manages them
type Service struct {
	repo     RepositoryInterface
	store    Store
	notifier Notifier
	rand     func() float64
	now      func() time.Time
	tracer   trace.Tracer
	inflight singleflight.Group
}

// Option configures a Service
type Option func(*Service)

// WithStore overrides the store consulted on cache misses (e.g. a BreakerStore)
func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

// WithNotifier sets where telemetry goes
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithRand replaces the random source; fn must return values in [0, 1)
func WithRand(fn func() float64) Option {
	return func(s *Service) {
		if fn != nil {
			s.rand = fn
		}
	}
}

// NewService creates a new content variant service
func NewService(repo RepositoryInterface, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		notifier: NoopNotifier{},
		rand:     rand.Float64,
		now:      time.Now,
		tracer:   otel.Tracer("github.com/dendrix-ai/dendrix-web/internal/variants"),
	}
	if repo != nil {
		s.store = repo
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ========================================
// SESSION RESOLUTION
// ========================================

// Resolver resolves variants for a single session. It is cheap to create and
// should be built once per request from the session's cache.
type Resolver struct {
	svc       *Service
	sessionID string
	cache     Cache
}

// ForSession binds the service to a session and the cache that session owns
func (s *Service) ForSession(sessionID string, cache Cache) *Resolver {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Resolver{svc: s, sessionID: sessionID, cache: cache}
}

// SessionID returns the session this resolver serves
func (r *Resolver) SessionID() string {
	return r.sessionID
}

// Resolve returns the session's variant for (contentKey, locale), or nil when
// the caller should render its default content. It never fails: backend
// errors, a missing store and empty result sets all yield nil.
func (r *Resolver) Resolve(ctx context.Context, contentKey, locale string) *VariantSelection {
	if r == nil || contentKey == "" {
		return nil
	}

	key := cacheKey(contentKey, locale)
	if sel, ok := r.cache.Get(ctx, key); ok {
		resolutionsTotal.WithLabelValues("cache_hit").Inc()
		return sel
	}

	// Concurrent misses for the same slot in the same session share one draw.
	v, _, _ := r.svc.inflight.Do(r.sessionID+"|"+key, func() (interface{}, error) {
		// A flight that finished between the miss above and Do already cached.
		if sel, ok := r.cache.Get(ctx, key); ok {
			return sel, nil
		}
		sel := r.svc.selectVariant(ctx, contentKey, locale)
		if sel == nil {
			return nil, nil
		}
		r.cache.Set(ctx, key, sel)
		r.svc.notify(r.sessionID, EventImpression, sel)
		return sel, nil
	})

	sel, _ := v.(*VariantSelection)
	return sel
}

// RecordEngagement reports, best effort, that the session interacted with sel
func (r *Resolver) RecordEngagement(sel *VariantSelection) {
	if r == nil || sel == nil {
		return
	}
	r.svc.notify(r.sessionID, EventEngagement, sel)
}

// RecordConversion reports, best effort, that sel led to a conversion
func (r *Resolver) RecordConversion(sel *VariantSelection) {
	if r == nil || sel == nil {
		return
	}
	r.svc.notify(r.sessionID, EventConversion, sel)
}

// ClearCache forgets every selection of the session, e.g. after a language switch
func (r *Resolver) ClearCache(ctx context.Context) {
	if r == nil {
		return
	}
	r.cache.Clear(ctx)
}

func (s *Service) selectVariant(ctx context.Context, contentKey, locale string) *VariantSelection {
	if s.store == nil {
		resolutionsTotal.WithLabelValues("unconfigured").Inc()
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "variants.select",
		trace.WithAttributes(
			attribute.String("variant.content_key", contentKey),
			attribute.String("variant.locale", locale),
		),
	)
	defer span.End()

	candidates, err := s.store.ActiveVariants(ctx, contentKey, locale)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend unavailable")
		resolutionsTotal.WithLabelValues("backend_error").Inc()
		logger.WithContext(ctx).Debug("variant lookup failed, using default content",
			zap.String("content_key", contentKey),
			zap.String("locale", locale),
			zap.Error(err),
		)
		return nil
	}

	chosen := drawVariant(candidates, s.rand)
	if chosen == nil {
		resolutionsTotal.WithLabelValues("no_variants").Inc()
		return nil
	}

	resolutionsTotal.WithLabelValues("selected").Inc()
	span.SetAttributes(attribute.String("variant.name", chosen.VariantName))

	return &VariantSelection{
		ContentKey:  contentKey,
		Locale:      locale,
		VariantName: chosen.VariantName,
		Content:     chosen.Content,
	}
}

func (s *Service) notify(sessionID string, eventType EventType, sel *VariantSelection) {
	s.notifier.Notify(Event{
		ID:          uuid.New(),
		ContentKey:  sel.ContentKey,
		Locale:      sel.Locale,
		VariantName: sel.VariantName,
		Type:        eventType,
		SessionID:   sessionID,
		CreatedAt:   s.now(),
	})
}

// ========================================
// VARIANT MANAGEMENT
// ========================================

// CreateVariant adds a variant to a slot
func (s *Service) CreateVariant(ctx context.Context, req *CreateVariantRequest) (*ContentVariant, error) {
	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}
	if weight < 0 {
		return nil, common.NewBadRequestError("weight must not be negative", nil)
	}

	now := s.now()
	variant := &ContentVariant{
		ID:          uuid.New(),
		ContentKey:  strings.TrimSpace(req.ContentKey),
		Locale:      strings.ToLower(strings.TrimSpace(req.Locale)),
		VariantName: strings.TrimSpace(req.VariantName),
		Content:     req.Content,
		Weight:      weight,
		IsActive:    !req.Inactive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		if errors.Is(err, ErrDuplicateVariant) {
			return nil, common.NewBadRequestError("variant name already exists for this content key and locale", err)
		}
		return nil, common.NewInternalServerError("failed to create variant")
	}

	logger.Info("Content variant created",
		zap.String("content_key", variant.ContentKey),
		zap.String("locale", variant.Locale),
		zap.String("variant", variant.VariantName),
		zap.Float64("weight", variant.Weight),
	)

	return variant, nil
}

// ListVariants lists variants, optionally narrowed to a content key and locale
func (s *Service) ListVariants(ctx context.Context, contentKey, locale string, limit, offset int) ([]*ContentVariant, error) {
	if limit == 0 {
		limit = 50
	}
	variants, err := s.repo.ListVariants(ctx, contentKey, locale, limit, offset)
	if err != nil {
		return nil, common.NewInternalServerError("failed to list variants")
	}
	return variants, nil
}

// SetActive enables or disables a variant
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	variant, err := s.repo.GetVariantByID(ctx, id)
	if err != nil || variant == nil {
		return common.NewNotFoundError("variant not found", err)
	}

	if err := s.repo.SetVariantActive(ctx, id, active); err != nil {
		return common.NewInternalServerError("failed to update variant")
	}

	logger.Info("Content variant toggled",
		zap.String("content_key", variant.ContentKey),
		zap.String("variant", variant.VariantName),
		zap.Bool("active", active),
	)
	return nil
}

// GetStats reports telemetry per variant of a slot
func (s *Service) GetStats(ctx context.Context, contentKey, locale string) ([]VariantStats, error) {
	if contentKey == "" || locale == "" {
		return nil, common.NewBadRequestError("content_key and locale are required", nil)
	}

	variants, err := s.repo.ListVariants(ctx, contentKey, locale, 1000, 0)
	if err != nil {
		return nil, common.NewInternalServerError("failed to list variants")
	}
	counts, err := s.repo.GetEventCounts(ctx, contentKey, locale)
	if err != nil {
		return nil, common.NewInternalServerError("failed to load variant events")
	}

	return buildStats(variants, counts), nil
}

func buildStats(variants []*ContentVariant, counts map[string]map[EventType]int64) []VariantStats {
	totalWeight := 0.0
	for _, v := range variants {
		if v.IsActive && v.Weight > 0 {
			totalWeight += v.Weight
		}
	}

	stats := make([]VariantStats, 0, len(variants))
	for _, v := range variants {
		st := VariantStats{
			VariantName: v.VariantName,
			Weight:      v.Weight,
			IsActive:    v.IsActive,
		}
		if v.IsActive && v.Weight > 0 && totalWeight > 0 {
			st.ExpectedShare = v.Weight / totalWeight
		}
		if c, ok := counts[v.VariantName]; ok {
			st.Impressions = c[EventImpression]
			st.Engagements = c[EventEngagement]
			st.Conversions = c[EventConversion]
		}
		if st.Impressions > 0 {
			st.EngagementRate = float64(st.Engagements) / float64(st.Impressions)
			st.ConversionRate = float64(st.Conversions) / float64(st.Impressions)
		}
		stats = append(stats, st)
	}
	return stats
}
