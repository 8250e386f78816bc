package leads

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/dendrix-ai/dendrix-web/internal/variants"
	"github.com/dendrix-ai/dendrix-web/pkg/common"
	"github.com/dendrix-ai/dendrix-web/pkg/i18n"
	"github.com/dendrix-ai/dendrix-web/pkg/logger"
	"github.com/dendrix-ai/dendrix-web/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service captures leads
type Service struct {
	repo      RepositoryInterface
	publisher Publisher
	subject   string
	now       func() time.Time
}

// NewService creates a new leads service. publisher may be nil, in which case
// no event is sent.
func NewService(repo RepositoryInterface, publisher Publisher, subjectPrefix string) *Service {
	if subjectPrefix == "" {
		subjectPrefix = "dendrix"
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		subject:   subjectPrefix + ".leads.created",
		now:       time.Now,
	}
}

// CreateLead validates and stores a lead, then announces it. locale is the
// negotiated locale, used when the form does not send one.
func (s *Service) CreateLead(ctx context.Context, resolver *variants.Resolver, req *CreateLeadRequest, locale string) (*CreateLeadResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	if req.Locale != "" {
		locale = strings.ToLower(req.Locale)
	}
	if locale == "" {
		locale = i18n.DefaultLang
	}

	lead := &Lead{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		ProgramSlug:  req.ProgramSlug,
		Locale:       locale,
		Message:      strings.TrimSpace(req.Message),
		Source:       req.Source,
		ConsentGiven: req.Consent,
		CreatedAt:    s.now(),
	}

	if err := s.repo.CreateLead(ctx, lead); err != nil {
		logger.WithContext(ctx).Error("failed to store lead", zap.Error(err))
		return nil, common.NewInternalServerError(i18n.Translate("error.internal", locale))
	}

	s.publish(ctx, lead)

	if req.ContentKey != "" && req.VariantName != "" {
		resolver.RecordConversion(&variants.VariantSelection{
			ContentKey:  req.ContentKey,
			Locale:      locale,
			VariantName: req.VariantName,
		})
	}

	logger.WithContext(ctx).Info("Lead captured",
		zap.String("lead_id", lead.ID.String()),
		zap.String("program", lead.ProgramSlug),
		zap.String("locale", lead.Locale),
		zap.String("source", lead.Source),
	)

	return &CreateLeadResponse{
		ID:      lead.ID,
		Message: i18n.Translate("lead.created", locale, lead.Name),
	}, nil
}

// publish is best effort; the lead is already stored
func (s *Service) publish(ctx context.Context, lead *Lead) {
	if s.publisher == nil {
		return
	}
	data, err := json.Marshal(LeadCreatedEvent{
		LeadID:      lead.ID,
		Email:       lead.Email,
		ProgramSlug: lead.ProgramSlug,
		Locale:      lead.Locale,
		Source:      lead.Source,
		CreatedAt:   lead.CreatedAt,
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(s.subject, data); err != nil {
		logger.WithContext(ctx).Warn("failed to publish lead event",
			zap.String("subject", s.subject),
			zap.String("lead_id", lead.ID.String()),
			zap.Error(err),
		)
	}
}
