package leads

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dendrix-ai/dendrix-web/pkg/common"
	"github.com/dendrix-ai/dendrix-web/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ========================================
// MOCKS
// ========================================

type mockLeadsRepository struct {
	mock.Mock
}

func (m *mockLeadsRepository) CreateLead(ctx context.Context, lead *Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(subject string, data []byte) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func validRequest() *CreateLeadRequest {
	return &CreateLeadRequest{
		Name:        "Mari Maasikas",
		Email:       " Mari@Example.EE ",
		ProgramSlug: "ai-basics",
		Source:      "program-page",
		Consent:     true,
	}
}

// ========================================
// TESTS
// ========================================

func TestCreateLead_Success(t *testing.T) {
	repo := new(mockLeadsRepository)
	pub := new(mockPublisher)

	repo.On("CreateLead", mock.Anything, mock.MatchedBy(func(l *Lead) bool {
		return l.Email == "mari@example.ee" && l.Locale == "et" && l.ConsentGiven
	})).Return(nil)
	pub.On("Publish", "dendrix.leads.created", mock.MatchedBy(func(data []byte) bool {
		var ev LeadCreatedEvent
		return json.Unmarshal(data, &ev) == nil && ev.ProgramSlug == "ai-basics" && ev.Locale == "et"
	})).Return(nil)

	resp, err := NewService(repo, pub, "").CreateLead(context.Background(), nil, validRequest(), "et")

	require.NoError(t, err)
	assert.Equal(t, "Aitäh, Mari Maasikas! Võtame teiega peagi ühendust.", resp.Message)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreateLead_RequestLocaleWins(t *testing.T) {
	repo := new(mockLeadsRepository)
	repo.On("CreateLead", mock.Anything, mock.Anything).Return(nil)

	req := validRequest()
	req.Locale = "ru"
	resp, err := NewService(repo, nil, "").CreateLead(context.Background(), nil, req, "et")

	require.NoError(t, err)
	assert.Contains(t, resp.Message, "Спасибо")
}

func TestCreateLead_ConsentRequired(t *testing.T) {
	repo := new(mockLeadsRepository)
	req := validRequest()
	req.Consent = false

	_, err := NewService(repo, nil, "").CreateLead(context.Background(), nil, req, "en")

	var verr *validation.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors, "consent")
	repo.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestCreateLead_InvalidEmail(t *testing.T) {
	req := validRequest()
	req.Email = "nope"

	_, err := NewService(new(mockLeadsRepository), nil, "").CreateLead(context.Background(), nil, req, "en")

	var verr *validation.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors, "email")
}

func TestCreateLead_StoreFailure(t *testing.T) {
	repo := new(mockLeadsRepository)
	repo.On("CreateLead", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := NewService(repo, nil, "").CreateLead(context.Background(), nil, validRequest(), "en")

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.Code)
}

func TestCreateLead_PublishFailureIsIgnored(t *testing.T) {
	repo := new(mockLeadsRepository)
	pub := new(mockPublisher)
	repo.On("CreateLead", mock.Anything, mock.Anything).Return(nil)
	pub.On("Publish", "site.leads.created", mock.Anything).Return(errors.New("nats: connection closed"))

	resp, err := NewService(repo, pub, "site").CreateLead(context.Background(), nil, validRequest(), "en")

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}
