package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/apperror"
	"ai-crm-be/pkg/ai/contactcontext"
	"ai-crm-be/pkg/ai/dealcontext"
	"ai-crm-be/pkg/ai/signal"
	"ai-crm-be/pkg/cache"
	"ai-crm-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
	lastUser string
}

func (p *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.calls++
	return p.response, p.err
}

func (p *fakeLLM) Complete(ctx context.Context, systemPrompt, userPrompt string, options ...llm.Option) (string, error) {
	p.calls++
	p.lastUser = userPrompt
	return p.response, p.err
}

func newInsightFixture(provider *fakeLLM) (IInsightService, *fakeCRMUnitOfWork) {
	uow := &fakeCRMUnitOfWork{
		deals:      newFakeDealsRepo(),
		contacts:   newFakeContactsRepo(),
		activities: newFakeActivitiesRepo(),
	}
	factory := &fakeCRMFactory{uow: uow}

	analyzer := signal.NewAnalyzer(dealcontext.NewAssembler(factory), provider, factory, nil)
	svc := NewInsightService(
		analyzer,
		dealcontext.NewAssembler(factory),
		contactcontext.NewBuilder(factory),
		provider,
		cache.NewMemoryStore(),
		nil,
	)
	return svc, uow
}

func seedContact(uow *fakeCRMUnitOfWork) *entity.Contact {
	contact := &entity.Contact{
		Id:        uuid.New(),
		FirstName: "Sarah",
		LastName:  "Chen",
		Email:     "sarah.chen@acmecloud.io",
		Status:    entity.ContactStatusActive,
		CreatedAt: time.Now(),
	}
	uow.contacts.contacts[contact.Id] = contact
	return contact
}

func TestAnalyzeContact_CachesResult(t *testing.T) {
	provider := &fakeLLM{response: "Relationship looks healthy."}
	svc, uow := newInsightFixture(provider)
	contact := seedContact(uow)
	ctx := context.Background()

	first, err := svc.AnalyzeContact(ctx, contact.Id, AnalysisRelationshipHealth)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "Relationship looks healthy.", first.Analysis)
	assert.Equal(t, 1, provider.calls)

	second, err := svc.AnalyzeContact(ctx, contact.Id, AnalysisRelationshipHealth)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Analysis, second.Analysis)
	assert.Equal(t, 1, provider.calls, "cache hit must not call the model")
}

func TestAnalyzeContact_TypesCacheIndependently(t *testing.T) {
	provider := &fakeLLM{response: "analysis"}
	svc, uow := newInsightFixture(provider)
	contact := seedContact(uow)
	ctx := context.Background()

	_, err := svc.AnalyzeContact(ctx, contact.Id, AnalysisRelationshipHealth)
	require.NoError(t, err)
	_, err = svc.AnalyzeContact(ctx, contact.Id, AnalysisNextAction)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestAnalyzeContact_AcceptsDashboardAliases(t *testing.T) {
	provider := &fakeLLM{response: "analysis"}
	svc, uow := newInsightFixture(provider)
	contact := seedContact(uow)
	ctx := context.Background()

	for _, alias := range []string{"relationship", "next-action", "contextual-research"} {
		resp, err := svc.AnalyzeContact(ctx, contact.Id, alias)
		require.NoError(t, err, "alias %q must resolve", alias)
		assert.NotEqual(t, alias, resp.AnalysisType, "responses carry the canonical name")
	}
	assert.Equal(t, 3, provider.calls)

	// The alias and the canonical name share a cache slot.
	resp, err := svc.AnalyzeContact(ctx, contact.Id, AnalysisRelationshipHealth)
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Equal(t, 3, provider.calls)
}

func TestAnalyzeContact_UnknownType(t *testing.T) {
	provider := &fakeLLM{response: "x"}
	svc, uow := newInsightFixture(provider)
	contact := seedContact(uow)

	_, err := svc.AnalyzeContact(context.Background(), contact.Id, "horoscope")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Equal(t, 0, provider.calls)
}

func TestAnalyzeContact_MissingContact(t *testing.T) {
	provider := &fakeLLM{response: "x"}
	svc, _ := newInsightFixture(provider)

	_, err := svc.AnalyzeContact(context.Background(), uuid.New(), AnalysisNextAction)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestAnalyzeDealSignal_PersistFailureIsNotAnError(t *testing.T) {
	provider := &fakeLLM{response: `{"signal": "negative", "rationale": "Gone quiet."}`}
	svc, uow := newInsightFixture(provider)
	deal := seedDeal(uow, entity.StageNegotiating)
	uow.deals.signalErr = errors.New("disk full")

	resp, err := svc.AnalyzeDealSignal(context.Background(), deal.Id)
	require.NoError(t, err)

	assert.Equal(t, "negative", resp.Signal)
	assert.Equal(t, "Gone quiet.", resp.Rationale)
	assert.False(t, resp.Persisted)
}

func TestAnalyzeDealSignal_PersistedVerdict(t *testing.T) {
	provider := &fakeLLM{response: `{"signal": "positive", "rationale": "Strong momentum."}`}
	svc, uow := newInsightFixture(provider)
	deal := seedDeal(uow, entity.StageNegotiating)

	resp, err := svc.AnalyzeDealSignal(context.Background(), deal.Id)
	require.NoError(t, err)

	assert.True(t, resp.Persisted)
	assert.Equal(t, entity.SignalPositive, uow.deals.deals[deal.Id].Signal)
}

func TestDealChat_IncludesQuestionAndContext(t *testing.T) {
	provider := &fakeLLM{response: "You last spoke on Apr 18."}
	svc, uow := newInsightFixture(provider)
	deal := seedDeal(uow, entity.StageQualified)

	resp, err := svc.DealChat(context.Background(), deal.Id, &dto.DealChatRequest{
		Message: "When did we last talk?",
		History: []dto.DealChatTurn{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "You last spoke on Apr 18.", resp.Reply)
	assert.Contains(t, provider.lastUser, deal.Name)
	assert.Contains(t, provider.lastUser, "When did we last talk?")
}

func TestAnalyzeCall_CompletionFailureClassified(t *testing.T) {
	provider := &fakeLLM{err: llm.ErrQuota}
	svc, _ := newInsightFixture(provider)

	_, err := svc.AnalyzeCall(context.Background(), &dto.CallAnalysisRequest{Transcript: "hello"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindCompletionQuota))
}
