package signal

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/apperror"
	"ai-crm-be/internal/repository/contract"
	"ai-crm-be/internal/repository/specification"
	"ai-crm-be/internal/repository/unitofwork"
	"ai-crm-be/pkg/ai/dealcontext"
	"ai-crm-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Fakes embed the contract interface so only the methods the pipeline touches
// need bodies; anything else panics, which is exactly what a test wants.

type fakeDealRepo struct {
	contract.DealRepository
	deal      *entity.Deal
	findErr   error
	updateErr error
	updates   []contract.SignalUpdate
}

func (r *fakeDealRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Deal, error) {
	return r.deal, r.findErr
}

func (r *fakeDealRepo) UpdateSignal(ctx context.Context, id uuid.UUID, update contract.SignalUpdate) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates = append(r.updates, update)
	return nil
}

type fakeContactRepo struct {
	contract.ContactRepository
	contact *entity.Contact
}

func (r *fakeContactRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Contact, error) {
	return r.contact, nil
}

type fakeActivityRepo struct {
	contract.ActivityRepository
	activities []*entity.Activity
}

func (r *fakeActivityRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error) {
	return r.activities, nil
}

type fakeUnitOfWork struct {
	unitofwork.UnitOfWork
	deals      *fakeDealRepo
	contacts   *fakeContactRepo
	activities *fakeActivityRepo
}

func (u *fakeUnitOfWork) DealRepository() contract.DealRepository         { return u.deals }
func (u *fakeUnitOfWork) ContactRepository() contract.ContactRepository   { return u.contacts }
func (u *fakeUnitOfWork) ActivityRepository() contract.ActivityRepository { return u.activities }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type fakeProvider struct {
	response string
	err      error
	calls    int
	lastUser string
	lastOpts *llm.Options
}

func (p *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.calls++
	return p.response, p.err
}

func (p *fakeProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, options ...llm.Option) (string, error) {
	p.calls++
	p.lastUser = userPrompt
	p.lastOpts = llm.Apply(llm.Options{}, options...)
	return p.response, p.err
}

func testDeal() *entity.Deal {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &entity.Deal{
		Id:        uuid.New(),
		Name:      "Acme rollout",
		Stage:     entity.StageQualified,
		Signal:    entity.SignalNeutral,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func newTestAnalyzer(deal *entity.Deal, provider *fakeProvider) (*Analyzer, *fakeUnitOfWork) {
	uow := &fakeUnitOfWork{
		deals:      &fakeDealRepo{deal: deal},
		contacts:   &fakeContactRepo{},
		activities: &fakeActivityRepo{},
	}
	factory := &fakeFactory{uow: uow}
	assembler := dealcontext.NewAssembler(factory)
	return NewAnalyzer(assembler, provider, factory, nil), uow
}

func TestAnalyzeAndUpdate_PersistsStrictVerdict(t *testing.T) {
	deal := testDeal()
	provider := &fakeProvider{response: `{"signal": "positive", "rationale": "Active engagement and clear next steps."}`}
	analyzer, uow := newTestAnalyzer(deal, provider)

	fixed := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	analyzer.WithClock(func() time.Time { return fixed })

	verdict, err := analyzer.AnalyzeAndUpdate(context.Background(), deal.Id)
	require.NoError(t, err)

	assert.Equal(t, entity.SignalPositive, verdict.Signal)
	assert.Equal(t, "Active engagement and clear next steps.", verdict.Rationale)

	require.Len(t, uow.deals.updates, 1)
	update := uow.deals.updates[0]
	assert.Equal(t, entity.SignalPositive, update.Signal)
	assert.Equal(t, verdict.Rationale, update.SignalRationale)
	assert.Equal(t, fixed, update.UpdatedAt)

	require.NotNil(t, provider.lastOpts)
	assert.Equal(t, 0.3, provider.lastOpts.Temperature)
	assert.Equal(t, 800, provider.lastOpts.MaxTokens)
	assert.Contains(t, provider.lastUser, "Acme rollout")
}

func TestAnalyzeAndUpdate_MissingDealSkipsModelCall(t *testing.T) {
	provider := &fakeProvider{response: `{"signal": "positive", "rationale": "x"}`}
	analyzer, _ := newTestAnalyzer(nil, provider)

	_, err := analyzer.AnalyzeAndUpdate(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Equal(t, 0, provider.calls, "no completion should be attempted for a missing deal")
}

func TestAnalyzeAndUpdate_CompletionFailureClassified(t *testing.T) {
	tests := []struct {
		name        string
		providerErr error
		wantKind    apperror.Kind
	}{
		{"auth", llm.ErrAuth, apperror.KindCompletionAuth},
		{"quota", llm.ErrQuota, apperror.KindCompletionQuota},
		{"empty", llm.ErrEmptyResponse, apperror.KindCompletionEmpty},
		{"network", llm.ErrNetwork, apperror.KindCompletionNetwork},
		{"unclassified", errors.New("boom"), apperror.KindCompletionNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deal := testDeal()
			provider := &fakeProvider{err: tt.providerErr}
			analyzer, uow := newTestAnalyzer(deal, provider)

			_, err := analyzer.AnalyzeAndUpdate(context.Background(), deal.Id)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, tt.wantKind))
			assert.Empty(t, uow.deals.updates, "nothing should be persisted on completion failure")
		})
	}
}

func TestAnalyzeAndUpdate_FallbackVerdictStillPersisted(t *testing.T) {
	deal := testDeal()
	provider := &fakeProvider{response: "I am not able to help with that."}
	analyzer, uow := newTestAnalyzer(deal, provider)

	verdict, err := analyzer.AnalyzeAndUpdate(context.Background(), deal.Id)
	require.NoError(t, err)

	assert.Equal(t, entity.SignalNeutral, verdict.Signal)
	assert.Equal(t, InconclusiveRationale, verdict.Rationale)
	require.Len(t, uow.deals.updates, 1)
	assert.Equal(t, InconclusiveRationale, uow.deals.updates[0].SignalRationale)
}

func TestAnalyzeAndUpdate_PersistFailureCarriesVerdict(t *testing.T) {
	deal := testDeal()
	provider := &fakeProvider{response: `{"signal": "negative", "rationale": "No contact in 30 days."}`}
	analyzer, uow := newTestAnalyzer(deal, provider)
	uow.deals.updateErr = errors.New("connection reset")

	verdict, err := analyzer.AnalyzeAndUpdate(context.Background(), deal.Id)
	require.Error(t, err)

	var persistErr *PersistError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, entity.SignalNegative, persistErr.Verdict.Signal)
	assert.Equal(t, verdict, persistErr.Verdict)
	assert.True(t, apperror.IsKind(err, apperror.KindPersist))
}

func TestAnalyzeAndUpdate_DealDeletedBeforeWrite(t *testing.T) {
	deal := testDeal()
	provider := &fakeProvider{response: `{"signal": "positive", "rationale": "x"}`}
	analyzer, uow := newTestAnalyzer(deal, provider)
	uow.deals.updateErr = gorm.ErrRecordNotFound

	verdict, err := analyzer.AnalyzeAndUpdate(context.Background(), deal.Id)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Equal(t, entity.SignalPositive, verdict.Signal, "the computed verdict is still returned")
}
