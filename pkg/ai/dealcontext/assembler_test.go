package dealcontext

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/apperror"
	"ai-crm-be/internal/repository/contract"
	"ai-crm-be/internal/repository/specification"
	"ai-crm-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDealRepo struct {
	contract.DealRepository
	deal    *entity.Deal
	findErr error
}

func (r *fakeDealRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Deal, error) {
	return r.deal, r.findErr
}

type fakeContactRepo struct {
	contract.ContactRepository
	contact *entity.Contact
	findErr error
}

func (r *fakeContactRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Contact, error) {
	return r.contact, r.findErr
}

type fakeActivityRepo struct {
	contract.ActivityRepository
	activities []*entity.Activity
	findErr    error
	lastSpecs  []specification.Specification
}

func (r *fakeActivityRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error) {
	r.lastSpecs = specs
	return r.activities, r.findErr
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

func newFixture() (*Assembler, *fakeUnitOfWork) {
	uow := &fakeUnitOfWork{
		deals:      &fakeDealRepo{},
		contacts:   &fakeContactRepo{},
		activities: &fakeActivityRepo{},
	}
	return NewAssembler(&fakeFactory{uow: uow}), uow
}

func ptr(s string) *string { return &s }

func TestBuild_FullDocument(t *testing.T) {
	assembler, uow := newFixture()

	now := time.Date(2026, 4, 20, 10, 0, 0, 0, time.UTC)
	assembler.WithClock(func() time.Time { return now })

	contactId := uuid.New()
	dealId := uuid.New()
	deleted := now.AddDate(0, 0, -1)

	uow.deals.deal = &entity.Deal{
		Id:          dealId,
		ContactId:   &contactId,
		Name:        "Acme Cloud platform rollout",
		UseCase:     "Internal developer platform",
		Stage:       entity.StageNegotiating,
		Signal:      entity.SignalPositive,
		Description: "Company-wide rollout.",
		Notes: []entity.DealNote{
			{Id: uuid.New(), Content: "Legal review pending", CreatedAt: now.AddDate(0, 0, -3)},
			{Id: uuid.New(), Content: "Old note", CreatedAt: now.AddDate(0, 0, -10), DeletedAt: &deleted},
		},
		CreatedAt: now.AddDate(0, 0, -30),
		UpdatedAt: now.AddDate(0, 0, -4),
	}
	uow.contacts.contact = &entity.Contact{
		Id:        contactId,
		FirstName: "Sarah",
		LastName:  "Chen",
		Email:     "sarah.chen@acmecloud.io",
		Company:   ptr("Acme Cloud"),
		Position:  ptr("VP Engineering"),
	}
	longTranscript := strings.Repeat("a", 600)
	uow.activities.activities = []*entity.Activity{
		{
			Id:         uuid.New(),
			DealId:     &dealId,
			Type:       entity.ActivityCall,
			Title:      "Pricing review call",
			Transcript: &longTranscript,
			CreatedAt:  now.AddDate(0, 0, -2),
		},
	}

	doc, err := assembler.Build(context.Background(), dealId)
	require.NoError(t, err)

	assert.Contains(t, doc, "=== DEAL INFORMATION ===")
	assert.Contains(t, doc, "Deal Name: Acme Cloud platform rollout")
	assert.Contains(t, doc, "Stage: negotiating")
	assert.Contains(t, doc, "Deal Age: 30 days")
	assert.Contains(t, doc, "Days in Current Stage: 4 days")
	assert.Contains(t, doc, "Days Since Last Activity: 2 days")

	assert.Contains(t, doc, "Name: Sarah Chen")
	assert.Contains(t, doc, "Company: Acme Cloud")
	assert.Contains(t, doc, "Phone: Not provided")

	assert.Contains(t, doc, "=== DEAL ACTIVITIES (1) ===")
	assert.Contains(t, doc, "[CALL] Apr 18, 2026")
	assert.Contains(t, doc, "Transcript: "+strings.Repeat("a", 500)+"...")
	assert.NotContains(t, doc, strings.Repeat("a", 501))

	// Soft-deleted notes never reach the model.
	assert.Contains(t, doc, "=== DEAL NOTES (1) ===")
	assert.Contains(t, doc, "Legal review pending")
	assert.NotContains(t, doc, "Old note")
}

func TestBuild_EmptyHistoryAndNoContact(t *testing.T) {
	assembler, uow := newFixture()

	now := time.Date(2026, 4, 20, 10, 0, 0, 0, time.UTC)
	assembler.WithClock(func() time.Time { return now })

	dealId := uuid.New()
	uow.deals.deal = &entity.Deal{
		Id:        dealId,
		Name:      "Cold inbound",
		Stage:     entity.StageNew,
		Signal:    entity.SignalNeutral,
		CreatedAt: now,
		UpdatedAt: now,
	}

	doc, err := assembler.Build(context.Background(), dealId)
	require.NoError(t, err)

	assert.Contains(t, doc, "Use Case: Not specified")
	assert.Contains(t, doc, "Description: No description")
	assert.NotContains(t, doc, "Days Since Last Activity")

	assert.Contains(t, doc, "Name: Not provided")
	assert.Contains(t, doc, "Email: Not provided")

	assert.Contains(t, doc, "=== DEAL ACTIVITIES (0) ===")
	assert.Contains(t, doc, "No activities recorded yet.")
	assert.Contains(t, doc, "=== DEAL NOTES (0) ===")
	assert.Contains(t, doc, "No notes recorded yet.")
}

func TestBuild_MissingDeal(t *testing.T) {
	assembler, _ := newFixture()

	_, err := assembler.Build(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestBuild_ActivityReadFailureFailsAssembly(t *testing.T) {
	assembler, uow := newFixture()

	dealId := uuid.New()
	uow.deals.deal = &entity.Deal{Id: dealId, Name: "x", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	uow.activities.findErr = errors.New("connection refused")

	_, err := assembler.Build(context.Background(), dealId)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindDataAccess))
}

func TestBuild_HistoryIsBounded(t *testing.T) {
	assembler, uow := newFixture()

	dealId := uuid.New()
	uow.deals.deal = &entity.Deal{Id: dealId, Name: "x", CreatedAt: time.Now(), UpdatedAt: time.Now()}

	_, err := assembler.Build(context.Background(), dealId)
	require.NoError(t, err)

	var limited bool
	for _, spec := range uow.activities.lastSpecs {
		if l, ok := spec.(specification.Limit); ok {
			limited = true
			assert.Equal(t, ActivityLimit, l.N)
		}
	}
	assert.True(t, limited, "activity query must carry a row limit")
}

func TestDaysBetween_NeverNegative(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 0, daysBetween(now.Add(time.Hour), now))
	assert.Equal(t, 0, daysBetween(now, now))
	assert.Equal(t, 3, daysBetween(now.AddDate(0, 0, -3), now))
}
