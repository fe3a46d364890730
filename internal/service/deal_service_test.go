package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/apperror"
	"ai-crm-be/internal/repository/contract"
	"ai-crm-be/internal/repository/specification"
	"ai-crm-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repository fakes. They honor the FindOne contract of returning
// (nil, nil) for a missing row.

type fakeDealsRepo struct {
	contract.DealRepository
	deals         map[uuid.UUID]*entity.Deal
	signalErr     error
	lastListSpecs []specification.Specification
}

func newFakeDealsRepo() *fakeDealsRepo {
	return &fakeDealsRepo{deals: make(map[uuid.UUID]*entity.Deal)}
}

func (r *fakeDealsRepo) byID(specs []specification.Specification) *entity.Deal {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			return r.deals[s.ID]
		}
	}
	return nil
}

func (r *fakeDealsRepo) Create(ctx context.Context, deal *entity.Deal) error {
	stored := *deal
	r.deals[deal.Id] = &stored
	return nil
}

func (r *fakeDealsRepo) Update(ctx context.Context, deal *entity.Deal) error {
	stored := *deal
	r.deals[deal.Id] = &stored
	return nil
}

func (r *fakeDealsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.deals, id)
	return nil
}

func (r *fakeDealsRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Deal, error) {
	if deal := r.byID(specs); deal != nil {
		copied := *deal
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeDealsRepo) FindOneWithContact(ctx context.Context, specs ...specification.Specification) (*contract.DealWithContact, error) {
	deal, _ := r.FindOne(ctx, specs...)
	if deal == nil {
		return nil, nil
	}
	return &contract.DealWithContact{Deal: deal}, nil
}

func (r *fakeDealsRepo) FindAllWithContact(ctx context.Context, specs ...specification.Specification) ([]*contract.DealWithContact, error) {
	r.lastListSpecs = specs
	var result []*contract.DealWithContact
	for _, d := range r.deals {
		copied := *d
		result = append(result, &contract.DealWithContact{Deal: &copied})
	}
	return result, nil
}

func (r *fakeDealsRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Deal, error) {
	var contactId *uuid.UUID
	for _, spec := range specs {
		if s, ok := spec.(specification.ByContactID); ok {
			id := s.ContactID
			contactId = &id
		}
	}
	var result []*entity.Deal
	for _, d := range r.deals {
		if contactId != nil && (d.ContactId == nil || *d.ContactId != *contactId) {
			continue
		}
		copied := *d
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeDealsRepo) UpdateStage(ctx context.Context, id uuid.UUID, stage entity.DealStage, sortOrder *int) error {
	deal := r.deals[id]
	deal.Stage = stage
	if sortOrder != nil {
		deal.SortOrder = *sortOrder
	}
	return nil
}

func (r *fakeDealsRepo) UpdateSignal(ctx context.Context, id uuid.UUID, update contract.SignalUpdate) error {
	if r.signalErr != nil {
		return r.signalErr
	}
	deal := r.deals[id]
	deal.Signal = update.Signal
	deal.SignalRationale = &update.SignalRationale
	deal.UpdatedAt = update.UpdatedAt
	return nil
}

func (r *fakeDealsRepo) UpdateNotes(ctx context.Context, id uuid.UUID, notes []entity.DealNote) error {
	r.deals[id].Notes = notes
	return nil
}

func (r *fakeDealsRepo) UpdateAttachments(ctx context.Context, id uuid.UUID, attachments []entity.DealAttachment) error {
	r.deals[id].Attachments = attachments
	return nil
}

type fakeContactsRepo struct {
	contract.ContactRepository
	contacts      map[uuid.UUID]*entity.Contact
	lastFindSpecs []specification.Specification
}

func newFakeContactsRepo() *fakeContactsRepo {
	return &fakeContactsRepo{contacts: make(map[uuid.UUID]*entity.Contact)}
}

func (r *fakeContactsRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Contact, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			return r.contacts[s.ID], nil
		}
	}
	return nil, nil
}

type fakeActivitiesRepo struct {
	contract.ActivityRepository
	activities map[uuid.UUID]*entity.Activity
}

func newFakeActivitiesRepo() *fakeActivitiesRepo {
	return &fakeActivitiesRepo{activities: make(map[uuid.UUID]*entity.Activity)}
}

func (r *fakeActivitiesRepo) Create(ctx context.Context, activity *entity.Activity) error {
	stored := *activity
	r.activities[activity.Id] = &stored
	return nil
}

func (r *fakeActivitiesRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Activity, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			return r.activities[s.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeActivitiesRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error) {
	var dealId, contactId *uuid.UUID
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByDealID:
			id := s.DealID
			dealId = &id
		case specification.ByContactID:
			id := s.ContactID
			contactId = &id
		}
	}
	var result []*entity.Activity
	for _, a := range r.activities {
		if dealId != nil && (a.DealId == nil || *a.DealId != *dealId) {
			continue
		}
		if contactId != nil && (a.ContactId == nil || *a.ContactId != *contactId) {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *fakeActivitiesRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.activities, id)
	return nil
}

type fakeCRMUnitOfWork struct {
	unitofwork.UnitOfWork
	deals      *fakeDealsRepo
	contacts   *fakeContactsRepo
	activities *fakeActivitiesRepo

	begun     bool
	committed bool
	rolled    bool
}

func (u *fakeCRMUnitOfWork) Begin(ctx context.Context) error { u.begun = true; return nil }
func (u *fakeCRMUnitOfWork) Commit() error                   { u.committed = true; return nil }
func (u *fakeCRMUnitOfWork) Rollback() error                 { u.rolled = true; return nil }

func (u *fakeCRMUnitOfWork) DealRepository() contract.DealRepository         { return u.deals }
func (u *fakeCRMUnitOfWork) ContactRepository() contract.ContactRepository   { return u.contacts }
func (u *fakeCRMUnitOfWork) ActivityRepository() contract.ActivityRepository { return u.activities }

type fakeCRMFactory struct {
	uow *fakeCRMUnitOfWork
}

func (f *fakeCRMFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type fakeQueue struct {
	payloads [][]byte
}

func (q *fakeQueue) Publish(ctx context.Context, payload []byte) error {
	q.payloads = append(q.payloads, payload)
	return nil
}

func newDealFixture() (IDealService, *fakeCRMUnitOfWork, *fakeQueue) {
	uow := &fakeCRMUnitOfWork{
		deals:      newFakeDealsRepo(),
		contacts:   newFakeContactsRepo(),
		activities: newFakeActivitiesRepo(),
	}
	queue := &fakeQueue{}
	svc := NewDealService(&fakeCRMFactory{uow: uow}, queue, nil, nil)
	return svc, uow, queue
}

func seedDeal(uow *fakeCRMUnitOfWork, stage entity.DealStage) *entity.Deal {
	deal := &entity.Deal{
		Id:        uuid.New(),
		Name:      "Northline fleet tracking",
		Stage:     stage,
		Signal:    entity.SignalNeutral,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	uow.deals.deals[deal.Id] = deal
	return deal
}

func TestDealCreate_Defaults(t *testing.T) {
	svc, uow, _ := newDealFixture()

	resp, err := svc.Create(context.Background(), &dto.CreateDealRequest{Name: "New deal"})
	require.NoError(t, err)

	stored := uow.deals.deals[resp.Id]
	require.NotNil(t, stored)
	assert.Equal(t, entity.StageNew, stored.Stage)
	assert.Equal(t, entity.SignalNeutral, stored.Signal)
}

func TestDealCreate_RejectsUnknownStage(t *testing.T) {
	svc, _, _ := newDealFixture()

	_, err := svc.Create(context.Background(), &dto.CreateDealRequest{Name: "x", Stage: "stalled"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestDealCreate_RejectsMissingContact(t *testing.T) {
	svc, _, _ := newDealFixture()

	missing := uuid.New()
	_, err := svc.Create(context.Background(), &dto.CreateDealRequest{Name: "x", ContactId: &missing})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestMoveStage_ChangeTriggersReanalysis(t *testing.T) {
	svc, uow, queue := newDealFixture()
	deal := seedDeal(uow, entity.StageQualified)

	resp, err := svc.MoveStage(context.Background(), &dto.MoveDealStageRequest{
		Id:    deal.Id,
		Stage: string(entity.StageNegotiating),
	})
	require.NoError(t, err)
	assert.Equal(t, "negotiating", resp.Stage)
	assert.Equal(t, entity.StageNegotiating, uow.deals.deals[deal.Id].Stage)

	require.Len(t, queue.payloads, 1)
	var msg dto.AnalyzeDealMessage
	require.NoError(t, json.Unmarshal(queue.payloads[0], &msg))
	assert.Equal(t, deal.Id, msg.DealId)
}

func TestMoveStage_SameStageIsQuiet(t *testing.T) {
	svc, uow, queue := newDealFixture()
	deal := seedDeal(uow, entity.StageQualified)

	sortOrder := 2
	_, err := svc.MoveStage(context.Background(), &dto.MoveDealStageRequest{
		Id:        deal.Id,
		Stage:     string(entity.StageQualified),
		SortOrder: &sortOrder,
	})
	require.NoError(t, err)

	// Re-slotting within a column is not a stage change.
	assert.Empty(t, queue.payloads)
	assert.Equal(t, 2, uow.deals.deals[deal.Id].SortOrder)
}

func TestDealNotes_SoftDeleteLifecycle(t *testing.T) {
	svc, uow, _ := newDealFixture()
	deal := seedDeal(uow, entity.StageNew)
	ctx := context.Background()

	note, err := svc.AddNote(ctx, &dto.AddDealNoteRequest{DealId: deal.Id, Content: "send pricing"})
	require.NoError(t, err)

	updated, err := svc.UpdateNote(ctx, &dto.UpdateDealNoteRequest{
		DealId: deal.Id, NoteId: note.Id, Content: "send revised pricing",
	})
	require.NoError(t, err)
	assert.Equal(t, "send revised pricing", updated.Content)
	assert.NotNil(t, updated.UpdatedAt)

	require.NoError(t, svc.DeleteNote(ctx, deal.Id, note.Id))

	// The row survives for audit but is logically gone.
	stored := uow.deals.deals[deal.Id]
	require.Len(t, stored.Notes, 1)
	assert.True(t, stored.Notes[0].Deleted())
	assert.Empty(t, stored.ActiveNotes())

	_, err = svc.UpdateNote(ctx, &dto.UpdateDealNoteRequest{
		DealId: deal.Id, NoteId: note.Id, Content: "too late",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDealAttachments_DeleteIsHardRemove(t *testing.T) {
	svc, uow, _ := newDealFixture()
	deal := seedDeal(uow, entity.StageNew)
	ctx := context.Background()

	att, err := svc.AddAttachment(ctx, &dto.AddDealAttachmentRequest{
		DealId: deal.Id, Name: "proposal.pdf", URL: "https://files.example.com/proposal.pdf",
		Size: 1024, Type: "application/pdf",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAttachment(ctx, deal.Id, att.Id))
	assert.Empty(t, uow.deals.deals[deal.Id].Attachments)

	err = svc.DeleteAttachment(ctx, deal.Id, att.Id)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDealDelete_RemovesScopedActivities(t *testing.T) {
	svc, uow, _ := newDealFixture()
	deal := seedDeal(uow, entity.StageNew)
	other := seedDeal(uow, entity.StageNew)

	scoped := &entity.Activity{Id: uuid.New(), DealId: &deal.Id, Type: entity.ActivityCall, Title: "kickoff"}
	unrelated := &entity.Activity{Id: uuid.New(), DealId: &other.Id, Type: entity.ActivityNote, Title: "keep me"}
	uow.activities.activities[scoped.Id] = scoped
	uow.activities.activities[unrelated.Id] = unrelated

	require.NoError(t, svc.Delete(context.Background(), deal.Id))

	assert.True(t, uow.begun)
	assert.True(t, uow.committed)
	assert.Nil(t, uow.deals.deals[deal.Id])
	assert.Nil(t, uow.activities.activities[scoped.Id])
	assert.NotNil(t, uow.activities.activities[unrelated.Id])
}

func TestDealList_BoardOrdering(t *testing.T) {
	svc, uow, _ := newDealFixture()
	seedDeal(uow, entity.StageNew)
	seedDeal(uow, entity.StageNegotiating)

	_, err := svc.List(context.Background(), &dto.ListDealsRequest{})
	require.NoError(t, err)

	var orderFields []string
	for _, spec := range uow.deals.lastListSpecs {
		if order, ok := spec.(specification.OrderBy); ok {
			require.False(t, order.Desc)
			orderFields = append(orderFields, order.Field)
		}
	}
	assert.Equal(t, []string{"stage", "sort_order"}, orderFields)
}

func TestDealShow_MissingDeal(t *testing.T) {
	svc, _, _ := newDealFixture()

	_, err := svc.Show(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
