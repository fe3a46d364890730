package service

import (
	"context"
	"testing"

	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActivityFixture() (IActivityService, *fakeCRMUnitOfWork, *fakeQueue) {
	uow := &fakeCRMUnitOfWork{
		deals:      newFakeDealsRepo(),
		contacts:   newFakeContactsRepo(),
		activities: newFakeActivitiesRepo(),
	}
	queue := &fakeQueue{}
	svc := NewActivityService(&fakeCRMFactory{uow: uow}, queue, nil, nil)
	return svc, uow, queue
}

func TestActivityCreate_RequiresReference(t *testing.T) {
	svc, _, _ := newActivityFixture()

	_, err := svc.Create(context.Background(), &dto.CreateActivityRequest{Type: "note", Title: "orphan"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestActivityCreate_DealScopedInheritsContact(t *testing.T) {
	svc, uow, queue := newActivityFixture()

	contactId := uuid.New()
	uow.contacts.contacts[contactId] = &entity.Contact{Id: contactId, FirstName: "Sarah"}

	deal := seedDeal(uow, entity.StageQualified)
	deal.ContactId = &contactId

	resp, err := svc.Create(context.Background(), &dto.CreateActivityRequest{
		DealId: &deal.Id,
		Type:   "call",
		Title:  "Pricing review",
	})
	require.NoError(t, err)

	stored := uow.activities.activities[resp.Id]
	require.NotNil(t, stored)
	require.NotNil(t, stored.ContactId)
	assert.Equal(t, contactId, *stored.ContactId)

	// Logging deal history schedules a signal re-analysis.
	assert.Len(t, queue.payloads, 1)
}

func TestActivityCreate_ContactScopedIsQuiet(t *testing.T) {
	svc, uow, queue := newActivityFixture()

	contactId := uuid.New()
	uow.contacts.contacts[contactId] = &entity.Contact{Id: contactId, FirstName: "Marcus"}

	_, err := svc.Create(context.Background(), &dto.CreateActivityRequest{
		ContactId: &contactId,
		Type:      "email",
		Title:     "Intro email",
	})
	require.NoError(t, err)
	assert.Empty(t, queue.payloads, "contact-only activities do not touch any deal signal")
}

func TestActivityCreate_MissingReferences(t *testing.T) {
	svc, _, _ := newActivityFixture()
	ctx := context.Background()

	missing := uuid.New()

	_, err := svc.Create(ctx, &dto.CreateActivityRequest{DealId: &missing, Type: "call", Title: "x"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = svc.Create(ctx, &dto.CreateActivityRequest{ContactId: &missing, Type: "call", Title: "x"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestActivityList_FiltersAndValidates(t *testing.T) {
	svc, uow, _ := newActivityFixture()
	ctx := context.Background()

	dealId := uuid.New()
	otherDealId := uuid.New()
	uow.activities.activities[uuid.New()] = &entity.Activity{Id: uuid.New(), DealId: &dealId, Type: entity.ActivityCall, Title: "ours"}
	uow.activities.activities[uuid.New()] = &entity.Activity{Id: uuid.New(), DealId: &otherDealId, Type: entity.ActivityNote, Title: "theirs"}

	result, err := svc.List(ctx, &dto.ListActivitiesRequest{DealId: dealId.String()})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "ours", result[0].Title)

	_, err = svc.List(ctx, &dto.ListActivitiesRequest{DealId: "not-a-uuid"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestActivityDelete(t *testing.T) {
	svc, uow, _ := newActivityFixture()
	ctx := context.Background()

	id := uuid.New()
	uow.activities.activities[id] = &entity.Activity{Id: id, Type: entity.ActivityNote, Title: "x"}

	require.NoError(t, svc.Delete(ctx, id))
	assert.Nil(t, uow.activities.activities[id])

	err := svc.Delete(ctx, id)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
