package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/apperror"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/internal/repository/specification"
	"ai-crm-be/internal/repository/unitofwork"
	"ai-crm-be/pkg/events"
	pkgnats "ai-crm-be/pkg/nats"

	"github.com/google/uuid"
)

type IActivityService interface {
	Create(ctx context.Context, req *dto.CreateActivityRequest) (*dto.CreateActivityResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, req *dto.ListActivitiesRequest) ([]*dto.ActivityResponse, error)
}

type activityService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	natsPub          *pkgnats.Publisher
	logger           logger.ILogger
}

func NewActivityService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	natsPub *pkgnats.Publisher,
	log logger.ILogger,
) IActivityService {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &activityService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		natsPub:          natsPub,
		logger:           log,
	}
}

func (s *activityService) Create(ctx context.Context, req *dto.CreateActivityRequest) (*dto.CreateActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.ContactId == nil && req.DealId == nil {
		return nil, apperror.New(apperror.KindValidation, "activity must reference a contact or a deal")
	}

	contactId := req.ContactId
	if req.DealId != nil {
		deal, err := uow.DealRepository().FindOne(ctx, specification.ByID{ID: *req.DealId})
		if err != nil {
			return nil, apperror.Wrap(apperror.KindDataAccess, "fetch deal", err)
		}
		if deal == nil {
			return nil, apperror.NotFound("deal")
		}
		// Deal-scoped activities inherit the deal's contact when not given.
		if contactId == nil {
			contactId = deal.ContactId
		}
	} else if req.ContactId != nil {
		contact, err := uow.ContactRepository().FindOne(ctx, specification.ByID{ID: *req.ContactId})
		if err != nil {
			return nil, apperror.Wrap(apperror.KindDataAccess, "fetch contact", err)
		}
		if contact == nil {
			return nil, apperror.NotFound("contact")
		}
	}

	activity := entity.Activity{
		Id:                uuid.New(),
		ContactId:         contactId,
		DealId:            req.DealId,
		Type:              entity.ActivityType(req.Type),
		Title:             req.Title,
		Description:       req.Description,
		Transcript:        req.Transcript,
		TranscriptSummary: req.TranscriptSummary,
		CreatedBy:         req.CreatedBy,
		CreatedAt:         time.Now(),
	}

	if err := uow.ActivityRepository().Create(ctx, &activity); err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "create activity", err)
	}

	if s.natsPub != nil {
		var dealIdStr *string
		if req.DealId != nil {
			v := req.DealId.String()
			dealIdStr = &v
		}
		_ = s.natsPub.Publish(ctx, events.NewActivityLogged(activity.Id.String(), req.Type, dealIdStr))
	}

	// New deal history invalidates the current signal.
	if req.DealId != nil && s.publisherService != nil {
		payload, _ := json.Marshal(dto.AnalyzeDealMessage{DealId: *req.DealId})
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Warn("activity_service", "failed to enqueue signal analysis", map[string]interface{}{
				"deal_id": req.DealId.String(),
				"error":   err.Error(),
			})
		}
	}

	return &dto.CreateActivityResponse{Id: activity.Id}, nil
}

func (s *activityService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	activity, err := uow.ActivityRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "fetch activity", err)
	}
	if activity == nil {
		return apperror.NotFound("activity")
	}

	if err := uow.ActivityRepository().Delete(ctx, id); err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "delete activity", err)
	}
	return nil
}

func (s *activityService) List(ctx context.Context, req *dto.ListActivitiesRequest) ([]*dto.ActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{}
	if req.ContactId != "" {
		contactId, err := uuid.Parse(req.ContactId)
		if err != nil {
			return nil, apperror.New(apperror.KindValidation, "invalid contact_id")
		}
		specs = append(specs, specification.ByContactID{ContactID: contactId})
	}
	if req.DealId != "" {
		dealId, err := uuid.Parse(req.DealId)
		if err != nil {
			return nil, apperror.New(apperror.KindValidation, "invalid deal_id")
		}
		specs = append(specs, specification.ByDealID{DealID: dealId})
	}
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})
	if req.Limit > 0 {
		specs = append(specs, specification.Limit{N: req.Limit})
	}

	activities, err := uow.ActivityRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "list activities", err)
	}

	result := make([]*dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		result = append(result, &dto.ActivityResponse{
			Id:                activity.Id,
			ContactId:         activity.ContactId,
			DealId:            activity.DealId,
			Type:              string(activity.Type),
			Title:             activity.Title,
			Description:       activity.Description,
			Transcript:        activity.Transcript,
			TranscriptSummary: activity.TranscriptSummary,
			CreatedBy:         activity.CreatedBy,
			CreatedAt:         activity.CreatedAt,
		})
	}
	return result, nil
}
