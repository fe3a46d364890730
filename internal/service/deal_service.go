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

type IDealService interface {
	Create(ctx context.Context, req *dto.CreateDealRequest) (*dto.CreateDealResponse, error)
	Update(ctx context.Context, req *dto.UpdateDealRequest) (*dto.UpdateDealResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Show(ctx context.Context, id uuid.UUID) (*dto.DealResponse, error)
	List(ctx context.Context, req *dto.ListDealsRequest) ([]*dto.DealResponse, error)
	MoveStage(ctx context.Context, req *dto.MoveDealStageRequest) (*dto.MoveDealStageResponse, error)

	AddNote(ctx context.Context, req *dto.AddDealNoteRequest) (*dto.DealNoteResponse, error)
	UpdateNote(ctx context.Context, req *dto.UpdateDealNoteRequest) (*dto.DealNoteResponse, error)
	DeleteNote(ctx context.Context, dealId, noteId uuid.UUID) error

	AddAttachment(ctx context.Context, req *dto.AddDealAttachmentRequest) (*dto.DealAttachmentResponse, error)
	DeleteAttachment(ctx context.Context, dealId, attachmentId uuid.UUID) error
}

type dealService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	natsPub          *pkgnats.Publisher
	logger           logger.ILogger
}

func NewDealService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	natsPub *pkgnats.Publisher,
	log logger.ILogger,
) IDealService {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &dealService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		natsPub:          natsPub,
		logger:           log,
	}
}

func (s *dealService) Create(ctx context.Context, req *dto.CreateDealRequest) (*dto.CreateDealResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stage := entity.StageNew
	if req.Stage != "" {
		stage = entity.DealStage(req.Stage)
		if !stage.Valid() {
			return nil, apperror.New(apperror.KindValidation, "invalid stage")
		}
	}

	if req.ContactId != nil {
		contact, err := uow.ContactRepository().FindOne(ctx, specification.ByID{ID: *req.ContactId})
		if err != nil {
			return nil, apperror.Wrap(apperror.KindDataAccess, "fetch contact", err)
		}
		if contact == nil {
			return nil, apperror.NotFound("contact")
		}
	}

	now := time.Now()
	deal := entity.Deal{
		Id:          uuid.New(),
		ContactId:   req.ContactId,
		Name:        req.Name,
		UseCase:     req.UseCase,
		Stage:       stage,
		Signal:      entity.SignalNeutral,
		Description: req.Description,
		Notes:       []entity.DealNote{},
		Attachments: []entity.DealAttachment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uow.DealRepository().Create(ctx, &deal); err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "create deal", err)
	}

	return &dto.CreateDealResponse{Id: deal.Id}, nil
}

func (s *dealService) Update(ctx context.Context, req *dto.UpdateDealRequest) (*dto.UpdateDealResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	deal, err := uow.DealRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "fetch deal", err)
	}
	if deal == nil {
		return nil, apperror.NotFound("deal")
	}

	deal.Name = req.Name
	deal.UseCase = req.UseCase
	deal.ContactId = req.ContactId
	deal.Description = req.Description
	deal.UpdatedAt = time.Now()

	if err := uow.DealRepository().Update(ctx, deal); err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "update deal", err)
	}

	return &dto.UpdateDealResponse{Id: deal.Id}, nil
}

func (s *dealService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	deal, err := uow.DealRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "fetch deal", err)
	}
	if deal == nil {
		return apperror.NotFound("deal")
	}

	if err := uow.Begin(ctx); err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "begin transaction", err)
	}
	defer uow.Rollback()

	// Deal-scoped activities go with the deal.
	activities, err := uow.ActivityRepository().FindAll(ctx, specification.ByDealID{DealID: id})
	if err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "list deal activities", err)
	}
	for _, activity := range activities {
		if err := uow.ActivityRepository().Delete(ctx, activity.Id); err != nil {
			return apperror.Wrap(apperror.KindDataAccess, "delete deal activity", err)
		}
	}

	if err := uow.DealRepository().Delete(ctx, id); err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "delete deal", err)
	}

	if err := uow.Commit(); err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "commit transaction", err)
	}
	return nil
}

func (s *dealService) Show(ctx context.Context, id uuid.UUID) (*dto.DealResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	pair, err := uow.DealRepository().FindOneWithContact(ctx, specification.ByID{ID: id}, specification.WithContact{})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "fetch deal", err)
	}
	if pair == nil || pair.Deal == nil {
		return nil, apperror.NotFound("deal")
	}

	return toDealResponse(pair.Deal, pair.Contact), nil
}

func (s *dealService) List(ctx context.Context, req *dto.ListDealsRequest) ([]*dto.DealResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{specification.WithContact{}}
	if req.Stage != "" {
		if !entity.DealStage(req.Stage).Valid() {
			return nil, apperror.New(apperror.KindValidation, "invalid stage")
		}
		specs = append(specs, specification.ByStage{Stage: req.Stage})
	}
	if req.ContactId != "" {
		contactId, err := uuid.Parse(req.ContactId)
		if err != nil {
			return nil, apperror.New(apperror.KindValidation, "invalid contact_id")
		}
		specs = append(specs, specification.ByContactID{ContactID: contactId})
	}
	// Kanban columns come back grouped: stage first, slot within the column
	// second.
	specs = append(specs,
		specification.OrderBy{Field: "stage", Desc: false},
		specification.OrderBy{Field: "sort_order", Desc: false},
	)

	pairs, err := uow.DealRepository().FindAllWithContact(ctx, specs...)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "list deals", err)
	}

	result := make([]*dto.DealResponse, 0, len(pairs))
	for _, pair := range pairs {
		result = append(result, toDealResponse(pair.Deal, pair.Contact))
	}
	return result, nil
}

func (s *dealService) MoveStage(ctx context.Context, req *dto.MoveDealStageRequest) (*dto.MoveDealStageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stage := entity.DealStage(req.Stage)
	if !stage.Valid() {
		return nil, apperror.New(apperror.KindValidation, "invalid stage")
	}

	deal, err := uow.DealRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "fetch deal", err)
	}
	if deal == nil {
		return nil, apperror.NotFound("deal")
	}

	fromStage := deal.Stage
	if err := uow.DealRepository().UpdateStage(ctx, req.Id, stage, req.SortOrder); err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "move deal stage", err)
	}

	if fromStage != stage {
		if s.natsPub != nil {
			_ = s.natsPub.Publish(ctx, events.NewDealStageChanged(req.Id.String(), string(fromStage), string(stage)))
		}
		s.enqueueAnalysis(ctx, req.Id)
	}

	return &dto.MoveDealStageResponse{Id: req.Id, Stage: string(stage)}, nil
}

func (s *dealService) AddNote(ctx context.Context, req *dto.AddDealNoteRequest) (*dto.DealNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	deal, err := uow.DealRepository().FindOne(ctx, specification.ByID{ID: req.DealId})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "fetch deal", err)
	}
	if deal == nil {
		return nil, apperror.NotFound("deal")
	}

	note := entity.DealNote{
		Id:        uuid.New(),
		Content:   req.Content,
		Author:    req.Author,
		CreatedAt: time.Now(),
	}
	deal.Notes = append(deal.Notes, note)

	if err := uow.DealRepository().UpdateNotes(ctx, req.DealId, deal.Notes); err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "store deal note", err)
	}

	return toDealNoteResponse(&note), nil
}

func (s *dealService) UpdateNote(ctx context.Context, req *dto.UpdateDealNoteRequest) (*dto.DealNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	deal, err := uow.DealRepository().FindOne(ctx, specification.ByID{ID: req.DealId})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "fetch deal", err)
	}
	if deal == nil {
		return nil, apperror.NotFound("deal")
	}

	now := time.Now()
	var updated *entity.DealNote
	for i := range deal.Notes {
		if deal.Notes[i].Id == req.NoteId && !deal.Notes[i].Deleted() {
			deal.Notes[i].Content = req.Content
			deal.Notes[i].UpdatedAt = &now
			updated = &deal.Notes[i]
			break
		}
	}
	if updated == nil {
		return nil, apperror.NotFound("note")
	}

	if err := uow.DealRepository().UpdateNotes(ctx, req.DealId, deal.Notes); err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "store deal note", err)
	}

	return toDealNoteResponse(updated), nil
}

func (s *dealService) DeleteNote(ctx context.Context, dealId, noteId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	deal, err := uow.DealRepository().FindOne(ctx, specification.ByID{ID: dealId})
	if err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "fetch deal", err)
	}
	if deal == nil {
		return apperror.NotFound("deal")
	}

	now := time.Now()
	found := false
	for i := range deal.Notes {
		if deal.Notes[i].Id == noteId && !deal.Notes[i].Deleted() {
			deal.Notes[i].DeletedAt = &now
			found = true
			break
		}
	}
	if !found {
		return apperror.NotFound("note")
	}

	if err := uow.DealRepository().UpdateNotes(ctx, dealId, deal.Notes); err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "store deal note", err)
	}
	return nil
}

func (s *dealService) AddAttachment(ctx context.Context, req *dto.AddDealAttachmentRequest) (*dto.DealAttachmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	deal, err := uow.DealRepository().FindOne(ctx, specification.ByID{ID: req.DealId})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "fetch deal", err)
	}
	if deal == nil {
		return nil, apperror.NotFound("deal")
	}

	attachment := entity.DealAttachment{
		Id:         uuid.New(),
		Name:       req.Name,
		URL:        req.URL,
		Size:       req.Size,
		Type:       req.Type,
		UploadedAt: time.Now(),
	}
	deal.Attachments = append(deal.Attachments, attachment)

	if err := uow.DealRepository().UpdateAttachments(ctx, req.DealId, deal.Attachments); err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "store deal attachment", err)
	}

	return toDealAttachmentResponse(&attachment), nil
}

func (s *dealService) DeleteAttachment(ctx context.Context, dealId, attachmentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	deal, err := uow.DealRepository().FindOne(ctx, specification.ByID{ID: dealId})
	if err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "fetch deal", err)
	}
	if deal == nil {
		return apperror.NotFound("deal")
	}

	remaining := make([]entity.DealAttachment, 0, len(deal.Attachments))
	found := false
	for _, attachment := range deal.Attachments {
		if attachment.Id == attachmentId {
			found = true
			continue
		}
		remaining = append(remaining, attachment)
	}
	if !found {
		return apperror.NotFound("attachment")
	}

	if err := uow.DealRepository().UpdateAttachments(ctx, dealId, remaining); err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "store deal attachments", err)
	}
	return nil
}

// enqueueAnalysis schedules a background signal re-analysis. Failure to
// enqueue is logged, never surfaced: the user action already succeeded.
func (s *dealService) enqueueAnalysis(ctx context.Context, dealId uuid.UUID) {
	if s.publisherService == nil {
		return
	}
	payload, _ := json.Marshal(dto.AnalyzeDealMessage{DealId: dealId})
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("deal_service", "failed to enqueue signal analysis", map[string]interface{}{
			"deal_id": dealId.String(),
			"error":   err.Error(),
		})
	}
}

func toDealResponse(deal *entity.Deal, contact *entity.Contact) *dto.DealResponse {
	res := &dto.DealResponse{
		Id:              deal.Id,
		Name:            deal.Name,
		UseCase:         deal.UseCase,
		Stage:           string(deal.Stage),
		Signal:          string(deal.Signal),
		SignalRationale: deal.SignalRationale,
		Description:     deal.Description,
		SortOrder:       deal.SortOrder,
		Notes:           []*dto.DealNoteResponse{},
		Attachments:     []*dto.DealAttachmentResponse{},
		CreatedAt:       deal.CreatedAt,
		UpdatedAt:       deal.UpdatedAt,
	}

	if contact != nil {
		res.Contact = &dto.DealContactSummary{
			Id:      contact.Id,
			Name:    contact.FullName(),
			Email:   contact.Email,
			Company: contact.Company,
		}
	}

	for _, note := range deal.ActiveNotes() {
		n := note
		res.Notes = append(res.Notes, toDealNoteResponse(&n))
	}
	for _, attachment := range deal.Attachments {
		a := attachment
		res.Attachments = append(res.Attachments, toDealAttachmentResponse(&a))
	}

	return res
}

func toDealNoteResponse(note *entity.DealNote) *dto.DealNoteResponse {
	return &dto.DealNoteResponse{
		Id:        note.Id,
		Content:   note.Content,
		Author:    note.Author,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

func toDealAttachmentResponse(attachment *entity.DealAttachment) *dto.DealAttachmentResponse {
	return &dto.DealAttachmentResponse{
		Id:         attachment.Id,
		Name:       attachment.Name,
		URL:        attachment.URL,
		Size:       attachment.Size,
		Type:       attachment.Type,
		UploadedAt: attachment.UploadedAt,
	}
}
