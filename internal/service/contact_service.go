package service

import (
	"context"
	"time"

	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/apperror"
	"ai-crm-be/internal/repository/specification"
	"ai-crm-be/internal/repository/unitofwork"
	"ai-crm-be/pkg/events"
	pkgnats "ai-crm-be/pkg/nats"

	"github.com/google/uuid"
)

const defaultPageSize = 50

type IContactService interface {
	Create(ctx context.Context, req *dto.CreateContactRequest) (*dto.CreateContactResponse, error)
	Update(ctx context.Context, req *dto.UpdateContactRequest) (*dto.UpdateContactResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Show(ctx context.Context, id uuid.UUID) (*dto.ContactResponse, error)
	List(ctx context.Context, req *dto.ListContactsRequest) (*dto.ListContactsResponse, error)
}

type contactService struct {
	uowFactory unitofwork.RepositoryFactory
	natsPub    *pkgnats.Publisher
}

func NewContactService(uowFactory unitofwork.RepositoryFactory, natsPub *pkgnats.Publisher) IContactService {
	return &contactService{
		uowFactory: uowFactory,
		natsPub:    natsPub,
	}
}

func (s *contactService) Create(ctx context.Context, req *dto.CreateContactRequest) (*dto.CreateContactResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	contact := entity.Contact{
		Id:                 uuid.New(),
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              req.Phone,
		Company:            req.Company,
		Position:           req.Position,
		Status:             entity.ContactStatusActive,
		Tags:               req.Tags,
		Address:            req.Address,
		Linkedin:           req.Linkedin,
		AcquisitionChannel: req.AcquisitionChannel,
		CreatedAt:          time.Now(),
	}

	if err := uow.ContactRepository().Create(ctx, &contact); err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "create contact", err)
	}

	if s.natsPub != nil {
		// Best effort; the contact is already committed.
		_ = s.natsPub.Publish(ctx, events.NewContactCreated(contact.Id.String()))
	}

	return &dto.CreateContactResponse{Id: contact.Id}, nil
}

func (s *contactService) Update(ctx context.Context, req *dto.UpdateContactRequest) (*dto.UpdateContactResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	contact, err := uow.ContactRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "fetch contact", err)
	}
	if contact == nil {
		return nil, apperror.NotFound("contact")
	}

	now := time.Now()
	contact.FirstName = req.FirstName
	contact.LastName = req.LastName
	contact.Email = req.Email
	contact.Phone = req.Phone
	contact.Company = req.Company
	contact.Position = req.Position
	if req.Status != "" {
		contact.Status = entity.ContactStatus(req.Status)
	}
	contact.Tags = req.Tags
	contact.Address = req.Address
	contact.Linkedin = req.Linkedin
	contact.AcquisitionChannel = req.AcquisitionChannel
	contact.UpdatedAt = &now

	if err := uow.ContactRepository().Update(ctx, contact); err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "update contact", err)
	}

	return &dto.UpdateContactResponse{Id: contact.Id}, nil
}

func (s *contactService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	contact, err := uow.ContactRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "fetch contact", err)
	}
	if contact == nil {
		return apperror.NotFound("contact")
	}

	// Deals keep their rows; the FK nulls contact_id on delete.
	if err := uow.ContactRepository().Delete(ctx, id); err != nil {
		return apperror.Wrap(apperror.KindDataAccess, "delete contact", err)
	}

	return nil
}

func (s *contactService) Show(ctx context.Context, id uuid.UUID) (*dto.ContactResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	contact, err := uow.ContactRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "fetch contact", err)
	}
	if contact == nil {
		return nil, apperror.NotFound("contact")
	}

	return toContactResponse(contact), nil
}

func (s *contactService) List(ctx context.Context, req *dto.ListContactsRequest) (*dto.ListContactsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 200 {
		limit = defaultPageSize
	}

	filters := []specification.Specification{}
	if req.Search != "" {
		filters = append(filters, specification.ContactSearch{Query: req.Search})
	}
	if req.Status != "" {
		filters = append(filters, specification.FilterBy{Field: "status", Value: req.Status})
	}

	total, err := uow.ContactRepository().Count(ctx, filters...)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "count contacts", err)
	}

	specs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	contacts, err := uow.ContactRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindDataAccess, "list contacts", err)
	}

	result := make([]*dto.ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		result = append(result, toContactResponse(contact))
	}

	return &dto.ListContactsResponse{
		Contacts: result,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func toContactResponse(contact *entity.Contact) *dto.ContactResponse {
	return &dto.ContactResponse{
		Id:                 contact.Id,
		FirstName:          contact.FirstName,
		LastName:           contact.LastName,
		Email:              contact.Email,
		Phone:              contact.Phone,
		Company:            contact.Company,
		Position:           contact.Position,
		Status:             string(contact.Status),
		Tags:               contact.Tags,
		Address:            contact.Address,
		Linkedin:           contact.Linkedin,
		AcquisitionChannel: contact.AcquisitionChannel,
		CreatedAt:          contact.CreatedAt,
		UpdatedAt:          contact.UpdatedAt,
	}
}
