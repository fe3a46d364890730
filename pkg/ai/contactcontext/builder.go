package contactcontext

import (
	"context"
	"fmt"
	"strings"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/apperror"
	"ai-crm-be/internal/repository/specification"
	"ai-crm-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	activityLimit  = 20
	activityRender = 10
	notProvided    = "Not provided"
	dateLayout     = "Jan 2, 2006"
)

// Builder produces the compact context document used by the contact-analysis
// prompts. Unlike the deal context there is no parent row to resolve first, so
// all three reads run concurrently.
type Builder struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewBuilder(uowFactory unitofwork.RepositoryFactory) *Builder {
	return &Builder{uowFactory: uowFactory}
}

func (b *Builder) Build(ctx context.Context, contactId uuid.UUID) (string, error) {
	uow := b.uowFactory.NewUnitOfWork(ctx)

	var (
		contact    *entity.Contact
		deals      []*entity.Deal
		activities []*entity.Activity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := uow.ContactRepository().FindOne(gctx, specification.ByID{ID: contactId})
		if err != nil {
			return apperror.Wrap(apperror.KindDataAccess, "fetch contact", err)
		}
		contact = c
		return nil
	})
	g.Go(func() error {
		ds, err := uow.DealRepository().FindAll(gctx,
			specification.ByContactID{ContactID: contactId},
			specification.OrderBy{Field: "created_at", Desc: true},
		)
		if err != nil {
			return apperror.Wrap(apperror.KindDataAccess, "fetch deals", err)
		}
		deals = ds
		return nil
	})
	g.Go(func() error {
		acts, err := uow.ActivityRepository().FindAll(gctx,
			specification.ByContactID{ContactID: contactId},
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.Limit{N: activityLimit},
		)
		if err != nil {
			return apperror.Wrap(apperror.KindDataAccess, "fetch activities", err)
		}
		activities = acts
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}
	if contact == nil {
		return "", apperror.NotFound("contact")
	}

	return render(contact, deals, activities), nil
}

func render(contact *entity.Contact, deals []*entity.Deal, activities []*entity.Activity) string {
	parts := []string{
		"Contact: " + contact.FullName(),
		"Email: " + orDefault(contact.Email),
		"Phone: " + orPtrDefault(contact.Phone),
		"Company: " + orPtrDefault(contact.Company),
		"",
		fmt.Sprintf("Deals (%d):", len(deals)),
	}
	for _, deal := range deals {
		parts = append(parts, fmt.Sprintf("- %s: %s (%s)", deal.Name, deal.UseCase, deal.Stage))
	}

	parts = append(parts, "", fmt.Sprintf("Recent Activities (%d):", len(activities)))
	shown := activities
	if len(shown) > activityRender {
		shown = shown[:activityRender]
	}
	for _, activity := range shown {
		desc := "No description"
		if activity.Description != nil && *activity.Description != "" {
			desc = *activity.Description
		}
		parts = append(parts, fmt.Sprintf("- [%s] %s: %s",
			activity.Type, activity.CreatedAt.Format(dateLayout), desc))
	}

	return strings.Join(parts, "\n")
}

func orDefault(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}

func orPtrDefault(s *string) string {
	if s == nil || *s == "" {
		return notProvided
	}
	return *s
}
