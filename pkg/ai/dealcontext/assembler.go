package dealcontext

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/apperror"
	"ai-crm-be/internal/repository/specification"
	"ai-crm-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// ActivityLimit bounds how much history goes into one context document.
	ActivityLimit = 20

	transcriptPreviewLen = 500

	notProvided = "Not provided"
	dateLayout  = "Jan 2, 2006"
)

// Assembler builds the bounded plain-text context document for one deal. The
// document is rebuilt on every call and never cached: a stale context would
// silently feed outdated history into the analysis.
type Assembler struct {
	uowFactory unitofwork.RepositoryFactory
	now        func() time.Time
}

func NewAssembler(uowFactory unitofwork.RepositoryFactory) *Assembler {
	return &Assembler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Tests use this to pin derived metrics.
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Build assembles the context document for dealId.
//
// The deal row is fetched first (the contact id lives on it); the contact and
// the activity history are then fetched concurrently. Any single read failure
// fails the whole assembly - a partial context is worse than no context.
func (a *Assembler) Build(ctx context.Context, dealId uuid.UUID) (string, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)

	deal, err := uow.DealRepository().FindOne(ctx, specification.ByID{ID: dealId})
	if err != nil {
		return "", apperror.Wrap(apperror.KindDataAccess, "fetch deal", err)
	}
	if deal == nil {
		return "", apperror.NotFound("deal")
	}

	var (
		contact    *entity.Contact
		activities []*entity.Activity
	)

	g, gctx := errgroup.WithContext(ctx)
	if deal.ContactId != nil {
		contactId := *deal.ContactId
		g.Go(func() error {
			c, err := uow.ContactRepository().FindOne(gctx, specification.ByID{ID: contactId})
			if err != nil {
				return apperror.Wrap(apperror.KindDataAccess, "fetch contact", err)
			}
			contact = c
			return nil
		})
	}
	g.Go(func() error {
		acts, err := uow.ActivityRepository().FindAll(gctx,
			specification.ByDealID{DealID: dealId},
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.Limit{N: ActivityLimit},
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

	return a.render(deal, contact, activities), nil
}

func (a *Assembler) render(deal *entity.Deal, contact *entity.Contact, activities []*entity.Activity) string {
	now := a.now()

	dealAge := daysBetween(deal.CreatedAt, now)
	stageAge := daysBetween(deal.UpdatedAt, now)

	var daysSinceLastActivity *int
	if len(activities) > 0 {
		d := daysBetween(activities[0].CreatedAt, now)
		daysSinceLastActivity = &d
	}

	parts := []string{
		"=== DEAL INFORMATION ===",
		"Deal Name: " + deal.Name,
		"Stage: " + string(deal.Stage),
		"Signal: " + string(deal.Signal),
		"Use Case: " + orDefault(deal.UseCase, "Not specified"),
		"Description: " + orDefault(deal.Description, "No description"),
		fmt.Sprintf("Deal Age: %d days", dealAge),
		fmt.Sprintf("Days in Current Stage: %d days", stageAge),
	}
	if daysSinceLastActivity != nil {
		parts = append(parts, fmt.Sprintf("Days Since Last Activity: %d days", *daysSinceLastActivity))
	}
	parts = append(parts,
		"Created: "+deal.CreatedAt.Format(dateLayout),
		"Last Updated: "+deal.UpdatedAt.Format(dateLayout),
	)

	parts = append(parts, "=== CONTACT INFORMATION ===")
	parts = append(parts, contactLines(contact)...)

	parts = append(parts, fmt.Sprintf("=== DEAL ACTIVITIES (%d) ===", len(activities)))
	if len(activities) == 0 {
		parts = append(parts, "No activities recorded yet.")
	}
	for _, activity := range activities {
		parts = append(parts, fmt.Sprintf("\n[%s] %s",
			strings.ToUpper(string(activity.Type)), activity.CreatedAt.Format(dateLayout)))
		parts = append(parts, "Title: "+orDefault(activity.Title, "No title"))
		if activity.Description != nil && *activity.Description != "" {
			parts = append(parts, "Description: "+*activity.Description)
		}
		if activity.Transcript != nil && *activity.Transcript != "" {
			parts = append(parts, "Transcript: "+truncate(*activity.Transcript, transcriptPreviewLen)+"...")
		}
		if activity.TranscriptSummary != nil && *activity.TranscriptSummary != "" {
			parts = append(parts, "Summary: "+*activity.TranscriptSummary)
		}
	}

	notes := deal.ActiveNotes()
	parts = append(parts, fmt.Sprintf("=== DEAL NOTES (%d) ===", len(notes)))
	if len(notes) == 0 {
		parts = append(parts, "No notes recorded yet.")
	}
	for _, note := range notes {
		parts = append(parts, "\n["+note.CreatedAt.Format(dateLayout)+"]")
		parts = append(parts, note.Content)
	}

	return strings.Join(parts, "\n")
}

func contactLines(contact *entity.Contact) []string {
	if contact == nil {
		return []string{
			"Name: " + notProvided,
			"Company: " + notProvided,
			"Position: " + notProvided,
			"Email: " + notProvided,
			"Phone: " + notProvided,
		}
	}
	return []string{
		"Name: " + orDefault(contact.FullName(), notProvided),
		"Company: " + orPtrDefault(contact.Company, notProvided),
		"Position: " + orPtrDefault(contact.Position, notProvided),
		"Email: " + orDefault(contact.Email, notProvided),
		"Phone: " + orPtrDefault(contact.Phone, notProvided),
	}
}

// daysBetween floors to whole days and never goes negative (clock skew between
// app and DB timestamps would otherwise produce a nonsense "-1 days").
func daysBetween(from, to time.Time) int {
	d := int(to.Sub(from).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func orPtrDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
