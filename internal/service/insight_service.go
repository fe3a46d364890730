package service

import (
	"context"
	"errors"
	"strings"

	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/pkg/apperror"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/pkg/ai/contactcontext"
	"ai-crm-be/pkg/ai/dealcontext"
	"ai-crm-be/pkg/ai/prompt"
	"ai-crm-be/pkg/ai/signal"
	"ai-crm-be/pkg/cache"
	"ai-crm-be/pkg/llm"

	"github.com/google/uuid"
)

// Contact analysis types. Each maps to one prompt builder and one cache slot.
const (
	AnalysisRelationshipHealth = "relationship_health"
	AnalysisNextAction         = "next_action"
	AnalysisContextualResearch = "contextual_research"
)

type IInsightService interface {
	AnalyzeDealSignal(ctx context.Context, dealId uuid.UUID) (*dto.AnalyzeSignalResponse, error)
	AnalyzeContact(ctx context.Context, contactId uuid.UUID, analysisType string) (*dto.ContactAnalysisResponse, error)
	DealChat(ctx context.Context, dealId uuid.UUID, req *dto.DealChatRequest) (*dto.DealChatResponse, error)
	AnalyzeCall(ctx context.Context, req *dto.CallAnalysisRequest) (*dto.CallAnalysisResponse, error)
}

type insightService struct {
	analyzer       *signal.Analyzer
	dealAssembler  *dealcontext.Assembler
	contactBuilder *contactcontext.Builder
	provider       llm.Provider
	cacheStore     cache.Store
	logger         logger.ILogger
}

func NewInsightService(
	analyzer *signal.Analyzer,
	dealAssembler *dealcontext.Assembler,
	contactBuilder *contactcontext.Builder,
	provider llm.Provider,
	cacheStore cache.Store,
	log logger.ILogger,
) IInsightService {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &insightService{
		analyzer:       analyzer,
		dealAssembler:  dealAssembler,
		contactBuilder: contactBuilder,
		provider:       provider,
		cacheStore:     cacheStore,
		logger:         log,
	}
}

// AnalyzeDealSignal runs the pipeline synchronously for the on-demand
// "re-analyze" button. A persistence failure still returns the verdict,
// flagged as not persisted.
func (s *insightService) AnalyzeDealSignal(ctx context.Context, dealId uuid.UUID) (*dto.AnalyzeSignalResponse, error) {
	verdict, err := s.analyzer.AnalyzeAndUpdate(ctx, dealId)
	if err != nil {
		var persistErr *signal.PersistError
		if errors.As(err, &persistErr) {
			return &dto.AnalyzeSignalResponse{
				DealId:    dealId,
				Signal:    string(persistErr.Verdict.Signal),
				Rationale: persistErr.Verdict.Rationale,
				Persisted: false,
			}, nil
		}
		return nil, err
	}

	return &dto.AnalyzeSignalResponse{
		DealId:    dealId,
		Signal:    string(verdict.Signal),
		Rationale: verdict.Rationale,
		Persisted: true,
	}, nil
}

// normalizeAnalysisType folds the short hyphenated aliases the dashboard
// sends (relationship, next-action, contextual-research) onto the canonical
// type names, so both spellings share one cache slot.
func normalizeAnalysisType(analysisType string) string {
	switch strings.ReplaceAll(analysisType, "-", "_") {
	case "relationship", AnalysisRelationshipHealth:
		return AnalysisRelationshipHealth
	case AnalysisNextAction:
		return AnalysisNextAction
	case AnalysisContextualResearch:
		return AnalysisContextualResearch
	}
	return analysisType
}

func (s *insightService) AnalyzeContact(ctx context.Context, contactId uuid.UUID, analysisType string) (*dto.ContactAnalysisResponse, error) {
	analysisType = normalizeAnalysisType(analysisType)

	var buildPrompt func(string) string
	switch analysisType {
	case AnalysisRelationshipHealth:
		buildPrompt = prompt.BuildRelationshipHealthPrompt
	case AnalysisNextAction:
		buildPrompt = prompt.BuildNextActionPrompt
	case AnalysisContextualResearch:
		buildPrompt = prompt.BuildContextualResearchPrompt
	default:
		return nil, apperror.New(apperror.KindValidation, "unknown analysis type")
	}

	key := cache.Key(contactId.String(), analysisType)
	if cached, ok := s.cacheStore.Get(ctx, key); ok {
		return &dto.ContactAnalysisResponse{
			ContactId:    contactId.String(),
			AnalysisType: analysisType,
			Analysis:     cached,
			Cached:       true,
		}, nil
	}

	doc, err := s.contactBuilder.Build(ctx, contactId)
	if err != nil {
		return nil, err
	}

	analysis, err := s.provider.Complete(ctx, prompt.SystemPrompt, buildPrompt(doc))
	if err != nil {
		return nil, classifyCompletion(err)
	}

	s.cacheStore.Set(ctx, key, analysis, cache.DefaultTTL)

	return &dto.ContactAnalysisResponse{
		ContactId:    contactId.String(),
		AnalysisType: analysisType,
		Analysis:     analysis,
		Cached:       false,
	}, nil
}

// DealChat is never cached; every question deserves fresh context.
func (s *insightService) DealChat(ctx context.Context, dealId uuid.UUID, req *dto.DealChatRequest) (*dto.DealChatResponse, error) {
	doc, err := s.dealAssembler.Build(ctx, dealId)
	if err != nil {
		return nil, err
	}

	history := make([]prompt.ChatTurn, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, prompt.ChatTurn{Role: turn.Role, Content: turn.Content})
	}

	reply, err := s.provider.Complete(ctx,
		prompt.DealChatSystemPrompt,
		prompt.BuildDealChatPrompt(doc, history, req.Message),
	)
	if err != nil {
		return nil, classifyCompletion(err)
	}

	return &dto.DealChatResponse{Reply: reply}, nil
}

func (s *insightService) AnalyzeCall(ctx context.Context, req *dto.CallAnalysisRequest) (*dto.CallAnalysisResponse, error) {
	analysis, err := s.provider.Complete(ctx,
		prompt.SystemPrompt,
		prompt.BuildCallAnalysisPrompt(req.Transcript, req.Summary),
	)
	if err != nil {
		return nil, classifyCompletion(err)
	}

	return &dto.CallAnalysisResponse{Analysis: analysis}, nil
}

func classifyCompletion(err error) error {
	switch {
	case errors.Is(err, llm.ErrAuth):
		return apperror.Wrap(apperror.KindCompletionAuth, "completion rejected", err)
	case errors.Is(err, llm.ErrQuota):
		return apperror.Wrap(apperror.KindCompletionQuota, "completion quota exhausted", err)
	case errors.Is(err, llm.ErrEmptyResponse):
		return apperror.Wrap(apperror.KindCompletionEmpty, "completion returned nothing", err)
	default:
		return apperror.Wrap(apperror.KindCompletionNetwork, "completion failed", err)
	}
}
