package signal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-crm-be/internal/pkg/apperror"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/internal/repository/contract"
	"ai-crm-be/internal/repository/unitofwork"
	"ai-crm-be/pkg/ai/dealcontext"
	"ai-crm-be/pkg/ai/prompt"
	"ai-crm-be/pkg/llm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// Low temperature keeps the classification reproducible; the token cap
	// bounds the rationale, not the analysis depth.
	analysisTemperature = 0.3
	analysisMaxTokens   = 800
)

// PersistError reports a verdict that was computed but could not be written.
// The caller still gets the verdict: the completion already cost a model call
// and the result is presentable even if the deal row kept its old signal.
type PersistError struct {
	Verdict Verdict
	err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist signal verdict: %v", e.err)
}

func (e *PersistError) Unwrap() error { return e.err }

// Analyzer runs the full signal inference pipeline for one deal: assemble
// context, call the model, parse the verdict, persist it.
type Analyzer struct {
	assembler  *dealcontext.Assembler
	provider   llm.Provider
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	now        func() time.Time
}

func NewAnalyzer(
	assembler *dealcontext.Assembler,
	provider llm.Provider,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) *Analyzer {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Analyzer{
		assembler:  assembler,
		provider:   provider,
		uowFactory: uowFactory,
		logger:     log,
		now:        time.Now,
	}
}

// WithClock overrides the time source used for the persisted updated_at.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// AnalyzeAndUpdate assembles the deal's context, asks the model for a signal
// verdict and writes it back to the deal row.
//
// A missing deal fails before any model call is made. Completion failures are
// returned classified (auth, quota, network, empty) and nothing is persisted.
// Parse failures never surface: the three-tier parser always yields a verdict,
// degraded tiers are logged. A persistence failure returns *PersistError so
// the caller can still show the computed verdict.
func (a *Analyzer) AnalyzeAndUpdate(ctx context.Context, dealId uuid.UUID) (Verdict, error) {
	doc, err := a.assembler.Build(ctx, dealId)
	if err != nil {
		return Verdict{}, err
	}

	raw, err := a.provider.Complete(ctx,
		prompt.SignalSystemPrompt,
		prompt.BuildSignalPrompt(doc),
		llm.WithTemperature(analysisTemperature),
		llm.WithMaxTokens(analysisMaxTokens),
	)
	if err != nil {
		return Verdict{}, classifyCompletion(err)
	}

	result := Parse(raw)
	if result.Tier != TierStrict {
		a.logger.Warn("signal_analyzer", "model response degraded below strict parse", map[string]interface{}{
			"deal_id": dealId.String(),
			"tier":    result.Tier.String(),
			"signal":  string(result.Verdict.Signal),
		})
	}

	uow := a.uowFactory.NewUnitOfWork(ctx)
	err = uow.DealRepository().UpdateSignal(ctx, dealId, contract.SignalUpdate{
		Signal:          result.Verdict.Signal,
		SignalRationale: result.Verdict.Rationale,
		UpdatedAt:       a.now(),
	})
	if err != nil {
		// The deal can disappear between the context read and the write.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result.Verdict, apperror.NotFound("deal")
		}
		a.logger.Error("signal_analyzer", "verdict computed but not persisted", map[string]interface{}{
			"deal_id": dealId.String(),
			"error":   err.Error(),
		})
		return result.Verdict, &PersistError{
			Verdict: result.Verdict,
			err:     apperror.Wrap(apperror.KindPersist, "update deal signal", err),
		}
	}

	a.logger.Info("signal_analyzer", "deal signal updated", map[string]interface{}{
		"deal_id": dealId.String(),
		"signal":  string(result.Verdict.Signal),
		"tier":    result.Tier.String(),
	})
	return result.Verdict, nil
}

func classifyCompletion(err error) error {
	switch {
	case errors.Is(err, llm.ErrAuth):
		return apperror.Wrap(apperror.KindCompletionAuth, "completion rejected", err)
	case errors.Is(err, llm.ErrQuota):
		return apperror.Wrap(apperror.KindCompletionQuota, "completion quota exhausted", err)
	case errors.Is(err, llm.ErrEmptyResponse):
		return apperror.Wrap(apperror.KindCompletionEmpty, "completion returned nothing", err)
	case errors.Is(err, llm.ErrNetwork):
		return apperror.Wrap(apperror.KindCompletionNetwork, "completion transport failed", err)
	default:
		return apperror.Wrap(apperror.KindCompletionNetwork, "completion failed", err)
	}
}
