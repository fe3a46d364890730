package service

import (
	"context"
	"encoding/json"
	"errors"

	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/pkg/apperror"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/internal/repository/specification"
	"ai-crm-be/internal/repository/unitofwork"
	"ai-crm-be/pkg/ai/signal"
	"ai-crm-be/pkg/cache"
	"ai-crm-be/pkg/events"
	pkgnats "ai-crm-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process analysis queue. Stage moves and logged
// activities enqueue here so the model call never blocks the request path.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	analyzer   *signal.Analyzer
	uowFactory unitofwork.RepositoryFactory
	cacheStore cache.Store
	natsPub    *pkgnats.Publisher
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	analyzer *signal.Analyzer,
	uowFactory unitofwork.RepositoryFactory,
	cacheStore cache.Store,
	natsPub *pkgnats.Publisher,
	log logger.ILogger,
) IConsumerService {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		analyzer:   analyzer,
		uowFactory: uowFactory,
		cacheStore: cacheStore,
		natsPub:    natsPub,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.AnalyzeDealMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("analysis_consumer", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads would retry forever
		return
	}

	verdict, err := cs.analyzer.AnalyzeAndUpdate(ctx, payload.DealId)
	if err != nil {
		// Deal deleted between enqueue and processing. Nothing to retry.
		if apperror.IsKind(err, apperror.KindNotFound) {
			msg.Ack()
			return
		}

		var persistErr *signal.PersistError
		if errors.As(err, &persistErr) {
			cs.logger.Error("analysis_consumer", "verdict lost, retrying", map[string]interface{}{
				"deal_id": payload.DealId.String(),
				"error":   err.Error(),
			})
			msg.Nack()
			return
		}

		cs.logger.Error("analysis_consumer", "analysis failed", map[string]interface{}{
			"deal_id": payload.DealId.String(),
			"error":   err.Error(),
		})
		msg.Nack() // completion failures are transient, retry
		return
	}

	cs.invalidateContactAnalyses(ctx, payload.DealId)

	if cs.natsPub != nil {
		event := events.NewDealSignalUpdated(payload.DealId.String(), string(verdict.Signal))
		if err := cs.natsPub.Publish(ctx, event); err != nil {
			cs.logger.Warn("analysis_consumer", "failed to publish signal event", map[string]interface{}{
				"deal_id": payload.DealId.String(),
				"error":   err.Error(),
			})
		}
	}

	msg.Ack()
}

// invalidateContactAnalyses drops the cached contact analyses tied to the
// deal's contact. A fresh verdict makes any five minute old relationship
// read-out stale.
func (cs *consumerService) invalidateContactAnalyses(ctx context.Context, dealId uuid.UUID) {
	if cs.cacheStore == nil || cs.uowFactory == nil {
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	deal, err := uow.DealRepository().FindOne(ctx, specification.ByID{ID: dealId})
	if err != nil || deal == nil || deal.ContactId == nil {
		return
	}

	contactId := deal.ContactId.String()
	for _, analysisType := range []string{AnalysisRelationshipHealth, AnalysisNextAction, AnalysisContextualResearch} {
		cs.cacheStore.Delete(ctx, cache.Key(contactId, analysisType))
	}
}
