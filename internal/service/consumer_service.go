package service

import (
	"context"
	"encoding/json"

	"multikb-rag-be/internal/dto"
	"multikb-rag-be/internal/model"
	"multikb-rag-be/internal/pkg/logger"
	"multikb-rag-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains ingestion audit events into the system log.
// Ingestion never waits on it.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		log:        log,
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
	var event dto.DocumentIngestedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.log.Error("consumer", "failed to unmarshal ingest event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads never become valid, drop them
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	details, _ := json.Marshal(event)
	err := uow.SystemLogRepository().Create(ctx, &model.SystemLog{
		EventType: dto.TopicDocumentIngested,
		Details:   details,
	})
	if err != nil {
		cs.log.Error("consumer", "failed to persist ingest audit log", map[string]interface{}{
			"error":     err.Error(),
			"kb_name":   event.KbName,
			"file_name": event.FileName,
		})
		msg.Nack()
		return
	}

	cs.log.Info("consumer", "document ingest audited", map[string]interface{}{
		"kb_name":     event.KbName,
		"file_name":   event.FileName,
		"chunk_count": event.ChunkCount,
	})
	msg.Ack()
}
