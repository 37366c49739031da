package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"multikb-rag-be/internal/dto"
	"multikb-rag-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerService_PersistsIngestAuditLog(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	factory := newFakeUowFactory()
	consumer := NewConsumerService(pubSub, "TEST_TOPIC", factory, logger.NewNopLogger())
	publisher := NewPublisherService("TEST_TOPIC", pubSub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	event := dto.DocumentIngestedEvent{
		KbName:     "acme",
		FileName:   "doc.txt",
		ChunkCount: 3,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, payload))

	require.Eventually(t, func() bool {
		return len(factory.uow.logRepo.logs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	logged := factory.uow.logRepo.logs[0]
	assert.Equal(t, dto.TopicDocumentIngested, logged.EventType)

	var stored dto.DocumentIngestedEvent
	require.NoError(t, json.Unmarshal(logged.Details, &stored))
	assert.Equal(t, "acme", stored.KbName)
	assert.Equal(t, 3, stored.ChunkCount)
}

func TestConsumerService_DropsMalformedPayloads(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	factory := newFakeUowFactory()
	consumer := NewConsumerService(pubSub, "TEST_TOPIC", factory, logger.NewNopLogger())
	publisher := NewPublisherService("TEST_TOPIC", pubSub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	require.NoError(t, publisher.Publish(ctx, []byte("{not json")))
	good, _ := json.Marshal(dto.DocumentIngestedEvent{KbName: "acme"})
	require.NoError(t, publisher.Publish(ctx, good))

	// The malformed message is acked and skipped; the good one lands
	require.Eventually(t, func() bool {
		return len(factory.uow.logRepo.logs) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
