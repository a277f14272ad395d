// FILE: internal/service/usage_consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"sync"

	"marketmind-be/internal/dto"
	"marketmind-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IUsageConsumerService drains the usage topic in the background and keeps
// per-user exchange counters, surfaced through the structured log.
type IUsageConsumerService interface {
	Consume(ctx context.Context) error
}

type usageConsumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	log       logger.ILogger

	mu        sync.Mutex
	exchanges map[string]int
}

func NewUsageConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	log logger.ILogger,
) IUsageConsumerService {
	return &usageConsumerService{
		pubSub:    pubSub,
		topicName: topicName,
		log:       log,
		exchanges: make(map[string]int),
	}
}

func (cs *usageConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *usageConsumerService) processMessage(msg *message.Message) {
	var payload dto.ChatCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Warn("usage", "failed to unmarshal usage message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads are not retriable
		return
	}

	cs.mu.Lock()
	cs.exchanges[payload.UserId]++
	total := cs.exchanges[payload.UserId]
	cs.mu.Unlock()

	cs.log.Info("usage", "chat exchange recorded", map[string]interface{}{
		"user_id":     payload.UserId,
		"exchanges":   total,
		"history_len": payload.MessageCount,
	})
	msg.Ack()
}
