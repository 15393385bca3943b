// Package messaging 处方事件的 Kafka 发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/pharmadelivery/internal/prescription/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/mq"
)

type kafkaPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaPublisher 创建基于 Kafka 的处方事件发布者
func NewKafkaPublisher(producer *mq.KafkaProducer) domain.EventPublisher {
	return &kafkaPublisher{producer: producer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	return p.producer.SendMessage(ctx, topic, key, event)
}
