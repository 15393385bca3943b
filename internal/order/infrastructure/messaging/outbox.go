// Package messaging 实现订单事件的 Outbox 模式：
// 事件与业务写入同一事务落库，由后台 relay 投递到 Kafka
package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wyfcoding/pharmadelivery/internal/order/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/logger"
	"github.com/wyfcoding/pharmadelivery/pkg/mq"
)

const (
	statusPending = "pending"
	statusSent    = "sent"
)

// OutboxMessage 待投递事件
type OutboxMessage struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Topic     string    `gorm:"type:varchar(100);index"`
	Key       string    `gorm:"column:msg_key;type:varchar(100)"`
	Payload   string    `gorm:"type:text"`
	Status    string    `gorm:"type:varchar(20);index;default:'pending'"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (OutboxMessage) TableName() string { return "order_outbox_messages" }

// Outbox 实现 domain.EventOutbox
type Outbox struct {
	db *gorm.DB
}

func NewOutbox(db *gorm.DB) *Outbox {
	return &Outbox{db: db}
}

var _ domain.EventOutbox = (*Outbox)(nil)

// EnqueueInTx 在调用方事务中写入事件记录
func (o *Outbox) EnqueueInTx(tx *gorm.DB, topic, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := OutboxMessage{
		ID:      uuid.New().String(),
		Topic:   topic,
		Key:     key,
		Payload: string(payload),
		Status:  statusPending,
	}
	return tx.Create(&msg).Error
}

// Relay 投递一批待处理事件，返回投递条数
func (o *Outbox) Relay(ctx context.Context, producer *mq.KafkaProducer, batchSize int) (int, error) {
	var messages []OutboxMessage
	if err := o.db.WithContext(ctx).
		Where("status = ?", statusPending).
		Order("created_at").
		Limit(batchSize).
		Find(&messages).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, msg := range messages {
		if err := producer.SendRaw(ctx, msg.Topic, msg.Key, []byte(msg.Payload)); err != nil {
			// 投递失败保持 pending，下一轮重试
			logger.Warn(ctx, "outbox relay failed", "topic", msg.Topic, "message_id", msg.ID, "error", err)
			continue
		}
		if err := o.db.WithContext(ctx).Model(&OutboxMessage{}).
			Where("id = ?", msg.ID).
			Update("status", statusSent).Error; err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// RunRelay 周期性投递循环，直到 ctx 取消
func (o *Outbox) RunRelay(ctx context.Context, producer *mq.KafkaProducer, interval time.Duration, batchSize int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := o.Relay(ctx, producer, batchSize); err != nil {
				logger.Error(ctx, "outbox relay round failed", "error", err)
			}
		}
	}
}

// Cleanup 清理已投递的历史记录
func (o *Outbox) Cleanup(ctx context.Context, before time.Time) error {
	return o.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", statusSent, before).
		Delete(&OutboxMessage{}).Error
}
