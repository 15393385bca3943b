// Package domain 通知的领域模型
package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// NotificationChannel 通知渠道
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "EMAIL"
	ChannelSMS   NotificationChannel = "SMS"
)

// NotificationStatus 通知状态
type NotificationStatus string

const (
	StatusPending NotificationStatus = "PENDING"
	StatusSent    NotificationStatus = "SENT"
	StatusFailed  NotificationStatus = "FAILED"
)

// ErrUnsupportedChannel 不支持的通知渠道
var ErrUnsupportedChannel = errors.New("unsupported notification channel")

// Notification 通知实体
type Notification struct {
	gorm.Model     `json:"-"`
	NotificationID string              `gorm:"column:notification_id;type:varchar(36);uniqueIndex;not null" json:"notification_id"`
	UserID         string              `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	Channel        NotificationChannel `gorm:"column:channel;type:varchar(16);not null" json:"channel"`
	Subject        string              `gorm:"column:subject;type:varchar(255)" json:"subject"`
	Content        string              `gorm:"column:content;type:text" json:"content"`
	Target         string              `gorm:"column:target;type:varchar(255);not null" json:"target"`
	Status         NotificationStatus  `gorm:"column:status;type:varchar(16);index;not null;default:'PENDING'" json:"status"`
	ErrorMessage   string              `gorm:"column:error_message;type:text" json:"error_message,omitempty"`
	SentAt         *time.Time          `gorm:"column:sent_at" json:"sent_at,omitempty"`
}

func (Notification) TableName() string { return "notifications" }

// Sender 渠道发送器
type Sender interface {
	Send(ctx context.Context, target, subject, content string) error
}

// NotificationRepository 通知仓储接口
type NotificationRepository interface {
	Save(ctx context.Context, notification *Notification) error
	ListByUserID(ctx context.Context, userID string, offset, limit int) ([]Notification, int64, error)
}
