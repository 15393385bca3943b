package domain

import (
	"context"
	"time"
)

// 处方事件主题
const (
	PrescriptionStatusChangedTopic = "prescription.status.changed"
)

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

// PrescriptionStatusChangedEvent 处方审核状态变更事件
type PrescriptionStatusChangedEvent struct {
	PrescriptionID string       `json:"prescription_id"`
	UserID         string       `json:"user_id"`
	Status         ReviewStatus `json:"status"`
	ReviewerNote   string       `json:"reviewer_note"`
	Timestamp      time.Time    `json:"timestamp"`
}
