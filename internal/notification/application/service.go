package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wyfcoding/pharmadelivery/internal/notification/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/logger"
	"github.com/wyfcoding/pharmadelivery/pkg/utils"
)

// SendCommand 发送通知命令
type SendCommand struct {
	UserID  string
	Channel domain.NotificationChannel
	Target  string
	Subject string
	Content string
}

// NotificationService 通知服务：发送并记录投递结果
type NotificationService struct {
	repo        domain.NotificationRepository
	emailSender domain.Sender
	smsSender   domain.Sender
}

// NewNotificationService 创建通知服务实例
func NewNotificationService(repo domain.NotificationRepository, emailSender, smsSender domain.Sender) *NotificationService {
	return &NotificationService{
		repo:        repo,
		emailSender: emailSender,
		smsSender:   smsSender,
	}
}

// Send 发送通知，投递结果落库
func (s *NotificationService) Send(ctx context.Context, cmd SendCommand) (string, error) {
	notification := &domain.Notification{
		NotificationID: uuid.New().String(),
		UserID:         cmd.UserID,
		Channel:        cmd.Channel,
		Subject:        cmd.Subject,
		Content:        cmd.Content,
		Target:         cmd.Target,
		Status:         domain.StatusPending,
	}

	sender, err := s.senderFor(cmd.Channel)
	if err != nil {
		return "", err
	}

	if sendErr := sender.Send(ctx, cmd.Target, cmd.Subject, cmd.Content); sendErr != nil {
		notification.Status = domain.StatusFailed
		notification.ErrorMessage = sendErr.Error()
		logger.Error(ctx, "notification delivery failed",
			"notification_id", notification.NotificationID,
			"channel", cmd.Channel,
			"error", sendErr,
		)
	} else {
		now := time.Now()
		notification.Status = domain.StatusSent
		notification.SentAt = &now
	}

	if err := s.repo.Save(ctx, notification); err != nil {
		return "", err
	}
	return notification.NotificationID, nil
}

// History 按用户分页查询通知历史
func (s *NotificationService) History(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, *utils.Pagination, error) {
	p := utils.NewPagination(page, pageSize, 0)
	notifications, total, err := s.repo.ListByUserID(ctx, userID, p.Offset(), p.Limit())
	if err != nil {
		return nil, nil, err
	}
	return notifications, utils.NewPagination(page, pageSize, total), nil
}

func (s *NotificationService) senderFor(channel domain.NotificationChannel) (domain.Sender, error) {
	switch channel {
	case domain.ChannelEmail:
		return s.emailSender, nil
	case domain.ChannelSMS:
		return s.smsSender, nil
	default:
		return nil, domain.ErrUnsupportedChannel
	}
}
