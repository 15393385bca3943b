// Package consumer 订阅订单事件并触发用户通知
package consumer

import (
	"context"
	"fmt"

	"github.com/wyfcoding/pharmadelivery/internal/notification/application"
	"github.com/wyfcoding/pharmadelivery/internal/notification/domain"
	orderdomain "github.com/wyfcoding/pharmadelivery/internal/order/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/logger"
	"github.com/wyfcoding/pharmadelivery/pkg/mq"
)

// OrderEventHandler 订单事件处理器
type OrderEventHandler struct {
	notifications *application.NotificationService
}

func NewOrderEventHandler(notifications *application.NotificationService) *OrderEventHandler {
	return &OrderEventHandler{notifications: notifications}
}

// HandleOrderPlaced 下单成功通知
func (h *OrderEventHandler) HandleOrderPlaced(ctx context.Context, msg *mq.Message) error {
	var event orderdomain.OrderPlacedEvent
	if err := msg.UnmarshalPayload(&event); err != nil {
		return err
	}

	logger.Info(ctx, "handling order placed event", "order_no", event.OrderNo, "user_id", event.UserID)

	_, err := h.notifications.Send(ctx, application.SendCommand{
		UserID:  event.UserID,
		Channel: domain.ChannelEmail,
		Target:  event.UserID,
		Subject: fmt.Sprintf("Order %s placed", event.OrderNo),
		Content: fmt.Sprintf(
			"Your order %s totalling %s has been placed. Delivery to %s on %s (%s).",
			event.OrderNo, event.Total, event.ShippingAddress, event.DeliveryDate, event.DeliveryTime,
		),
	})
	return err
}

// HandleOrderStatusChanged 订单状态变更通知
func (h *OrderEventHandler) HandleOrderStatusChanged(ctx context.Context, msg *mq.Message) error {
	var event orderdomain.OrderStatusChangedEvent
	if err := msg.UnmarshalPayload(&event); err != nil {
		return err
	}

	_, err := h.notifications.Send(ctx, application.SendCommand{
		UserID:  event.UserID,
		Channel: domain.ChannelSMS,
		Target:  event.UserID,
		Subject: fmt.Sprintf("Order %s update", event.OrderNo),
		Content: fmt.Sprintf("Your order %s is now %s.", event.OrderNo, event.To),
	})
	return err
}

// HandleOrderCancelled 订单取消通知
func (h *OrderEventHandler) HandleOrderCancelled(ctx context.Context, msg *mq.Message) error {
	var event orderdomain.OrderCancelledEvent
	if err := msg.UnmarshalPayload(&event); err != nil {
		return err
	}

	_, err := h.notifications.Send(ctx, application.SendCommand{
		UserID:  event.UserID,
		Channel: domain.ChannelEmail,
		Target:  event.UserID,
		Subject: fmt.Sprintf("Order %s cancelled", event.OrderNo),
		Content: fmt.Sprintf("Your order %s has been cancelled. Reason: %s", event.OrderNo, event.Reason),
	})
	return err
}
