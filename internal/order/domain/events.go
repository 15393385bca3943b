package domain

import "time"

// 订单事件主题
const (
	OrderPlacedTopic        = "order.placed"
	OrderStatusChangedTopic = "order.status.changed"
	OrderCancelledTopic     = "order.cancelled"
)

// OrderPlacedEvent 订单创建事件
type OrderPlacedEvent struct {
	OrderNo         string    `json:"order_no"`
	UserID          string    `json:"user_id"`
	Total           string    `json:"total"`
	PaymentMethod   string    `json:"payment_method"`
	ShippingAddress string    `json:"shipping_address"`
	DeliveryDate    string    `json:"delivery_date"`
	DeliveryTime    string    `json:"delivery_time"`
	ItemCount       int       `json:"item_count"`
	OccurredOn      time.Time `json:"occurred_on"`
}

// OrderStatusChangedEvent 订单状态变更事件
type OrderStatusChangedEvent struct {
	OrderNo    string      `json:"order_no"`
	UserID     string      `json:"user_id"`
	From       OrderStatus `json:"from"`
	To         OrderStatus `json:"to"`
	OccurredOn time.Time   `json:"occurred_on"`
}

// OrderCancelledEvent 订单取消事件
type OrderCancelledEvent struct {
	OrderNo    string    `json:"order_no"`
	UserID     string    `json:"user_id"`
	Reason     string    `json:"reason"`
	OccurredOn time.Time `json:"occurred_on"`
}
