// Package domain 包含订单的领域模型与状态机
package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 订单状态
type OrderStatus string

const (
	StatusPlaced         OrderStatus = "PLACED"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidStatusTransition 非法状态流转
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// Order 订单聚合根
type Order struct {
	gorm.Model      `json:"-"`
	OrderNo         string          `gorm:"column:order_no;type:varchar(32);uniqueIndex;not null" json:"order_no"`
	UserID          string          `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal        decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2)" json:"subtotal"`
	DeliveryFee     decimal.Decimal `gorm:"column:delivery_fee;type:decimal(10,2)" json:"delivery_fee"`
	Total           decimal.Decimal `gorm:"column:total;type:decimal(10,2)" json:"total"`
	ShippingAddress string          `gorm:"column:shipping_address;type:varchar(512)" json:"shipping_address"`
	DeliveryDate    string          `gorm:"column:delivery_date;type:varchar(32)" json:"delivery_date"`
	DeliveryTime    string          `gorm:"column:delivery_time;type:varchar(32)" json:"delivery_time"`
	PaymentMethod   string          `gorm:"column:payment_method;type:varchar(16)" json:"payment_method"`
	Status          OrderStatus     `gorm:"column:status;type:varchar(24);index;not null" json:"status"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 订单行项目，下单时从购物车固化
type OrderItem struct {
	gorm.Model `json:"-"`
	OrderID    uint    `gorm:"column:order_id;index;not null" json:"-"`
	MedicineID string  `gorm:"column:medicine_id;type:varchar(36);not null" json:"medicine_id"`
	Name       string  `gorm:"column:name;type:varchar(255)" json:"name"`
	Price      float64 `gorm:"column:price;type:decimal(10,2)" json:"price"`
	Quantity   int     `gorm:"column:quantity;not null" json:"quantity"`
}

func (OrderItem) TableName() string { return "order_items" }

// transitions 允许的状态流转
var transitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:         {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
}

// TransitionTo 执行状态流转，非法流转返回 ErrInvalidStatusTransition
func (o *Order) TransitionTo(next OrderStatus) error {
	for _, allowed := range transitions[o.Status] {
		if allowed == next {
			o.Status = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, o.Status, next)
}

// Confirm 药房确认订单
func (o *Order) Confirm() error { return o.TransitionTo(StatusConfirmed) }

// StartDelivery 开始配送
func (o *Order) StartDelivery() error { return o.TransitionTo(StatusOutForDelivery) }

// MarkDelivered 确认送达
func (o *Order) MarkDelivered() error { return o.TransitionTo(StatusDelivered) }

// Cancel 取消订单，配送中及之后不可取消
func (o *Order) Cancel() error { return o.TransitionTo(StatusCancelled) }

// IsTerminal 是否为终态
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}
