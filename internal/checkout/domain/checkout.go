// Package domain 包含结算的领域模型：配送信息、金额计算与提交状态机
package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	cartdomain "github.com/wyfcoding/pharmadelivery/internal/cart/domain"
)

// DeliverySurchargeAmount 固定配送附加费
const DeliverySurchargeAmount = 49

// DeliverySurcharge 固定配送附加费（精确金额）
var DeliverySurcharge = decimal.NewFromInt(DeliverySurchargeAmount)

// 支付方式
const (
	PaymentCOD  = "cod"
	PaymentCard = "card"
	PaymentUPI  = "upi"
)

// 提交状态机
type SubmissionState string

const (
	StateIdle       SubmissionState = "IDLE"
	StateValidating SubmissionState = "VALIDATING"
	StateSubmitting SubmissionState = "SUBMITTING"
	StateSucceeded  SubmissionState = "SUCCEEDED"
	StateFailed     SubmissionState = "FAILED"
)

// DeliveryDetails 配送信息
type DeliveryDetails struct {
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
	DeliveryDate  string `json:"delivery_date"`
	DeliveryTime  string `json:"delivery_time"`
	PaymentMethod string `json:"payment_method"`
}

// Validate 校验配送信息完整性，任一字段缺失即不完整
func (d DeliveryDetails) Validate() error {
	switch {
	case d.Address == "":
		return fmt.Errorf("%w: address", ErrIncompleteDeliveryDetails)
	case d.City == "":
		return fmt.Errorf("%w: city", ErrIncompleteDeliveryDetails)
	case d.State == "":
		return fmt.Errorf("%w: state", ErrIncompleteDeliveryDetails)
	case d.Zip == "":
		return fmt.Errorf("%w: zip", ErrIncompleteDeliveryDetails)
	case d.DeliveryDate == "":
		return fmt.Errorf("%w: delivery_date", ErrIncompleteDeliveryDetails)
	case d.DeliveryTime == "":
		return fmt.Errorf("%w: delivery_time", ErrIncompleteDeliveryDetails)
	}
	switch d.PaymentMethod {
	case PaymentCOD, PaymentCard, PaymentUPI:
		return nil
	default:
		return fmt.Errorf("%w: payment_method", ErrIncompleteDeliveryDetails)
	}
}

// ShippingAddress 拼接完整收货地址
func (d DeliveryDetails) ShippingAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", d.Address, d.City, d.State, d.Zip)
}

// ValidateCart 校验购物车可结算性：空车、缺失商品编号或异常金额均拒绝
func ValidateCart(items []cartdomain.LineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrInvalidCart)
	}
	for _, item := range items {
		switch {
		case item.MedicineID == "":
			return fmt.Errorf("%w: line item missing medicine id", ErrInvalidCart)
		case item.Quantity < 1:
			return fmt.Errorf("%w: medicine %s has non-positive quantity", ErrInvalidCart, item.MedicineID)
		case math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price < 0:
			return fmt.Errorf("%w: medicine %s has invalid price", ErrInvalidCart, item.MedicineID)
		}
	}
	return nil
}

// Subtotal 商品小计 Σ(price × quantity)，保留两位小数
func Subtotal(items []cartdomain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total.Round(2)
}

// Total 应付总额 = 小计 + 配送附加费
func Total(items []cartdomain.LineItem) decimal.Decimal {
	return Subtotal(items).Add(DeliverySurcharge).Round(2)
}

// OrderPayload 提交给订单模块的结算载荷
type OrderPayload struct {
	UserID          string                `json:"user_id"`
	Items           []cartdomain.LineItem `json:"items"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	DeliveryFee     decimal.Decimal       `json:"delivery_fee"`
	Total           decimal.Decimal       `json:"total"`
	ShippingAddress string                `json:"shipping_address"`
	DeliveryDate    string                `json:"delivery_date"`
	DeliveryTime    string                `json:"delivery_time"`
	PaymentMethod   string                `json:"payment_method"`
	PlacedAt        time.Time             `json:"placed_at"`
}

// BuildOrderPayload 根据购物车与配送信息构建订单载荷
// 调用方必须先通过 Validate 与非空购物车校验
func BuildOrderPayload(userID string, items []cartdomain.LineItem, details DeliveryDetails, now time.Time) OrderPayload {
	return OrderPayload{
		UserID:          userID,
		Items:           items,
		Subtotal:        Subtotal(items),
		DeliveryFee:     DeliverySurcharge,
		Total:           Total(items),
		ShippingAddress: details.ShippingAddress(),
		DeliveryDate:    details.DeliveryDate,
		DeliveryTime:    details.DeliveryTime,
		PaymentMethod:   details.PaymentMethod,
		PlacedAt:        now,
	}
}
