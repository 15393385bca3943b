package domain

import "errors"

var (
	// ErrInvalidCart 购物车为空或不可用，无法结算
	ErrInvalidCart = errors.New("cart is empty or invalid")
	// ErrIncompleteDeliveryDetails 配送信息不完整
	ErrIncompleteDeliveryDetails = errors.New("incomplete delivery details")
	// ErrSubmissionInFlight 同一用户已有进行中的提交
	ErrSubmissionInFlight = errors.New("order submission already in flight")
	// ErrOrderSubmission 下游订单创建失败
	ErrOrderSubmission = errors.New("order submission failed")
)
