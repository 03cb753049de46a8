package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentType string

const (
	PaymentTypeCash       PaymentType = "cash"
	PaymentTypePix        PaymentType = "pix"
	PaymentTypeCreditCard PaymentType = "credit_card"
	PaymentTypeDebitCard  PaymentType = "debit_card"
	PaymentTypeVoucher    PaymentType = "voucher"
)

// DefaultChannel is stamped on sales created without an explicit channel tag.
const DefaultChannel = "pdv"

// Sale is a persisted transaction. Storage assigns ID and SaleNumber. After
// creation the financial fields never change; the only transition left is
// Active -> Cancelled, which touches the cancellation fields alone.
type Sale struct {
	ID                 uuid.UUID   `json:"id"`
	SaleNumber         int64       `json:"sale_number"`
	Channel            string      `json:"channel"`
	CashRegisterID     uuid.UUID   `json:"cash_register_id"`
	OperatorID         uuid.UUID   `json:"operator_id"`
	OperatorName       string      `json:"operator_name,omitempty"`
	PaymentType        PaymentType `json:"payment_type"`
	Subtotal           float64     `json:"subtotal"`
	DiscountPercentage float64     `json:"discount_percentage"`
	DiscountAmount     float64     `json:"discount_amount"`
	TotalAmount        float64     `json:"total_amount"`
	ReceivedAmount     float64     `json:"received_amount"`
	ChangeAmount       float64     `json:"change_amount"`
	CustomerName       string      `json:"customer_name,omitempty"`
	CustomerPhone      string      `json:"customer_phone,omitempty"`
	Notes              string      `json:"notes,omitempty"`
	IsCancelled        bool        `json:"is_cancelled"`
	CancelledAt        *time.Time  `json:"cancelled_at,omitempty"`
	CancelledBy        *uuid.UUID  `json:"cancelled_by,omitempty"`
	CancelReason       string      `json:"cancel_reason,omitempty"`
	Items              []SaleItem  `json:"items"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// SaleItem mirrors a cart line at the moment of checkout. Items are created
// as one batch alongside the sale, never independently.
type SaleItem struct {
	ID           uuid.UUID `json:"id"`
	SaleID       uuid.UUID `json:"sale_id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	IsWeighable  bool      `json:"is_weighable"`
	Quantity     int       `json:"quantity"`
	WeightKg     float64   `json:"weight_kg"`
	UnitPrice    float64   `json:"unit_price"`
	PricePerGram float64   `json:"price_per_gram"`
	Subtotal     float64   `json:"subtotal"`
	Discount     float64   `json:"discount"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateSaleRequest struct {
	OperatorID         uuid.UUID   `json:"operator_id" validate:"required"`
	PaymentType        PaymentType `json:"payment_type" validate:"required,oneof=cash pix credit_card debit_card voucher"`
	ReceivedAmount     float64     `json:"received_amount" validate:"gte=0"`
	DiscountPercentage float64     `json:"discount_percentage" validate:"gte=0,lte=100"`
	Channel            string      `json:"channel,omitempty"`
	CustomerName       string      `json:"customer_name,omitempty" validate:"omitempty,max=200"`
	CustomerPhone      string      `json:"customer_phone,omitempty" validate:"omitempty,max=40"`
	Notes              string      `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type CancelSaleRequest struct {
	OperatorID uuid.UUID `json:"operator_id" validate:"required"`
	Reason     string    `json:"reason" validate:"required,max=500"`
}

// SaleFilter composes with logical AND; a nil field imposes no constraint.
type SaleFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	OperatorID *uuid.UUID
	Cancelled  *bool
}
