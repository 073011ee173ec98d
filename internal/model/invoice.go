package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const InvoiceTermDays = 15

type InvoiceStatus string

const (
	InvoiceStatusPendingPayment InvoiceStatus = "PENDING_PAYMENT"
	InvoiceStatusPaid           InvoiceStatus = "PAID"
	InvoiceStatusOverdue        InvoiceStatus = "OVERDUE"
	InvoiceStatusVoid           InvoiceStatus = "VOID"
)

// Payable reports whether pay may move the invoice to PAID.
func (s InvoiceStatus) Payable() bool {
	return s == InvoiceStatusPendingPayment || s == InvoiceStatusOverdue
}

type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "CARD"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCash         PaymentMethod = "CASH"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentBankTransfer, PaymentCash:
		return true
	}
	return false
}

type Invoice struct {
	ID       int             `json:"id"`
	OrderID  int             `json:"orderID"`
	Amount   decimal.Decimal `json:"amount"`
	IssuedAt time.Time       `json:"issuedAt"`
	DueDate  time.Time       `json:"dueDate"`
	Status   InvoiceStatus   `json:"status"`
	Method   PaymentMethod   `json:"method,omitempty"`
	PaidAt   *time.Time      `json:"paidAt"`
}

// NewInvoice builds the invoice issued together with an order.
func NewInvoice(amount decimal.Decimal, issuedAt time.Time) Invoice {
	return Invoice{
		Amount:   amount,
		IssuedAt: issuedAt,
		DueDate:  issuedAt.AddDate(0, 0, InvoiceTermDays),
		Status:   InvoiceStatusPendingPayment,
	}
}

type PaymentInput struct {
	Method     PaymentMethod `json:"method"`
	CardNumber string        `json:"cardNumber,omitempty"`
}

type InvoiceResult struct {
	Success bool          `json:"success"`
	Status  InvoiceStatus `json:"status"`
	Message string        `json:"message"`
	Invoice Invoice       `json:"invoice"`
}
