package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/application/finance"
	"github.com/crm/backend/internal/application/trade"
)

// OrderResponse is a sales order header.
type OrderResponse struct {
	ID          int64           `json:"id"`
	PartnerID   int64           `json:"partnerId"`
	PartnerName string          `json:"partnerName,omitempty"`
	IssuedAt    *time.Time      `json:"issuedAt,omitempty"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status,omitempty"`
}

func FromOrder(o *trade.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		PartnerID:   o.PartnerID,
		PartnerName: o.PartnerName,
		IssuedAt:    o.IssuedAt,
		Total:       o.Total,
		Status:      o.Status,
	}
}

func FromOrders(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = FromOrder(&orders[i])
	}
	return out
}

// ReceivableResponse is one financial installment.
type ReceivableResponse struct {
	ID          int64           `json:"id"`
	PartnerID   int64           `json:"partnerId"`
	PartnerName string          `json:"partnerName,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	SettledAt   *time.Time      `json:"settledAt,omitempty"`
	Open        bool            `json:"open"`
}

func FromReceivables(receivables []finance.Receivable) []ReceivableResponse {
	out := make([]ReceivableResponse, len(receivables))
	for i, r := range receivables {
		out[i] = ReceivableResponse{
			ID:          r.ID,
			PartnerID:   r.PartnerID,
			PartnerName: r.PartnerName,
			DueDate:     r.DueDate,
			Amount:      r.Amount,
			SettledAt:   r.SettledAt,
			Open:        r.SettledAt == nil,
		}
	}
	return out
}
