package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/application/lead"
)

// LeadResponse is the JSON shape of a kanban card.
type LeadResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Value       decimal.Decimal `json:"value"`
	StageID     *int64          `json:"stageId,omitempty"`
	FunnelID    *int64          `json:"funnelId,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	TagType     string          `json:"tagType,omitempty"`
	TagColor    string          `json:"tagColor,omitempty"`
	PartnerID   *int64          `json:"partnerId,omitempty"`
	CreatedBy   *int64          `json:"createdBy,omitempty"`
	Status      string          `json:"status"`
	LossReason  string          `json:"lossReason,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
	ClosedAt    *time.Time      `json:"closedAt,omitempty"`
}

func FromLead(l *lead.Lead) LeadResponse {
	return LeadResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Value:       l.Value,
		StageID:     l.StageID,
		FunnelID:    l.FunnelID,
		DueDate:     l.DueDate,
		TagType:     l.TagType,
		TagColor:    l.TagColor,
		PartnerID:   l.PartnerID,
		CreatedBy:   l.CreatedBy,
		Status:      l.Status,
		LossReason:  l.LossReason,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		ClosedAt:    l.ClosedAt,
	}
}

func FromLeads(leads []lead.Lead) []LeadResponse {
	out := make([]LeadResponse, len(leads))
	for i := range leads {
		out[i] = FromLead(&leads[i])
	}
	return out
}

// LeadRequest is the create/update payload.
type LeadRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	StageID     *int64          `json:"stageId"`
	FunnelID    *int64          `json:"funnelId"`
	DueDate     *time.Time      `json:"dueDate"`
	TagType     string          `json:"tagType"`
	TagColor    string          `json:"tagColor"`
	PartnerID   *int64          `json:"partnerId"`
}

func (r LeadRequest) ToInput() lead.CreateInput {
	return lead.CreateInput{
		Name:        r.Name,
		Description: r.Description,
		Value:       r.Value,
		StageID:     r.StageID,
		FunnelID:    r.FunnelID,
		DueDate:     r.DueDate,
		TagType:     r.TagType,
		TagColor:    r.TagColor,
		PartnerID:   r.PartnerID,
	}
}

// MoveStageRequest moves a card to another kanban column.
type MoveStageRequest struct {
	StageID int64 `json:"stageId" binding:"required"`
}

// ProductResponse is one item attached to a lead.
type ProductResponse struct {
	ItemID      int64           `json:"itemId"`
	ProductID   int64           `json:"productId"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

func FromLeadProducts(products []lead.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = ProductResponse{
			ItemID:      p.ItemID,
			ProductID:   p.ProductID,
			Description: p.Description,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			Total:       p.Total,
		}
	}
	return out
}

// AddProductRequest attaches a catalog item to a lead.
type AddProductRequest struct {
	ProductID   int64           `json:"productId" binding:"required"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"gte=0"`
}

func (r AddProductRequest) ToInput() lead.AddProductInput {
	return lead.AddProductInput{
		ProductID:   r.ProductID,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
	}
}

// ActivityResponse is one timeline entry.
type ActivityResponse struct {
	ID          int64      `json:"id"`
	LeadID      *int64     `json:"leadId,omitempty"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartsAt    *time.Time `json:"startsAt,omitempty"`
	EndsAt      *time.Time `json:"endsAt,omitempty"`
	UserID      *int64     `json:"userId,omitempty"`
	Extra       string     `json:"extra,omitempty"`
	Color       string     `json:"color,omitempty"`
	Order       int64      `json:"order"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

func FromActivity(a *lead.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		LeadID:      a.LeadID,
		Type:        a.Type,
		Title:       a.Title,
		Description: a.Description,
		StartsAt:    a.StartsAt,
		EndsAt:      a.EndsAt,
		UserID:      a.UserID,
		Extra:       a.Extra,
		Color:       a.Color,
		Order:       a.Order,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
}

func FromActivities(activities []lead.Activity) []ActivityResponse {
	out := make([]ActivityResponse, len(activities))
	for i := range activities {
		out[i] = FromActivity(&activities[i])
	}
	return out
}

// CreateActivityRequest appends a timeline entry.
type CreateActivityRequest struct {
	LeadID      *int64     `json:"leadId"`
	Type        string     `json:"type" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Extra       string     `json:"extra"`
	Color       string     `json:"color"`
}

func (r CreateActivityRequest) ToInput() lead.CreateActivityInput {
	return lead.CreateActivityInput{
		LeadID:      r.LeadID,
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Extra:       r.Extra,
		Color:       r.Color,
	}
}

// UpdateActivityStatusRequest transitions an activity.
type UpdateActivityStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=AGUARDANDO ATRASADO REALIZADO"`
}
