package lead

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lead statuses as stored in AD_LEADS.STATUS_LEAD.
const (
	StatusInProgress = "EM_ANDAMENTO"
	StatusWon        = "GANHO"
	StatusLost       = "PERDIDO"
)

// Activity statuses as stored in AD_ADLEADSATIVIDADES.STATUS.
const (
	ActivityWaiting = "AGUARDANDO"
	ActivityOverdue = "ATRASADO"
	ActivityDone    = "REALIZADO"
)

// Lead is a kanban card in a sales funnel.
type Lead struct {
	ID          int64
	CompanyID   int64
	Name        string
	Description string
	Value       decimal.Decimal
	StageID     *int64
	FunnelID    *int64
	DueDate     *time.Time
	TagType     string
	TagColor    string
	PartnerID   *int64
	CreatedBy   *int64 // CODUSUARIO of the author
	Active      bool
	Status      string
	LossReason  string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	ClosedAt    *time.Time
}

// Product is a catalog item attached to a lead; the sum of active item
// totals is mirrored into the lead's Value.
type Product struct {
	ItemID      int64
	LeadID      int64
	CompanyID   int64
	ProductID   int64
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	Active      bool
	AddedAt     *time.Time
}

// Activity is a timeline/calendar entry, optionally linked to a lead.
type Activity struct {
	ID          int64
	LeadID      *int64
	CompanyID   int64
	Type        string
	Title       string
	Description string
	StartsAt    *time.Time
	EndsAt      *time.Time
	UserID      *int64
	Extra       string // free-form JSON payload
	Color       string
	Order       int64
	Active      bool
	Status      string
	CreatedAt   *time.Time
}

// ListQuery carries the optional list filters on top of the scope filter.
type ListQuery struct {
	FunnelID    *int64
	PartnerID   *int64
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ActivityQuery narrows the timeline listing to one lead and/or a
// calendar window on the start date.
type ActivityQuery struct {
	LeadID    *int64
	StartFrom *time.Time
	StartTo   *time.Time
}

// CreateInput is the payload for creating or updating a lead.
type CreateInput struct {
	Name        string
	Description string
	Value       decimal.Decimal
	StageID     *int64
	FunnelID    *int64
	DueDate     *time.Time
	TagType     string
	TagColor    string
	PartnerID   *int64
}

// AddProductInput attaches a catalog item to a lead.
type AddProductInput struct {
	ProductID   int64
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// CreateActivityInput creates a timeline entry.
type CreateActivityInput struct {
	LeadID      *int64
	Type        string
	Title       string
	Description string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Extra       string
	Color       string
}
