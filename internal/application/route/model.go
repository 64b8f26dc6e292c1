package route

import (
	"time"

	"github.com/shopspring/decimal"
)

// Visit statuses as stored in AD_VISITAS.STATUS.
const (
	VisitCheckedIn = "CHECKIN"
	VisitDone      = "CONCLUIDA"
	VisitCancelled = "CANCELADA"
)

// Route is a recurring visit plan assigned to one rep (AD_ROTAS).
type Route struct {
	ID             int64
	CompanyID      int64
	Description    string
	RepID          int64
	RepName        string
	RecurrenceType string
	Weekdays       string // comma-separated day numbers, free text in the ERP
	IntervalDays   *int64
	StartDate      *time.Time
	EndDate        *time.Time
	Active         bool
	CreatedAt      *time.Time
	Stops          []Stop
}

// Stop is an ordered partner visit within a route (AD_ROTA_PARCEIROS).
type Stop struct {
	ID               int64
	RouteID          int64
	PartnerID        int64
	Order            int64
	Latitude         *float64
	Longitude        *float64
	EstimatedMinutes *int64
	PartnerName      string
	Address          string
	City             string
	State            string
}

// Visit is one check-in at a partner, optionally linked to a route and
// to the order generated during the visit (AD_VISITAS).
type Visit struct {
	ID             int64
	CompanyID      int64
	RouteID        *int64
	PartnerID      int64
	RepID          int64
	Date           *time.Time
	CheckinAt      *time.Time
	CheckoutAt     *time.Time
	CheckinLat     *float64
	CheckinLng     *float64
	CheckoutLat    *float64
	CheckoutLng    *float64
	Status         string
	Note           string
	OrderGenerated bool
	OrderID        *int64 // NUNOTA of the generated order
	OrderTotal     *decimal.Decimal
	PartnerName    string
	RepName        string
	RouteName      string
}

// StopInput is a stop in a route create/update payload.
type StopInput struct {
	PartnerID        int64
	Order            int64
	Latitude         *float64
	Longitude        *float64
	EstimatedMinutes *int64
}

// RouteInput is the create/update payload for a route.
type RouteInput struct {
	Description    string
	RepID          *int64 // defaults to the caller's rep when nil
	RecurrenceType string
	Weekdays       string
	IntervalDays   *int64
	StartDate      *time.Time
	EndDate        *time.Time
	Active         bool
	Stops          []StopInput
}

// VisitQuery narrows the visit listing.
type VisitQuery struct {
	RouteID   *int64
	PartnerID *int64
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// CheckInInput opens a visit at a partner.
type CheckInInput struct {
	RouteID   *int64
	PartnerID int64
	Latitude  *float64
	Longitude *float64
	Note      string
}

// CheckOutInput closes a visit, optionally linking the order placed
// during it.
type CheckOutInput struct {
	Latitude   *float64
	Longitude  *float64
	Note       string
	OrderID    *int64
	OrderTotal *decimal.Decimal
}
