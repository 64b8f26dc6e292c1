package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/application/route"
)

// RouteResponse is a visit plan with its ordered stops.
type RouteResponse struct {
	ID             int64          `json:"id"`
	Description    string         `json:"description"`
	RepID          int64          `json:"repId"`
	RepName        string         `json:"repName,omitempty"`
	RecurrenceType string         `json:"recurrenceType,omitempty"`
	Weekdays       string         `json:"weekdays,omitempty"`
	IntervalDays   *int64         `json:"intervalDays,omitempty"`
	StartDate      *time.Time     `json:"startDate,omitempty"`
	EndDate        *time.Time     `json:"endDate,omitempty"`
	Active         bool           `json:"active"`
	Stops          []StopResponse `json:"stops"`
}

// StopResponse is one ordered partner stop.
type StopResponse struct {
	ID               int64    `json:"id"`
	PartnerID        int64    `json:"partnerId"`
	Order            int64    `json:"order"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	EstimatedMinutes *int64   `json:"estimatedMinutes,omitempty"`
	PartnerName      string   `json:"partnerName,omitempty"`
	Address          string   `json:"address,omitempty"`
	City             string   `json:"city,omitempty"`
	State            string   `json:"state,omitempty"`
}

func FromRoute(r *route.Route) RouteResponse {
	stops := make([]StopResponse, len(r.Stops))
	for i, s := range r.Stops {
		stops[i] = StopResponse{
			ID:               s.ID,
			PartnerID:        s.PartnerID,
			Order:            s.Order,
			Latitude:         s.Latitude,
			Longitude:        s.Longitude,
			EstimatedMinutes: s.EstimatedMinutes,
			PartnerName:      s.PartnerName,
			Address:          s.Address,
			City:             s.City,
			State:            s.State,
		}
	}
	return RouteResponse{
		ID:             r.ID,
		Description:    r.Description,
		RepID:          r.RepID,
		RepName:        r.RepName,
		RecurrenceType: r.RecurrenceType,
		Weekdays:       r.Weekdays,
		IntervalDays:   r.IntervalDays,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		Active:         r.Active,
		Stops:          stops,
	}
}

func FromRoutes(routes []route.Route) []RouteResponse {
	out := make([]RouteResponse, len(routes))
	for i := range routes {
		out[i] = FromRoute(&routes[i])
	}
	return out
}

// RouteRequest is the create/update payload for a route.
type RouteRequest struct {
	Description    string        `json:"description" binding:"required"`
	RepID          *int64        `json:"repId"`
	RecurrenceType string        `json:"recurrenceType"`
	Weekdays       string        `json:"weekdays"`
	IntervalDays   *int64        `json:"intervalDays"`
	StartDate      *time.Time    `json:"startDate"`
	EndDate        *time.Time    `json:"endDate"`
	Active         *bool         `json:"active"`
	Stops          []StopRequest `json:"stops"`
}

// StopRequest is a stop in a route payload.
type StopRequest struct {
	PartnerID        int64    `json:"partnerId" binding:"required"`
	Order            int64    `json:"order"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	EstimatedMinutes *int64   `json:"estimatedMinutes"`
}

func (r RouteRequest) ToInput() route.RouteInput {
	in := route.RouteInput{
		Description:    r.Description,
		RepID:          r.RepID,
		RecurrenceType: r.RecurrenceType,
		Weekdays:       r.Weekdays,
		IntervalDays:   r.IntervalDays,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		Active:         r.Active == nil || *r.Active,
	}
	if r.Stops != nil {
		in.Stops = make([]route.StopInput, len(r.Stops))
		for i, s := range r.Stops {
			in.Stops[i] = route.StopInput{
				PartnerID:        s.PartnerID,
				Order:            s.Order,
				Latitude:         s.Latitude,
				Longitude:        s.Longitude,
				EstimatedMinutes: s.EstimatedMinutes,
			}
		}
	}
	return in
}

// VisitResponse is one check-in at a partner.
type VisitResponse struct {
	ID             int64            `json:"id"`
	RouteID        *int64           `json:"routeId,omitempty"`
	PartnerID      int64            `json:"partnerId"`
	RepID          int64            `json:"repId"`
	Date           *time.Time       `json:"date,omitempty"`
	CheckinAt      *time.Time       `json:"checkinAt,omitempty"`
	CheckoutAt     *time.Time       `json:"checkoutAt,omitempty"`
	CheckinLat     *float64         `json:"checkinLat,omitempty"`
	CheckinLng     *float64         `json:"checkinLng,omitempty"`
	CheckoutLat    *float64         `json:"checkoutLat,omitempty"`
	CheckoutLng    *float64         `json:"checkoutLng,omitempty"`
	Status         string           `json:"status"`
	Note           string           `json:"note,omitempty"`
	OrderGenerated bool             `json:"orderGenerated"`
	OrderID        *int64           `json:"orderId,omitempty"`
	OrderTotal     *decimal.Decimal `json:"orderTotal,omitempty"`
	PartnerName    string           `json:"partnerName,omitempty"`
	RepName        string           `json:"repName,omitempty"`
	RouteName      string           `json:"routeName,omitempty"`
}

func FromVisits(visits []route.Visit) []VisitResponse {
	out := make([]VisitResponse, len(visits))
	for i, v := range visits {
		out[i] = VisitResponse{
			ID:             v.ID,
			RouteID:        v.RouteID,
			PartnerID:      v.PartnerID,
			RepID:          v.RepID,
			Date:           v.Date,
			CheckinAt:      v.CheckinAt,
			CheckoutAt:     v.CheckoutAt,
			CheckinLat:     v.CheckinLat,
			CheckinLng:     v.CheckinLng,
			CheckoutLat:    v.CheckoutLat,
			CheckoutLng:    v.CheckoutLng,
			Status:         v.Status,
			Note:           v.Note,
			OrderGenerated: v.OrderGenerated,
			OrderID:        v.OrderID,
			OrderTotal:     v.OrderTotal,
			PartnerName:    v.PartnerName,
			RepName:        v.RepName,
			RouteName:      v.RouteName,
		}
	}
	return out
}

// CheckInRequest opens a visit.
type CheckInRequest struct {
	RouteID   *int64   `json:"routeId"`
	PartnerID int64    `json:"partnerId" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Note      string   `json:"note"`
}

func (r CheckInRequest) ToInput() route.CheckInInput {
	return route.CheckInInput{
		RouteID:   r.RouteID,
		PartnerID: r.PartnerID,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Note:      r.Note,
	}
}

// CheckOutRequest closes a visit, optionally linking the order placed
// during it.
type CheckOutRequest struct {
	Latitude   *float64         `json:"latitude"`
	Longitude  *float64         `json:"longitude"`
	Note       string           `json:"note"`
	OrderID    *int64           `json:"orderId"`
	OrderTotal *decimal.Decimal `json:"orderTotal"`
}

func (r CheckOutRequest) ToInput() route.CheckOutInput {
	return route.CheckOutInput{
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Note:       r.Note,
		OrderID:    r.OrderID,
		OrderTotal: r.OrderTotal,
	}
}

// CancelVisitRequest marks a visit cancelled.
type CancelVisitRequest struct {
	Note string `json:"note"`
}
