package dto

import "github.com/crm/backend/internal/application/partner"

// PartnerResponse is the current snapshot of a client record.
type PartnerResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	RepID   *int64 `json:"repId,omitempty"`
}

func FromPartner(p *partner.Partner) PartnerResponse {
	return PartnerResponse{
		ID:      p.ID,
		Name:    p.Name,
		Address: p.Address,
		City:    p.City,
		State:   p.State,
		RepID:   p.RepID,
	}
}

func FromPartners(partners []partner.Partner) []PartnerResponse {
	out := make([]PartnerResponse, len(partners))
	for i := range partners {
		out[i] = FromPartner(&partners[i])
	}
	return out
}
