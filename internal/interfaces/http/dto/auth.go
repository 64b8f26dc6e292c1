package dto

import (
	"time"

	"github.com/crm/backend/internal/application/identity"
	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/domain/permission"
)

// LoginRequest carries the login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse is the login payload.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    int64     `json:"userId"`
	CompanyID int64     `json:"companyId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}

func FromSession(s *identity.Session) SessionResponse {
	return SessionResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		UserID:    s.UserID,
		CompanyID: s.CompanyID,
		Name:      s.Name,
		Email:     s.Email,
		Role:      s.RoleLabel,
	}
}

// AccessContextResponse summarizes the caller's resolved access for
// the frontend shell.
type AccessContextResponse struct {
	UserID     int64   `json:"userId"`
	CompanyID  int64   `json:"companyId"`
	Role       string  `json:"role"`
	IsAdmin    bool    `json:"isAdmin"`
	IsManager  bool    `json:"isManager"`
	SalesRepID *int64  `json:"salesRepId,omitempty"`
	TeamRepIDs []int64 `json:"teamRepIds,omitempty"`
}

func FromAccessContext(ac *access.Context) AccessContextResponse {
	return AccessContextResponse{
		UserID:     ac.UserID,
		CompanyID:  ac.CompanyID,
		Role:       string(ac.Role),
		IsAdmin:    ac.IsAdmin,
		IsManager:  ac.IsManager(),
		SalesRepID: ac.SalesRepID,
		TeamRepIDs: ac.TeamRepIDs,
	}
}

// PermissionResponse is one resolved permission key.
type PermissionResponse struct {
	Allowed   bool   `json:"allowed"`
	DataScope string `json:"dataScope,omitempty"`
}

func FromPermissions(decisions map[string]permission.Decision) map[string]PermissionResponse {
	out := make(map[string]PermissionResponse, len(decisions))
	for key, d := range decisions {
		out[key] = PermissionResponse{Allowed: d.Allowed, DataScope: string(d.DataScope)}
	}
	return out
}
