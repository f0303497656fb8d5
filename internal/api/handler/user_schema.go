package handler

import "github.com/lexcrm/crm-system/internal/core/domain"

// updateProfileRequest covers the only four fields a user may edit.
// Login and role sent in the raw payload are silently dropped by binding.
type updateProfileRequest struct {
	LastName   string `json:"lastname"`
	FirstName  string `json:"firstname"`
	MiddleName string `json:"middlename"`
	Email      string `json:"email" validate:"omitempty,email"`
}

type profileResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

type userListResponse struct {
	Success bool           `json:"success"`
	Users   []*domain.User `json:"users"`
}

type serviceListResponse struct {
	Success  bool                   `json:"success"`
	Services []*domain.ServiceEntry `json:"services"`
}
