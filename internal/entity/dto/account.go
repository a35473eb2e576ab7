package dto

import (
	"time"

	"agcbo/internal/entity/common"
)

// AccountSummary is the client view of an account.
type AccountSummary struct {
	ID               uint       `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	FullName         string     `json:"full_name"`
	PhoneNumber      string     `json:"phone_number"`
	Role             string     `json:"role"`
	IsActive         bool       `json:"is_active"`
	IsApproved       bool       `json:"is_approved"`
	IsVerified       bool       `json:"is_verified"`
	WardID           *uint      `json:"ward_id"`
	WardName         string     `json:"ward_name,omitempty"`
	ConstituencyName string     `json:"constituency_name,omitempty"`
	Department       string     `json:"department,omitempty"`
	OrganizationName string     `json:"organization_name,omitempty"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// AccountQuery filters the account listing.
type AccountQuery struct {
	common.BaseParams
	Role     string `json:"role" form:"role" query:"role"`
	Keyword  string `json:"keyword" form:"keyword" query:"keyword"`
	Approved *bool  `json:"approved" form:"approved" query:"approved"`
	Verified *bool  `json:"verified" form:"verified" query:"verified"`
}

// AccountCreateRequest is used by staff to add an account directly.
type AccountCreateRequest struct {
	Username    string `json:"username" form:"username" binding:"required"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password" binding:"required,min=8"`
	FirstName   string `json:"first_name" form:"first_name"`
	LastName    string `json:"last_name" form:"last_name"`
	PhoneNumber string `json:"phone_number" form:"phone_number"`
	Role        string `json:"role" form:"role" binding:"required"`
	Department  string `json:"department" form:"department"`
	IsActive    *bool  `json:"is_active" form:"is_active"`
	IsApproved  bool   `json:"is_approved" form:"is_approved"`
	IsVerified  bool   `json:"is_verified" form:"is_verified"`
}

// AccountUpdateRequest is a partial staff edit.
type AccountUpdateRequest struct {
	Email       *string `json:"email,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Role        *string `json:"role,omitempty"`
	Department  *string `json:"department,omitempty"`
	Password    *string `json:"password,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsApproved  *bool   `json:"is_approved,omitempty"`
	IsVerified  *bool   `json:"is_verified,omitempty"`
}

// AccountUpdates is the column set applied by the repository.
type AccountUpdates struct {
	Email        *string
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	Role         *string
	Department   *string
	PasswordHash *string
	IsActive     *bool
	IsApproved   *bool
	IsVerified   *bool
	LastLoginIP  *string
	LastLoginAt  *time.Time
}

// ToMap converts the set fields to a GORM update map.
func (u AccountUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.FirstName != nil {
		updates["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		updates["last_name"] = *u.LastName
	}
	if u.PhoneNumber != nil {
		updates["phone_number"] = *u.PhoneNumber
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.Department != nil {
		updates["department"] = *u.Department
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.IsApproved != nil {
		updates["is_approved"] = *u.IsApproved
	}
	if u.IsVerified != nil {
		updates["is_verified"] = *u.IsVerified
	}
	if u.LastLoginIP != nil {
		updates["last_login_ip"] = *u.LastLoginIP
	}
	if u.LastLoginAt != nil {
		updates["last_login_at"] = *u.LastLoginAt
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u AccountUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// Page is a paginated listing.
type Page[T any] struct {
	Items []T          `json:"items"`
	Meta  *common.Meta `json:"meta"`
}
