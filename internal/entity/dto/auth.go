package dto

import "time"

// LoginRequest accepts a username or an email address.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	Access           string          `json:"access"`
	AccessExpiresAt  time.Time       `json:"access_expires_at"`
	Refresh          string          `json:"refresh"`
	RefreshExpiresAt time.Time       `json:"refresh_expires_at"`
	User             *AccountSummary `json:"user,omitempty"`
}

// MemberRegistration is the intake for the member role.
type MemberRegistration struct {
	Username        string `json:"username" form:"username" validate:"required,username"`
	Email           string `json:"email" form:"email" validate:"omitempty,email"`
	FirstName       string `json:"first_name" form:"first_name"`
	LastName        string `json:"last_name" form:"last_name"`
	PhoneNumber     string `json:"phone_number" form:"phone_number"`
	Password        string `json:"password" form:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm"`
	IDNumber        string `json:"id_number" form:"id_number" validate:"required"`
	FullNamesOnID   string `json:"full_names_on_id" form:"full_names_on_id" validate:"required"`
	ConstituencyID  uint   `json:"constituency_id" form:"constituency_id" validate:"required"`
	WardID          uint   `json:"ward_id" form:"ward_id" validate:"required"`
}

// DonorRegistration is the intake for the donor role. Either a personal
// name or an organisation name is required.
type DonorRegistration struct {
	Username         string `json:"username" form:"username" validate:"required,username"`
	Email            string `json:"email" form:"email" validate:"required,email"`
	FirstName        string `json:"first_name" form:"first_name"`
	LastName         string `json:"last_name" form:"last_name"`
	OrganizationName string `json:"organization_name" form:"organization_name" validate:"required_without_all=FirstName LastName"`
	PhoneNumber      string `json:"phone_number" form:"phone_number" validate:"required"`
	Password         string `json:"password" form:"password" validate:"required"`
	PasswordConfirm  string `json:"password_confirm" form:"password_confirm"`
}

// CountyOfficialRegistration is the intake for county officials.
type CountyOfficialRegistration struct {
	Username        string `json:"username" form:"username" validate:"required,username"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	FirstName       string `json:"first_name" form:"first_name"`
	LastName        string `json:"last_name" form:"last_name"`
	PhoneNumber     string `json:"phone_number" form:"phone_number"`
	Department      string `json:"department" form:"department" validate:"required,department"`
	Password        string `json:"password" form:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm"`
}
