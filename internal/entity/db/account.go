package db

import (
	"strings"
	"time"
)

const (
	RoleSuperAdmin     = "super_admin"
	RoleAdmin          = "admin"
	RoleCountyOfficial = "county_official"
	RoleDonor          = "donor"
	RoleMember         = "member"
	RolePublic         = "public"
)

// Roles lists every assignable role.
var Roles = []string{RolePublic, RoleMember, RoleDonor, RoleCountyOfficial, RoleAdmin, RoleSuperAdmin}

// CountyDepartments is the fixed set a county official registers under.
var CountyDepartments = []string{
	"agriculture",
	"education",
	"health",
	"youth_affairs",
	"sports_culture",
	"trade_industry",
	"water_environment",
	"roads_transport",
	"lands_housing",
	"finance_planning",
	"gender_social_services",
	"administration",
}

// Account is a login identity. The role decides which gate flag applies.
type Account struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Username         string     `gorm:"column:username;type:varchar(150);uniqueIndex;not null" json:"username"`
	Email            string     `gorm:"column:email;type:varchar(255);index" json:"email"`
	PasswordHash     string     `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	FirstName        string     `gorm:"column:first_name;type:varchar(150)" json:"first_name"`
	LastName         string     `gorm:"column:last_name;type:varchar(150)" json:"last_name"`
	PhoneNumber      string     `gorm:"column:phone_number;type:varchar(20)" json:"phone_number"`
	Role             string     `gorm:"column:role;type:varchar(20);index;not null;default:public" json:"role"`
	IsActive         bool       `gorm:"column:is_active;not null" json:"is_active"`
	IsApproved       bool       `gorm:"column:is_approved;not null;default:false" json:"is_approved"`
	IsVerified       bool       `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	IDNumber         string     `gorm:"column:id_number;type:varchar(50)" json:"id_number"`
	FullNamesOnID    string     `gorm:"column:full_names_on_id;type:varchar(255)" json:"full_names_on_id"`
	WardID           *uint      `gorm:"column:ward_id;index" json:"ward_id"`
	Ward             *Ward      `gorm:"foreignKey:WardID" json:"ward,omitempty"`
	Department       string     `gorm:"column:department;type:varchar(50)" json:"department"`
	OrganizationName string     `gorm:"column:organization_name;type:varchar(255)" json:"organization_name"`
	LastLoginIP      string     `gorm:"column:last_login_ip;type:varchar(45)" json:"last_login_ip"`
	LastLoginAt      *time.Time `gorm:"column:last_login_at" json:"last_login_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// FullName joins first and last name, falling back to the username.
func (a *Account) FullName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Username
	}
	return name
}

func (a *Account) RecordID() uint      { return a.ID }
func (a *Account) SetRecordID(id uint) { a.ID = id }
func (a *Account) Label() string       { return a.Username }

// IsStaffRole reports whether role belongs to the admin tier.
func IsStaffRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ValidDepartment reports whether dept is one of CountyDepartments.
func ValidDepartment(dept string) bool {
	for _, d := range CountyDepartments {
		if d == dept {
			return true
		}
	}
	return false
}

// GateOpen reports whether the role's gate flag lets the account
// authenticate. Staff always pass. Deactivation is checked separately.
func (a *Account) GateOpen() bool {
	if a == nil {
		return false
	}
	switch a.Role {
	case RoleAdmin, RoleSuperAdmin:
		return true
	case RoleMember, RoleDonor:
		return a.IsApproved
	case RoleCountyOfficial:
		return a.IsVerified
	default:
		return true
	}
}
