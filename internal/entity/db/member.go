package db

import (
	"strings"
	"time"
)

const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// MemberProfile holds the extended details of a member account. An account
// has at most one profile and may have none.
type MemberProfile struct {
	ID                    uint          `gorm:"primarykey" json:"id"`
	CreatedAt             time.Time     `json:"joined_date"`
	UpdatedAt             time.Time     `json:"updated_at"`
	AccountID             uint          `gorm:"column:account_id;uniqueIndex;not null" json:"account_id"`
	Account               *Account      `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	ProfilePicture        string        `gorm:"column:profile_picture;type:varchar(500)" json:"profile_picture"`
	DateOfBirth           *Date         `gorm:"column:date_of_birth" json:"date_of_birth"`
	Gender                string        `gorm:"column:gender;type:varchar(1)" json:"gender"`
	IDNumber              string        `gorm:"column:id_number;type:varchar(50)" json:"id_number"`
	Address               string        `gorm:"column:address;type:text" json:"address"`
	CountyID              *uint         `gorm:"column:county_id" json:"county_id"`
	Skills                string        `gorm:"column:skills;type:text" json:"skills"`
	Interests             string        `gorm:"column:interests;type:text" json:"interests"`
	Bio                   string        `gorm:"column:bio;type:text" json:"bio"`
	EmergencyContactName  string        `gorm:"column:emergency_contact_name;type:varchar(200)" json:"emergency_contact_name"`
	EmergencyContactPhone string        `gorm:"column:emergency_contact_phone;type:varchar(20)" json:"emergency_contact_phone"`
	IsActive              bool          `gorm:"column:is_active;not null" json:"is_active"`
	Certificates          []Certificate `gorm:"foreignKey:MemberID" json:"certificates,omitempty"`
}

func (MemberProfile) TableName() string {
	return "member_profiles"
}

func (m *MemberProfile) RecordID() uint      { return m.ID }
func (m *MemberProfile) SetRecordID(id uint) { m.ID = id }
func (m *MemberProfile) Label() string {
	if m.Account != nil {
		return m.Account.FullName()
	}
	return "member profile"
}

// SkillList splits the comma separated skills column.
func (m *MemberProfile) SkillList() []string { return splitCSV(m.Skills) }

// InterestList splits the comma separated interests column.
func (m *MemberProfile) InterestList() []string { return splitCSV(m.Interests) }

// Certificate is an award or qualification attached to a member profile.
type Certificate struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	MemberID        uint       `gorm:"column:member_id;index;not null" json:"member_id"`
	Title           string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description     string     `gorm:"column:description;type:text" json:"description"`
	IssuedBy        string     `gorm:"column:issued_by;type:varchar(200)" json:"issued_by"`
	IssueDate       *Date      `gorm:"column:issue_date" json:"issue_date"`
	CertificateFile string     `gorm:"column:certificate_file;type:varchar(500)" json:"certificate_file"`
	CertificateURL  string     `gorm:"column:certificate_url;type:varchar(500)" json:"certificate_url"`
}

func (Certificate) TableName() string {
	return "certificates"
}

func (c *Certificate) RecordID() uint      { return c.ID }
func (c *Certificate) SetRecordID(id uint) { c.ID = id }
func (c *Certificate) Label() string       { return c.Title }

func splitCSV(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
