package db

import "time"

const (
	ReportMemberParticipation = "member_participation"
	ReportProjectProgress     = "project_progress"
	ReportFundingAllocation   = "funding_allocation"
	ReportFinancial           = "financial"
	ReportAnnual              = "annual"
	ReportQuarterly           = "quarterly"
	ReportMonthly             = "monthly"
	ReportOther               = "other"
)

const (
	MessageNew      = "new"
	MessageRead     = "read"
	MessageReplied  = "replied"
	MessageArchived = "archived"
)

var MessageStatuses = []string{MessageNew, MessageRead, MessageReplied, MessageArchived}

type Report struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Title       string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	ReportType  string     `gorm:"column:report_type;type:varchar(30);not null;default:other" json:"report_type"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	PeriodStart *time.Time `gorm:"column:period_start" json:"period_start"`
	PeriodEnd   *time.Time `gorm:"column:period_end" json:"period_end"`
	File        string     `gorm:"column:file;type:varchar(500)" json:"file"`
	Data        string     `gorm:"column:data;type:text" json:"data"`
	CreatedByID *uint      `gorm:"column:created_by_id" json:"created_by_id"`
	IsPublic    bool       `gorm:"column:is_public;index;not null;default:false" json:"is_public"`
}

func (Report) TableName() string { return "reports" }

func (r *Report) RecordID() uint              { return r.ID }
func (r *Report) SetRecordID(id uint)         { r.ID = id }
func (r *Report) Label() string               { return r.Title }
func (r *Report) SetCreatedBy(accountID uint) { r.CreatedByID = &accountID }
func (r *Report) RichTextFields() []*string   { return []*string{&r.Description} }

type ContactMessage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(255);not null" json:"email"`
	Phone     string    `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Subject   string    `gorm:"column:subject;type:varchar(200);not null" json:"subject"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	Status    string    `gorm:"column:status;type:varchar(20);index;not null;default:new" json:"status"`
	SourceIP  string    `gorm:"column:source_ip;type:varchar(45)" json:"-"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

func (m *ContactMessage) RecordID() uint      { return m.ID }
func (m *ContactMessage) SetRecordID(id uint) { m.ID = id }
func (m *ContactMessage) Label() string       { return m.Subject }
