package db

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProjectStatusPlanned   = "planned"
	ProjectStatusOngoing   = "ongoing"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCancelled = "cancelled"
)

var ProjectStatuses = []string{ProjectStatusPlanned, ProjectStatusOngoing, ProjectStatusCompleted, ProjectStatusOnHold, ProjectStatusCancelled}

const (
	ProjectRoleLeader      = "leader"
	ProjectRoleCoordinator = "coordinator"
	ProjectRoleMember      = "member"
	ProjectRoleVolunteer   = "volunteer"
)

var ProjectMemberRoles = []string{ProjectRoleLeader, ProjectRoleCoordinator, ProjectRoleMember, ProjectRoleVolunteer}

type County struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	Code      string    `gorm:"column:code;type:varchar(10)" json:"code"`
}

func (County) TableName() string { return "counties" }

func (c *County) RecordID() uint      { return c.ID }
func (c *County) SetRecordID(id uint) { c.ID = id }
func (c *County) Label() string       { return c.Name }

type Ministry struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Contact     string    `gorm:"column:contact_person;type:varchar(200)" json:"contact_person"`
	Email       string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone       string    `gorm:"column:phone;type:varchar(20)" json:"phone"`
}

func (Ministry) TableName() string { return "ministries" }

func (m *Ministry) RecordID() uint      { return m.ID }
func (m *Ministry) SetRecordID(id uint) { m.ID = id }
func (m *Ministry) Label() string       { return m.Name }

type ProjectCategory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Slug        string    `gorm:"column:slug;type:varchar(120);uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Color       string    `gorm:"column:color;type:varchar(7);default:'#007bff'" json:"color"`
}

func (ProjectCategory) TableName() string { return "project_categories" }

func (c *ProjectCategory) RecordID() uint      { return c.ID }
func (c *ProjectCategory) SetRecordID(id uint) { c.ID = id }
func (c *ProjectCategory) Label() string       { return c.Name }
func (c *ProjectCategory) SlugSource() string  { return c.Name }
func (c *ProjectCategory) SlugField() *string  { return &c.Slug }

// Project is a community initiative with a budget. BudgetUtilization is
// derived on load and never stored.
type Project struct {
	ID                uint             `gorm:"primarykey" json:"id"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Title             string           `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Slug              string           `gorm:"column:slug;type:varchar(220);uniqueIndex;not null" json:"slug"`
	Description       string           `gorm:"column:description;type:text" json:"description"`
	Objectives        string           `gorm:"column:objectives;type:text" json:"objectives"`
	CategoryID        *uint            `gorm:"column:category_id;index" json:"category_id"`
	Category          *ProjectCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CountyID          *uint            `gorm:"column:county_id;index" json:"county_id"`
	County            *County          `gorm:"foreignKey:CountyID" json:"county,omitempty"`
	MinistryID        *uint            `gorm:"column:ministry_id;index" json:"ministry_id"`
	Ministry          *Ministry        `gorm:"foreignKey:MinistryID" json:"ministry,omitempty"`
	Status            string           `gorm:"column:status;type:varchar(20);index;not null;default:planned" json:"status"`
	BudgetAmount      float64          `gorm:"column:budget_amount;type:decimal(15,2);not null;default:0" json:"budget_amount"`
	BudgetCurrency    string           `gorm:"column:budget_currency;type:varchar(3);not null;default:KES" json:"budget_currency"`
	AllocatedAmount   float64          `gorm:"column:allocated_amount;type:decimal(15,2);not null;default:0" json:"allocated_amount"`
	SpentAmount       float64          `gorm:"column:spent_amount;type:decimal(15,2);not null;default:0" json:"spent_amount"`
	StartDate         *Date            `gorm:"column:start_date" json:"start_date"`
	EndDate           *Date            `gorm:"column:end_date" json:"end_date"`
	ExpectedEndDate   *Date            `gorm:"column:expected_end_date" json:"expected_end_date"`
	FeaturedImage     string           `gorm:"column:featured_image;type:varchar(500)" json:"featured_image"`
	CreatedByID       *uint            `gorm:"column:created_by_id;index" json:"created_by_id"`
	IsFeatured        bool             `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
	IsPublic          bool             `gorm:"column:is_public;not null" json:"is_public"`
	BudgetUtilization float64          `gorm:"-" json:"budget_utilization"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) RecordID() uint              { return p.ID }
func (p *Project) SetRecordID(id uint)         { p.ID = id }
func (p *Project) Label() string               { return p.Title }
func (p *Project) SetCreatedBy(accountID uint) { p.CreatedByID = &accountID }
func (p *Project) SlugSource() string          { return p.Title }
func (p *Project) SlugField() *string          { return &p.Slug }
func (p *Project) RichTextFields() []*string   { return []*string{&p.Description, &p.Objectives} }

// ApplyDefaults prepares a new project before client fields are decoded onto it.
func (p *Project) ApplyDefaults() {
	p.Status = ProjectStatusPlanned
	p.BudgetCurrency = "KES"
	p.IsPublic = true
}

func (p *Project) AfterFind(*gorm.DB) error {
	p.BudgetUtilization = BudgetUtilization(p.SpentAmount, p.BudgetAmount)
	return nil
}

// BudgetUtilization returns spent as a percentage of budget, or 0 when no
// budget is set.
func BudgetUtilization(spent, budget float64) float64 {
	if budget == 0 {
		return 0
	}
	return spent / budget * 100
}

// ProjectMember links a member profile to a project with a role.
type ProjectMember struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"joined_date"`
	ProjectID uint           `gorm:"column:project_id;not null;uniqueIndex:idx_project_member" json:"project_id"`
	Project   *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	MemberID  uint           `gorm:"column:member_id;not null;uniqueIndex:idx_project_member" json:"member_id"`
	Member    *MemberProfile `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Role      string         `gorm:"column:role;type:varchar(20);not null;default:member" json:"role"`
	IsActive  bool           `gorm:"column:is_active;not null" json:"is_active"`
}

func (ProjectMember) TableName() string { return "project_members" }

func (m *ProjectMember) RecordID() uint      { return m.ID }
func (m *ProjectMember) SetRecordID(id uint) { m.ID = id }
func (m *ProjectMember) Label() string       { return "project member" }

type ProjectReport struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	ProjectID   uint       `gorm:"column:project_id;index;not null" json:"project_id"`
	Project     *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Title       string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Content     string     `gorm:"column:content;type:text" json:"content"`
	ReportDate  *Date      `gorm:"column:report_date" json:"report_date"`
	File        string     `gorm:"column:file;type:varchar(500)" json:"file"`
	CreatedByID *uint      `gorm:"column:created_by_id" json:"created_by_id"`
	IsPublic    bool       `gorm:"column:is_public;not null" json:"is_public"`
}

func (ProjectReport) TableName() string { return "project_reports" }

func (r *ProjectReport) RecordID() uint              { return r.ID }
func (r *ProjectReport) SetRecordID(id uint)         { r.ID = id }
func (r *ProjectReport) Label() string               { return r.Title }
func (r *ProjectReport) SetCreatedBy(accountID uint) { r.CreatedByID = &accountID }
func (r *ProjectReport) RichTextFields() []*string   { return []*string{&r.Content} }
