package db

import "time"

const (
	EventWorkshop         = "workshop"
	EventTraining         = "training"
	EventMeeting          = "meeting"
	EventCommunityService = "community_service"
	EventSports           = "sports"
	EventCultural         = "cultural"
	EventFundraising      = "fundraising"
	EventOther            = "other"
)

var EventTypes = []string{EventWorkshop, EventTraining, EventMeeting, EventCommunityService, EventSports, EventCultural, EventFundraising, EventOther}

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFree    = "free"
)

type Event struct {
	ID                   uint       `gorm:"primarykey" json:"id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	Title                string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Slug                 string     `gorm:"column:slug;type:varchar(220);uniqueIndex;not null" json:"slug"`
	Description          string     `gorm:"column:description;type:text" json:"description"`
	EventType            string     `gorm:"column:event_type;type:varchar(30);not null;default:other" json:"event_type"`
	Venue                string     `gorm:"column:venue;type:varchar(200)" json:"venue"`
	IsOnline             bool       `gorm:"column:is_online;not null;default:false" json:"is_online"`
	OnlineLink           string     `gorm:"column:online_link;type:varchar(500)" json:"online_link"`
	StartDate            time.Time  `gorm:"column:start_date;index;not null" json:"start_date"`
	EndDate              *time.Time `gorm:"column:end_date" json:"end_date"`
	RegistrationDeadline *time.Time `gorm:"column:registration_deadline" json:"registration_deadline"`
	RequiresRegistration bool       `gorm:"column:requires_registration;not null;default:false" json:"requires_registration"`
	MaxParticipants      *int       `gorm:"column:max_participants" json:"max_participants"`
	RegistrationFee      float64    `gorm:"column:registration_fee;type:decimal(10,2);not null;default:0" json:"registration_fee"`
	ProjectID            *uint      `gorm:"column:project_id;index" json:"project_id"`
	Project              *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	FeaturedImage        string     `gorm:"column:featured_image;type:varchar(500)" json:"featured_image"`
	CreatedByID          *uint      `gorm:"column:created_by_id" json:"created_by_id"`
	IsPublished          bool       `gorm:"column:is_published;index;not null;default:false" json:"is_published"`
	IsFeatured           bool       `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
	RegisteredCount      int64      `gorm:"-" json:"registered_count"`
}

func (Event) TableName() string { return "events" }

func (e *Event) RecordID() uint              { return e.ID }
func (e *Event) SetRecordID(id uint)         { e.ID = id }
func (e *Event) Label() string               { return e.Title }
func (e *Event) SetCreatedBy(accountID uint) { e.CreatedByID = &accountID }
func (e *Event) SlugSource() string          { return e.Title }
func (e *Event) SlugField() *string          { return &e.Slug }
func (e *Event) RichTextFields() []*string   { return []*string{&e.Description} }

// IsFull reports whether a participant cap exists and has been reached. A
// cap of zero means unlimited. RegisteredCount must be loaded first.
func (e *Event) IsFull() bool {
	return e.MaxParticipants != nil && *e.MaxParticipants > 0 && e.RegisteredCount >= int64(*e.MaxParticipants)
}

// DeadlinePassed reports whether registration closed before now.
func (e *Event) DeadlinePassed(now time.Time) bool {
	return e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline)
}

// EventRegistration records an account's attendance request. An account can
// register for an event once.
type EventRegistration struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time      `json:"registered_at"`
	EventID       uint           `gorm:"column:event_id;not null;uniqueIndex:idx_event_account" json:"event_id"`
	Event         *Event         `gorm:"foreignKey:EventID" json:"event,omitempty"`
	AccountID     *uint          `gorm:"column:account_id;uniqueIndex:idx_event_account" json:"account_id"`
	MemberID      *uint          `gorm:"column:member_id;index" json:"member_id"`
	Member        *MemberProfile `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	FullName      string         `gorm:"column:full_name;type:varchar(200)" json:"full_name"`
	Email         string         `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone         string         `gorm:"column:phone;type:varchar(20)" json:"phone"`
	IsConfirmed   bool           `gorm:"column:is_confirmed;not null;default:false" json:"is_confirmed"`
	PaymentStatus string         `gorm:"column:payment_status;type:varchar(20);not null;default:pending" json:"payment_status"`
	Notes         string         `gorm:"column:notes;type:text" json:"notes"`
}

func (EventRegistration) TableName() string { return "event_registrations" }

func (r *EventRegistration) RecordID() uint      { return r.ID }
func (r *EventRegistration) SetRecordID(id uint) { r.ID = id }
func (r *EventRegistration) Label() string       { return r.FullName }

type Announcement struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Title       string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Slug        string     `gorm:"column:slug;type:varchar(220);uniqueIndex;not null" json:"slug"`
	Content     string     `gorm:"column:content;type:text" json:"content"`
	PublishDate *time.Time `gorm:"column:publish_date" json:"publish_date"`
	CreatedByID *uint      `gorm:"column:created_by_id" json:"created_by_id"`
	IsPublished bool       `gorm:"column:is_published;index;not null;default:false" json:"is_published"`
	IsFeatured  bool       `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
}

func (Announcement) TableName() string { return "announcements" }

func (a *Announcement) RecordID() uint              { return a.ID }
func (a *Announcement) SetRecordID(id uint)         { a.ID = id }
func (a *Announcement) Label() string               { return a.Title }
func (a *Announcement) SetCreatedBy(accountID uint) { a.CreatedByID = &accountID }
func (a *Announcement) SlugSource() string          { return a.Title }
func (a *Announcement) SlugField() *string          { return &a.Slug }
func (a *Announcement) RichTextFields() []*string   { return []*string{&a.Content} }
