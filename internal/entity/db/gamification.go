package db

import "time"

const (
	PointsEventAttendance      = "event_attendance"
	PointsProjectParticipation = "project_participation"
	PointsVolunteerHours       = "volunteer_hours"
	PointsAchievement          = "achievement"
	PointsBadgeEarned          = "badge_earned"
	PointsAdminAdjustment      = "admin_adjustment"
	PointsPenalty              = "penalty"
)

var PointsTypes = []string{
	PointsEventAttendance, PointsProjectParticipation, PointsVolunteerHours,
	PointsAchievement, PointsBadgeEarned, PointsAdminAdjustment, PointsPenalty,
}

type Badge struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Name           string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Slug           string    `gorm:"column:slug;type:varchar(120);uniqueIndex;not null" json:"slug"`
	Description    string    `gorm:"column:description;type:text" json:"description"`
	Icon           string    `gorm:"column:icon;type:varchar(500)" json:"icon"`
	PointsRequired int       `gorm:"column:points_required;not null;default:0" json:"points_required"`
	BadgeType      string    `gorm:"column:badge_type;type:varchar(20);not null;default:achievement" json:"badge_type"`
	IsActive       bool      `gorm:"column:is_active;not null" json:"is_active"`
}

func (Badge) TableName() string { return "badges" }

func (b *Badge) RecordID() uint      { return b.ID }
func (b *Badge) SetRecordID(id uint) { b.ID = id }
func (b *Badge) Label() string       { return b.Name }
func (b *Badge) ApplyDefaults()      { b.IsActive = true }
func (b *Badge) SlugSource() string  { return b.Name }
func (b *Badge) SlugField() *string  { return &b.Slug }

type MemberBadge struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"earned_at"`
	MemberID  uint           `gorm:"column:member_id;not null;uniqueIndex:idx_member_badge" json:"member_id"`
	Member    *MemberProfile `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	BadgeID   uint           `gorm:"column:badge_id;not null;uniqueIndex:idx_member_badge" json:"badge_id"`
	Badge     *Badge         `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	Reason    string         `gorm:"column:reason;type:text" json:"reason"`
}

func (MemberBadge) TableName() string { return "member_badges" }

func (b *MemberBadge) RecordID() uint      { return b.ID }
func (b *MemberBadge) SetRecordID(id uint) { b.ID = id }
func (b *MemberBadge) Label() string       { return "member badge" }

type PointsTransaction struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	MemberID        uint      `gorm:"column:member_id;index;not null" json:"member_id"`
	Points          int       `gorm:"column:points;not null" json:"points"`
	TransactionType string    `gorm:"column:transaction_type;type:varchar(30);not null" json:"transaction_type"`
	Description     string    `gorm:"column:description;type:text" json:"description"`
	EventID         *uint     `gorm:"column:event_id" json:"event_id"`
	ProjectID       *uint     `gorm:"column:project_id" json:"project_id"`
	CreatedByID     *uint     `gorm:"column:created_by_id" json:"created_by_id"`
}

func (PointsTransaction) TableName() string { return "points_transactions" }

func (p *PointsTransaction) RecordID() uint      { return p.ID }
func (p *PointsTransaction) SetRecordID(id uint) { p.ID = id }
func (p *PointsTransaction) Label() string       { return p.TransactionType }

// Leaderboard is a monthly ranking snapshot.
type Leaderboard struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	Year        int            `gorm:"column:year;not null;uniqueIndex:idx_leaderboard_period_member" json:"year"`
	Month       int            `gorm:"column:month;not null;uniqueIndex:idx_leaderboard_period_member" json:"month"`
	MemberID    uint           `gorm:"column:member_id;not null;uniqueIndex:idx_leaderboard_period_member" json:"member_id"`
	Member      *MemberProfile `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	TotalPoints int            `gorm:"column:total_points;not null;default:0" json:"total_points"`
	Rank        int            `gorm:"column:rank_position;not null" json:"rank"`
	BadgesCount int            `gorm:"column:badges_count;not null;default:0" json:"badges_count"`
}

func (Leaderboard) TableName() string { return "leaderboards" }
