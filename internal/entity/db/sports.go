package db

import "time"

const (
	PositionPlayer      = "player"
	PositionCaptain     = "captain"
	PositionViceCaptain = "vice_captain"
	PositionSubstitute  = "substitute"
)

var TeamPositions = []string{PositionPlayer, PositionCaptain, PositionViceCaptain, PositionSubstitute}

const (
	ResultWin     = "win"
	ResultLoss    = "loss"
	ResultDraw    = "draw"
	ResultPending = "pending"
)

type SportProgram struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	SportType   string    `gorm:"column:sport_type;type:varchar(100);not null" json:"sport_type"`
	Logo        string    `gorm:"column:logo;type:varchar(500)" json:"logo"`
	IsActive    bool      `gorm:"column:is_active;index;not null" json:"is_active"`
	Teams       []Team    `gorm:"foreignKey:SportProgramID" json:"teams,omitempty"`
}

func (SportProgram) TableName() string { return "sport_programs" }

func (p *SportProgram) RecordID() uint      { return p.ID }
func (p *SportProgram) SetRecordID(id uint) { p.ID = id }
func (p *SportProgram) Label() string       { return p.Name }
func (p *SportProgram) ApplyDefaults()      { p.IsActive = true }

type Team struct {
	ID             uint          `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time     `json:"created_at"`
	Name           string        `gorm:"column:name;type:varchar(200);not null" json:"name"`
	SportProgramID uint          `gorm:"column:sport_program_id;index;not null" json:"sport_program_id"`
	SportProgram   *SportProgram `gorm:"foreignKey:SportProgramID" json:"sport_program,omitempty"`
	Description    string        `gorm:"column:description;type:text" json:"description"`
	Logo           string        `gorm:"column:logo;type:varchar(500)" json:"logo"`
	CoachName      string        `gorm:"column:coach_name;type:varchar(200)" json:"coach_name"`
	CoachPhone     string        `gorm:"column:coach_phone;type:varchar(20)" json:"coach_phone"`
	IsActive       bool          `gorm:"column:is_active;index;not null" json:"is_active"`
}

func (Team) TableName() string { return "teams" }

func (t *Team) RecordID() uint      { return t.ID }
func (t *Team) SetRecordID(id uint) { t.ID = id }
func (t *Team) Label() string       { return t.Name }
func (t *Team) ApplyDefaults()      { t.IsActive = true }

type TeamMember struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"joined_date"`
	TeamID       uint           `gorm:"column:team_id;not null;uniqueIndex:idx_team_member" json:"team_id"`
	MemberID     uint           `gorm:"column:member_id;not null;uniqueIndex:idx_team_member" json:"member_id"`
	Member       *MemberProfile `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Position     string         `gorm:"column:position;type:varchar(20);not null;default:player" json:"position"`
	JerseyNumber *int           `gorm:"column:jersey_number" json:"jersey_number"`
	IsActive     bool           `gorm:"column:is_active;not null" json:"is_active"`
}

func (TeamMember) TableName() string { return "team_members" }

func (m *TeamMember) RecordID() uint      { return m.ID }
func (m *TeamMember) SetRecordID(id uint) { m.ID = id }
func (m *TeamMember) Label() string       { return "team member" }

type Match struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	TeamID        uint      `gorm:"column:team_id;index;not null" json:"team_id"`
	Team          *Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Opponent      string    `gorm:"column:opponent;type:varchar(200);not null" json:"opponent"`
	MatchType     string    `gorm:"column:match_type;type:varchar(20);not null;default:friendly" json:"match_type"`
	Venue         string    `gorm:"column:venue;type:varchar(200)" json:"venue"`
	MatchDate     time.Time `gorm:"column:match_date;index;not null" json:"match_date"`
	OurScore      *int      `gorm:"column:our_score" json:"our_score"`
	OpponentScore *int      `gorm:"column:opponent_score" json:"opponent_score"`
	Result        string    `gorm:"column:result;type:varchar(20);not null;default:pending" json:"result"`
	Notes         string    `gorm:"column:notes;type:text" json:"notes"`
}

func (Match) TableName() string { return "matches" }

func (m *Match) RecordID() uint      { return m.ID }
func (m *Match) SetRecordID(id uint) { m.ID = id }
func (m *Match) Label() string       { return "vs " + m.Opponent }

type TrainingSchedule struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	TeamID            uint      `gorm:"column:team_id;index;not null" json:"team_id"`
	Team              *Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Title             string    `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description       string    `gorm:"column:description;type:text" json:"description"`
	Venue             string    `gorm:"column:venue;type:varchar(200)" json:"venue"`
	StartTime         time.Time `gorm:"column:start_time;not null" json:"start_time"`
	EndTime           time.Time `gorm:"column:end_time;not null" json:"end_time"`
	IsRecurring       bool      `gorm:"column:is_recurring;not null;default:false" json:"is_recurring"`
	RecurrencePattern string    `gorm:"column:recurrence_pattern;type:varchar(100)" json:"recurrence_pattern"`
}

func (TrainingSchedule) TableName() string { return "training_schedules" }

func (s *TrainingSchedule) RecordID() uint      { return s.ID }
func (s *TrainingSchedule) SetRecordID(id uint) { s.ID = id }
func (s *TrainingSchedule) Label() string       { return s.Title }
