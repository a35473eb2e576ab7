package dto

import (
	"time"

	"agcbo/internal/entity/db"
)

// DonationStats aggregates completed donations.
type DonationStats struct {
	TotalDonations int64   `json:"total_donations"`
	TotalAmount    float64 `json:"total_amount"`
}

// DonationCreateRequest is the public pledge form.
type DonationCreateRequest struct {
	DonorName     string  `json:"donor_name" form:"donor_name"`
	DonorEmail    string  `json:"donor_email" form:"donor_email" validate:"omitempty,email"`
	DonorPhone    string  `json:"donor_phone" form:"donor_phone"`
	IsAnonymous   bool    `json:"is_anonymous" form:"is_anonymous"`
	Amount        float64 `json:"amount" form:"amount" validate:"gt=0"`
	Currency      string  `json:"currency" form:"currency"`
	PaymentMethod string  `json:"payment_method" form:"payment_method" validate:"required,payment_method"`
	ProjectID     *uint   `json:"project_id" form:"project_id"`
	SponsorID     *uint   `json:"sponsor_id" form:"sponsor_id"`
	Notes         string  `json:"notes" form:"notes"`
}

// MarkCompletedRequest optionally records the gateway transaction id.
type MarkCompletedRequest struct {
	TransactionID string `json:"transaction_id"`
}

// PublicDonation is what non-staff see of a completed donation.
type PublicDonation struct {
	ID          uint       `json:"id"`
	DonorName   string     `json:"donor_name"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	ProjectID   *uint      `json:"project_id"`
	CompletedAt *time.Time `json:"completed_at"`
}

func NewPublicDonation(d *db.Donation) PublicDonation {
	return PublicDonation{
		ID:          d.ID,
		DonorName:   d.PublicName(),
		Amount:      d.Amount,
		Currency:    d.Currency,
		ProjectID:   d.ProjectID,
		CompletedAt: d.CompletedAt,
	}
}

// EventRegistrationRequest carries optional contact overrides.
type EventRegistrationRequest struct {
	FullName string `json:"full_name" form:"full_name"`
	Email    string `json:"email" form:"email"`
	Phone    string `json:"phone" form:"phone"`
	Notes    string `json:"notes" form:"notes"`
}

// AddProjectMemberRequest adds or re-roles a member on a project.
type AddProjectMemberRequest struct {
	MemberID uint   `json:"member_id" form:"member_id"`
	Role     string `json:"role" form:"role"`
}

// AddTeamMemberRequest adds a member profile to a team roster.
type AddTeamMemberRequest struct {
	MemberID     uint   `json:"member_id" form:"member_id"`
	Position     string `json:"position" form:"position"`
	JerseyNumber *int   `json:"jersey_number" form:"jersey_number"`
}

// AwardPointsRequest is a staff points grant or deduction.
type AwardPointsRequest struct {
	MemberID        uint   `json:"member_id"`
	Points          int    `json:"points"`
	TransactionType string `json:"transaction_type"`
	Description     string `json:"description"`
	EventID         *uint  `json:"event_id"`
	ProjectID       *uint  `json:"project_id"`
}

// MyPoints is the per-member points summary.
type MyPoints struct {
	TotalPoints        int64                  `json:"total_points"`
	RecentTransactions []db.PointsTransaction `json:"recent_transactions"`
}

// MemberTotal is one row of a monthly points aggregate.
type MemberTotal struct {
	MemberID    uint
	TotalPoints int64
}

// LeaderboardRebuildRequest selects the month to recompute; zero means the
// current month.
type LeaderboardRebuildRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// StatusRequest changes a contact message status.
type StatusRequest struct {
	Status string `json:"status" form:"status" binding:"required"`
}

// Dashboard holds the staff overview counters.
type Dashboard struct {
	PendingMembers         int64         `json:"pending_members"`
	PendingDonors          int64         `json:"pending_donors"`
	PendingCountyOfficials int64         `json:"pending_county_officials"`
	TotalAccounts          int64         `json:"total_accounts"`
	Projects               int64         `json:"projects"`
	ActiveProjects         int64         `json:"active_projects"`
	Events                 int64         `json:"events"`
	UpcomingEvents         int64         `json:"upcoming_events"`
	NewMessages            int64         `json:"new_messages"`
	Donations              DonationStats `json:"donations"`
}
