package db

import "time"

const (
	SourceMinistry   = "ministry"
	SourceCounty     = "county"
	SourceDonor      = "donor"
	SourceSponsor    = "sponsor"
	SourceSelfFunded = "self_funded"
)

const (
	PaymentMpesa  = "mpesa"
	PaymentBank   = "bank"
	PaymentPaypal = "paypal"
	PaymentStripe = "stripe"
	PaymentCash   = "cash"
	PaymentOther  = "other"
)

var PaymentMethods = []string{PaymentMpesa, PaymentBank, PaymentPaypal, PaymentStripe, PaymentCash, PaymentOther}

const (
	DonationPending   = "pending"
	DonationCompleted = "completed"
	DonationFailed    = "failed"
	DonationCancelled = "cancelled"
)

type FundingSource struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	SourceType  string    `gorm:"column:source_type;type:varchar(20);not null" json:"source_type"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Contact     string    `gorm:"column:contact_person;type:varchar(200)" json:"contact_person"`
	Email       string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone       string    `gorm:"column:phone;type:varchar(20)" json:"phone"`
	MinistryID  *uint     `gorm:"column:ministry_id" json:"ministry_id"`
	CountyID    *uint     `gorm:"column:county_id" json:"county_id"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
}

func (FundingSource) TableName() string { return "funding_sources" }

func (f *FundingSource) RecordID() uint      { return f.ID }
func (f *FundingSource) SetRecordID(id uint) { f.ID = id }
func (f *FundingSource) Label() string       { return f.Name }
func (f *FundingSource) ApplyDefaults()      { f.IsActive = true }

type Sponsor struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Logo        string    `gorm:"column:logo;type:varchar(500)" json:"logo"`
	Website     string    `gorm:"column:website;type:varchar(500)" json:"website"`
	Email       string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone       string    `gorm:"column:phone;type:varchar(20)" json:"phone"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
}

func (Sponsor) TableName() string { return "sponsors" }

func (s *Sponsor) RecordID() uint      { return s.ID }
func (s *Sponsor) SetRecordID(id uint) { s.ID = id }
func (s *Sponsor) Label() string       { return s.Name }
func (s *Sponsor) ApplyDefaults()      { s.IsActive = true }

// Donation is a pledged or received contribution. Only completed donations
// are visible outside the admin tier.
type Donation struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	AccountID     *uint      `gorm:"column:account_id;index" json:"account_id"`
	DonorName     string     `gorm:"column:donor_name;type:varchar(200);not null" json:"donor_name"`
	DonorEmail    string     `gorm:"column:donor_email;type:varchar(255)" json:"donor_email"`
	DonorPhone    string     `gorm:"column:donor_phone;type:varchar(20)" json:"donor_phone"`
	IsAnonymous   bool       `gorm:"column:is_anonymous;not null;default:false" json:"is_anonymous"`
	Amount        float64    `gorm:"column:amount;type:decimal(15,2);not null" json:"amount"`
	Currency      string     `gorm:"column:currency;type:varchar(3);not null;default:KES" json:"currency"`
	PaymentMethod string     `gorm:"column:payment_method;type:varchar(20);not null" json:"payment_method"`
	Status        string     `gorm:"column:status;type:varchar(20);index;not null;default:pending" json:"status"`
	ProjectID     *uint      `gorm:"column:project_id;index" json:"project_id"`
	Project       *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	SponsorID     *uint      `gorm:"column:sponsor_id;index" json:"sponsor_id"`
	Sponsor       *Sponsor   `gorm:"foreignKey:SponsorID" json:"sponsor,omitempty"`
	TransactionID *string    `gorm:"column:transaction_id;type:varchar(200);uniqueIndex" json:"transaction_id"`
	Reference     string     `gorm:"column:reference;type:varchar(36);uniqueIndex;not null" json:"reference"`
	CompletedAt   *time.Time `gorm:"column:completed_at" json:"completed_at"`
	ReceiptSent   bool       `gorm:"column:receipt_sent;not null;default:false" json:"receipt_sent"`
	Notes         string     `gorm:"column:notes;type:text" json:"notes"`
}

func (Donation) TableName() string { return "donations" }

func (d *Donation) RecordID() uint      { return d.ID }
func (d *Donation) SetRecordID(id uint) { d.ID = id }
func (d *Donation) Label() string {
	if d.IsAnonymous {
		return "Anonymous donation " + d.Reference
	}
	return d.DonorName + " " + d.Reference
}

// PublicName hides the donor's name when they asked to stay anonymous.
func (d *Donation) PublicName() string {
	if d.IsAnonymous {
		return "Anonymous"
	}
	return d.DonorName
}

type DonationTier struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	MinAmount   float64   `gorm:"column:min_amount;type:decimal(15,2);not null" json:"min_amount"`
	MaxAmount   *float64  `gorm:"column:max_amount;type:decimal(15,2)" json:"max_amount"`
	Currency    string    `gorm:"column:currency;type:varchar(3);not null;default:KES" json:"currency"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Benefits    string    `gorm:"column:benefits;type:text" json:"benefits"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
}

func (DonationTier) TableName() string { return "donation_tiers" }

func (t *DonationTier) RecordID() uint      { return t.ID }
func (t *DonationTier) SetRecordID(id uint) { t.ID = id }
func (t *DonationTier) Label() string       { return t.Name }
func (t *DonationTier) ApplyDefaults()      { t.IsActive = true }
