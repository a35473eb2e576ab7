package db

import "time"

// SingletonID is the fixed primary key of SiteSettings and AboutPage.
const SingletonID uint = 1

// SiteSettings is the single row of site-wide branding and contact details.
type SiteSettings struct {
	ID                 uint      `gorm:"primarykey;autoIncrement:false" json:"id"`
	UpdatedAt          time.Time `json:"updated_at"`
	SiteName           string    `gorm:"column:site_name;type:varchar(200);not null" json:"site_name"`
	RegistrationNumber string    `gorm:"column:registration_number;type:varchar(100)" json:"registration_number"`
	Logo               string    `gorm:"column:logo;type:varchar(500)" json:"logo"`
	Favicon            string    `gorm:"column:favicon;type:varchar(500)" json:"favicon"`
	Hotline1           string    `gorm:"column:hotline_1;type:varchar(20)" json:"hotline_1"`
	Hotline2           string    `gorm:"column:hotline_2;type:varchar(20)" json:"hotline_2"`
	Hotline3           string    `gorm:"column:hotline_3;type:varchar(20)" json:"hotline_3"`
	Email              string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Address            string    `gorm:"column:address;type:text" json:"address"`
	BoxNumber          string    `gorm:"column:box_number;type:varchar(100)" json:"box_number"`
	FacebookURL        string    `gorm:"column:facebook_url;type:varchar(500)" json:"facebook_url"`
	TwitterURL         string    `gorm:"column:twitter_url;type:varchar(500)" json:"twitter_url"`
	InstagramURL       string    `gorm:"column:instagram_url;type:varchar(500)" json:"instagram_url"`
	YoutubeURL         string    `gorm:"column:youtube_url;type:varchar(500)" json:"youtube_url"`
	LinkedinURL        string    `gorm:"column:linkedin_url;type:varchar(500)" json:"linkedin_url"`
}

func (SiteSettings) TableName() string { return "site_settings" }

func (s *SiteSettings) RecordID() uint   { return s.ID }
func (s *SiteSettings) SetRecordID(uint) { s.ID = SingletonID }
func (s *SiteSettings) Label() string    { return s.SiteName }

// DefaultSiteSettings is the row created on first access.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		ID:                 SingletonID,
		SiteName:           "AGCBO Digital Hub",
		RegistrationNumber: "DSD/22/120/02/168788",
		Hotline1:           "+254715574285",
		Email:              "info@agcbo.org",
		Address:            "Gikambura (BUJU), Karai Ward Labour Office, Just Besides MCA's Office Along Gikambura Stadium",
	}
}

// AboutPage is the single row behind the public about page.
type AboutPage struct {
	ID         uint      `gorm:"primarykey;autoIncrement:false" json:"id"`
	UpdatedAt  time.Time `json:"updated_at"`
	Title      string    `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Intro      string    `gorm:"column:intro;type:text" json:"intro"`
	Mission    string    `gorm:"column:mission;type:text" json:"mission"`
	Vision     string    `gorm:"column:vision;type:text" json:"vision"`
	CoreValues string    `gorm:"column:core_values;type:text" json:"core_values"`
	History    string    `gorm:"column:history;type:text" json:"history"`
	Objectives string    `gorm:"column:objectives;type:text" json:"objectives"`
}

func (AboutPage) TableName() string { return "about_pages" }

func (a *AboutPage) RecordID() uint   { return a.ID }
func (a *AboutPage) SetRecordID(uint) { a.ID = SingletonID }
func (a *AboutPage) Label() string    { return a.Title }
func (a *AboutPage) RichTextFields() []*string {
	return []*string{&a.Intro, &a.Mission, &a.Vision, &a.CoreValues, &a.History, &a.Objectives}
}

func DefaultAboutPage() AboutPage {
	return AboutPage{ID: SingletonID, Title: "About AGCBO"}
}

// Official is a committee member shown on the officials page.
type Official struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Position    string    `gorm:"column:position;type:varchar(200);not null" json:"position"`
	Photo       string    `gorm:"column:photo;type:varchar(500)" json:"photo"`
	Bio         string    `gorm:"column:bio;type:text" json:"bio"`
	Phone       string    `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Email       string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Order       int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	IsPublished bool      `gorm:"column:is_published;index;not null" json:"is_published"`
}

func (Official) TableName() string { return "officials" }

func (o *Official) RecordID() uint            { return o.ID }
func (o *Official) SetRecordID(id uint)       { o.ID = id }
func (o *Official) Label() string             { return o.Name }
func (o *Official) ApplyDefaults()            { o.IsPublished = true }
func (o *Official) RichTextFields() []*string { return []*string{&o.Bio} }

// YouthJob is an opportunity advertised to the youth.
type YouthJob struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Title            string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Organization     string     `gorm:"column:organization;type:varchar(200)" json:"organization"`
	Description      string     `gorm:"column:description;type:text" json:"description"`
	Location         string     `gorm:"column:location;type:varchar(200)" json:"location"`
	JobType          string     `gorm:"column:job_type;type:varchar(50)" json:"job_type"`
	ApplicationURL   string     `gorm:"column:application_url;type:varchar(500)" json:"application_url"`
	ApplicationEmail string     `gorm:"column:application_email;type:varchar(255)" json:"application_email"`
	Deadline         *Date      `gorm:"column:deadline" json:"deadline"`
	IsPublished      bool       `gorm:"column:is_published;index;not null" json:"is_published"`
}

func (YouthJob) TableName() string { return "youth_jobs" }

func (j *YouthJob) RecordID() uint            { return j.ID }
func (j *YouthJob) SetRecordID(id uint)       { j.ID = id }
func (j *YouthJob) Label() string             { return j.Title }
func (j *YouthJob) ApplyDefaults()            { j.IsPublished = true }
func (j *YouthJob) RichTextFields() []*string { return []*string{&j.Description} }
