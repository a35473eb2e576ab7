package model

import (
	"agcbo/internal/entity/db"
	"agcbo/internal/model/sql"

	"gorm.io/gorm"
)

// Tables groups the generic catalogues, one per record type.
type Tables struct {
	Projects          Table[db.Project]
	ProjectCategories Table[db.ProjectCategory]
	Counties          Table[db.County]
	Ministries        Table[db.Ministry]
	ProjectMembers    Table[db.ProjectMember]
	ProjectReports    Table[db.ProjectReport]

	FundingSources Table[db.FundingSource]
	Sponsors       Table[db.Sponsor]
	DonationTiers  Table[db.DonationTier]
	Donations      Table[db.Donation]

	Events        Table[db.Event]
	Registrations Table[db.EventRegistration]
	Announcements Table[db.Announcement]

	Gallery Table[db.GalleryItem]

	SportPrograms Table[db.SportProgram]
	Teams         Table[db.Team]
	TeamMembers   Table[db.TeamMember]
	Matches       Table[db.Match]
	Training      Table[db.TrainingSchedule]

	Badges       Table[db.Badge]
	MemberBadges Table[db.MemberBadge]
	Points       Table[db.PointsTransaction]
	Leaderboards Table[db.Leaderboard]

	Reports         Table[db.Report]
	ContactMessages Table[db.ContactMessage]

	MemberProfiles Table[db.MemberProfile]
	Certificates   Table[db.Certificate]

	Officials Table[db.Official]
	YouthJobs Table[db.YouthJob]

	SiteSettings Singleton[db.SiteSettings]
	AboutPage    Singleton[db.AboutPage]
}

// NewTables wires every catalogue with its visibility flag, preloads and
// listing rules.
func NewTables(gdb *gorm.DB) *Tables {
	return &Tables{
		Projects: sql.NewTable[db.Project](gdb, sql.TableSpec{
			Visibility: "is_public",
			Preload:    []string{"Category", "County", "Ministry"},
			Order:      "created_at DESC",
			Sortable:   []string{"created_at", "title", "start_date", "budget_amount"},
			Filterable: []string{"status", "category_id", "county_id", "ministry_id", "is_featured"},
			Search:     []string{"title", "description"},
		}),
		ProjectCategories: sql.NewTable[db.ProjectCategory](gdb, sql.TableSpec{Order: "name ASC"}),
		Counties:          sql.NewTable[db.County](gdb, sql.TableSpec{Order: "name ASC"}),
		Ministries:        sql.NewTable[db.Ministry](gdb, sql.TableSpec{Order: "name ASC"}),
		ProjectMembers: sql.NewTable[db.ProjectMember](gdb, sql.TableSpec{
			Preload:    []string{"Member.Account"},
			Order:      "created_at ASC, id ASC",
			Filterable: []string{"project_id", "member_id", "role", "is_active"},
		}),
		ProjectReports: sql.NewTable[db.ProjectReport](gdb, sql.TableSpec{
			Visibility: "is_public",
			Order:      "created_at DESC",
			Filterable: []string{"project_id"},
			Search:     []string{"title"},
		}),

		FundingSources: sql.NewTable[db.FundingSource](gdb, sql.TableSpec{
			Visibility: "is_active",
			Order:      "name ASC",
			Filterable: []string{"source_type"},
		}),
		Sponsors: sql.NewTable[db.Sponsor](gdb, sql.TableSpec{Visibility: "is_active", Order: "name ASC"}),
		DonationTiers: sql.NewTable[db.DonationTier](gdb, sql.TableSpec{
			Visibility: "is_active",
			Order:      "min_amount ASC",
		}),
		Donations: sql.NewTable[db.Donation](gdb, sql.TableSpec{
			Visibility:   "status",
			VisibleValue: db.DonationCompleted,
			Preload:      []string{"Project", "Sponsor"},
			Order:        "created_at DESC",
			Sortable:     []string{"created_at", "amount"},
			Filterable:   []string{"status", "project_id", "sponsor_id", "payment_method"},
			Search:       []string{"donor_name", "donor_email", "reference"},
		}),

		Events: sql.NewTable[db.Event](gdb, sql.TableSpec{
			Visibility: "is_published",
			Preload:    []string{"Project"},
			Order:      "start_date DESC",
			Sortable:   []string{"start_date", "title", "created_at"},
			Filterable: []string{"event_type", "project_id", "is_featured", "is_online"},
			Search:     []string{"title", "description", "venue"},
		}),
		Registrations: sql.NewTable[db.EventRegistration](gdb, sql.TableSpec{
			Preload:    []string{"Event"},
			Order:      "created_at DESC",
			Filterable: []string{"event_id", "is_confirmed", "payment_status"},
		}),
		Announcements: sql.NewTable[db.Announcement](gdb, sql.TableSpec{
			Visibility: "is_published",
			Order:      "created_at DESC",
			Filterable: []string{"is_featured"},
			Search:     []string{"title"},
		}),

		Gallery: sql.NewTable[db.GalleryItem](gdb, sql.TableSpec{
			Visibility: "is_public",
			Order:      "created_at DESC",
			Filterable: []string{"media_type", "project_id", "event_id", "year", "is_featured"},
			Search:     []string{"title", "tags"},
		}),

		SportPrograms: sql.NewTable[db.SportProgram](gdb, sql.TableSpec{
			Visibility: "is_active",
			Order:      "name ASC",
			Filterable: []string{"sport_type"},
		}),
		Teams: sql.NewTable[db.Team](gdb, sql.TableSpec{
			Visibility: "is_active",
			Preload:    []string{"SportProgram"},
			Order:      "name ASC",
			Filterable: []string{"sport_program_id"},
		}),
		TeamMembers: sql.NewTable[db.TeamMember](gdb, sql.TableSpec{
			Preload:    []string{"Member.Account"},
			Order:      "created_at ASC",
			Filterable: []string{"team_id", "member_id", "position"},
		}),
		Matches: sql.NewTable[db.Match](gdb, sql.TableSpec{
			Preload:    []string{"Team"},
			Order:      "match_date DESC",
			Filterable: []string{"team_id", "match_type", "result"},
		}),
		Training: sql.NewTable[db.TrainingSchedule](gdb, sql.TableSpec{
			Preload:    []string{"Team"},
			Order:      "start_time ASC",
			Filterable: []string{"team_id", "is_recurring"},
		}),

		Badges: sql.NewTable[db.Badge](gdb, sql.TableSpec{
			Visibility: "is_active",
			Order:      "points_required ASC",
			Filterable: []string{"badge_type"},
		}),
		MemberBadges: sql.NewTable[db.MemberBadge](gdb, sql.TableSpec{
			Preload:    []string{"Badge"},
			Order:      "created_at DESC",
			Filterable: []string{"member_id", "badge_id"},
		}),
		Points: sql.NewTable[db.PointsTransaction](gdb, sql.TableSpec{
			Order:      "created_at DESC, id DESC",
			Filterable: []string{"member_id", "transaction_type"},
		}),
		Leaderboards: sql.NewTable[db.Leaderboard](gdb, sql.TableSpec{
			Preload:    []string{"Member.Account"},
			Order:      "year DESC, month DESC, rank_position ASC",
			Filterable: []string{"year", "month", "member_id"},
		}),

		Reports: sql.NewTable[db.Report](gdb, sql.TableSpec{
			Visibility: "is_public",
			Order:      "created_at DESC",
			Filterable: []string{"report_type"},
			Search:     []string{"title", "description"},
		}),
		ContactMessages: sql.NewTable[db.ContactMessage](gdb, sql.TableSpec{
			Order:      "created_at DESC",
			Filterable: []string{"status"},
			Search:     []string{"name", "email", "subject"},
		}),

		MemberProfiles: sql.NewTable[db.MemberProfile](gdb, sql.TableSpec{
			Preload:    []string{"Account.Ward.Constituency", "Certificates"},
			Order:      "created_at DESC",
			Filterable: []string{"gender", "is_active", "county_id"},
		}),
		Certificates: sql.NewTable[db.Certificate](gdb, sql.TableSpec{
			Order:      "issue_date DESC, id DESC",
			Filterable: []string{"member_id"},
		}),

		Officials: sql.NewTable[db.Official](gdb, sql.TableSpec{
			Visibility: "is_published",
			Order:      "sort_order ASC, id ASC",
		}),
		YouthJobs: sql.NewTable[db.YouthJob](gdb, sql.TableSpec{
			Visibility: "is_published",
			Order:      "created_at DESC",
			Filterable: []string{"job_type"},
			Search:     []string{"title", "organization", "location"},
		}),

		SiteSettings: sql.NewSingleton[db.SiteSettings](gdb),
		AboutPage:    sql.NewSingleton[db.AboutPage](gdb),
	}
}
