package service

import (
	"context"
	"strings"

	"agcbo/internal/access"
	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/model"
)

// ProjectService manages projects and their reference data.
type ProjectService struct {
	Projects   *Catalog[db.Project, *db.Project]
	Categories *Catalog[db.ProjectCategory, *db.ProjectCategory]
	Counties   *Catalog[db.County, *db.County]
	Ministries *Catalog[db.Ministry, *db.Ministry]
	Reports    *Catalog[db.ProjectReport, *db.ProjectReport]

	members  model.Table[db.ProjectMember]
	profiles model.Table[db.MemberProfile]
	repo     model.ActivityRepository
	audit    *AuditService
}

func NewProjectService(tables *model.Tables, repo model.ActivityRepository, audit *AuditService) *ProjectService {
	s := &ProjectService{
		members:  tables.ProjectMembers,
		profiles: tables.MemberProfiles,
		repo:     repo,
		audit:    audit,
	}
	s.Projects = NewCatalog[db.Project, *db.Project](tables.Projects, audit, CatalogOptions[db.Project]{
		Name:    "project",
		Prepare: validateProject,
	})
	s.Categories = NewCatalog[db.ProjectCategory, *db.ProjectCategory](tables.ProjectCategories, audit, CatalogOptions[db.ProjectCategory]{
		Name: "project_category",
		Prepare: func(_ context.Context, c *db.ProjectCategory, _ bool) error {
			v := NewValidationError()
			required(v, "name", c.Name)
			if c.Color != "" && (len(c.Color) != 7 || !strings.HasPrefix(c.Color, "#")) {
				v.Add("color", "use a #rrggbb colour")
			}
			return v.Err()
		},
	})
	s.Counties = NewCatalog[db.County, *db.County](tables.Counties, audit, CatalogOptions[db.County]{
		Name: "county",
		Prepare: func(_ context.Context, c *db.County, _ bool) error {
			v := NewValidationError()
			required(v, "name", c.Name)
			return v.Err()
		},
	})
	s.Ministries = NewCatalog[db.Ministry, *db.Ministry](tables.Ministries, audit, CatalogOptions[db.Ministry]{
		Name: "ministry",
		Prepare: func(_ context.Context, m *db.Ministry, _ bool) error {
			v := NewValidationError()
			required(v, "name", m.Name)
			return v.Err()
		},
	})
	s.Reports = NewCatalog[db.ProjectReport, *db.ProjectReport](tables.ProjectReports, audit, CatalogOptions[db.ProjectReport]{
		Name: "project_report",
		Prepare: func(ctx context.Context, r *db.ProjectReport, _ bool) error {
			v := NewValidationError()
			required(v, "title", r.Title)
			if r.ProjectID == 0 {
				v.Add("project_id", "this field is required")
			} else if _, err := tables.Projects.Get(ctx, r.ProjectID, true); err != nil {
				v.Add("project_id", "unknown project")
			}
			return v.Err()
		},
	})
	return s
}

func validateProject(_ context.Context, p *db.Project, _ bool) error {
	v := NewValidationError()
	required(v, "title", p.Title)
	if p.Status == "" {
		p.Status = db.ProjectStatusPlanned
	}
	if !oneOf(p.Status, db.ProjectStatuses) {
		v.Add("status", "invalid status")
	}
	if p.BudgetCurrency == "" {
		p.BudgetCurrency = "KES"
	}
	if p.BudgetAmount < 0 {
		v.Add("budget_amount", "must not be negative")
	}
	if p.AllocatedAmount < 0 {
		v.Add("allocated_amount", "must not be negative")
	}
	if p.SpentAmount < 0 {
		v.Add("spent_amount", "must not be negative")
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		v.Add("end_date", "must not be before the start date")
	}
	return v.Err()
}

// AddMember puts a member profile on a project. An existing membership is
// re-roled and reactivated instead. Staff only.
func (s *ProjectService) AddMember(ctx context.Context, viewer access.Viewer, projectID uint, req dto.AddProjectMemberRequest) (*db.ProjectMember, bool, error) {
	if !viewer.IsStaff() {
		return nil, false, ErrForbidden
	}
	project, err := s.Projects.Get(ctx, viewer, projectID)
	if err != nil {
		return nil, false, err
	}

	v := NewValidationError()
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = db.ProjectRoleMember
	}
	if !oneOf(role, db.ProjectMemberRoles) {
		v.Add("role", "invalid role")
	}
	if req.MemberID == 0 {
		v.Add("member_id", "this field is required")
	} else if _, err := s.profiles.Get(ctx, req.MemberID, true); err != nil {
		v.Add("member_id", "unknown member")
	}
	if err := v.Err(); err != nil {
		return nil, false, err
	}

	member := &db.ProjectMember{ProjectID: project.ID, MemberID: req.MemberID, Role: role}
	created, err := s.repo.UpsertProjectMember(ctx, member)
	if err != nil {
		return nil, false, storageError(err)
	}
	action := db.AuditUpdate
	if created {
		action = db.AuditCreate
	}
	s.audit.Record(ctx, viewer, action, "project_member", member, map[string]interface{}{
		"project_id": project.ID,
		"member_id":  req.MemberID,
		"role":       role,
	})
	return member, created, nil
}

// Members lists every active member of a project the viewer can see.
func (s *ProjectService) Members(ctx context.Context, viewer access.Viewer, projectID uint) ([]db.ProjectMember, error) {
	project, err := s.Projects.Get(ctx, viewer, projectID)
	if err != nil {
		return nil, err
	}
	out := []db.ProjectMember{}
	for page := int64(1); ; page++ {
		q := common.ListQuery{
			BaseParams: common.BaseParams{Page: page, PageSize: common.MaxPageSize},
			Where:      map[string]interface{}{"project_id": project.ID, "is_active": true},
			Staff:      true,
		}
		items, meta, err := s.members.List(ctx, q)
		if err != nil {
			return nil, storageError(err)
		}
		out = append(out, items...)
		if len(items) == 0 || int64(len(out)) >= meta.Total {
			return out, nil
		}
	}
}
