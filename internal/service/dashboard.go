package service

import (
	"context"
	"time"

	"agcbo/internal/access"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/model"
)

// DashboardService computes the staff overview counters.
type DashboardService struct {
	accounts model.AccountRepository
	repo     model.ActivityRepository
	tables   *model.Tables
	now      func() time.Time
}

func NewDashboardService(tables *model.Tables, accounts model.AccountRepository, repo model.ActivityRepository) *DashboardService {
	return &DashboardService{accounts: accounts, repo: repo, tables: tables, now: time.Now}
}

// Overview returns the dashboard counters. Staff only.
func (s *DashboardService) Overview(ctx context.Context, viewer access.Viewer) (*dto.Dashboard, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	out := &dto.Dashboard{}
	counts := []struct {
		target *int64
		count  func() (int64, error)
	}{
		{&out.PendingMembers, func() (int64, error) {
			return s.accounts.CountAccounts(ctx, map[string]interface{}{"role": db.RoleMember, "is_approved": false})
		}},
		{&out.PendingDonors, func() (int64, error) {
			return s.accounts.CountAccounts(ctx, map[string]interface{}{"role": db.RoleDonor, "is_approved": false})
		}},
		{&out.PendingCountyOfficials, func() (int64, error) {
			return s.accounts.CountAccounts(ctx, map[string]interface{}{"role": db.RoleCountyOfficial, "is_verified": false})
		}},
		{&out.TotalAccounts, func() (int64, error) {
			return s.accounts.CountAccounts(ctx, nil)
		}},
		{&out.Projects, func() (int64, error) {
			return s.tables.Projects.Count(ctx, nil)
		}},
		{&out.ActiveProjects, func() (int64, error) {
			return s.tables.Projects.Count(ctx, map[string]interface{}{"status": db.ProjectStatusOngoing})
		}},
		{&out.Events, func() (int64, error) {
			return s.tables.Events.Count(ctx, nil)
		}},
		{&out.NewMessages, func() (int64, error) {
			return s.tables.ContactMessages.Count(ctx, map[string]interface{}{"status": db.MessageNew})
		}},
	}
	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			return nil, storageError(err)
		}
		*c.target = n
	}

	upcoming, err := s.repo.CountUpcomingEvents(ctx, s.now())
	if err != nil {
		return nil, storageError(err)
	}
	out.UpcomingEvents = upcoming

	stats, err := s.repo.DonationStats(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	out.Donations = stats
	return out, nil
}
