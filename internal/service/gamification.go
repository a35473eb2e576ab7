package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"agcbo/internal/access"
	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/model"
	"agcbo/internal/sanitize"

	"github.com/sirupsen/logrus"
)

const (
	recentPointsLimit  = 10
	currentBoardLimit  = 20
	periodBoardLimit   = 100
	auditTargetPoints  = "points_transaction"
	auditTargetBadging = "member_badge"
)

// GamificationService covers badges, points and the monthly leaderboard.
type GamificationService struct {
	Badges       *Catalog[db.Badge, *db.Badge]
	MemberBadges *Catalog[db.MemberBadge, *db.MemberBadge]
	Points       *Catalog[db.PointsTransaction, *db.PointsTransaction]

	points   model.Table[db.PointsTransaction]
	boards   model.Table[db.Leaderboard]
	profiles model.Table[db.MemberProfile]
	repo     model.ActivityRepository
	now      func() time.Time
}

func NewGamificationService(tables *model.Tables, repo model.ActivityRepository, audit *AuditService) *GamificationService {
	s := &GamificationService{
		points:   tables.Points,
		boards:   tables.Leaderboards,
		profiles: tables.MemberProfiles,
		repo:     repo,
		now:      time.Now,
	}
	s.Badges = NewCatalog[db.Badge, *db.Badge](tables.Badges, audit, CatalogOptions[db.Badge]{
		Name:        "badge",
		RequireAuth: true,
		Prepare: func(_ context.Context, b *db.Badge, _ bool) error {
			v := NewValidationError()
			required(v, "name", b.Name)
			if b.PointsRequired < 0 {
				v.Add("points_required", "must not be negative")
			}
			return v.Err()
		},
	})
	s.MemberBadges = NewCatalog[db.MemberBadge, *db.MemberBadge](tables.MemberBadges, audit, CatalogOptions[db.MemberBadge]{
		Name:        auditTargetBadging,
		RequireAuth: true,
		Scope:       ownProfileScope(tables.MemberProfiles, "member_id"),
		Prepare: func(ctx context.Context, mb *db.MemberBadge, _ bool) error {
			v := NewValidationError()
			if _, err := tables.MemberProfiles.Get(ctx, mb.MemberID, true); err != nil {
				v.Add("member_id", "unknown member")
			}
			if _, err := tables.Badges.Get(ctx, mb.BadgeID, true); err != nil {
				v.Add("badge_id", "unknown badge")
			}
			mb.Reason = sanitize.Text(mb.Reason)
			return v.Err()
		},
	})
	s.Points = NewCatalog[db.PointsTransaction, *db.PointsTransaction](tables.Points, audit, CatalogOptions[db.PointsTransaction]{
		Name:        auditTargetPoints,
		RequireAuth: true,
		Scope:       ownProfileScope(tables.MemberProfiles, "member_id"),
		Prepare: func(ctx context.Context, p *db.PointsTransaction, _ bool) error {
			return validatePoints(ctx, tables.MemberProfiles, p)
		},
	})
	return s
}

func validatePoints(ctx context.Context, profiles model.Table[db.MemberProfile], p *db.PointsTransaction) error {
	v := NewValidationError()
	if p.MemberID == 0 {
		v.Add("member_id", "this field is required")
	} else if _, err := profiles.Get(ctx, p.MemberID, true); err != nil {
		v.Add("member_id", "unknown member")
	}
	if p.Points == 0 {
		v.Add("points", "must not be zero")
	}
	if p.TransactionType == "" {
		p.TransactionType = db.PointsAdminAdjustment
	}
	if !oneOf(p.TransactionType, db.PointsTypes) {
		v.Add("transaction_type", "invalid transaction type")
	}
	if p.TransactionType == db.PointsPenalty && p.Points > 0 {
		p.Points = -p.Points
	}
	p.Description = sanitize.Text(p.Description)
	return v.Err()
}

// Award grants (or with a negative amount, deducts) points. Staff only.
func (s *GamificationService) Award(ctx context.Context, viewer access.Viewer, req dto.AwardPointsRequest) (*db.PointsTransaction, error) {
	return s.Points.CreateRecord(ctx, viewer, &db.PointsTransaction{
		MemberID:        req.MemberID,
		Points:          req.Points,
		TransactionType: strings.TrimSpace(req.TransactionType),
		Description:     req.Description,
		EventID:         req.EventID,
		ProjectID:       req.ProjectID,
		CreatedByID:     viewer.ActorID(),
	})
}

// MyPoints returns the viewer's total and most recent transactions. An
// account without a member profile has zero points.
func (s *GamificationService) MyPoints(ctx context.Context, viewer access.Viewer) (*dto.MyPoints, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}
	out := &dto.MyPoints{RecentTransactions: []db.PointsTransaction{}}
	profile, err := profileOf(ctx, s.profiles, viewer.AccountID)
	if errors.Is(err, ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	total, err := s.repo.SumPoints(ctx, profile.ID)
	if err != nil {
		return nil, storageError(err)
	}
	recent, _, err := s.points.List(ctx, common.ListQuery{
		BaseParams: common.BaseParams{PageSize: recentPointsLimit},
		Where:      map[string]interface{}{"member_id": profile.ID},
		Staff:      true,
	})
	if err != nil {
		return nil, storageError(err)
	}
	out.TotalPoints = total
	out.RecentTransactions = recent
	return out, nil
}

// Leaderboard returns a month's ranking. Zero year or month means the
// current one.
func (s *GamificationService) Leaderboard(ctx context.Context, viewer access.Viewer, year, month int) ([]db.Leaderboard, error) {
	year, month = s.period(year, month)
	return s.board(ctx, viewer, year, month, periodBoardLimit)
}

// Current returns the top of this month's ranking.
func (s *GamificationService) Current(ctx context.Context, viewer access.Viewer) ([]db.Leaderboard, error) {
	year, month := s.period(0, 0)
	return s.board(ctx, viewer, year, month, currentBoardLimit)
}

func (s *GamificationService) board(ctx context.Context, viewer access.Viewer, year, month int, limit int64) ([]db.Leaderboard, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if month < 1 || month > 12 {
		return nil, FieldError("month", "must be between 1 and 12")
	}
	rows, _, err := s.boards.List(ctx, common.ListQuery{
		BaseParams: common.BaseParams{PageSize: limit},
		Where:      map[string]interface{}{"year": year, "month": month},
		Staff:      true,
	})
	if err != nil {
		return nil, storageError(err)
	}
	return rows, nil
}

func (s *GamificationService) period(year, month int) (int, int) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	return year, month
}

// Rebuild recomputes a month's snapshot from the points transactions of
// that month and replaces the stored rows. Staff only.
func (s *GamificationService) Rebuild(ctx context.Context, viewer access.Viewer, req dto.LeaderboardRebuildRequest) ([]db.Leaderboard, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	year, month := s.period(req.Year, req.Month)
	if month < 1 || month > 12 {
		return nil, FieldError("month", "must be between 1 and 12")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.now().Location())
	to := from.AddDate(0, 1, 0)

	totals, err := s.repo.MonthlyPointTotals(ctx, from, to)
	if err != nil {
		return nil, storageError(err)
	}
	badges, err := s.repo.CountBadgesByMember(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	rows := RankTotals(year, month, totals, badges)
	if err := s.repo.ReplaceLeaderboard(ctx, year, month, rows); err != nil {
		return nil, storageError(err)
	}
	logrus.WithFields(logrus.Fields{
		"actor_id": viewer.AccountID,
		"year":     year,
		"month":    month,
		"rows":     len(rows),
		"ip":       viewer.IP,
	}).Info("leaderboard rebuilt")
	return s.board(ctx, viewer, year, month, periodBoardLimit)
}

// RankTotals orders members by total points, highest first, breaking ties
// by member id, and numbers the ranks from 1.
func RankTotals(year, month int, totals []dto.MemberTotal, badges map[uint]int64) []db.Leaderboard {
	sorted := make([]dto.MemberTotal, len(totals))
	copy(sorted, totals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalPoints != sorted[j].TotalPoints {
			return sorted[i].TotalPoints > sorted[j].TotalPoints
		}
		return sorted[i].MemberID < sorted[j].MemberID
	})
	rows := make([]db.Leaderboard, 0, len(sorted))
	for i, total := range sorted {
		rows = append(rows, db.Leaderboard{
			Year:        year,
			Month:       month,
			MemberID:    total.MemberID,
			TotalPoints: int(total.TotalPoints),
			Rank:        i + 1,
			BadgesCount: int(badges[total.MemberID]),
		})
	}
	return rows
}
