package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"

	"gorm.io/gorm"
)

// UpsertProjectMember adds a member to a project, or re-roles and
// reactivates an existing membership.
func (r *GormRepository) UpsertProjectMember(ctx context.Context, member *db.ProjectMember) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	if member == nil || member.ProjectID == 0 || member.MemberID == 0 {
		return false, fmt.Errorf("invalid project member")
	}

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db.ProjectMember
		err := tx.Where("project_id = ? AND member_id = ?", member.ProjectID, member.MemberID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Model(&existing).Updates(map[string]interface{}{"role": member.Role, "is_active": true}).Error; err != nil {
				return err
			}
			existing.Role = member.Role
			existing.IsActive = true
			*member = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			member.IsActive = true
			created = true
			return tx.Omit("Project", "Member").Create(member).Error
		default:
			return err
		}
	})
	return created, err
}

// CountConfirmedRegistrations counts the confirmed registrations of an event.
func (r *GormRepository) CountConfirmedRegistrations(ctx context.Context, eventID uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&db.EventRegistration{}).
		Where("event_id = ? AND is_confirmed = ?", eventID, true).
		Count(&count).Error
	return count, err
}

// CountConfirmedRegistrationsUpTo counts the confirmed registrations of an
// event whose id is at most regID, which is the seat number of regID.
func (r *GormRepository) CountConfirmedRegistrationsUpTo(ctx context.Context, eventID, regID uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&db.EventRegistration{}).
		Where("event_id = ? AND is_confirmed = ? AND id <= ?", eventID, true, regID).
		Count(&count).Error
	return count, err
}

// CountUpcomingEvents counts events starting at or after from.
func (r *GormRepository) CountUpcomingEvents(ctx context.Context, from time.Time) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Event{}).Where("start_date >= ?", from).Count(&count).Error
	return count, err
}

// DonationStats sums completed donations.
func (r *GormRepository) DonationStats(ctx context.Context) (dto.DonationStats, error) {
	var stats dto.DonationStats
	if r == nil || r.db == nil {
		return stats, fmt.Errorf("repository not initialised")
	}
	err := r.db.WithContext(ctx).Model(&db.Donation{}).
		Select("COUNT(*) AS total_donations, COALESCE(SUM(amount), 0) AS total_amount").
		Where("status = ?", db.DonationCompleted).
		Scan(&stats).Error
	return stats, err
}

// SumPoints totals a member's points.
func (r *GormRepository) SumPoints(ctx context.Context, memberID uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&db.PointsTransaction{}).
		Select("COALESCE(SUM(points), 0)").
		Where("member_id = ?", memberID).
		Scan(&total).Error
	return total, err
}

// MonthlyPointTotals sums points per member for transactions in [from, to).
func (r *GormRepository) MonthlyPointTotals(ctx context.Context, from, to time.Time) ([]dto.MemberTotal, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var rows []dto.MemberTotal
	err := r.db.WithContext(ctx).Model(&db.PointsTransaction{}).
		Select("member_id, SUM(points) AS total_points").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("member_id").
		Scan(&rows).Error
	return rows, err
}

// CountBadgesByMember returns the number of badges each member holds.
func (r *GormRepository) CountBadgesByMember(ctx context.Context) (map[uint]int64, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var rows []struct {
		MemberID uint
		Total    int64
	}
	if err := r.db.WithContext(ctx).Model(&db.MemberBadge{}).
		Select("member_id, COUNT(*) AS total").
		Group("member_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.MemberID] = row.Total
	}
	return counts, nil
}

// ReplaceLeaderboard swaps a month's snapshot in one transaction.
func (r *GormRepository) ReplaceLeaderboard(ctx context.Context, year, month int, rows []db.Leaderboard) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("year = ? AND month = ?", year, month).Delete(&db.Leaderboard{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Omit("Member").CreateInBatches(rows, 100).Error
	})
}
