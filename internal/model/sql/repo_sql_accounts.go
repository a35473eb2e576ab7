package sql

import (
	"context"
	"fmt"
	"strings"

	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"

	"gorm.io/gorm"
)

// CreateAccount persists a new account.
func (r *GormRepository) CreateAccount(ctx context.Context, account *db.Account) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if account == nil {
		return fmt.Errorf("account is nil")
	}
	return r.db.WithContext(ctx).Omit("Ward").Create(account).Error
}

// UpdateAccount applies a partial update.
func (r *GormRepository) UpdateAccount(ctx context.Context, id uint, updates dto.AccountUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid account")
	}
	fields := updates.ToMap()
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&db.Account{}).Where("id = ?", id).Updates(fields).Error
}

// GetAccountByID loads an account with its ward and constituency.
func (r *GormRepository) GetAccountByID(ctx context.Context, id uint) (*db.Account, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid account id")
	}
	var account db.Account
	if err := r.db.WithContext(ctx).Preload("Ward.Constituency").First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByLogin loads an account by username, or by email when the
// login contains an @.
func (r *GormRepository) GetAccountByLogin(ctx context.Context, login string) (*db.Account, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(login)
	if trimmed == "" {
		return nil, fmt.Errorf("login is empty")
	}

	query := r.db.WithContext(ctx).Preload("Ward.Constituency")
	if strings.Contains(trimmed, "@") {
		query = query.Where("LOWER(email) = ?", strings.ToLower(trimmed))
	} else {
		query = query.Where("username = ?", trimmed)
	}

	var account db.Account
	if err := query.Order("id ASC").First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindAccountConflicts reports whether the username or email is in use.
func (r *GormRepository) FindAccountConflicts(ctx context.Context, username, email string) (bool, bool, error) {
	if r == nil || r.db == nil {
		return false, false, fmt.Errorf("repository not initialised")
	}
	var usernameCount, emailCount int64
	if name := strings.TrimSpace(username); name != "" {
		if err := r.db.WithContext(ctx).Model(&db.Account{}).Where("username = ?", name).Count(&usernameCount).Error; err != nil {
			return false, false, err
		}
	}
	if mail := strings.TrimSpace(email); mail != "" {
		if err := r.db.WithContext(ctx).Model(&db.Account{}).Where("LOWER(email) = ?", strings.ToLower(mail)).Count(&emailCount).Error; err != nil {
			return false, false, err
		}
	}
	return usernameCount > 0, emailCount > 0, nil
}

// ListAccounts returns paginated accounts.
func (r *GormRepository) ListAccounts(ctx context.Context, params *dto.AccountQuery) ([]db.Account, *common.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}
	if params == nil {
		params = &dto.AccountQuery{}
	}

	query := r.db.WithContext(ctx).Model(&db.Account{})
	if trimmed := strings.TrimSpace(params.Role); trimmed != "" {
		query = query.Where("role = ?", trimmed)
	}
	if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
		kw := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("(LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)", kw, kw, kw, kw)
	}
	if params.Approved != nil {
		query = query.Where("is_approved = ?", *params.Approved)
	}
	if params.Verified != nil {
		query = query.Where("is_verified = ?", *params.Verified)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	paged, page, pageSize := paginate(query.Preload("Ward.Constituency").Order("id DESC"), &params.BaseParams)
	var accounts []db.Account
	if err := paged.Find(&accounts).Error; err != nil {
		return nil, nil, err
	}
	return accounts, calculatePagination(total, page, pageSize), nil
}

// authoredTables lists the creator columns cleared when an account goes.
var authoredTables = map[string]string{
	"projects":            "created_by_id",
	"project_reports":     "created_by_id",
	"events":              "created_by_id",
	"announcements":       "created_by_id",
	"reports":             "created_by_id",
	"points_transactions": "created_by_id",
	"gallery_items":       "uploaded_by_id",
	"donations":           "account_id",
	"audit_logs":          "actor_id",
}

// memberTables hold rows owned by a member profile.
var memberTables = []string{
	"certificates",
	"project_members",
	"team_members",
	"member_badges",
	"points_transactions",
	"leaderboards",
	"event_registrations",
}

// DeleteAccount removes an account. Audit entries and authored records keep
// their rows with the reference cleared; the member profile and what hangs
// off it are removed.
func (r *GormRepository) DeleteAccount(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid account id")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for table, column := range authoredTables {
			if err := tx.Exec("UPDATE "+table+" SET "+column+" = NULL WHERE "+column+" = ?", id).Error; err != nil {
				return fmt.Errorf("clear %s.%s: %w", table, column, err)
			}
		}

		var profileIDs []uint
		if err := tx.Model(&db.MemberProfile{}).Where("account_id = ?", id).Pluck("id", &profileIDs).Error; err != nil {
			return err
		}
		if len(profileIDs) > 0 {
			for _, table := range memberTables {
				if err := tx.Exec("DELETE FROM "+table+" WHERE member_id IN ?", profileIDs).Error; err != nil {
					return fmt.Errorf("delete %s: %w", table, err)
				}
			}
			if err := tx.Where("id IN ?", profileIDs).Delete(&db.MemberProfile{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("account_id = ?", id).Delete(&db.EventRegistration{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&db.Account{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountAccounts counts accounts matching conds.
func (r *GormRepository) CountAccounts(ctx context.Context, conds map[string]interface{}) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&db.Account{})
	if len(conds) > 0 {
		query = query.Where(conds)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
