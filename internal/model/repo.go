package model

import (
	"context"
	"time"

	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
)

// AccountRepository stores login identities.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *db.Account) error
	UpdateAccount(ctx context.Context, id uint, updates dto.AccountUpdates) error
	GetAccountByID(ctx context.Context, id uint) (*db.Account, error)
	GetAccountByLogin(ctx context.Context, login string) (*db.Account, error)
	FindAccountConflicts(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
	ListAccounts(ctx context.Context, params *dto.AccountQuery) ([]db.Account, *common.Meta, error)
	DeleteAccount(ctx context.Context, id uint) error
	CountAccounts(ctx context.Context, conds map[string]interface{}) (int64, error)
}

// GeographyRepository reads and seeds constituencies and wards.
type GeographyRepository interface {
	ListConstituencies(ctx context.Context) ([]db.Constituency, error)
	ListWards(ctx context.Context, constituencyID uint) ([]db.Ward, error)
	GetWard(ctx context.Context, id uint) (*db.Ward, error)
	EnsureConstituency(ctx context.Context, name string, order int) (*db.Constituency, error)
	EnsureWard(ctx context.Context, constituencyID uint, name string, order int) (*db.Ward, error)
}

// AuditRepository appends and reads audit entries. Entries are never updated.
type AuditRepository interface {
	CreateAuditLog(ctx context.Context, entry *db.AuditLog) error
	ListAuditLogs(ctx context.Context, params *dto.AuditQuery) ([]db.AuditLog, *common.Meta, error)
}

// ActivityRepository holds the joins and aggregates that do not fit the
// generic tables.
type ActivityRepository interface {
	UpsertProjectMember(ctx context.Context, member *db.ProjectMember) (created bool, err error)
	CountConfirmedRegistrations(ctx context.Context, eventID uint) (int64, error)
	CountConfirmedRegistrationsUpTo(ctx context.Context, eventID, regID uint) (int64, error)
	CountUpcomingEvents(ctx context.Context, from time.Time) (int64, error)
	DonationStats(ctx context.Context) (dto.DonationStats, error)
	SumPoints(ctx context.Context, memberID uint) (int64, error)
	MonthlyPointTotals(ctx context.Context, from, to time.Time) ([]dto.MemberTotal, error)
	CountBadgesByMember(ctx context.Context) (map[uint]int64, error)
	ReplaceLeaderboard(ctx context.Context, year, month int, rows []db.Leaderboard) error
}

// Repository is the full persistence surface.
type Repository interface {
	AccountRepository
	GeographyRepository
	AuditRepository
	ActivityRepository

	Ping(ctx context.Context) error
	Close() error
}

// Table is a generic catalogue of one record type. Listings and lookups hide
// records whose visibility flag is off unless the caller is staff.
type Table[T any] interface {
	List(ctx context.Context, q common.ListQuery) ([]T, *common.Meta, error)
	Get(ctx context.Context, id uint, staff bool) (*T, error)
	First(ctx context.Context, conds map[string]interface{}, staff bool) (*T, error)
	Create(ctx context.Context, record *T) error
	Save(ctx context.Context, record *T) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, conds map[string]interface{}) (int64, error)
}

// Singleton is a one-row table.
type Singleton[T any] interface {
	Get(ctx context.Context) (*T, error)
	Create(ctx context.Context, record *T) error
	Save(ctx context.Context, record *T) error
}
