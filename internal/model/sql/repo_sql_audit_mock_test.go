package sql_test

import (
	"context"
	"regexp"
	"testing"

	"agcbo/internal/entity/db"
	agsql "agcbo/internal/model/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockRepo(t *testing.T) (sqlmock.Sqlmock, *agsql.GormRepository) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: conn, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return mock, agsql.NewGormRepository(gdb)
}

func TestCreateAuditLogInsertsOneRow(t *testing.T) {
	mock, repo := setupMockRepo(t)
	actor := uint(3)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `audit_logs`")).
		WithArgs(sqlmock.AnyArg(), actor, db.AuditVerify, "account", "12", "otieno", sqlmock.AnyArg(), "10.0.0.5").
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &db.AuditLog{
		ActorID:    &actor,
		Action:     db.AuditVerify,
		TargetType: "account",
		TargetID:   "12",
		TargetRepr: "otieno",
		Changes:    datatypes.JSONMap{"is_verified": true},
		SourceIP:   "10.0.0.5",
	}
	require.NoError(t, repo.CreateAuditLog(context.Background(), entry))
	assert.Equal(t, uint(1), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationStatsQueryShape(t *testing.T) {
	mock, repo := setupMockRepo(t)

	rows := sqlmock.NewRows([]string{"total_donations", "total_amount"}).AddRow(4, 12500.75)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) AS total_donations, COALESCE(SUM(amount), 0) AS total_amount FROM `donations` WHERE status = ?")).
		WithArgs(db.DonationCompleted).
		WillReturnRows(rows)

	stats, err := repo.DonationStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalDonations)
	assert.InDelta(t, 12500.75, stats.TotalAmount, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}
