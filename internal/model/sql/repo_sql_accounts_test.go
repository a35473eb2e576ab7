package sql_test

import (
	"context"
	"errors"
	"testing"

	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestAccountLookupAndConflicts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account := &db.Account{Username: "wanjiru", Email: "Wanjiru@example.org", PasswordHash: "x", Role: db.RoleMember, IsActive: true}
	require.NoError(t, store.CreateAccount(ctx, account))

	byName, err := store.GetAccountByLogin(ctx, "wanjiru")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byName.ID)

	byEmail, err := store.GetAccountByLogin(ctx, "wanjiru@EXAMPLE.org")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)

	_, err = store.GetAccountByLogin(ctx, "nobody")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	userTaken, emailTaken, err := store.FindAccountConflicts(ctx, "wanjiru", "other@example.org")
	require.NoError(t, err)
	assert.True(t, userTaken)
	assert.False(t, emailTaken)

	userTaken, emailTaken, err = store.FindAccountConflicts(ctx, "someone", "WANJIRU@example.org")
	require.NoError(t, err)
	assert.False(t, userTaken)
	assert.True(t, emailTaken)

	err = store.CreateAccount(ctx, &db.Account{Username: "wanjiru", PasswordHash: "y", Role: db.RoleDonor})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestListAccountsFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	approved := true
	require.NoError(t, store.CreateAccount(ctx, &db.Account{Username: "m1", PasswordHash: "x", Role: db.RoleMember, IsApproved: true}))
	require.NoError(t, store.CreateAccount(ctx, &db.Account{Username: "m2", PasswordHash: "x", Role: db.RoleMember}))
	require.NoError(t, store.CreateAccount(ctx, &db.Account{Username: "d1", PasswordHash: "x", Role: db.RoleDonor, OrganizationName: "Acme"}))

	members, meta, err := store.ListAccounts(ctx, &dto.AccountQuery{Role: db.RoleMember})
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, int64(2), meta.Total)

	approvedMembers, _, err := store.ListAccounts(ctx, &dto.AccountQuery{Role: db.RoleMember, Approved: &approved})
	require.NoError(t, err)
	require.Len(t, approvedMembers, 1)
	assert.Equal(t, "m1", approvedMembers[0].Username)

	byKeyword, _, err := store.ListAccounts(ctx, &dto.AccountQuery{Keyword: "D1"})
	require.NoError(t, err)
	require.Len(t, byKeyword, 1)
}

func TestUpdateAccountAppliesOnlySetFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account := &db.Account{Username: "kamau", FirstName: "Kamau", PasswordHash: "x", Role: db.RoleMember, IsActive: true}
	require.NoError(t, store.CreateAccount(ctx, account))

	approved := true
	require.NoError(t, store.UpdateAccount(ctx, account.ID, dto.AccountUpdates{IsApproved: &approved}))

	got, err := store.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.IsApproved)
	assert.Equal(t, "Kamau", got.FirstName)
	assert.True(t, got.IsActive)
}

func TestDeleteAccountKeepsAuditTrail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	admin := &db.Account{Username: "admin", PasswordHash: "x", Role: db.RoleAdmin, IsActive: true}
	require.NoError(t, store.CreateAccount(ctx, admin))
	member := &db.Account{Username: "njeri", PasswordHash: "x", Role: db.RoleMember, IsActive: true}
	require.NoError(t, store.CreateAccount(ctx, member))
	profile := &db.MemberProfile{AccountID: member.ID, IsActive: true}
	require.NoError(t, store.Tables.MemberProfiles.Create(ctx, profile))
	require.NoError(t, store.Tables.Certificates.Create(ctx, &db.Certificate{MemberID: profile.ID, Title: "First Aid"}))

	entry := &db.AuditLog{
		ActorID:    &admin.ID,
		Action:     db.AuditApprove,
		TargetType: "account",
		TargetID:   "2",
		TargetRepr: "njeri",
		Changes:    datatypes.JSONMap{"is_approved": true},
	}
	require.NoError(t, store.CreateAuditLog(ctx, entry))

	require.NoError(t, store.DeleteAccount(ctx, admin.ID))
	require.NoError(t, store.DeleteAccount(ctx, member.ID))

	logs, meta, err := store.ListAuditLogs(ctx, &dto.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(1), meta.Total)
	assert.Nil(t, logs[0].ActorID)
	assert.Equal(t, db.AuditApprove, logs[0].Action)

	certs, err := store.Tables.Certificates.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, certs)

	err = store.DeleteAccount(ctx, member.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGeographyEnsureIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	kikuyu, err := store.EnsureConstituency(ctx, "Kikuyu", 8)
	require.NoError(t, err)
	again, err := store.EnsureConstituency(ctx, "Kikuyu", 99)
	require.NoError(t, err)
	assert.Equal(t, kikuyu.ID, again.ID)
	assert.Equal(t, 8, again.Order)

	karai, err := store.EnsureWard(ctx, kikuyu.ID, "Karai", 1)
	require.NoError(t, err)
	_, err = store.EnsureWard(ctx, kikuyu.ID, "Karai", 1)
	require.NoError(t, err)
	_, err = store.EnsureWard(ctx, kikuyu.ID, "Nachu", 2)
	require.NoError(t, err)

	wards, err := store.ListWards(ctx, kikuyu.ID)
	require.NoError(t, err)
	require.Len(t, wards, 2)
	assert.Equal(t, "Karai", wards[0].Name)

	ward, err := store.GetWard(ctx, karai.ID)
	require.NoError(t, err)
	require.NotNil(t, ward.Constituency)
	assert.Equal(t, "Kikuyu", ward.Constituency.Name)
}
