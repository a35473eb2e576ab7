package service

import (
	"context"
	"errors"
	"testing"

	"agcbo/internal/access"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberRegistration(username string, constituencyID, wardID uint) dto.MemberRegistration {
	return dto.MemberRegistration{
		Username:        username,
		Email:           username + "@example.org",
		Password:        testPassword,
		PasswordConfirm: testPassword,
		IDNumber:        "12345678",
		FullNamesOnID:   "Jane Wanjiru Doe",
		ConstituencyID:  constituencyID,
		WardID:          wardID,
	}
}

func TestRegisterMemberRejectsForeignWard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first, second := env.wards(t)

	_, err := env.svc.Accounts.RegisterMember(ctx, memberRegistration("wanjiru", first.ConstituencyID, second.ID))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "ward_id")

	account, err := env.svc.Accounts.RegisterMember(ctx, memberRegistration("wanjiru", first.ConstituencyID, first.ID))
	require.NoError(t, err)
	assert.Equal(t, db.RoleMember, account.Role)
	assert.False(t, account.IsApproved)
	require.NotNil(t, account.WardID)
	assert.Equal(t, first.ID, *account.WardID)
}

func TestRegisterRejectsDuplicatesAndWeakPasswords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.account(t, "kamau", db.RoleDonor, true)

	tests := []struct {
		name  string
		req   dto.DonorRegistration
		field string
	}{
		{
			name:  "username taken",
			req:   dto.DonorRegistration{Username: "kamau", Email: "other@example.org", OrganizationName: "Acme", PhoneNumber: "0700", Password: testPassword, PasswordConfirm: testPassword},
			field: "username",
		},
		{
			name:  "email taken",
			req:   dto.DonorRegistration{Username: "other", Email: "kamau@example.org", OrganizationName: "Acme", PhoneNumber: "0700", Password: testPassword, PasswordConfirm: testPassword},
			field: "email",
		},
		{
			name:  "mismatched confirmation",
			req:   dto.DonorRegistration{Username: "other", Email: "o@example.org", OrganizationName: "Acme", PhoneNumber: "0700", Password: testPassword, PasswordConfirm: "nope"},
			field: "password_confirm",
		},
		{
			name:  "numeric password",
			req:   dto.DonorRegistration{Username: "other", Email: "o@example.org", OrganizationName: "Acme", PhoneNumber: "0700", Password: "12093847", PasswordConfirm: "12093847"},
			field: "password",
		},
		{
			name:  "missing name",
			req:   dto.DonorRegistration{Username: "other", Email: "o@example.org", PhoneNumber: "0700", Password: testPassword, PasswordConfirm: testPassword},
			field: "organization_name",
		},
		{
			name:  "malformed email",
			req:   dto.DonorRegistration{Username: "other", Email: "not-an-email", OrganizationName: "Acme", PhoneNumber: "0700", Password: testPassword, PasswordConfirm: testPassword},
			field: "email",
		},
		{
			name:  "username with spaces",
			req:   dto.DonorRegistration{Username: "jane doe", Email: "o@example.org", OrganizationName: "Acme", PhoneNumber: "0700", Password: testPassword, PasswordConfirm: testPassword},
			field: "username",
		},
		{
			name:  "missing phone",
			req:   dto.DonorRegistration{Username: "other", Email: "o@example.org", FirstName: "Jane", Password: testPassword, PasswordConfirm: testPassword},
			field: "phone_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Accounts.RegisterDonor(ctx, tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tt.field, verr.Fields)
			}
		})
	}
}

func TestRegistrationFieldMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Accounts.RegisterMember(ctx, dto.MemberRegistration{Username: "wanjiru", Email: "bad@", Password: testPassword, PasswordConfirm: testPassword})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "enter a valid email address", verr.Fields["email"])
	assert.Equal(t, "ID or passport number is required", verr.Fields["id_number"])
	assert.Equal(t, "select your constituency", verr.Fields["constituency_id"])
	assert.Equal(t, "select your ward", verr.Fields["ward_id"])
	assert.NotContains(t, verr.Fields, "username")

	_, err = env.svc.Accounts.RegisterCountyOfficial(ctx, dto.CountyOfficialRegistration{
		Username: "mwangi", Email: "mwangi@example.org", Department: "astrology",
		Password: testPassword, PasswordConfirm: testPassword,
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "select a valid department", verr.Fields["department"])

	_, err = env.svc.Accounts.RegisterCountyOfficial(ctx, dto.CountyOfficialRegistration{Username: "mwangi", Password: testPassword, PasswordConfirm: testPassword})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email is required", verr.Fields["email"])
	assert.Equal(t, "select your department", verr.Fields["department"])
}

func TestLoginHonoursRoleGates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.staff(t)

	official, err := env.svc.Accounts.RegisterCountyOfficial(ctx, dto.CountyOfficialRegistration{
		Username:        "official",
		Email:           "official@example.org",
		Department:      "health",
		Password:        testPassword,
		PasswordConfirm: testPassword,
	})
	require.NoError(t, err)

	_, err = env.svc.Accounts.Login(ctx, dto.LoginRequest{Username: "official", Password: testPassword}, "")
	assert.ErrorIs(t, err, ErrAccountPending)

	// Approval is not the official's gate.
	_, err = env.svc.Accounts.Approve(ctx, staff, official.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Accounts.Verify(ctx, staff, official.ID)
	require.NoError(t, err)

	pair, err := env.svc.Accounts.Login(ctx, dto.LoginRequest{Username: "official@example.org", Password: testPassword}, "10.0.0.9")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	_, err = env.svc.Accounts.Login(ctx, dto.LoginRequest{Username: "official", Password: "wrong-password"}, "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	stored, err := env.store.GetAccountByID(ctx, official.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.9", stored.LastLoginIP)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginRefusesDeactivatedAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	account := env.account(t, "kamau", db.RoleMember, true)
	inactive := false
	require.NoError(t, env.store.UpdateAccount(ctx, account.ID, dto.AccountUpdates{IsActive: &inactive}))

	_, err := env.svc.Accounts.Login(ctx, dto.LoginRequest{Username: "kamau", Password: testPassword}, "")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestApproveAndRejectAreAudited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.staff(t)
	donor := env.account(t, "donor", db.RoleDonor, false)

	_, err := env.svc.Accounts.Approve(ctx, env.member(t, "kamau"), donor.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, env.auditCount(t, db.AuditApprove, donor.ID))

	approved, err := env.svc.Accounts.Approve(ctx, staff, donor.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	assert.EqualValues(t, 1, env.auditCount(t, db.AuditApprove, donor.ID))

	_, err = env.svc.Accounts.Login(ctx, dto.LoginRequest{Username: "donor", Password: testPassword}, "")
	require.NoError(t, err)

	_, err = env.svc.Accounts.Reject(ctx, staff, donor.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, env.auditCount(t, db.AuditReject, donor.ID))

	var entry db.AuditLog
	require.NoError(t, env.store.DB.Where("action = ?", db.AuditReject).First(&entry).Error)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, staff.AccountID, *entry.ActorID)
	assert.Equal(t, "account", entry.TargetType)
	assert.Equal(t, "donor", entry.TargetRepr)
	assert.Equal(t, "127.0.0.1", entry.SourceIP)

	_, err = env.svc.Accounts.Login(ctx, dto.LoginRequest{Username: "donor", Password: testPassword}, "")
	assert.ErrorIs(t, err, ErrAccountPending)
}

func TestRefreshRotatesTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.account(t, "kamau", db.RoleMember, true)

	pair, err := env.svc.Accounts.Login(ctx, dto.LoginRequest{Username: "kamau", Password: testPassword}, "")
	require.NoError(t, err)

	rotated, err := env.svc.Accounts.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Refresh, rotated.Refresh)

	_, err = env.svc.Accounts.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, env.svc.Accounts.Logout(ctx, rotated.Refresh))
	_, err = env.svc.Accounts.Refresh(ctx, rotated.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	account, err := env.svc.Accounts.ResolveAccess(ctx, rotated.Access)
	require.NoError(t, err)
	assert.Equal(t, "kamau", account.Username)

	_, err = env.svc.Accounts.ResolveAccess(ctx, rotated.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteAccountRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.staff(t)
	root := env.account(t, "root", db.RoleSuperAdmin, true)
	other := env.account(t, "other", db.RoleAdmin, true)
	member := env.account(t, "kamau", db.RoleMember, true)

	var rule *RuleError
	err := env.svc.Accounts.DeleteAccount(ctx, staff, staff.AccountID)
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, RuleCannotDeleteSelf, rule.Code)

	err = env.svc.Accounts.DeleteAccount(ctx, staff, root.ID)
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, RuleProtectedAccount, rule.Code)

	assert.ErrorIs(t, env.svc.Accounts.DeleteAccount(ctx, staff, other.ID), ErrForbidden)
	require.NoError(t, env.svc.Accounts.DeleteAccount(ctx, access.FromAccount(root, ""), other.ID))

	require.NoError(t, env.svc.Accounts.DeleteAccount(ctx, staff, member.ID))
	assert.EqualValues(t, 1, env.auditCount(t, db.AuditDelete, member.ID))
	_, err = env.svc.Accounts.GetAccount(ctx, staff, member.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAccountStaffRoleNeedsSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.staff(t)
	root := access.FromAccount(env.account(t, "root", db.RoleSuperAdmin, true), "")

	req := dto.AccountCreateRequest{Username: "helper", Password: testPassword, Role: db.RoleAdmin}
	_, err := env.svc.Accounts.CreateAccount(ctx, staff, req)
	assert.ErrorIs(t, err, ErrForbidden)

	created, err := env.svc.Accounts.CreateAccount(ctx, root, req)
	require.NoError(t, err)
	assert.Equal(t, db.RoleAdmin, created.Role)
	assert.True(t, created.IsActive)
	assert.EqualValues(t, 1, env.auditCount(t, db.AuditCreate, created.ID))
}
