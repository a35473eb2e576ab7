package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"agcbo/internal/access"
	"agcbo/internal/auth"
	"agcbo/internal/entity/common"
	"agcbo/internal/entity/converter"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/model"
	"agcbo/internal/model/sql"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const auditTargetAccount = "account"

// AccountRepository is the persistence surface the account service needs.
type AccountRepository interface {
	model.AccountRepository
	model.GeographyRepository
}

// AccountService covers registration, authentication, the approval workflow
// and staff account administration.
type AccountService struct {
	repo   AccountRepository
	tokens *auth.Manager
	store  auth.TokenStore
	audit  *AuditService
	now    func() time.Time
}

func NewAccountService(repo AccountRepository, tokens *auth.Manager, store auth.TokenStore, audit *AuditService) *AccountService {
	if store == nil {
		store = auth.NewMemoryTokenStore()
	}
	return &AccountService{
		repo:   repo,
		tokens: tokens,
		store:  store,
		audit:  audit,
		now:    time.Now,
	}
}

// Departments lists the county departments an official can register under.
func (s *AccountService) Departments() []string {
	out := make([]string, len(db.CountyDepartments))
	copy(out, db.CountyDepartments)
	return out
}

func (s *AccountService) Constituencies(ctx context.Context) ([]db.Constituency, error) {
	items, err := s.repo.ListConstituencies(ctx)
	return items, storageError(err)
}

func (s *AccountService) Wards(ctx context.Context, constituencyID uint) ([]db.Ward, error) {
	if constituencyID == 0 {
		return []db.Ward{}, nil
	}
	items, err := s.repo.ListWards(ctx, constituencyID)
	return items, storageError(err)
}

// registrationMessages words the tag failures of the intake forms.
var registrationMessages = map[string]string{
	"username.required":                      "username is required",
	"email.required":                         "email is required",
	"password.required":                      "password is required",
	"id_number.required":                     "ID or passport number is required",
	"full_names_on_id.required":              "full names as on ID are required",
	"constituency_id.required":               "select your constituency",
	"ward_id.required":                       "select your ward",
	"department.required":                    "select your department",
	"phone_number.required":                  "phone number is required",
	"organization_name.required_without_all": "enter your name or your organisation's name",
}

type credentials struct {
	username, email, password, confirm string
}

// validateCredentials checks what the field tags cannot: the password
// confirmation, password strength and clashes with existing accounts.
func (s *AccountService) validateCredentials(ctx context.Context, c credentials, v *ValidationError) error {
	if c.password != "" {
		if c.password != c.confirm {
			v.Add("password_confirm", "passwords do not match")
		} else if err := auth.ValidatePassword(c.password, c.username); err != nil {
			v.Add("password", err.Error())
		}
	}

	if c.username == "" && c.email == "" {
		return nil
	}
	usernameTaken, emailTaken, err := s.repo.FindAccountConflicts(ctx, c.username, c.email)
	if err != nil {
		return err
	}
	if usernameTaken {
		v.Add("username", "a user with that username already exists")
	}
	if emailTaken {
		v.Add("email", "a user with that email already exists")
	}
	return nil
}

// RegisterMember creates a member account awaiting approval. The ward must
// belong to the chosen constituency.
func (s *AccountService) RegisterMember(ctx context.Context, req dto.MemberRegistration) (*db.Account, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.IDNumber = strings.TrimSpace(req.IDNumber)
	req.FullNamesOnID = strings.TrimSpace(req.FullNamesOnID)

	v := NewValidationError()
	if err := checkStruct(v, req, registrationMessages); err != nil {
		return nil, err
	}
	if err := s.validateCredentials(ctx, credentials{req.Username, req.Email, req.Password, req.PasswordConfirm}, v); err != nil {
		return nil, err
	}
	if req.WardID != 0 && req.ConstituencyID != 0 {
		ward, err := s.repo.GetWard(ctx, req.WardID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			v.Add("ward_id", "select a valid ward")
		case err != nil:
			return nil, err
		case ward.ConstituencyID != req.ConstituencyID:
			v.Add("ward_id", "the selected ward does not belong to the selected constituency")
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	wardID := req.WardID
	account := &db.Account{
		Username:      req.Username,
		Email:         req.Email,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		Role:          db.RoleMember,
		IsActive:      true,
		IDNumber:      req.IDNumber,
		FullNamesOnID: req.FullNamesOnID,
		WardID:        &wardID,
	}
	return s.createRegistered(ctx, account, req.Password)
}

// RegisterDonor creates a donor account awaiting approval.
func (s *AccountService) RegisterDonor(ctx context.Context, req dto.DonorRegistration) (*db.Account, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.OrganizationName = strings.TrimSpace(req.OrganizationName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	v := NewValidationError()
	if err := checkStruct(v, req, registrationMessages); err != nil {
		return nil, err
	}
	if err := s.validateCredentials(ctx, credentials{req.Username, req.Email, req.Password, req.PasswordConfirm}, v); err != nil {
		return nil, err
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	account := &db.Account{
		Username:         req.Username,
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		OrganizationName: req.OrganizationName,
		PhoneNumber:      req.PhoneNumber,
		Role:             db.RoleDonor,
		IsActive:         true,
	}
	return s.createRegistered(ctx, account, req.Password)
}

// RegisterCountyOfficial creates a county official awaiting verification.
func (s *AccountService) RegisterCountyOfficial(ctx context.Context, req dto.CountyOfficialRegistration) (*db.Account, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Department = strings.TrimSpace(req.Department)

	v := NewValidationError()
	if err := checkStruct(v, req, registrationMessages); err != nil {
		return nil, err
	}
	if err := s.validateCredentials(ctx, credentials{req.Username, req.Email, req.Password, req.PasswordConfirm}, v); err != nil {
		return nil, err
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	account := &db.Account{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Department:  req.Department,
		Role:        db.RoleCountyOfficial,
		IsActive:    true,
	}
	return s.createRegistered(ctx, account, req.Password)
}

// createRegistered stores a self-registered account with its gate closed.
func (s *AccountService) createRegistered(ctx context.Context, account *db.Account, password string) (*db.Account, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	account.PasswordHash = hash
	account.IsApproved = false
	account.IsVerified = false

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		// Lost a race with a concurrent registration of the same username.
		if sql.IsDuplicateKey(err) {
			return nil, FieldError("username", "a user with that username already exists")
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"account_id": account.ID,
		"role":       account.Role,
	}).Info("account registered")
	return account, nil
}

// Authenticate checks credentials and the role gate, then records the login.
func (s *AccountService) Authenticate(ctx context.Context, login, password, ip string) (*db.Account, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	account, err := s.repo.GetAccountByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.VerifyPassword(account.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := checkGate(account); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	updates := dto.AccountUpdates{LastLoginAt: &now}
	if ip != "" {
		updates.LastLoginIP = &ip
	}
	if err := s.repo.UpdateAccount(ctx, account.ID, updates); err != nil {
		logrus.WithError(err).WithField("account_id", account.ID).Warn("failed to record last login")
	} else {
		account.LastLoginAt = &now
		if ip != "" {
			account.LastLoginIP = ip
		}
	}
	return account, nil
}

func checkGate(account *db.Account) error {
	if !account.IsActive {
		return ErrAccountDisabled
	}
	if !account.GateOpen() {
		return ErrAccountPending
	}
	return nil
}

// Login authenticates and issues an access and refresh token pair.
func (s *AccountService) Login(ctx context.Context, req dto.LoginRequest, ip string) (*dto.TokenPair, error) {
	account, err := s.Authenticate(ctx, req.Username, req.Password, ip)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, account)
}

func (s *AccountService) issue(ctx context.Context, account *db.Account) (*dto.TokenPair, error) {
	access, accessExp, err := s.tokens.GenerateAccessToken(account)
	if err != nil {
		return nil, err
	}
	refresh, jti, refreshExp, err := s.tokens.GenerateRefreshToken(account)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, jti, account.ID, s.tokens.RefreshExpiry()); err != nil {
		return nil, err
	}
	return &dto.TokenPair{
		Access:           access,
		AccessExpiresAt:  accessExp,
		Refresh:          refresh,
		RefreshExpiresAt: refreshExp,
		User:             converter.AccountToSummary(account),
	}, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued, provided the account still passes its gate.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	claims, err := s.tokens.ParseToken(strings.TrimSpace(refreshToken), auth.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}
	active, err := s.store.Active(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrInvalidToken
	}
	account, err := s.ActiveAccount(ctx, claims.AccountID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Revoke(ctx, claims.ID); err != nil {
		return nil, err
	}
	return s.issue(ctx, account)
}

// Logout revokes a refresh token. Unknown or expired tokens are ignored.
func (s *AccountService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ParseToken(strings.TrimSpace(refreshToken), auth.TokenTypeRefresh)
	if err != nil {
		return nil
	}
	return s.store.Revoke(ctx, claims.ID)
}

// ResolveAccess validates an access token and reloads its account so that a
// closed gate or deactivation takes effect on the next request.
func (s *AccountService) ResolveAccess(ctx context.Context, accessToken string) (*db.Account, error) {
	claims, err := s.tokens.ParseToken(strings.TrimSpace(accessToken), auth.TokenTypeAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.ActiveAccount(ctx, claims.AccountID)
}

// ActiveAccount loads an account that may still use the site.
func (s *AccountService) ActiveAccount(ctx context.Context, id uint) (*db.Account, error) {
	if id == 0 {
		return nil, ErrUnauthenticated
	}
	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if err := checkGate(account); err != nil {
		return nil, err
	}
	return account, nil
}

// Me returns the viewer's own account.
func (s *AccountService) Me(ctx context.Context, viewer access.Viewer) (*db.Account, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}
	account, err := s.repo.GetAccountByID(ctx, viewer.AccountID)
	if err != nil {
		return nil, storageError(err)
	}
	return account, nil
}

// Approve opens the gate of a member or donor.
func (s *AccountService) Approve(ctx context.Context, viewer access.Viewer, id uint) (*db.Account, error) {
	return s.setGate(ctx, viewer, id, db.AuditApprove, true, db.RoleMember, db.RoleDonor)
}

// Reject closes the gate of a member or donor again.
func (s *AccountService) Reject(ctx context.Context, viewer access.Viewer, id uint) (*db.Account, error) {
	return s.setGate(ctx, viewer, id, db.AuditReject, false, db.RoleMember, db.RoleDonor)
}

// Verify opens the gate of a county official. There is no reverse action.
func (s *AccountService) Verify(ctx context.Context, viewer access.Viewer, id uint) (*db.Account, error) {
	return s.setGate(ctx, viewer, id, db.AuditVerify, true, db.RoleCountyOfficial)
}

func (s *AccountService) setGate(ctx context.Context, viewer access.Viewer, id uint, action string, value bool, roles ...string) (*db.Account, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	matched := false
	for _, role := range roles {
		if account.Role == role {
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrNotFound
	}

	var updates dto.AccountUpdates
	field := "is_approved"
	if action == db.AuditVerify {
		field = "is_verified"
		updates.IsVerified = &value
		account.IsVerified = value
	} else {
		updates.IsApproved = &value
		account.IsApproved = value
	}
	if err := s.repo.UpdateAccount(ctx, account.ID, updates); err != nil {
		return nil, storageError(err)
	}
	s.audit.Record(ctx, viewer, action, auditTargetAccount, account, map[string]interface{}{field: value})
	return account, nil
}

// PendingAccounts lists accounts of role whose gate is still closed.
func (s *AccountService) PendingAccounts(ctx context.Context, viewer access.Viewer, role string, params common.BaseParams) ([]db.Account, *common.Meta, error) {
	closed := false
	query := &dto.AccountQuery{BaseParams: params, Role: role}
	if role == db.RoleCountyOfficial {
		query.Verified = &closed
	} else {
		query.Approved = &closed
	}
	return s.ListAccounts(ctx, viewer, query)
}

func (s *AccountService) ListAccounts(ctx context.Context, viewer access.Viewer, query *dto.AccountQuery) ([]db.Account, *common.Meta, error) {
	if !viewer.IsStaff() {
		return nil, nil, ErrForbidden
	}
	items, meta, err := s.repo.ListAccounts(ctx, query)
	if err != nil {
		return nil, nil, storageError(err)
	}
	return items, meta, nil
}

func (s *AccountService) GetAccount(ctx context.Context, viewer access.Viewer, id uint) (*db.Account, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	account, err := s.repo.GetAccountByID(ctx, id)
	return account, storageError(err)
}

// CreateAccount adds an account directly. Only a super admin may create
// staff accounts.
func (s *AccountService) CreateAccount(ctx context.Context, viewer access.Viewer, req dto.AccountCreateRequest) (*db.Account, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))

	v := NewValidationError()
	if err := s.validateCredentials(ctx, credentials{req.Username, req.Email, req.Password, req.Password}, v); err != nil {
		return nil, err
	}
	if !db.ValidRole(req.Role) {
		v.Add("role", "select a valid role")
	} else if db.IsStaffRole(req.Role) && !viewer.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	if req.Role == db.RoleCountyOfficial && !db.ValidDepartment(req.Department) {
		v.Add("department", "select a valid department")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	account := &db.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Role:         req.Role,
		Department:   strings.TrimSpace(req.Department),
		IsActive:     active,
		IsApproved:   req.IsApproved,
		IsVerified:   req.IsVerified,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, storageError(err)
	}
	s.audit.Record(ctx, viewer, db.AuditCreate, auditTargetAccount, account, map[string]interface{}{"role": account.Role})
	return account, nil
}

// UpdateAccount applies a partial staff edit. A super admin can only be
// edited by themself; admins can only be edited by a super admin.
func (s *AccountService) UpdateAccount(ctx context.Context, viewer access.Viewer, id uint, req dto.AccountUpdateRequest) (*db.Account, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	if account.Role == db.RoleSuperAdmin && account.ID != viewer.AccountID {
		return nil, NewRuleError(RuleProtectedAccount, "super admin accounts can only be edited by their owner")
	}
	if account.Role == db.RoleAdmin && !viewer.IsSuperAdmin() && account.ID != viewer.AccountID {
		return nil, ErrForbidden
	}

	v := NewValidationError()
	var updates dto.AccountUpdates
	changes := map[string]interface{}{}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" {
			if validate.Var(email, "email") != nil {
				v.Add("email", tagMessages["email"])
			} else if !strings.EqualFold(email, account.Email) {
				_, taken, err := s.repo.FindAccountConflicts(ctx, "", email)
				if err != nil {
					return nil, err
				}
				if taken {
					v.Add("email", "a user with that email already exists")
				}
			}
		}
		updates.Email = &email
		changes["email"] = email
	}
	if req.FirstName != nil {
		value := strings.TrimSpace(*req.FirstName)
		updates.FirstName = &value
		changes["first_name"] = value
	}
	if req.LastName != nil {
		value := strings.TrimSpace(*req.LastName)
		updates.LastName = &value
		changes["last_name"] = value
	}
	if req.PhoneNumber != nil {
		value := strings.TrimSpace(*req.PhoneNumber)
		updates.PhoneNumber = &value
		changes["phone_number"] = value
	}
	if req.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*req.Role))
		switch {
		case !viewer.IsSuperAdmin():
			return nil, ErrForbidden
		case !db.ValidRole(role):
			v.Add("role", "select a valid role")
		case account.Role == db.RoleSuperAdmin && role != db.RoleSuperAdmin:
			v.Add("role", "a super admin cannot demote themself")
		default:
			updates.Role = &role
			changes["role"] = role
		}
	}
	if req.Department != nil {
		value := strings.TrimSpace(*req.Department)
		if value != "" && !db.ValidDepartment(value) {
			v.Add("department", "select a valid department")
		}
		updates.Department = &value
		changes["department"] = value
	}
	if req.Password != nil {
		if err := auth.ValidatePassword(*req.Password, account.Username); err != nil {
			v.Add("password", err.Error())
		} else {
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				return nil, err
			}
			updates.PasswordHash = &hash
			changes["password"] = "changed"
		}
	}
	if req.IsActive != nil {
		if account.Role == db.RoleSuperAdmin && !*req.IsActive {
			v.Add("is_active", "a super admin must remain active")
		} else {
			updates.IsActive = req.IsActive
			changes["is_active"] = *req.IsActive
		}
	}
	if req.IsApproved != nil {
		updates.IsApproved = req.IsApproved
		changes["is_approved"] = *req.IsApproved
	}
	if req.IsVerified != nil {
		updates.IsVerified = req.IsVerified
		changes["is_verified"] = *req.IsVerified
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if updates.IsEmpty() {
		return account, nil
	}

	if err := s.repo.UpdateAccount(ctx, account.ID, updates); err != nil {
		return nil, storageError(err)
	}
	updated, err := s.repo.GetAccountByID(ctx, account.ID)
	if err != nil {
		return nil, storageError(err)
	}
	s.audit.Record(ctx, viewer, db.AuditUpdate, auditTargetAccount, updated, changes)
	return updated, nil
}

// DeleteAccount removes an account. Staff cannot delete themselves, super
// admins cannot be deleted, and only a super admin can delete an admin.
func (s *AccountService) DeleteAccount(ctx context.Context, viewer access.Viewer, id uint) error {
	if !viewer.IsStaff() {
		return ErrForbidden
	}
	if viewer.AccountID == id {
		return NewRuleError(RuleCannotDeleteSelf, "you cannot delete your own account")
	}
	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return storageError(err)
	}
	if account.Role == db.RoleSuperAdmin {
		return NewRuleError(RuleProtectedAccount, "super admin accounts cannot be deleted")
	}
	if account.Role == db.RoleAdmin && !viewer.IsSuperAdmin() {
		return ErrForbidden
	}
	if err := s.repo.DeleteAccount(ctx, id); err != nil {
		return storageError(err)
	}
	s.audit.Record(ctx, viewer, db.AuditDelete, auditTargetAccount, account, nil)
	return nil
}
