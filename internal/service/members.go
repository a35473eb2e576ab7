package service

import (
	"context"
	"errors"
	"strings"

	"agcbo/internal/access"
	"agcbo/internal/entity/db"
	"agcbo/internal/model"
	"agcbo/internal/model/sql"
	"agcbo/internal/sanitize"
)

// MemberService covers member profiles and certificates. A member account
// has no profile until it first asks for one.
type MemberService struct {
	Profiles     *Catalog[db.MemberProfile, *db.MemberProfile]
	Certificates *Catalog[db.Certificate, *db.Certificate]

	profiles model.Table[db.MemberProfile]
	accounts *AccountService
}

func NewMemberService(tables *model.Tables, accounts *AccountService, audit *AuditService) *MemberService {
	s := &MemberService{profiles: tables.MemberProfiles, accounts: accounts}
	s.Profiles = NewCatalog[db.MemberProfile, *db.MemberProfile](tables.MemberProfiles, audit, CatalogOptions[db.MemberProfile]{
		Name:        "member_profile",
		RequireAuth: true,
		Scope: func(_ context.Context, viewer access.Viewer) (map[string]interface{}, error) {
			return map[string]interface{}{"account_id": viewer.AccountID}, nil
		},
		Prepare: func(_ context.Context, p *db.MemberProfile, _ bool) error {
			return validateProfile(p)
		},
	})
	s.Certificates = NewCatalog[db.Certificate, *db.Certificate](tables.Certificates, audit, CatalogOptions[db.Certificate]{
		Name:        "certificate",
		RequireAuth: true,
		Scope:       ownProfileScope(tables.MemberProfiles, "member_id"),
		Prepare: func(ctx context.Context, c *db.Certificate, _ bool) error {
			v := NewValidationError()
			required(v, "title", c.Title)
			if c.MemberID == 0 {
				v.Add("member_id", "this field is required")
			} else if _, err := tables.MemberProfiles.Get(ctx, c.MemberID, true); err != nil {
				v.Add("member_id", "unknown member")
			}
			return v.Err()
		},
	})
	return s
}

// ownProfileScope limits non-staff reads to rows whose column holds the
// viewer's member profile id. Viewers without a profile see nothing.
func ownProfileScope(profiles model.Table[db.MemberProfile], column string) func(context.Context, access.Viewer) (map[string]interface{}, error) {
	return func(ctx context.Context, viewer access.Viewer) (map[string]interface{}, error) {
		profile, err := profileOf(ctx, profiles, viewer.AccountID)
		if errors.Is(err, ErrNotFound) {
			return nil, errEmptyScope
		}
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{column: profile.ID}, nil
	}
}

func profileOf(ctx context.Context, profiles model.Table[db.MemberProfile], accountID uint) (*db.MemberProfile, error) {
	if accountID == 0 {
		return nil, ErrNotFound
	}
	profile, err := profiles.First(ctx, map[string]interface{}{"account_id": accountID}, true)
	if err != nil {
		return nil, storageError(err)
	}
	return profile, nil
}

func validateProfile(p *db.MemberProfile) error {
	v := NewValidationError()
	if p.Gender != "" && !oneOf(p.Gender, []string{db.GenderMale, db.GenderFemale, db.GenderOther}) {
		v.Add("gender", "use M, F or O")
	}
	p.Bio = sanitize.Text(p.Bio)
	p.Address = sanitize.Text(p.Address)
	p.Skills = strings.Join(splitTags(p.Skills), ", ")
	p.Interests = strings.Join(splitTags(p.Interests), ", ")
	return v.Err()
}

func splitTags(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Lookup returns the profile of an account, or ErrNotFound.
func (s *MemberService) Lookup(ctx context.Context, accountID uint) (*db.MemberProfile, error) {
	return profileOf(ctx, s.profiles, accountID)
}

// Me returns the viewer's profile, creating an empty one on first access.
func (s *MemberService) Me(ctx context.Context, viewer access.Viewer) (*db.MemberProfile, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}
	profile, err := profileOf(ctx, s.profiles, viewer.AccountID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	fresh := &db.MemberProfile{AccountID: viewer.AccountID, IsActive: true}
	if err := s.profiles.Create(ctx, fresh); err != nil && !sql.IsDuplicateKey(err) {
		return nil, storageError(err)
	}
	return profileOf(ctx, s.profiles, viewer.AccountID)
}

// UpdateMe applies a partial edit to the viewer's own profile. The owning
// account and the active flag cannot be changed this way.
func (s *MemberService) UpdateMe(ctx context.Context, viewer access.Viewer, payload []byte) (*db.MemberProfile, error) {
	profile, err := s.Me(ctx, viewer)
	if err != nil {
		return nil, err
	}
	id, accountID, active := profile.ID, profile.AccountID, profile.IsActive
	if _, err := decodePayload(payload, profile); err != nil {
		return nil, err
	}
	profile.ID, profile.AccountID, profile.IsActive = id, accountID, active
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, storageError(err)
	}
	return profileOf(ctx, s.profiles, viewer.AccountID)
}

// ApproveProfile approves the account behind a member profile.
func (s *MemberService) ApproveProfile(ctx context.Context, viewer access.Viewer, profileID uint) (*db.Account, error) {
	accountID, err := s.profileAccount(ctx, viewer, profileID)
	if err != nil {
		return nil, err
	}
	return s.accounts.Approve(ctx, viewer, accountID)
}

// RejectProfile rejects the account behind a member profile.
func (s *MemberService) RejectProfile(ctx context.Context, viewer access.Viewer, profileID uint) (*db.Account, error) {
	accountID, err := s.profileAccount(ctx, viewer, profileID)
	if err != nil {
		return nil, err
	}
	return s.accounts.Reject(ctx, viewer, accountID)
}

func (s *MemberService) profileAccount(ctx context.Context, viewer access.Viewer, profileID uint) (uint, error) {
	if !viewer.IsStaff() {
		return 0, ErrForbidden
	}
	profile, err := s.profiles.Get(ctx, profileID, true)
	if err != nil {
		return 0, storageError(err)
	}
	return profile.AccountID, nil
}
