package service

import (
	"context"
	"strings"
	"time"

	"agcbo/internal/access"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/model"
	"agcbo/internal/sanitize"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var fundingSourceTypes = []string{db.SourceMinistry, db.SourceCounty, db.SourceDonor, db.SourceSponsor, db.SourceSelfFunded}

// FundingService manages funding reference data and donations.
type FundingService struct {
	Sources   *Catalog[db.FundingSource, *db.FundingSource]
	Sponsors  *Catalog[db.Sponsor, *db.Sponsor]
	Tiers     *Catalog[db.DonationTier, *db.DonationTier]
	Donations *Catalog[db.Donation, *db.Donation]

	donations model.Table[db.Donation]
	accounts  model.AccountRepository
	repo      model.ActivityRepository
	audit     *AuditService
	now       func() time.Time
}

func NewFundingService(tables *model.Tables, accounts model.AccountRepository, repo model.ActivityRepository, audit *AuditService) *FundingService {
	s := &FundingService{
		donations: tables.Donations,
		accounts:  accounts,
		repo:      repo,
		audit:     audit,
		now:       time.Now,
	}
	s.Sources = NewCatalog[db.FundingSource, *db.FundingSource](tables.FundingSources, audit, CatalogOptions[db.FundingSource]{
		Name: "funding_source",
		Prepare: func(_ context.Context, f *db.FundingSource, _ bool) error {
			v := NewValidationError()
			required(v, "name", f.Name)
			if !oneOf(f.SourceType, fundingSourceTypes) {
				v.Add("source_type", "invalid source type")
			}
			validEmail(v, "email", f.Email)
			return v.Err()
		},
	})
	s.Sponsors = NewCatalog[db.Sponsor, *db.Sponsor](tables.Sponsors, audit, CatalogOptions[db.Sponsor]{
		Name: "sponsor",
		Prepare: func(_ context.Context, sp *db.Sponsor, _ bool) error {
			v := NewValidationError()
			required(v, "name", sp.Name)
			validEmail(v, "email", sp.Email)
			return v.Err()
		},
	})
	s.Tiers = NewCatalog[db.DonationTier, *db.DonationTier](tables.DonationTiers, audit, CatalogOptions[db.DonationTier]{
		Name: "donation_tier",
		Prepare: func(_ context.Context, t *db.DonationTier, _ bool) error {
			v := NewValidationError()
			required(v, "name", t.Name)
			if t.MinAmount < 0 {
				v.Add("min_amount", "must not be negative")
			}
			if t.MaxAmount != nil && *t.MaxAmount < t.MinAmount {
				v.Add("max_amount", "must not be below the minimum")
			}
			if t.Currency == "" {
				t.Currency = "KES"
			}
			return v.Err()
		},
	})
	s.Donations = NewCatalog[db.Donation, *db.Donation](tables.Donations, audit, CatalogOptions[db.Donation]{
		Name:    "donation",
		Prepare: validateDonation,
		Redact:  redactDonation,
	})
	return s
}

func redactDonation(d *db.Donation) {
	if d.Project != nil && !d.Project.IsPublic {
		d.Project = nil
	}
	if d.Sponsor != nil && !d.Sponsor.IsActive {
		d.Sponsor = nil
	}
}

func validateDonation(_ context.Context, d *db.Donation, isNew bool) error {
	v := NewValidationError()
	required(v, "donor_name", d.DonorName)
	validEmail(v, "donor_email", d.DonorEmail)
	if d.Amount <= 0 {
		v.Add("amount", "must be greater than zero")
	}
	if d.Currency == "" {
		d.Currency = "KES"
	}
	if !oneOf(d.PaymentMethod, db.PaymentMethods) {
		v.Add("payment_method", "invalid payment method")
	}
	if d.Status == "" {
		d.Status = db.DonationPending
	}
	if !oneOf(d.Status, []string{db.DonationPending, db.DonationCompleted, db.DonationFailed, db.DonationCancelled}) {
		v.Add("status", "invalid status")
	}
	if isNew && d.Reference == "" {
		d.Reference = uuid.NewString()
	}
	if d.TransactionID != nil && strings.TrimSpace(*d.TransactionID) == "" {
		d.TransactionID = nil
	}
	d.Notes = sanitize.Text(d.Notes)
	return v.Err()
}

// Pledge records a donation from an authenticated viewer. It starts
// pending; staff complete it once the payment is seen.
func (s *FundingService) Pledge(ctx context.Context, viewer access.Viewer, req dto.DonationCreateRequest) (*db.Donation, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}
	req.DonorEmail = strings.TrimSpace(req.DonorEmail)
	req.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	v := NewValidationError()
	if err := checkStruct(v, req, nil); err != nil {
		return nil, err
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	account, err := s.accounts.GetAccountByID(ctx, viewer.AccountID)
	if err != nil {
		return nil, storageError(err)
	}
	accountID := account.ID
	donation := &db.Donation{
		AccountID:     &accountID,
		DonorName:     firstNonEmpty(sanitize.Text(req.DonorName), account.OrganizationName, account.FullName()),
		DonorEmail:    firstNonEmpty(req.DonorEmail, account.Email),
		DonorPhone:    firstNonEmpty(strings.TrimSpace(req.DonorPhone), account.PhoneNumber),
		IsAnonymous:   req.IsAnonymous,
		Amount:        req.Amount,
		Currency:      strings.ToUpper(strings.TrimSpace(req.Currency)),
		PaymentMethod: req.PaymentMethod,
		ProjectID:     req.ProjectID,
		SponsorID:     req.SponsorID,
		Notes:         req.Notes,
		Status:        db.DonationPending,
	}
	if err := validateDonation(ctx, donation, true); err != nil {
		return nil, err
	}
	if err := s.donations.Create(ctx, donation); err != nil {
		return nil, storageError(err)
	}
	logrus.WithFields(logrus.Fields{
		"donation_id":    donation.ID,
		"account_id":     accountID,
		"amount":         donation.Amount,
		"currency":       donation.Currency,
		"payment_method": donation.PaymentMethod,
	}).Info("donation pledged")
	return donation, nil
}

// MarkCompleted completes a donation, optionally recording the gateway
// transaction id. Staff only.
func (s *FundingService) MarkCompleted(ctx context.Context, viewer access.Viewer, id uint, req dto.MarkCompletedRequest) (*db.Donation, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	donation, err := s.donations.Get(ctx, id, true)
	if err != nil {
		return nil, storageError(err)
	}
	now := s.now()
	changes := map[string]interface{}{"status": db.DonationCompleted, "completed_at": now}
	if tx := strings.TrimSpace(req.TransactionID); tx != "" {
		changes["transaction_id"] = tx
	}
	if err := s.donations.Update(ctx, id, changes); err != nil {
		return nil, storageError(err)
	}
	s.audit.Record(ctx, viewer, db.AuditUpdate, "donation", donation, changes)
	return s.donations.Get(ctx, id, true)
}

// Stats counts and sums completed donations.
func (s *FundingService) Stats(ctx context.Context) (dto.DonationStats, error) {
	stats, err := s.repo.DonationStats(ctx)
	if err != nil {
		return stats, storageError(err)
	}
	return stats, nil
}

// PublicDonations projects completed donations for non-staff viewers.
func PublicDonations(donations []db.Donation) []dto.PublicDonation {
	out := make([]dto.PublicDonation, 0, len(donations))
	for i := range donations {
		out = append(out, dto.NewPublicDonation(&donations[i]))
	}
	return out
}
